package restrec

import (
	"reflect"
	"time"

	"github.com/ledgelabs/restrec/timestamp"
)

// Values holds a record's attributes: decoded JSON values plus time.Time for
// declared date fields.
type Values map[string]any

// cloneValues deep-copies an attribute map so snapshots never share nested
// maps or slices with live attributes.
func cloneValues(v Values) Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = cloneValue(val)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case Values:
		out := make(Values, len(x))
		for k, val := range x {
			out[k] = cloneValue(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}

// valueEqual compares attribute values. Times compare by instant so a
// round-trip through another zone is not a change; everything else compares
// by deep equality.
func valueEqual(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	if _, ok := b.(time.Time); ok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// encodeValues returns a wire-shaped copy of attrs with time values encoded
// as epoch milliseconds.
func encodeValues(attrs Values) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		switch ts := v.(type) {
		case time.Time:
			out[k] = timestamp.Millis(ts)
		case *time.Time:
			if ts == nil {
				out[k] = nil
			} else {
				out[k] = timestamp.Millis(*ts)
			}
		default:
			out[k] = v
		}
	}
	return out
}
