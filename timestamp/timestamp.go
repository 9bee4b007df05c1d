// Package timestamp converts between wire-format dates and time.Time.
// Dates travel as epoch milliseconds on the wire; inbound values may be
// epoch numbers or one of a few common string layouts.
package timestamp

import (
	"encoding/json"
	"time"
)

// layouts are tried in order when casting a string value.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Millis returns t as epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis returns the UTC time for an epoch-millisecond value.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// Cast converts a decoded JSON value into a time.Time. Strings are parsed
// against the known layouts, numbers are treated as epoch milliseconds.
// The second return value reports whether the conversion succeeded; callers
// keep the original value when it did not.
func Cast(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, true
	case string:
		for _, layout := range layouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case float64:
		return FromMillis(int64(x)), true
	case float32:
		return FromMillis(int64(x)), true
	case int:
		return FromMillis(int64(x)), true
	case int32:
		return FromMillis(int64(x)), true
	case int64:
		return FromMillis(x), true
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return FromMillis(n), true
		}
		if f, err := x.Float64(); err == nil {
			return FromMillis(int64(f)), true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
