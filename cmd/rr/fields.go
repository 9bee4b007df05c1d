package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/ledgelabs/restrec"
)

// parseFields converts -f key=value pairs into attribute values. Values that
// look like JSON (start with { [ " or are true/false/null/number) are decoded;
// everything else stays a plain string.
func parseFields(pairs []string) (restrec.Values, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	attrs := make(restrec.Values, len(pairs))
	for _, p := range pairs {
		k, v, ok := splitField(p)
		if !ok {
			return nil, fmt.Errorf("invalid field %q: expected key=value", p)
		}
		attrs[k] = parseValue(v)
	}
	return attrs, nil
}

// splitField splits "key=value" into (key, value, true).
// Returns ("", "", false) if there is no '=' or key is empty.
func splitField(s string) (string, string, bool) {
	i := strings.IndexByte(s, '=')
	if i <= 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// parseValue decodes v if it is a JSON literal (object, array, quoted string,
// boolean, null, or number). Otherwise it returns v as a plain Go string.
func parseValue(v string) any {
	if len(v) == 0 {
		return v
	}
	switch v[0] {
	case '{', '[', '"':
		var decoded any
		if json.Unmarshal([]byte(v), &decoded) == nil {
			return decoded
		}
	default:
		if v == "true" {
			return true
		}
		if v == "false" {
			return false
		}
		if v == "null" {
			return nil
		}
		if v[0] == '-' || unicode.IsDigit(rune(v[0])) {
			var n float64
			if json.Unmarshal([]byte(v), &n) == nil {
				return n
			}
		}
	}
	return v
}
