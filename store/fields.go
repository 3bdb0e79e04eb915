package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Timestamps above this magnitude are already in milliseconds; smaller
// numeric values are epoch seconds.
const millisThreshold = 99999999999

func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// StringField reads a document field as a string. Absent fields, nil
// values and empty strings all come back as "".
func StringField(data Document, key string) string {
	v, ok := data[key]
	if !ok {
		return ""
	}
	return toString(v)
}

// BoolField reads a document field as a bool. Anything but an explicit
// true is false.
func BoolField(data Document, key string) bool {
	v, ok := data[key].(bool)
	return ok && v
}

// StringSlice reads a document field holding a list of strings. JSON
// decoding yields []any; non-string elements are skipped.
func StringSlice(data Document, key string) []string {
	switch val := data[key].(type) {
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []any:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// StringMap reads a document field holding a flat string-to-string map.
func StringMap(data Document, key string) map[string]string {
	raw, ok := data[key].(map[string]any)
	if !ok {
		if m, ok := data[key].(map[string]string); ok {
			out := make(map[string]string, len(m))
			for k, v := range m {
				out[k] = v
			}
			return out
		}
		return nil
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = toString(v)
	}
	return out
}

// TimeValue normalizes a createdAt-style field to epoch milliseconds.
// Accepted shapes: numeric epoch seconds, numeric epoch milliseconds
// (detected by magnitude), RFC3339/ISO strings, and the string forms of
// either number. Anything unparsable is epoch 0 so it sorts first.
func TimeValue(v any) int64 {
	s := toString(v)
	if s == "" {
		return 0
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		ts := int64(n)
		if ts > millisThreshold {
			return ts
		}
		return ts * 1000
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}

// CloneDocument deep-copies one level of a document. Nested values are
// shared; engine documents are flat so that is sufficient.
func CloneDocument(data Document) Document {
	out := make(Document, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
