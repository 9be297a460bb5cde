package docstore

import (
	"reflect"
	"strings"
)

// ApplyPatch returns a copy of fields with patch merged in. Dotted keys walk
// (and create) nested maps, so {"pricing.200ml.price": 3} only touches that
// leaf. fields is not modified.
func ApplyPatch(fields, patch map[string]any) map[string]any {
	out := CloneFields(fields)
	if out == nil {
		out = make(map[string]any, len(patch))
	}

	for key, value := range patch {
		path := strings.Split(key, ".")
		m := out
		for _, step := range path[:len(path)-1] {
			next, ok := m[step].(map[string]any)
			if !ok {
				next = make(map[string]any)
				m[step] = next
			}
			m = next
		}
		m[path[len(path)-1]] = cloneValue(value)
	}

	return out
}

// Lookup follows a dotted path through nested maps.
func Lookup(fields map[string]any, path string) (any, bool) {
	var cur any = fields
	for _, step := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[step]; !ok {
			return nil, false
		}
	}

	return cur, true
}

func CloneFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}

	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneFields(val)
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = cloneValue(val[i])
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}

// ValuesEqual compares field values the way a JSON round trip would, so an
// int written by one backend matches the float64 read back by another.
func ValuesEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}

	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
