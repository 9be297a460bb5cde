package decoder

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeMapStrict converts a document's field map into T, rejecting fields
// T does not declare.
func DecodeMapStrict[T any](m map[string]any) (T, error) {
	return decode[T](m, true)
}

// DecodeMap is DecodeMapStrict without the unknown field check.
func DecodeMap[T any](m map[string]any) (T, error) {
	return decode[T](m, false)
}

// EncodeMap is the inverse: it turns a tagged struct into a field map.
func EncodeMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("failed to decode value into map: %w", err)
	}

	return m, nil
}

func decode[T any](m map[string]any, strict bool) (T, error) {
	var out T

	b, err := json.Marshal(m)
	if err != nil {
		return out, fmt.Errorf("failed to marshal map: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	if strict {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("failed to decode map: %w", err)
	}

	return out, nil
}
