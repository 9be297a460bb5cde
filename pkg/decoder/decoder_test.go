package decoder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type flavorish struct {
	Name  string  `json:"name"`
	Brand string  `json:"brand"`
	Price float64 `json:"price,omitempty"`
}

func TestDecodeMapStrictRejectsUnknownFields(t *testing.T) {
	_, err := DecodeMapStrict[flavorish](map[string]any{"name": "Vanilla", "colour": "white"})
	require.Error(t, err)

	f, err := DecodeMap[flavorish](map[string]any{"name": "Vanilla", "colour": "white"})
	require.NoError(t, err)
	require.Equal(t, "Vanilla", f.Name)
}

func TestDecodeMapStrictTypeMismatch(t *testing.T) {
	_, err := DecodeMapStrict[flavorish](map[string]any{"name": 12})
	require.Error(t, err)
}

func TestEncodeMap(t *testing.T) {
	m, err := EncodeMap(flavorish{Name: "Vanilla", Brand: "ON"})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"name": "Vanilla", "brand": "ON"}, m)
}
