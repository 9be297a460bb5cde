package docstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyPatchDottedPaths(t *testing.T) {
	fields := map[string]any{
		"name": "Vanilla",
		"pricing": map[string]any{
			"200ml": map[string]any{"price": 3.5, "weight": 30.0},
		},
	}

	out := ApplyPatch(fields, map[string]any{
		"pricing.200ml.price": 4.0,
		"pricing.400ml.price": 7.0,
		"ml":                  "200ml",
	})

	require.Equal(t, 4.0, out["pricing"].(map[string]any)["200ml"].(map[string]any)["price"])
	require.Equal(t, 30.0, out["pricing"].(map[string]any)["200ml"].(map[string]any)["weight"])
	require.Equal(t, 7.0, out["pricing"].(map[string]any)["400ml"].(map[string]any)["price"])
	require.Equal(t, "200ml", out["ml"])

	// original untouched
	require.Equal(t, 3.5, fields["pricing"].(map[string]any)["200ml"].(map[string]any)["price"])
	require.NotContains(t, fields, "ml")
}

func TestLookupAndValuesEqual(t *testing.T) {
	fields := map[string]any{"pricing": map[string]any{"200ml": map[string]any{"price": 3.0}}}

	v, ok := Lookup(fields, "pricing.200ml.price")
	require.True(t, ok)
	require.True(t, ValuesEqual(v, 3))

	_, ok = Lookup(fields, "pricing.400ml.price")
	require.False(t, ok)

	require.True(t, ValuesEqual("ON", "ON"))
	require.False(t, ValuesEqual("ON", 1))
}
