package vmmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAcceptsDeclaredFields(t *testing.T) {
	assert.Nil(t, Check[Flavor](map[string]any{
		"brand": "Optimum", "name": "Vanilla", "supplement": "Whey", "ml": "200ml",
		"pricing": map[string]any{"200ml": map[string]any{"price": 120.0, "weight": 30}},
	}))
	assert.Nil(t, Check[Brand](map[string]any{"name": "Optimum", "image": ""}))
}

func TestCheckRejectsUnknownFields(t *testing.T) {
	invalid := Check[Flavor](map[string]any{"brand": "Optimum", "name": "Vanilla", "description": "new"})
	require.Len(t, invalid, 1)
	assert.Equal(t, "unknown field", invalid["description"])
}

func TestCheckRejectsWrongTypes(t *testing.T) {
	invalid := Check[Flavor](map[string]any{
		"name":    "Vanilla",
		"pricing": map[string]any{"200ml": map[string]any{"price": "120"}},
	})
	require.Len(t, invalid, 1)
	for field, problem := range invalid {
		assert.Contains(t, field, "price")
		assert.Contains(t, problem, "float64")
	}

	invalid = Check[Customer](map[string]any{"fullName": "A", "phoneNumber": 98450})
	require.Contains(t, invalid, "phoneNumber")

	invalid = Check[Flavor](map[string]any{"pricing": map[string]any{"200ml": map[string]any{"cost": 1}}})
	require.Contains(t, invalid, "fields")
}
