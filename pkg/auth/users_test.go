package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendingops/vmconsole/pkg/docstore"
	"github.com/vendingops/vmconsole/pkg/vmmodel"
)

func TestNewAPIKey(t *testing.T) {
	a, err := NewAPIKey()
	require.NoError(t, err)
	b, err := NewAPIKey()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotContains(t, a, "-")
	assert.NotEqual(t, a, b)
}

func TestAddUserStoresOnlyHash(t *testing.T) {
	docs := docstore.NewMemoryStore()
	u, err := AddUser(context.Background(), docs, vmmodel.User{Name: "Ops"}, "secret")
	require.NoError(t, err)
	assert.Equal(t, vmmodel.RoleAdmin, u.Role)

	stored, err := docs.Get(context.Background(), vmmodel.UsersCollection, u.ID)
	require.NoError(t, err)
	assert.Equal(t, HashAPIKey("secret"), stored.Fields["apiKeyHash"])
	assert.NotContains(t, stored.Fields, "apikey")

	_, err = AddUser(context.Background(), docs, vmmodel.User{Name: "Ops"}, "")
	require.Error(t, err)
}

func TestEnsureUserIsIdempotent(t *testing.T) {
	docs := docstore.NewMemoryStore()
	first, added, err := EnsureUser(context.Background(), docs, vmmodel.User{Name: "Ops"}, "secret")
	require.NoError(t, err)
	require.True(t, added)

	second, added, err := EnsureUser(context.Background(), docs, vmmodel.User{Name: "Other"}, "secret")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, first.ID, second.ID)

	all, err := docs.List(context.Background(), vmmodel.UsersCollection)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
