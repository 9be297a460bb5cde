package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/hashicorp/go-uuid"
	"github.com/vendingops/vmconsole/pkg/docstore"
	"github.com/vendingops/vmconsole/pkg/vmmodel"
)

// NewAPIKey returns a random key suitable for handing to an operator.
func NewAPIKey() (string, error) {
	key, err := uuid.GenerateUUID()
	if err != nil {
		return "", err
	}

	return strings.ReplaceAll(key, "-", ""), nil
}

// AddUser stores an operator who authenticates with apikey. Only the hash of
// the key is written.
func AddUser(ctx context.Context, docs docstore.Store, u vmmodel.User, apikey string) (vmmodel.User, error) {
	if apikey == "" {
		return vmmodel.User{}, errors.New("api key is required")
	}
	if u.Role == "" {
		u.Role = vmmodel.RoleAdmin
	}

	u.APIKeyHash = HashAPIKey(apikey)
	id, err := docs.Create(ctx, vmmodel.UsersCollection, map[string]any{
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"apiKeyHash": u.APIKeyHash,
	})
	if err != nil {
		return vmmodel.User{}, err
	}

	u.ID = id
	return u, nil
}

// EnsureUser adds u unless a user already holds apikey.
func EnsureUser(ctx context.Context, docs docstore.Store, u vmmodel.User, apikey string) (vmmodel.User, bool, error) {
	p, err := NewUserLookup(docs).PrincipalByAPIKey(ctx, apikey)
	switch {
	case err == nil:
		return vmmodel.User{ID: p.ID, Name: p.Name, Email: p.Email, Role: p.Role}, false, nil
	case !errors.Is(err, ErrUnknownKey):
		return vmmodel.User{}, false, err
	}

	added, err := AddUser(ctx, docs, u, apikey)
	return added, err == nil, err
}
