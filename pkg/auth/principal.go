// Package auth authenticates API requests by API key and authorizes them
// by role.
package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/vendingops/vmconsole/pkg/docstore"
	"github.com/vendingops/vmconsole/pkg/vmmodel"
	"golang.org/x/crypto/blake2b"
)

var ErrUnknownKey = errors.New("unknown api key")

// Principal is the caller a request runs as.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Authorize reports whether p may act with role. Admins may do anything.
func Authorize(p *Principal, role string) bool {
	if p == nil {
		return false
	}

	return p.Role == vmmodel.RoleAdmin || p.Role == role
}

// HashAPIKey is the form an API key is stored in.
func HashAPIKey(apikey string) string {
	sum := blake2b.Sum256([]byte(apikey))
	return hex.EncodeToString(sum[:])
}

// UserLookup finds users in the Users collection by the hash of their key.
type UserLookup struct {
	docs docstore.Store
}

func NewUserLookup(docs docstore.Store) *UserLookup {
	return &UserLookup{docs: docs}
}

func (l *UserLookup) PrincipalByAPIKey(ctx context.Context, apikey string) (*Principal, error) {
	docs, err := l.docs.Query(ctx, vmmodel.UsersCollection, "apiKeyHash", HashAPIKey(apikey))
	if err != nil {
		return nil, err
	}

	users := vmmodel.DecodeAll[vmmodel.User](vmmodel.UsersCollection, docs)
	switch len(users) {
	case 0:
		return nil, ErrUnknownKey
	case 1:
		u := users[0]
		return &Principal{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, nil
	default:
		return nil, fmt.Errorf("%d users share one api key", len(users))
	}
}
