package auth

import (
	"context"
	"sync"
)

type PrincipalLookup interface {
	PrincipalByAPIKey(ctx context.Context, apikey string) (*Principal, error)
}

type APIKeyCache struct {
	mu     sync.RWMutex
	cache  map[string]*Principal
	lookup PrincipalLookup
}

func NewAPIKeyCache(lookup PrincipalLookup) *APIKeyCache {
	return &APIKeyCache{
		cache:  make(map[string]*Principal),
		lookup: lookup,
	}
}

func (c *APIKeyCache) GetPrincipalByAPIKey(ctx context.Context, apikey string) (*Principal, error) {
	c.mu.RLock()
	if p, ok := c.cache[apikey]; ok {
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another request may have filled it between the two locks.
	if p, ok := c.cache[apikey]; ok {
		return p, nil
	}

	p, err := c.lookup.PrincipalByAPIKey(ctx, apikey)
	if err != nil {
		return nil, err
	}

	c.cache[apikey] = p
	return p, nil
}

func (c *APIKeyCache) DeleteAPIKey(apikey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, apikey)
}
