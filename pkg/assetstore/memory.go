package assetstore

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
)

const memoryBaseURL = "memory://assets/"

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore keeps assets in a map. Used by tests and VMC_ASSET_DRIVER=memory.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (s *MemoryStore) Driver() Driver { return DriverMemory }

func (s *MemoryStore) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Ref, error) {
	if err := ctx.Err(); err != nil {
		return Ref{}, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Ref{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.objects[key]; exists {
		return Ref{}, ErrExists
	}

	s.objects[key] = memoryObject{data: data, contentType: opts.ContentType}
	return Ref{Key: key, URL: memoryBaseURL + key, ContentType: opts.ContentType, Size: int64(len(data))}, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return ErrNotFound
	}

	delete(s.objects, key)
	return nil
}

func (s *MemoryStore) KeyForURL(assetURL string) string {
	return keyFromBase(memoryBaseURL, assetURL)
}

// Open returns the stored bytes for key.
func (s *MemoryStore) Open(key string) (io.Reader, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, false
	}

	return bytes.NewReader(obj.data), true
}

func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
