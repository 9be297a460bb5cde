package docstore

import (
	"context"
	"sort"
	"sync"

	"github.com/hashicorp/go-uuid"
)

// MemoryStore keeps collections in process. It backs tests and the
// VMC_DB_DRIVER=memory mode.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]map[string]any)}
}

// Seed inserts a document with a known id, replacing any existing one.
func (s *MemoryStore) Seed(collection, id string, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(collection)[id] = CloneFields(fields)
}

func (s *MemoryStore) List(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matching(collection, func(map[string]any) bool { return true }), nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}

	return &Document{ID: id, Fields: CloneFields(fields)}, nil
}

func (s *MemoryStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(collection)[id] = CloneFields(fields)
	return id, nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	existing, ok := c[id]
	if !ok {
		existing = make(map[string]any, len(fields))
	}

	for k, v := range CloneFields(fields) {
		existing[k] = v
	}
	c[id] = existing
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	existing, ok := c[id]
	if !ok {
		return ErrNotFound
	}

	c[id] = ApplyPatch(existing, patch)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	if _, ok := c[id]; !ok {
		return ErrNotFound
	}

	delete(c, id)
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection, field string, value any) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.matching(collection, func(fields map[string]any) bool {
		v, ok := Lookup(fields, field)
		return ok && ValuesEqual(v, value)
	}), nil
}

// matching must be called with mu held.
func (s *MemoryStore) matching(collection string, keep func(map[string]any) bool) []Document {
	docs := make([]Document, 0, len(s.collections[collection]))
	for id, fields := range s.collections[collection] {
		if keep(fields) {
			docs = append(docs, Document{ID: id, Fields: CloneFields(fields)})
		}
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}

// collection must be called with mu held for writing.
func (s *MemoryStore) collection(name string) map[string]map[string]any {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]map[string]any)
		s.collections[name] = c
	}

	return c
}
