package docstore

import (
	"context"
	"sync"
)

const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpSet    = "set"
	OpUpdate = "update"
	OpDelete = "delete"
	OpQuery  = "query"
)

// Call is one request seen by a RecordingStore.
type Call struct {
	Op         string
	Collection string
	ID         string
	Fields     map[string]any
	Field      string
	Value      any
}

type failure struct {
	op, collection, id string
	err                error
}

// RecordingStore wraps another Store, recording every call and failing the
// ones that match a registered failure. Tests use it to count remote calls
// and to simulate an unavailable or denying backend.
type RecordingStore struct {
	inner Store

	// BeforeCall, when set, runs before the call is forwarded. It may block.
	BeforeCall func(Call)

	mu       sync.Mutex
	calls    []Call
	failures []failure
}

func NewRecordingStore(inner Store) *RecordingStore {
	return &RecordingStore{inner: inner}
}

// FailOn makes matching calls return err. Empty collection or id match any.
func (s *RecordingStore) FailOn(op, collection, id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{op: op, collection: collection, id: id, err: err})
}

func (s *RecordingStore) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = nil
}

func (s *RecordingStore) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

func (s *RecordingStore) CallsFor(op string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}

	return out
}

func (s *RecordingStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *RecordingStore) record(c Call) error {
	if s.BeforeCall != nil {
		s.BeforeCall(c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)

	for _, f := range s.failures {
		if f.op == c.Op && (f.collection == "" || f.collection == c.Collection) && (f.id == "" || f.id == c.ID) {
			return f.err
		}
	}

	return nil
}

func (s *RecordingStore) List(ctx context.Context, collection string) ([]Document, error) {
	if err := s.record(Call{Op: OpList, Collection: collection}); err != nil {
		return nil, err
	}

	return s.inner.List(ctx, collection)
}

func (s *RecordingStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := s.record(Call{Op: OpGet, Collection: collection, ID: id}); err != nil {
		return nil, err
	}

	return s.inner.Get(ctx, collection, id)
}

func (s *RecordingStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := s.record(Call{Op: OpCreate, Collection: collection, Fields: CloneFields(fields)}); err != nil {
		return "", err
	}

	return s.inner.Create(ctx, collection, fields)
}

func (s *RecordingStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := s.record(Call{Op: OpSet, Collection: collection, ID: id, Fields: CloneFields(fields)}); err != nil {
		return err
	}

	return s.inner.Set(ctx, collection, id, fields)
}

func (s *RecordingStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	if err := s.record(Call{Op: OpUpdate, Collection: collection, ID: id, Fields: CloneFields(patch)}); err != nil {
		return err
	}

	return s.inner.Update(ctx, collection, id, patch)
}

func (s *RecordingStore) Delete(ctx context.Context, collection, id string) error {
	if err := s.record(Call{Op: OpDelete, Collection: collection, ID: id}); err != nil {
		return err
	}

	return s.inner.Delete(ctx, collection, id)
}

func (s *RecordingStore) Query(ctx context.Context, collection, field string, value any) ([]Document, error) {
	if err := s.record(Call{Op: OpQuery, Collection: collection, Field: field, Value: value}); err != nil {
		return nil, err
	}

	return s.inner.Query(ctx, collection, field, value)
}
