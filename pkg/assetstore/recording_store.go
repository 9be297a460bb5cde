package assetstore

import (
	"context"
	"io"
	"sync"
)

// RecordingStore wraps a Store and remembers every Put and Delete. Failures
// can be injected per operation and key ("" matches any key).
type RecordingStore struct {
	inner Store

	mu       sync.Mutex
	puts     []string
	deletes  []string
	failPut  map[string]error
	failDel  map[string]error
}

func NewRecordingStore(inner Store) *RecordingStore {
	return &RecordingStore{inner: inner, failPut: map[string]error{}, failDel: map[string]error{}}
}

func (s *RecordingStore) FailPut(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPut[key] = err
}

func (s *RecordingStore) FailDelete(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDel[key] = err
}

func (s *RecordingStore) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPut = map[string]error{}
	s.failDel = map[string]error{}
}

func (s *RecordingStore) Puts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.puts...)
}

func (s *RecordingStore) Deletes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deletes...)
}

func (s *RecordingStore) Driver() Driver { return s.inner.Driver() }

func (s *RecordingStore) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Ref, error) {
	s.mu.Lock()
	s.puts = append(s.puts, key)
	err := lookupFailure(s.failPut, key)
	s.mu.Unlock()

	if err != nil {
		return Ref{}, err
	}

	return s.inner.Put(ctx, key, r, opts)
}

func (s *RecordingStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	s.deletes = append(s.deletes, key)
	err := lookupFailure(s.failDel, key)
	s.mu.Unlock()

	if err != nil {
		return err
	}

	return s.inner.Delete(ctx, key)
}

func (s *RecordingStore) KeyForURL(assetURL string) string {
	return s.inner.KeyForURL(assetURL)
}

func lookupFailure(failures map[string]error, key string) error {
	if err, ok := failures[key]; ok {
		return err
	}

	return failures[""]
}
