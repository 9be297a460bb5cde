// Package docstore is the console's view of the document database: named
// collections of schemaless records addressed by string ids.
package docstore

import (
	"context"
	"errors"
)

var (
	ErrUnavailable      = errors.New("document store unavailable")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("document not found")
)

// Document is one record of a collection. Fields never contains the id.
type Document struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Store is implemented by every document backend. Update takes a patch
// whose keys may be dotted paths ("pricing.200ml.price") that address nested
// maps. Set creates the document with the given id when it is missing and
// merges top level fields when it exists. No ordering is promised by List
// or Query.
type Store interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	Set(ctx context.Context, collection, id string, fields map[string]any) error
	Update(ctx context.Context, collection, id string, patch map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection, field string, value any) ([]Document, error)
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	return Document{ID: d.ID, Fields: CloneFields(d.Fields)}
}

// String returns the named field when it holds a string.
func (d Document) String(field string) string {
	s, _ := d.Fields[field].(string)
	return s
}
