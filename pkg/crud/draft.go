package crud

import "github.com/vendingops/vmconsole/pkg/docstore"

// Upload is a file picked for an entity's asset field but not yet stored.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Draft is the editor's working copy. original is what the entity looked
// like when the draft was opened and drives asset cleanup and renames.
type Draft struct {
	ID     string
	Fields map[string]any

	original    map[string]any
	staged      *Upload
	removeAsset bool
}

func newDraft(existing *Entity) *Draft {
	if existing == nil {
		return &Draft{Fields: map[string]any{}, original: map[string]any{}}
	}

	return &Draft{
		ID:       existing.ID,
		Fields:   docstore.CloneFields(existing.Fields),
		original: docstore.CloneFields(existing.Fields),
	}
}

func (d *Draft) IsNew() bool { return d.ID == "" }

func (d *Draft) Staged() *Upload { return d.staged }

func (d *Draft) RemoveRequested() bool { return d.removeAsset }

func (d *Draft) Original(field string) any { return d.original[field] }

func (d *Draft) clone() Draft {
	c := *d
	c.Fields = docstore.CloneFields(d.Fields)
	c.original = docstore.CloneFields(d.original)
	return c
}
