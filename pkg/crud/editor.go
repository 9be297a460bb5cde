package crud

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/apex/log"
	"github.com/vendingops/vmconsole/pkg/assetstore"
	"github.com/vendingops/vmconsole/pkg/clog"
	"github.com/vendingops/vmconsole/pkg/docstore"
)

type State int

const (
	StateClosed State = iota
	StateDrafting
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateDrafting:
		return "drafting"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

type EditorOpts struct {
	Schema  Schema
	Docs    docstore.Store
	Assets  assetstore.Store
	Cache   *ListCache
	Cascade *Cascade
}

// Editor drives one draft from open to submit. Remote calls are made
// without holding the editor lock; the Submitting state keeps a second
// submit or remove from starting meanwhile.
type Editor struct {
	schema  Schema
	docs    docstore.Store
	assets  assetstore.Store
	cache   *ListCache
	cascade *Cascade
	log     *log.Entry

	mu    sync.Mutex
	state State
	draft *Draft
}

func NewEditor(opts EditorOpts) *Editor {
	return &Editor{
		schema:  opts.Schema,
		docs:    opts.Docs,
		assets:  opts.Assets,
		cache:   opts.Cache,
		cascade: opts.Cascade,
		log:     clog.UsingCtx(opts.Schema.Collection),
	}
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Draft returns a copy of the open draft.
func (e *Editor) Draft() (Draft, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft == nil {
		return Draft{}, false
	}

	return e.draft.clone(), true
}

// Open starts a draft for existing, or for a new entity when existing is
// nil. An open draft is discarded.
func (e *Editor) Open(existing *Entity) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateSubmitting {
		return ErrSubmitInProgress
	}

	e.draft = newDraft(existing)
	e.state = StateDrafting
	return nil
}

func (e *Editor) SetField(name string, value any) error {
	return e.withDraft(func(d *Draft) {
		d.Fields[name] = value
	})
}

// SetAsset stages a replacement asset and withdraws a pending clear.
func (e *Editor) SetAsset(u Upload) error {
	return e.withDraft(func(d *Draft) {
		d.staged = &u
		d.removeAsset = false
	})
}

// ClearAsset marks the current asset for deletion on submit. A staged
// upload is kept and still replaces it.
func (e *Editor) ClearAsset() error {
	return e.withDraft(func(d *Draft) {
		d.removeAsset = true
		if e.schema.AssetField != "" {
			d.Fields[e.schema.AssetField] = ""
		}
	})
}

// Cancel discards the draft. It is a no-op when nothing is open.
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateDrafting {
		e.draft = nil
		e.state = StateClosed
	}
}

func (e *Editor) withDraft(fn func(d *Draft)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateSubmitting:
		return ErrSubmitInProgress
	case StateClosed:
		return ErrNotDrafting
	}

	fn(e.draft)
	return nil
}

// Submit validates the draft and writes it. Steps run in order: delete the
// cleared asset, upload the staged one, create or update the document,
// update the cache. A failed step leaves the editor drafting with the steps
// already done recorded in the draft, so a retry resumes where it stopped.
//
// A non-zero Entity returned with an error means the document was written
// but a rename cascade did not fully complete.
func (e *Editor) Submit(ctx context.Context) (Entity, error) {
	e.mu.Lock()
	switch e.state {
	case StateSubmitting:
		e.mu.Unlock()
		return Entity{}, ErrSubmitInProgress
	case StateClosed:
		e.mu.Unlock()
		return Entity{}, ErrNotDrafting
	}

	if err := e.schema.validate(e.draft.Fields); err != nil {
		e.mu.Unlock()
		return Entity{}, err
	}

	work := e.draft.clone()
	e.state = StateSubmitting
	e.mu.Unlock()

	ent, err := e.write(ctx, &work)

	e.mu.Lock()
	defer e.mu.Unlock()

	if ent.ID == "" {
		e.draft = &work
		e.state = StateDrafting
		return Entity{}, err
	}

	e.state = StateClosed
	e.draft = nil
	return ent, err
}

func (e *Editor) write(ctx context.Context, d *Draft) (Entity, error) {
	coll := e.schema.Collection

	if af := e.schema.AssetField; af != "" {
		if prev := StringField(d.original, af); d.removeAsset && prev != "" {
			if err := deleteAsset(ctx, e.assets, prev); err != nil {
				return Entity{}, &StoreWriteError{Op: "delete-asset", Collection: coll, ID: d.ID, Err: err}
			}
			d.original[af] = ""
		}
		d.removeAsset = false

		if d.staged != nil {
			ref, err := e.upload(ctx, d.staged)
			if err != nil {
				return Entity{}, &StoreWriteError{Op: "upload-asset", Collection: coll, ID: d.ID, Err: err}
			}
			d.Fields[af] = ref.URL
			d.staged = nil
		}
	}

	fields := docstore.CloneFields(d.Fields)
	if e.schema.Prepare != nil {
		if err := e.schema.Prepare(fields); err != nil {
			return Entity{}, err
		}
	}

	if d.IsNew() {
		id, err := e.docs.Create(ctx, coll, fields)
		if err != nil {
			return Entity{}, &StoreWriteError{Op: "create", Collection: coll, Err: err}
		}

		ent := Entity{ID: id, Fields: fields}
		if e.cache != nil {
			e.cache.ApplyCreate(ent)
		}
		e.log.WithField("id", id).Info("Created")
		return ent, nil
	}

	if err := e.docs.Update(ctx, coll, d.ID, fields); err != nil {
		return Entity{}, &StoreWriteError{Op: "update", Collection: coll, ID: d.ID, Err: err}
	}

	if e.cache != nil {
		e.cache.ApplyUpdate(d.ID, fields)
	}
	e.log.WithField("id", d.ID).Info("Updated")

	ent := Entity{ID: d.ID, Fields: fields}
	return ent, e.cascadeRename(ctx, d, fields)
}

func (e *Editor) cascadeRename(ctx context.Context, d *Draft, fields map[string]any) error {
	if e.cascade == nil {
		return nil
	}

	name := e.schema.nameField()
	oldName, newName := StringField(d.original, name), StringField(fields, name)
	if oldName == newName {
		return nil
	}

	result, err := e.cascade.Rename(ctx, oldName, newName)
	if err != nil {
		return &StoreWriteError{Op: "cascade-rename", Collection: e.cascade.child.Collection, Err: err}
	}

	return result.Err()
}

func (e *Editor) upload(ctx context.Context, u *Upload) (assetstore.Ref, error) {
	key, err := assetstore.NewKey(e.schema.AssetPrefix, u.Filename)
	if err != nil {
		return assetstore.Ref{}, err
	}

	return e.assets.Put(ctx, key, bytes.NewReader(u.Data), assetstore.PutOptions{ContentType: u.ContentType})
}

// Remove deletes ent. Without a cascade the document goes first and then
// its asset; an asset that cannot be deleted is reported as an
// *OrphanedAssetError after the cache was updated. With a cascade the
// dependents go first, then the asset, then the document.
func (e *Editor) Remove(ctx context.Context, ent Entity) (BatchResult, error) {
	e.mu.Lock()
	if e.state == StateSubmitting {
		e.mu.Unlock()
		return BatchResult{}, ErrSubmitInProgress
	}
	prev := e.state
	e.state = StateSubmitting
	e.mu.Unlock()

	var (
		result  BatchResult
		removed bool
		err     error
	)
	if e.cascade != nil {
		result, removed, err = e.removeWithDependents(ctx, ent)
	} else {
		removed, err = e.removeOne(ctx, ent)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = prev
	if removed && e.draft != nil && e.draft.ID == ent.ID {
		e.draft = nil
		e.state = StateClosed
	}

	return result, err
}

func (e *Editor) removeOne(ctx context.Context, ent Entity) (bool, error) {
	coll := e.schema.Collection
	if err := e.docs.Delete(ctx, coll, ent.ID); err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return false, &StoreWriteError{Op: "delete", Collection: coll, ID: ent.ID, Err: err}
	}

	var orphan error
	if assetURL := e.assetURL(ent); assetURL != "" {
		if err := deleteAsset(ctx, e.assets, assetURL); err != nil {
			orphan = &OrphanedAssetError{Key: e.assets.KeyForURL(assetURL), Err: err}
			e.log.WithField("id", ent.ID).Warnf("Asset not deleted: %s", err)
		}
	}

	if e.cache != nil {
		e.cache.ApplyRemove(ent.ID)
	}
	e.log.WithField("id", ent.ID).Info("Removed")

	return true, orphan
}

func (e *Editor) removeWithDependents(ctx context.Context, ent Entity) (BatchResult, bool, error) {
	coll := e.schema.Collection
	name := StringField(ent.Fields, e.schema.nameField())

	result, err := e.cascade.DeleteDependents(ctx, name)
	if err != nil {
		return result, false, err
	}

	errs := []error{result.Err()}
	for _, o := range result.Outcomes {
		errs = append(errs, o.AssetErr)
	}

	if assetURL := e.assetURL(ent); assetURL != "" {
		if err := deleteAsset(ctx, e.assets, assetURL); err != nil {
			errs = append(errs, &StoreWriteError{Op: "delete-asset", Collection: coll, ID: ent.ID, Err: err})
			return result, false, errors.Join(errs...)
		}
	}

	if err := e.docs.Delete(ctx, coll, ent.ID); err != nil && !errors.Is(err, docstore.ErrNotFound) {
		errs = append(errs, &StoreWriteError{Op: "delete", Collection: coll, ID: ent.ID, Err: err})
		return result, false, errors.Join(errs...)
	}

	if e.cache != nil {
		e.cache.ApplyRemove(ent.ID)
	}
	e.log.WithField("id", ent.ID).WithField("dependents", len(result.Outcomes)).Info("Removed with dependents")

	return result, true, errors.Join(errs...)
}

func (e *Editor) assetURL(ent Entity) string {
	if e.schema.AssetField == "" || e.assets == nil {
		return ""
	}

	return StringField(ent.Fields, e.schema.AssetField)
}
