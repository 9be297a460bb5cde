// Package console implements the management screens of the vending-machine
// admin console on top of the crud editing pattern.
package console

import (
	"context"
	"errors"

	"github.com/vendingops/vmconsole/pkg/assetstore"
	"github.com/vendingops/vmconsole/pkg/crud"
	"github.com/vendingops/vmconsole/pkg/docstore"
	"github.com/vendingops/vmconsole/pkg/lock"
	"github.com/vendingops/vmconsole/pkg/vmmodel"
)

// Change is one edit request against an entity. Upload replaces the
// entity's asset; RemoveAsset deletes the current one. Both together delete
// the old asset and store the new one.
type Change struct {
	Fields      map[string]any
	Upload      *crud.Upload
	RemoveAsset bool
}

// Service runs the create/update/delete flow of one collection. Work on a
// given id is serialized; each request gets its own editor.
type Service struct {
	schema  crud.Schema
	docs    docstore.Store
	assets  assetstore.Store
	cascade *crud.Cascade
	locker  *lock.KeyLocker

	Cache *crud.ListCache
}

func newService(schema crud.Schema, docs docstore.Store, assets assetstore.Store) *Service {
	return &Service{
		schema: schema,
		docs:   docs,
		assets: assets,
		locker: lock.NewKeyLocker(),
		Cache:  crud.NewListCache(schema, docs),
	}
}

func (s *Service) Schema() crud.Schema { return s.schema }

func (s *Service) Load(ctx context.Context) error {
	return s.Cache.Load(ctx)
}

func (s *Service) List(ctx context.Context) ([]crud.Entity, error) {
	if err := s.Cache.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	return s.Cache.Entities(), nil
}

// Get prefers the cache and falls back to the store for entities created
// elsewhere since the last load.
func (s *Service) Get(ctx context.Context, id string) (crud.Entity, error) {
	if err := s.Cache.EnsureLoaded(ctx); err != nil {
		return crud.Entity{}, err
	}

	if e, ok := s.Cache.Get(id); ok {
		return e, nil
	}

	doc, err := s.docs.Get(ctx, s.schema.Collection, id)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return crud.Entity{}, crud.ErrNotFound
	case err != nil:
		return crud.Entity{}, err
	}

	s.Cache.ApplyCreate(*doc)
	return *doc, nil
}

func (s *Service) NewEditor() *crud.Editor {
	return crud.NewEditor(crud.EditorOpts{
		Schema:  s.schema,
		Docs:    s.docs,
		Assets:  s.assets,
		Cache:   s.Cache,
		Cascade: s.cascade,
	})
}

func (s *Service) Create(ctx context.Context, ch Change) (crud.Entity, error) {
	if err := s.Cache.EnsureLoaded(ctx); err != nil {
		return crud.Entity{}, err
	}

	ed := s.NewEditor()
	if err := ed.Open(nil); err != nil {
		return crud.Entity{}, err
	}

	if err := apply(ed, ch); err != nil {
		return crud.Entity{}, err
	}

	return ed.Submit(ctx)
}

func (s *Service) Update(ctx context.Context, id string, ch Change) (ent crud.Entity, err error) {
	err = s.locker.WithLock(id, func() error {
		existing, err := s.Get(ctx, id)
		if err != nil {
			return err
		}

		ed := s.NewEditor()
		if err := ed.Open(&existing); err != nil {
			return err
		}

		if err := apply(ed, ch); err != nil {
			return err
		}

		ent, err = ed.Submit(ctx)
		return err
	})

	return ent, err
}

func (s *Service) Delete(ctx context.Context, id string) (result crud.BatchResult, err error) {
	err = s.locker.WithLock(id, func() error {
		existing, err := s.Get(ctx, id)
		if err != nil {
			return err
		}

		result, err = s.NewEditor().Remove(ctx, existing)
		return err
	})

	return result, err
}

func apply(ed *crud.Editor, ch Change) error {
	for name, value := range ch.Fields {
		if err := ed.SetField(name, value); err != nil {
			return err
		}
	}

	if ch.Upload != nil {
		if err := ed.SetAsset(*ch.Upload); err != nil {
			return err
		}
	}

	if ch.RemoveAsset {
		return ed.ClearAsset()
	}

	return nil
}

// withModel runs vmmodel.Check for T ahead of rules, so nothing is written
// that the typed readers would have to skip.
func withModel[T any](rules func(fields map[string]any) map[string]string) func(fields map[string]any) map[string]string {
	return func(fields map[string]any) map[string]string {
		invalid := vmmodel.Check[T](fields)
		if rules == nil {
			return invalid
		}

		for name, problem := range rules(fields) {
			if invalid == nil {
				invalid = map[string]string{}
			}
			if _, ok := invalid[name]; !ok {
				invalid[name] = problem
			}
		}

		return invalid
	}
}
