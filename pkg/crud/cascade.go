package crud

import (
	"context"
	"errors"

	"github.com/vendingops/vmconsole/pkg/assetstore"
	"github.com/vendingops/vmconsole/pkg/clog"
	"github.com/vendingops/vmconsole/pkg/docstore"
)

// Cascade keeps a child collection's denormalized copy of a parent's name in
// step with the parent. For the console that is flavors.brand following
// brands.name.
type Cascade struct {
	docs   docstore.Store
	assets assetstore.Store
	child  Schema
	cache  *ListCache

	// RefField is the child field holding the parent's name.
	RefField    string
	Concurrency int
}

// NewCascade builds a cascade over child. cache, when non-nil, is the
// child's ListCache and is kept up to date row by row.
func NewCascade(docs docstore.Store, assets assetstore.Store, child Schema, refField string, cache *ListCache) *Cascade {
	return &Cascade{
		docs:        docs,
		assets:      assets,
		child:       child,
		cache:       cache,
		RefField:    refField,
		Concurrency: DefaultBatchConcurrency,
	}
}

// dependents is a point-in-time read; rows added after it are not touched.
func (c *Cascade) dependents(ctx context.Context, parentName string) ([]Entity, []string, error) {
	docs, err := c.docs.Query(ctx, c.child.Collection, c.RefField, parentName)
	if err != nil {
		return nil, nil, unavailable(err)
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}

	return docs, ids, nil
}

// Rename points every child referring to oldName at newName. The returned
// error is only set when the dependents could not be read; row failures are
// in the BatchResult.
func (c *Cascade) Rename(ctx context.Context, oldName, newName string) (BatchResult, error) {
	if oldName == newName {
		return BatchResult{Op: "rename", Outcomes: []RowOutcome{}}, nil
	}

	_, ids, err := c.dependents(ctx, oldName)
	if err != nil {
		return BatchResult{Op: "rename"}, err
	}

	patch := map[string]any{c.RefField: newName}
	result := RunBatch(ctx, "rename", ids, c.Concurrency, func(ctx context.Context, id string) RowOutcome {
		if err := c.docs.Update(ctx, c.child.Collection, id, patch); err != nil {
			return RowOutcome{Err: &StoreWriteError{Op: "update", Collection: c.child.Collection, ID: id, Err: err}}
		}

		if c.cache != nil {
			c.cache.ApplyUpdate(id, patch)
		}
		return RowOutcome{}
	})

	c.logResult(result, oldName)
	return result, nil
}

// DeleteDependents removes every child referring to parentName along with
// the child's asset. A child already gone counts as deleted.
func (c *Cascade) DeleteDependents(ctx context.Context, parentName string) (BatchResult, error) {
	docs, ids, err := c.dependents(ctx, parentName)
	if err != nil {
		return BatchResult{Op: "delete"}, err
	}

	rows := make(map[string]string, len(docs))
	if c.child.AssetField != "" {
		for _, d := range docs {
			rows[d.ID] = StringField(d.Fields, c.child.AssetField)
		}
	}

	result := RunBatch(ctx, "delete", ids, c.Concurrency, func(ctx context.Context, id string) RowOutcome {
		err := c.docs.Delete(ctx, c.child.Collection, id)
		if err != nil && !errors.Is(err, docstore.ErrNotFound) {
			return RowOutcome{Err: &StoreWriteError{Op: "delete", Collection: c.child.Collection, ID: id, Err: err}}
		}

		var out RowOutcome
		if assetURL := rows[id]; assetURL != "" && c.assets != nil {
			if err := deleteAsset(ctx, c.assets, assetURL); err != nil {
				out.AssetErr = &OrphanedAssetError{Key: c.assets.KeyForURL(assetURL), Err: err}
			}
		}

		if c.cache != nil {
			c.cache.ApplyRemove(id)
		}
		return out
	})

	c.logResult(result, parentName)
	return result, nil
}

func (c *Cascade) logResult(result BatchResult, parentName string) {
	entry := clog.UsingCtx("cascade").WithField("op", result.Op).WithField("parent", parentName)
	if err := result.Err(); err != nil {
		entry.Warnf("Cascade incomplete: %s", err)
		return
	}

	entry.WithField("rows", len(result.Outcomes)).Debug("Cascade complete")
}

// deleteAsset treats an already missing asset as deleted.
func deleteAsset(ctx context.Context, assets assetstore.Store, assetURL string) error {
	err := assetstore.DeleteURL(ctx, assets, assetURL)
	if errors.Is(err, assetstore.ErrNotFound) {
		return nil
	}

	return err
}
