package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/vendingops/vmconsole/pkg/crud"
	"github.com/vendingops/vmconsole/pkg/vmmodel"
)

// PricingRow is one flavor's price and weight at the serving size currently
// selected for it.
type PricingRow struct {
	FlavorID    string  `json:"flavorId"`
	Brand       string  `json:"brand"`
	Flavor      string  `json:"flavor"`
	Supplement  string  `json:"supplement"`
	ServingSize string  `json:"servingSize"`
	Price       float64 `json:"price"`
	Weight      float64 `json:"weight"`
}

// PricingEdit changes one row. A nil Price or Weight leaves that cell as is;
// a ServingSize switches the row to that size first.
type PricingEdit struct {
	FlavorID    string   `json:"flavorId"`
	ServingSize string   `json:"servingSize,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
}

// PricingGrid is the bulk price editor. Edits accumulate in a working copy
// until SaveAll writes the rows that differ from what was stored.
type PricingGrid struct {
	flavors *Flavors

	mu      sync.Mutex
	editing bool
	saving  bool
	stored  map[string]vmmodel.Flavor
	working map[string]PricingRow
	order   []string
}

func NewPricingGrid(flavors *Flavors) *PricingGrid {
	return &PricingGrid{flavors: flavors}
}

func rowFor(f vmmodel.Flavor, size string) PricingRow {
	p := f.Pricing[size]
	return PricingRow{
		FlavorID:    f.ID,
		Brand:       f.Brand,
		Flavor:      f.Name,
		Supplement:  f.Supplement,
		ServingSize: size,
		Price:       p.Price,
		Weight:      p.Weight,
	}
}

func (g *PricingGrid) load(ctx context.Context) error {
	flavors, err := g.flavors.Typed(ctx)
	if err != nil {
		return err
	}

	g.stored = make(map[string]vmmodel.Flavor, len(flavors))
	g.order = make([]string, 0, len(flavors))
	for _, f := range flavors {
		g.stored[f.ID] = f
		g.order = append(g.order, f.ID)
	}

	return nil
}

// Rows returns the working rows while editing and the stored values at the
// default serving size otherwise, in flavor list order.
func (g *PricingGrid) Rows(ctx context.Context) ([]PricingRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.editing {
		if err := g.load(ctx); err != nil {
			return nil, err
		}
	}

	rows := make([]PricingRow, 0, len(g.order))
	for _, id := range g.order {
		if g.editing {
			rows = append(rows, g.working[id])
		} else {
			rows = append(rows, rowFor(g.stored[id], vmmodel.DefaultServingSize))
		}
	}

	return rows, nil
}

func (g *PricingGrid) Editing() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.editing
}

func (g *PricingGrid) BeginEdit(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.editing {
		return nil
	}

	if err := g.load(ctx); err != nil {
		return err
	}

	g.working = make(map[string]PricingRow, len(g.order))
	for _, id := range g.order {
		g.working[id] = rowFor(g.stored[id], vmmodel.DefaultServingSize)
	}
	g.editing = true

	return nil
}

func (g *PricingGrid) Edit(e PricingEdit) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.editing {
		return crud.ErrNotDrafting
	}
	if g.saving {
		return crud.ErrSubmitInProgress
	}

	row, ok := g.working[e.FlavorID]
	if !ok {
		return fmt.Errorf("flavor %s: %w", e.FlavorID, crud.ErrNotFound)
	}

	invalid := map[string]string{}
	if e.ServingSize != "" && e.ServingSize != row.ServingSize {
		if !vmmodel.ServingSizeAllowed(row.Supplement, e.ServingSize) {
			invalid["servingSize"] = fmt.Sprintf("%s is not sold in %s", row.Supplement, e.ServingSize)
		} else {
			row = rowFor(g.stored[e.FlavorID], e.ServingSize)
		}
	}
	if e.Price != nil && *e.Price < 0 {
		invalid["price"] = "must not be negative"
	}
	if e.Weight != nil && *e.Weight < 0 {
		invalid["weight"] = "must not be negative"
	}
	if len(invalid) > 0 {
		return &crud.ValidationError{Invalid: invalid}
	}

	if e.Price != nil {
		row.Price = *e.Price
	}
	if e.Weight != nil {
		row.Weight = *e.Weight
	}
	g.working[e.FlavorID] = row

	return nil
}

func (g *PricingGrid) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.saving {
		return
	}
	g.editing = false
	g.working = nil
}

// changed returns the dotted patch for every row that differs from the
// stored pricing at the row's serving size.
func (g *PricingGrid) changed() map[string]map[string]any {
	patches := map[string]map[string]any{}
	for _, id := range g.order {
		row := g.working[id]
		stored := g.stored[id].Pricing[row.ServingSize]
		if stored.Price == row.Price && stored.Weight == row.Weight {
			continue
		}

		prefix := "pricing." + row.ServingSize + "."
		patches[id] = map[string]any{
			prefix + "price":  row.Price,
			prefix + "weight": row.Weight,
		}
	}

	return patches
}

// SaveAll writes every changed row concurrently. Rows that were written are
// folded into the stored values; when all rows succeed the grid leaves edit
// mode, otherwise it stays editing so the failed rows can be saved again.
func (g *PricingGrid) SaveAll(ctx context.Context) (crud.BatchResult, error) {
	g.mu.Lock()
	if !g.editing {
		g.mu.Unlock()
		return crud.BatchResult{}, crud.ErrNotDrafting
	}
	if g.saving {
		g.mu.Unlock()
		return crud.BatchResult{}, crud.ErrSubmitInProgress
	}
	g.saving = true
	patches := g.changed()
	g.mu.Unlock()

	ids := make([]string, 0, len(patches))
	for id := range patches {
		ids = append(ids, id)
	}

	docs := g.flavors.docs
	result := crud.RunBatch(ctx, "save-pricing", ids, crud.DefaultBatchConcurrency, func(ctx context.Context, id string) crud.RowOutcome {
		if err := docs.Update(ctx, vmmodel.FlavorsCollection, id, patches[id]); err != nil {
			return crud.RowOutcome{ID: id, Err: &crud.StoreWriteError{Op: "update", Collection: vmmodel.FlavorsCollection, ID: id, Err: err}}
		}
		g.flavors.Cache.ApplyUpdate(id, patches[id])
		return crud.RowOutcome{ID: id}
	})

	g.mu.Lock()
	defer g.mu.Unlock()

	g.saving = false
	for _, id := range result.Succeeded() {
		row := g.working[id]
		f := g.stored[id]
		pricing := make(map[string]vmmodel.PricePoint, len(f.Pricing)+1)
		for size, p := range f.Pricing {
			pricing[size] = p
		}
		pricing[row.ServingSize] = vmmodel.PricePoint{Price: row.Price, Weight: row.Weight}
		f.Pricing = pricing
		g.stored[id] = f
	}

	if result.Status() == crud.BatchComplete {
		g.editing = false
		g.working = nil
	}

	return result, result.Err()
}
