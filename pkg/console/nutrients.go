package console

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/vendingops/vmconsole/pkg/clog"
	"github.com/vendingops/vmconsole/pkg/crud"
	"github.com/vendingops/vmconsole/pkg/docstore"
	"github.com/vendingops/vmconsole/pkg/vmmodel"
)

// NutrientRow holds one flavor's nutrient values. Major and Minor line up
// with the major and minor columns.
type NutrientRow struct {
	FlavorID   string   `json:"flavorId"`
	Brand      string   `json:"brand"`
	Flavour    string   `json:"flavour"`
	Supplement string   `json:"supplement"`
	Major      []string `json:"majorNutrients"`
	Minor      []string `json:"minorNutrients"`
}

func (r NutrientRow) clone() NutrientRow {
	r.Major = slices.Clone(r.Major)
	r.Minor = slices.Clone(r.Minor)
	return r
}

func (r NutrientRow) values(typ string) []string {
	if typ == vmmodel.NutrientMajor {
		return r.Major
	}
	return r.Minor
}

func (r *NutrientRow) setValues(typ string, v []string) {
	if typ == vmmodel.NutrientMajor {
		r.Major = v
	} else {
		r.Minor = v
	}
}

func (r NutrientRow) equal(o NutrientRow) bool {
	return slices.Equal(r.Major, o.Major) && slices.Equal(r.Minor, o.Minor)
}

// NutrientCell addresses one value of the grid.
type NutrientCell struct {
	FlavorID string `json:"flavorId"`
	Type     string `json:"type"`
	Index    int    `json:"index"`
	Value    string `json:"value"`
}

// Nutrients is the nutrient grid: one column per NutrientsName document and
// one row per flavor. Column changes are written immediately; cell edits are
// kept until SaveAll.
type Nutrients struct {
	docs    docstore.Store
	flavors *Flavors

	mu       sync.Mutex
	loaded   bool
	editing  bool
	saving   bool
	columns  map[string][]vmmodel.NutrientName
	order    []string
	working  map[string]NutrientRow
	snapshot map[string]NutrientRow
	dirty    map[string]bool
}

func NewNutrients(docs docstore.Store, flavors *Flavors) *Nutrients {
	return &Nutrients{docs: docs, flavors: flavors}
}

// Load reads the columns, the flavors and the stored values. Rows are padded
// to the column count; extra stored values are kept.
func (n *Nutrients) Load(ctx context.Context) error {
	names, err := n.docs.List(ctx, vmmodel.NutrientNamesCollection)
	if err != nil {
		return err
	}

	if err := n.flavors.Cache.Load(ctx); err != nil {
		return err
	}
	flavors, err := n.flavors.Typed(ctx)
	if err != nil {
		return err
	}

	records, err := n.docs.List(ctx, vmmodel.NutrientsCollection)
	if err != nil {
		return err
	}

	columns := map[string][]vmmodel.NutrientName{}
	for _, c := range vmmodel.DecodeAll[vmmodel.NutrientName](vmmodel.NutrientNamesCollection, names) {
		if !vmmodel.ValidNutrientType(c.Type) {
			clog.UsingCtx("nutrients").WithField("id", c.ID).Warnf("Skipping column with type %q", c.Type)
			continue
		}
		columns[c.Type] = append(columns[c.Type], c)
	}
	for _, cols := range columns {
		sort.SliceStable(cols, func(i, j int) bool {
			if cols[i].Position != cols[j].Position {
				return cols[i].Position < cols[j].Position
			}
			return strings.ToLower(cols[i].Name) < strings.ToLower(cols[j].Name)
		})
	}

	stored := map[string]vmmodel.NutrientRecord{}
	for _, r := range vmmodel.DecodeAll[vmmodel.NutrientRecord](vmmodel.NutrientsCollection, records) {
		stored[r.ID] = r
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.saving {
		return crud.ErrSubmitInProgress
	}

	n.columns = columns
	n.order = make([]string, 0, len(flavors))
	n.snapshot = make(map[string]NutrientRow, len(flavors))
	for _, f := range flavors {
		r := stored[f.ID]
		n.order = append(n.order, f.ID)
		n.snapshot[f.ID] = NutrientRow{
			FlavorID:   f.ID,
			Brand:      f.Brand,
			Flavour:    f.Name,
			Supplement: f.Supplement,
			Major:      pad(r.MajorNutrients, len(columns[vmmodel.NutrientMajor])),
			Minor:      pad(r.MinorNutrients, len(columns[vmmodel.NutrientMinor])),
		}
	}
	n.working = cloneRows(n.snapshot)
	n.dirty = map[string]bool{}
	n.editing = false
	n.loaded = true

	return nil
}

// nextPosition places a new column after every existing one. Positions of
// deleted columns are never reused, so load order keeps matching the stored
// value arrays.
func nextPosition(cols []vmmodel.NutrientName) int {
	next := 0
	for _, c := range cols {
		if c.Position >= next {
			next = c.Position + 1
		}
	}

	return next
}

func pad(values []string, width int) []string {
	out := slices.Clone(values)
	for len(out) < width {
		out = append(out, "")
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func cloneRows(rows map[string]NutrientRow) map[string]NutrientRow {
	out := make(map[string]NutrientRow, len(rows))
	for id, r := range rows {
		out[id] = r.clone()
	}
	return out
}

func (n *Nutrients) ensureLoaded(ctx context.Context) error {
	n.mu.Lock()
	loaded := n.loaded
	n.mu.Unlock()

	if loaded {
		return nil
	}
	return n.Load(ctx)
}

// Columns returns the major and minor columns in display order.
func (n *Nutrients) Columns(ctx context.Context) (major, minor []vmmodel.NutrientName, err error) {
	if err := n.ensureLoaded(ctx); err != nil {
		return nil, nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	return slices.Clone(n.columns[vmmodel.NutrientMajor]), slices.Clone(n.columns[vmmodel.NutrientMinor]), nil
}

// Rows returns the working rows in flavor list order.
func (n *Nutrients) Rows(ctx context.Context) ([]NutrientRow, error) {
	if err := n.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	rows := make([]NutrientRow, 0, len(n.order))
	for _, id := range n.order {
		rows = append(rows, n.working[id].clone())
	}

	return rows, nil
}

// AddColumn creates the column document and appends an empty cell to every
// row.
func (n *Nutrients) AddColumn(ctx context.Context, typ, name string) (vmmodel.NutrientName, error) {
	name = strings.TrimSpace(name)
	verr := &crud.ValidationError{Invalid: map[string]string{}}
	if name == "" {
		verr.Missing = []string{"name"}
	}
	if !vmmodel.ValidNutrientType(typ) {
		verr.Invalid["type"] = fmt.Sprintf("must be %s or %s", vmmodel.NutrientMajor, vmmodel.NutrientMinor)
	}
	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return vmmodel.NutrientName{}, verr
	}

	if err := n.ensureLoaded(ctx); err != nil {
		return vmmodel.NutrientName{}, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.saving {
		return vmmodel.NutrientName{}, crud.ErrSubmitInProgress
	}

	col := vmmodel.NutrientName{Name: name, Type: typ, Position: nextPosition(n.columns[typ])}
	fields, err := vmmodel.Fields(col)
	if err != nil {
		return vmmodel.NutrientName{}, err
	}

	id, err := n.docs.Create(ctx, vmmodel.NutrientNamesCollection, fields)
	if err != nil {
		return vmmodel.NutrientName{}, &crud.StoreWriteError{Op: "create", Collection: vmmodel.NutrientNamesCollection, Err: err}
	}
	col.ID = id

	index := len(n.columns[typ])
	n.columns[typ] = append(n.columns[typ], col)
	for _, rows := range []map[string]NutrientRow{n.working, n.snapshot} {
		for id, r := range rows {
			if v := r.values(typ); len(v) <= index {
				r.setValues(typ, pad(v, index+1))
				rows[id] = r
			}
		}
	}

	return col, nil
}

// DeleteColumn deletes the column document and drops its cell from every
// row. Rows that had a stored value in that column are rewritten by the
// next SaveAll so the remaining values stay aligned.
func (n *Nutrients) DeleteColumn(ctx context.Context, typ, id string) error {
	if err := n.ensureLoaded(ctx); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.saving {
		return crud.ErrSubmitInProgress
	}

	index := slices.IndexFunc(n.columns[typ], func(c vmmodel.NutrientName) bool { return c.ID == id })
	if index < 0 {
		return fmt.Errorf("%s column %s: %w", typ, id, crud.ErrNotFound)
	}

	if err := n.docs.Delete(ctx, vmmodel.NutrientNamesCollection, id); err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return &crud.StoreWriteError{Op: "delete", Collection: vmmodel.NutrientNamesCollection, ID: id, Err: err}
	}

	n.columns[typ] = slices.Delete(n.columns[typ], index, index+1)
	for _, rows := range []map[string]NutrientRow{n.working, n.snapshot} {
		for rowID, r := range rows {
			v := r.values(typ)
			if index >= len(v) {
				continue
			}
			if v[index] != "" {
				n.dirty[rowID] = true
			}
			r.setValues(typ, slices.Delete(slices.Clone(v), index, index+1))
			rows[rowID] = r
		}
	}

	return nil
}

func (n *Nutrients) BeginEdit(ctx context.Context) error {
	if err := n.ensureLoaded(ctx); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.editing = true
	return nil
}

func (n *Nutrients) Editing() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.editing
}

// SetCell changes one value. Values are numbers or empty.
func (n *Nutrients) SetCell(c NutrientCell) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.editing {
		return crud.ErrNotDrafting
	}
	if n.saving {
		return crud.ErrSubmitInProgress
	}

	r, ok := n.working[c.FlavorID]
	if !ok {
		return fmt.Errorf("flavor %s: %w", c.FlavorID, crud.ErrNotFound)
	}

	if !vmmodel.ValidNutrientType(c.Type) {
		return &crud.ValidationError{Invalid: map[string]string{"type": fmt.Sprintf("unknown nutrient type %q", c.Type)}}
	}
	if c.Index < 0 || c.Index >= len(n.columns[c.Type]) {
		return &crud.ValidationError{Invalid: map[string]string{"index": fmt.Sprintf("no %s column %d", c.Type, c.Index)}}
	}

	value := strings.TrimSpace(c.Value)
	if value != "" {
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return &crud.ValidationError{Invalid: map[string]string{"value": fmt.Sprintf("%q is not a number", c.Value)}}
		}
	}

	v := pad(r.values(c.Type), c.Index+1)
	v[c.Index] = value
	r.setValues(c.Type, v)
	n.working[c.FlavorID] = r

	return nil
}

// Cancel restores the values as last loaded or saved and leaves edit mode.
func (n *Nutrients) Cancel() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.saving {
		return
	}
	n.working = cloneRows(n.snapshot)
	n.editing = false
}

// SaveAll merges one nutrients document per changed row, keyed by the
// flavor id.
func (n *Nutrients) SaveAll(ctx context.Context) (crud.BatchResult, error) {
	n.mu.Lock()
	if !n.editing && len(n.dirty) == 0 {
		n.mu.Unlock()
		return crud.BatchResult{}, crud.ErrNotDrafting
	}
	if n.saving {
		n.mu.Unlock()
		return crud.BatchResult{}, crud.ErrSubmitInProgress
	}
	n.saving = true

	pending := map[string]NutrientRow{}
	for _, id := range n.order {
		r := n.working[id]
		if n.dirty[id] || !r.equal(n.snapshot[id]) {
			pending[id] = r.clone()
		}
	}
	n.mu.Unlock()

	ids := make([]string, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}

	result := crud.RunBatch(ctx, "save-nutrients", ids, crud.DefaultBatchConcurrency, func(ctx context.Context, id string) crud.RowOutcome {
		r := pending[id]
		fields := map[string]any{
			"brand":          r.Brand,
			"flavour":        r.Flavour,
			"supplement":     r.Supplement,
			"majorNutrients": r.Major,
			"minorNutrients": r.Minor,
		}
		if err := n.docs.Set(ctx, vmmodel.NutrientsCollection, id, fields); err != nil {
			return crud.RowOutcome{Err: &crud.StoreWriteError{Op: "set", Collection: vmmodel.NutrientsCollection, ID: id, Err: err}}
		}
		return crud.RowOutcome{}
	})

	n.mu.Lock()
	defer n.mu.Unlock()

	n.saving = false
	for _, id := range result.Succeeded() {
		n.snapshot[id] = pending[id].clone()
		delete(n.dirty, id)
	}
	if result.Status() == crud.BatchComplete {
		n.editing = false
	}

	return result, result.Err()
}
