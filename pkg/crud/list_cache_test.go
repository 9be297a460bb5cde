package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vendingops/vmconsole/pkg/docstore"
)

func names(entities []Entity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, StringField(e.Fields, "brand")+"/"+StringField(e.Fields, "name"))
	}
	return out
}

func TestListCacheSortsByCategoryThenName(t *testing.T) {
	f := newFixture(t)
	f.mem.Seed("flavors", "1", map[string]any{"brand": "on", "name": "vanilla"})
	f.mem.Seed("flavors", "2", map[string]any{"brand": "MT", "name": "Mango"})
	f.mem.Seed("flavors", "3", map[string]any{"brand": "ON", "name": "Chocolate"})
	f.mem.Seed("flavors", "4", map[string]any{"brand": "MT", "name": "banana"})
	require.NoError(t, f.flavors.Load(context.Background()))

	require.Equal(t, []string{"MT/banana", "MT/Mango", "ON/Chocolate", "on/vanilla"}, names(f.flavors.Entities()))

	f.flavors.ApplyCreate(Entity{ID: "5", Fields: map[string]any{"brand": "Dymatize", "name": "Cookies"}})
	require.Equal(t, "Dymatize/Cookies", names(f.flavors.Entities())[0])

	f.flavors.ApplyUpdate("5", map[string]any{"brand": "Zeta"})
	require.Equal(t, "Zeta/Cookies", names(f.flavors.Entities())[4])
}

func TestListCacheLoadFailureKeepsList(t *testing.T) {
	f := newFixture(t)
	f.mem.Seed("brands", "b1", map[string]any{"name": "ON"})
	require.NoError(t, f.brands.Load(context.Background()))

	f.docs.FailOn(docstore.OpList, "brands", "", docstore.ErrPermissionDenied)
	err := f.brands.Load(context.Background())
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.ErrorIs(t, err, ErrPermissionDenied)
	require.Equal(t, 1, f.brands.Len())
}

func TestListCacheEventsAndUnsubscribe(t *testing.T) {
	f := newFixture(t)
	var kinds []ChangeKind
	cancel := f.brands.Subscribe(func(ev ChangeEvent) { kinds = append(kinds, ev.Kind) })

	require.NoError(t, f.brands.Load(context.Background()))
	f.brands.ApplyCreate(Entity{ID: "b1", Fields: map[string]any{"name": "ON"}})
	f.brands.ApplyUpdate("b1", map[string]any{"name": "Optimum"})
	f.brands.ApplyUpdate("missing", map[string]any{"name": "x"})
	f.brands.ApplyRemove("b1")
	f.brands.ApplyRemove("b1")

	cancel()
	f.brands.ApplyCreate(Entity{ID: "b2", Fields: map[string]any{"name": "MT"}})

	require.Equal(t, []ChangeKind{ChangeLoaded, ChangeCreated, ChangeUpdated, ChangeRemoved}, kinds)
}

func TestListCacheReturnsCopies(t *testing.T) {
	f := newFixture(t)
	f.brands.ApplyCreate(Entity{ID: "b1", Fields: map[string]any{"name": "ON"}})

	e, _ := f.brands.Get("b1")
	e.Fields["name"] = "mutated"
	f.brands.Entities()[0].Fields["name"] = "mutated"

	again, _ := f.brands.Get("b1")
	require.Equal(t, "ON", again.Fields["name"])
}

func TestEnsureLoadedLoadsOnce(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.brands.EnsureLoaded(context.Background()))
	require.NoError(t, f.brands.EnsureLoaded(context.Background()))
	require.Len(t, f.docs.CallsFor(docstore.OpList), 1)
}
