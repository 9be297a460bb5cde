package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vendingops/vmconsole/pkg/assetstore"
	"github.com/vendingops/vmconsole/pkg/crud"
	"github.com/vendingops/vmconsole/pkg/docstore"
)

type fixture struct {
	mem    *docstore.MemoryStore
	docs   *docstore.RecordingStore
	blobs  *assetstore.MemoryStore
	assets *assetstore.RecordingStore
	c      *Console
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{mem: docstore.NewMemoryStore(), blobs: assetstore.NewMemoryStore()}
	f.docs = docstore.NewRecordingStore(f.mem)
	f.assets = assetstore.NewRecordingStore(f.blobs)
	f.c = New(f.docs, f.assets)
	return f
}

func (f *fixture) seedCatalog() {
	f.mem.Seed("brands", "b1", map[string]any{"name": "Optimum"})
	f.mem.Seed("brands", "b2", map[string]any{"name": "Avvatar"})
	f.mem.Seed("flavors", "f1", map[string]any{"brand": "Optimum", "name": "Vanilla", "supplement": "Whey", "ml": "200ml"})
	f.mem.Seed("flavors", "f2", map[string]any{"brand": "Optimum", "name": "Chocolate", "supplement": "Mass Gainer", "ml": "200ml"})
	f.mem.Seed("flavors", "f3", map[string]any{"brand": "Avvatar", "name": "Mango", "supplement": "Whey", "ml": "400ml"})
}

func TestLoadAllFillsCaches(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.mem.Seed("customer", "c1", map[string]any{"fullName": "A"})

	require.NoError(t, f.c.LoadAll(context.Background()))
	require.Equal(t, 2, f.c.Brands.Cache.Len())
	require.Equal(t, 3, f.c.Flavors.Cache.Len())
	require.Equal(t, 1, f.c.Customers.Cache.Len())
	require.Equal(t, 0, f.c.Ads.Cache.Len())
}

func TestLoadAllReportsUnavailableStore(t *testing.T) {
	f := newFixture(t)
	f.docs.FailOn(docstore.OpList, "flavors", "", docstore.ErrUnavailable)

	err := f.c.LoadAll(context.Background())
	require.ErrorIs(t, err, crud.ErrStoreUnavailable)
}

func TestServiceGetFallsBackToStore(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	require.NoError(t, f.c.Brands.Load(context.Background()))

	f.mem.Seed("brands", "b3", map[string]any{"name": "MuscleTech"})
	e, err := f.c.Brands.Get(context.Background(), "b3")
	require.NoError(t, err)
	require.Equal(t, "MuscleTech", e.Fields["name"])
	require.Equal(t, 3, f.c.Brands.Cache.Len())

	_, err = f.c.Brands.Get(context.Background(), "missing")
	require.ErrorIs(t, err, crud.ErrNotFound)
}

func TestBrandRenameCascadesToFlavors(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()

	_, err := f.c.Brands.Update(context.Background(), "b1", Change{Fields: map[string]any{"name": "ON"}})
	require.NoError(t, err)

	groups, err := f.c.Flavors.Grouped(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, "Avvatar", groups[0].Brand)
	require.Equal(t, "ON", groups[1].Brand)
	require.Len(t, groups[1].Flavors, 2)
	require.Equal(t, "Chocolate", groups[1].Flavors[0].Name)
}

func TestBrandCreateWithImage(t *testing.T) {
	f := newFixture(t)

	e, err := f.c.Brands.Create(context.Background(), Change{
		Fields: map[string]any{"name": "MuscleTech"},
		Upload: &crud.Upload{Filename: "logo.png", ContentType: "image/png", Data: []byte("png")},
	})
	require.NoError(t, err)
	require.NotEmpty(t, e.ID)
	require.Len(t, f.assets.Puts(), 1)
	require.Equal(t, f.assets.Puts()[0], f.blobs.KeyForURL(e.Fields["image"].(string)))
}

func TestBrandDeleteRemovesFlavors(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()

	result, err := f.c.Brands.Delete(context.Background(), "b1")
	require.NoError(t, err)
	require.Equal(t, crud.BatchComplete, result.Status())
	require.ElementsMatch(t, []string{"f1", "f2"}, result.Succeeded())

	flavors, err := f.c.Flavors.Typed(context.Background())
	require.NoError(t, err)
	require.Len(t, flavors, 1)
	require.Equal(t, "Mango", flavors[0].Name)
}

func TestFlavorValidation(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()

	tests := []struct {
		name    string
		fields  map[string]any
		invalid string
	}{
		{name: "unknown brand", fields: map[string]any{"brand": "Nope", "name": "X", "supplement": "Whey", "ml": "200ml"}, invalid: "brand"},
		{name: "unknown supplement", fields: map[string]any{"brand": "Optimum", "name": "X", "supplement": "Creatine", "ml": "200ml"}, invalid: "supplement"},
		{name: "size not sold", fields: map[string]any{"brand": "Optimum", "name": "X", "supplement": "Mass Gainer", "ml": "400ml"}, invalid: "ml"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f.docs.Reset()
			_, err := f.c.Flavors.Create(context.Background(), Change{Fields: test.fields})
			var verr *crud.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Contains(t, verr.Invalid, test.invalid)
			require.Empty(t, f.docs.CallsFor(docstore.OpCreate))
		})
	}

	e, err := f.c.Flavors.Create(context.Background(), Change{Fields: map[string]any{"brand": "Optimum", "name": "Mocha", "supplement": "Whey", "ml": "400ml"}})
	require.NoError(t, err)
	require.NotEmpty(t, e.ID)
}

func TestFlavorWritesStayReadable(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	ctx := context.Background()
	require.NoError(t, f.c.LoadAll(ctx))
	f.docs.Reset()

	var verr *crud.ValidationError
	_, err := f.c.Flavors.Create(ctx, Change{Fields: map[string]any{
		"brand": "Optimum", "name": "Mocha", "supplement": "Whey", "ml": "400ml", "description": "new",
	}})
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "unknown field", verr.Invalid["description"])

	_, err = f.c.Flavors.Create(ctx, Change{Fields: map[string]any{
		"brand": "Optimum", "name": "Mocha", "supplement": "Whey", "ml": "400ml",
		"pricing": map[string]any{"400ml": map[string]any{"price": "120"}},
	}})
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Invalid, 1)

	_, err = f.c.Flavors.Update(ctx, "f1", Change{Fields: map[string]any{"description": "new"}})
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Invalid, "description")

	require.Empty(t, f.docs.CallsFor(docstore.OpCreate))
	require.Empty(t, f.docs.CallsFor(docstore.OpUpdate))
	require.Equal(t, 3, f.c.Flavors.Cache.Len())

	flavors, err := f.c.Flavors.Typed(ctx)
	require.NoError(t, err)
	require.Len(t, flavors, 3)
}

func TestBrandRejectsUndeclaredFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.c.Brands.Create(context.Background(), Change{Fields: map[string]any{"name": "MuscleBlaze", "country": "IN"}})
	var verr *crud.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Invalid, "country")
	require.Empty(t, f.docs.CallsFor(docstore.OpCreate))
}

func TestFlavorSupplementChangeResetsServingSize(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()

	_, err := f.c.Flavors.Update(context.Background(), "f3", Change{Fields: map[string]any{"supplement": "Mass Gainer"}})
	var verr *crud.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Missing, "ml")

	e, err := f.c.Flavors.Update(context.Background(), "f3", Change{Fields: map[string]any{"supplement": "Mass Gainer", "ml": "200ml"}})
	require.NoError(t, err)
	require.Equal(t, "200ml", e.Fields["ml"])
}
