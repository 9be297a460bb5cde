package crud

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vendingops/vmconsole/pkg/assetstore"
	"github.com/vendingops/vmconsole/pkg/docstore"
)

var (
	testBrandSchema = Schema{
		Collection:  "brands",
		Required:    []string{"name"},
		AssetField:  "image",
		AssetPrefix: "brands/",
	}

	testFlavorSchema = Schema{
		Collection:    "flavors",
		Required:      []string{"brand", "name"},
		CategoryField: "brand",
		AssetField:    "imageUrl",
		AssetPrefix:   "flavors/",
	}
)

type fixture struct {
	mem    *docstore.MemoryStore
	docs   *docstore.RecordingStore
	blobs  *assetstore.MemoryStore
	assets *assetstore.RecordingStore

	brands  *ListCache
	flavors *ListCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{mem: docstore.NewMemoryStore(), blobs: assetstore.NewMemoryStore()}
	f.docs = docstore.NewRecordingStore(f.mem)
	f.assets = assetstore.NewRecordingStore(f.blobs)
	f.brands = NewListCache(testBrandSchema, f.docs)
	f.flavors = NewListCache(testFlavorSchema, f.docs)
	return f
}

// seedAsset stores an asset directly, bypassing the recorder.
func (f *fixture) seedAsset(t *testing.T, key string) string {
	t.Helper()
	ref, err := f.blobs.Put(context.Background(), key, strings.NewReader("bytes"), assetstore.PutOptions{ContentType: "image/png"})
	require.NoError(t, err)
	return ref.URL
}

// load fills both caches and forgets the calls it took.
func (f *fixture) load(t *testing.T) {
	t.Helper()
	require.NoError(t, f.brands.Load(context.Background()))
	require.NoError(t, f.flavors.Load(context.Background()))
	f.docs.Reset()
}

func (f *fixture) brandEditor() *Editor {
	return NewEditor(EditorOpts{
		Schema:  testBrandSchema,
		Docs:    f.docs,
		Assets:  f.assets,
		Cache:   f.brands,
		Cascade: NewCascade(f.docs, f.assets, testFlavorSchema, "brand", f.flavors),
	})
}

func (f *fixture) flavorEditor() *Editor {
	return NewEditor(EditorOpts{Schema: testFlavorSchema, Docs: f.docs, Assets: f.assets, Cache: f.flavors})
}

func (f *fixture) mustGet(t *testing.T, c *ListCache, id string) Entity {
	t.Helper()
	e, ok := c.Get(id)
	require.True(t, ok, "entity %s not cached", id)
	return e
}
