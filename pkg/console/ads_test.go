package console

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vendingops/vmconsole/pkg/assetstore"
	"github.com/vendingops/vmconsole/pkg/crud"
	"github.com/vendingops/vmconsole/pkg/docstore"
)

var (
	banner = crud.Upload{Filename: "banner.png", ContentType: "image/png", Data: []byte("png")}
	promo  = crud.Upload{Filename: "promo.mp4", ContentType: "video/mp4", Data: []byte("mp4")}
)

func TestAdsCreateSortsMediaByKind(t *testing.T) {
	f := newFixture(t)

	ad, err := f.c.Ads.Create(context.Background(), "Diwali", []crud.Upload{banner, promo})
	require.NoError(t, err)
	require.NotEmpty(t, ad.ID)
	require.Len(t, ad.MediaData, 2)
	require.NotEmpty(t, ad.MediaData[0].ImgURL)
	require.Empty(t, ad.MediaData[0].VidURL)
	require.NotEmpty(t, ad.MediaData[1].VidURL)

	for _, key := range f.assets.Puts() {
		require.Contains(t, key, "ads/")
	}

	ads, err := f.c.Ads.List(context.Background())
	require.NoError(t, err)
	require.Len(t, ads, 1)
	require.Equal(t, "Diwali", ads[0].Name)
}

func TestAdsCreateRejectsOtherContentTypes(t *testing.T) {
	f := newFixture(t)
	pdf := crud.Upload{Filename: "menu.pdf", ContentType: "application/pdf", Data: []byte("pdf")}

	_, err := f.c.Ads.Create(context.Background(), "Menu", []crud.Upload{banner, pdf})
	var verr *crud.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Invalid, "media[1]")
	require.Empty(t, f.assets.Puts())

	_, err = f.c.Ads.Create(context.Background(), " ", nil)
	require.ErrorAs(t, err, &verr)
	require.ElementsMatch(t, []string{"name", "media"}, verr.Missing)
}

func TestAdsCreateCleansUpAfterFailedWrite(t *testing.T) {
	f := newFixture(t)
	f.docs.FailOn(docstore.OpCreate, "AD", "", docstore.ErrUnavailable)

	_, err := f.c.Ads.Create(context.Background(), "Diwali", []crud.Upload{banner, promo})
	var werr *crud.StoreWriteError
	require.ErrorAs(t, err, &werr)
	require.ElementsMatch(t, f.assets.Puts(), f.assets.Deletes())
	require.Empty(t, f.blobs.Keys())
}

func TestAdsDelete(t *testing.T) {
	f := newFixture(t)
	ad, err := f.c.Ads.Create(context.Background(), "Diwali", []crud.Upload{banner, promo})
	require.NoError(t, err)

	// one file is already gone
	require.NoError(t, f.blobs.Delete(context.Background(), f.blobs.KeyForURL(ad.MediaData[1].VidURL)))

	require.NoError(t, f.c.Ads.Delete(context.Background(), ad.ID))
	_, err = f.mem.Get(context.Background(), "AD", ad.ID)
	require.ErrorIs(t, err, docstore.ErrNotFound)
	require.Empty(t, f.blobs.Keys())
}

func TestAdsDeleteReportsOrphans(t *testing.T) {
	f := newFixture(t)
	ad, err := f.c.Ads.Create(context.Background(), "Diwali", []crud.Upload{banner})
	require.NoError(t, err)
	f.assets.FailDelete("", assetstore.ErrExists)

	err = f.c.Ads.Delete(context.Background(), ad.ID)
	var orphan *crud.OrphanedAssetError
	require.ErrorAs(t, err, &orphan)
	require.Equal(t, f.blobs.KeyForURL(ad.MediaData[0].ImgURL), orphan.Key)

	_, err = f.mem.Get(context.Background(), "AD", ad.ID)
	require.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestAdsDeleteIgnoresUnknownFields(t *testing.T) {
	f := newFixture(t)
	ref, err := f.blobs.Put(context.Background(), "ads/legacy.png", strings.NewReader("png"), assetstore.PutOptions{ContentType: "image/png"})
	require.NoError(t, err)
	f.mem.Seed("AD", "a1", map[string]any{
		"name":      "Legacy",
		"sponsor":   "Optimum",
		"mediaData": []any{map[string]any{"img_url": ref.URL}},
	})

	require.NoError(t, f.c.Ads.Delete(context.Background(), "a1"))
	_, err = f.mem.Get(context.Background(), "AD", "a1")
	require.ErrorIs(t, err, docstore.ErrNotFound)
	require.Empty(t, f.blobs.Keys())
}

func TestAdsCacheFollowsWrites(t *testing.T) {
	f := newFixture(t)
	var kinds []crud.ChangeKind
	cancel := f.c.Ads.Cache.Subscribe(func(ev crud.ChangeEvent) { kinds = append(kinds, ev.Kind) })
	defer cancel()

	ad, err := f.c.Ads.Create(context.Background(), "Diwali", []crud.Upload{banner})
	require.NoError(t, err)
	e, ok := f.c.Ads.Cache.Get(ad.ID)
	require.True(t, ok)
	require.Equal(t, "Diwali", e.Fields["name"])

	require.NoError(t, f.c.Ads.Delete(context.Background(), ad.ID))
	require.Equal(t, 0, f.c.Ads.Cache.Len())
	require.Equal(t, []crud.ChangeKind{crud.ChangeCreated, crud.ChangeRemoved}, kinds)
}
