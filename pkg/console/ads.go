package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vendingops/vmconsole/pkg/assetstore"
	"github.com/vendingops/vmconsole/pkg/clog"
	"github.com/vendingops/vmconsole/pkg/crud"
	"github.com/vendingops/vmconsole/pkg/decoder"
	"github.com/vendingops/vmconsole/pkg/docstore"
	"github.com/vendingops/vmconsole/pkg/vmmodel"
)

const adsPrefix = "ads/"

// Ads manages advertisements. An ad is a name and one or more image or
// video files; ads are created and deleted but never edited.
type Ads struct {
	docs   docstore.Store
	assets assetstore.Store

	Cache *crud.ListCache
}

func AdSchema() crud.Schema {
	return crud.Schema{Collection: vmmodel.AdsCollection}
}

func NewAds(docs docstore.Store, assets assetstore.Store) *Ads {
	return &Ads{docs: docs, assets: assets, Cache: crud.NewListCache(AdSchema(), docs)}
}

func (a *Ads) List(ctx context.Context) ([]vmmodel.Advertisement, error) {
	if err := a.Cache.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	return vmmodel.DecodeAll[vmmodel.Advertisement](vmmodel.AdsCollection, a.Cache.Entities()), nil
}

func mediaKind(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	default:
		return ""
	}
}

// Create uploads every media file and then writes the ad. If any step
// fails the files already uploaded are deleted again.
func (a *Ads) Create(ctx context.Context, name string, media []crud.Upload) (vmmodel.Advertisement, error) {
	name = strings.TrimSpace(name)
	verr := &crud.ValidationError{Invalid: map[string]string{}}
	if name == "" {
		verr.Missing = append(verr.Missing, "name")
	}
	if len(media) == 0 {
		verr.Missing = append(verr.Missing, "media")
	}
	for i, m := range media {
		if mediaKind(m.ContentType) == "" {
			verr.Invalid[fmt.Sprintf("media[%d]", i)] = fmt.Sprintf("%s: unsupported content type %q", m.Filename, m.ContentType)
		}
	}
	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return vmmodel.Advertisement{}, verr
	}

	log := clog.UsingCtx("ads")
	ad := vmmodel.Advertisement{Name: name}
	var uploaded []string

	cleanup := func() {
		for _, key := range uploaded {
			if err := a.assets.Delete(ctx, key); err != nil {
				log.WithField("key", key).Warnf("Cleanup of uploaded media failed: %s", err)
			}
		}
	}

	for _, m := range media {
		key, err := assetstore.NewKey(adsPrefix, m.Filename)
		if err != nil {
			cleanup()
			return vmmodel.Advertisement{}, err
		}

		ref, err := a.assets.Put(ctx, key, bytes.NewReader(m.Data), assetstore.PutOptions{ContentType: m.ContentType})
		if err != nil {
			cleanup()
			return vmmodel.Advertisement{}, &crud.StoreWriteError{Op: "upload-asset", Collection: vmmodel.AdsCollection, Err: err}
		}
		uploaded = append(uploaded, ref.Key)

		if mediaKind(m.ContentType) == "image" {
			ad.MediaData = append(ad.MediaData, vmmodel.MediaItem{ImgURL: ref.URL})
		} else {
			ad.MediaData = append(ad.MediaData, vmmodel.MediaItem{VidURL: ref.URL})
		}
	}

	fields, err := vmmodel.Fields(ad)
	if err != nil {
		cleanup()
		return vmmodel.Advertisement{}, err
	}

	id, err := a.docs.Create(ctx, vmmodel.AdsCollection, fields)
	if err != nil {
		cleanup()
		return vmmodel.Advertisement{}, &crud.StoreWriteError{Op: "create", Collection: vmmodel.AdsCollection, Err: err}
	}
	ad.ID = id
	a.Cache.ApplyCreate(crud.Entity{ID: id, Fields: fields})

	log.WithField("id", id).WithField("media", len(ad.MediaData)).Info("Created advertisement")
	return ad, nil
}

// Delete removes the ad document and then each of its media files. Files
// that are already gone are ignored; files that could not be deleted are
// reported as *crud.OrphanedAssetError. Only the media list is read, so
// fields the model does not know do not block the delete.
func (a *Ads) Delete(ctx context.Context, id string) error {
	doc, err := a.docs.Get(ctx, vmmodel.AdsCollection, id)
	if err != nil {
		return err
	}

	ad, err := decoder.DecodeMap[vmmodel.Advertisement](doc.Fields)
	if err != nil {
		return fmt.Errorf("document %s: %w", id, err)
	}

	if err := a.docs.Delete(ctx, vmmodel.AdsCollection, id); err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return &crud.StoreWriteError{Op: "delete", Collection: vmmodel.AdsCollection, ID: id, Err: err}
	}
	a.Cache.ApplyRemove(id)

	var errs []error
	for _, m := range ad.MediaData {
		u := m.URL()
		if u == "" {
			continue
		}
		if err := assetstore.DeleteURL(ctx, a.assets, u); err != nil && !errors.Is(err, assetstore.ErrNotFound) {
			errs = append(errs, &crud.OrphanedAssetError{Key: a.assets.KeyForURL(u), Err: err})
		}
	}

	return errors.Join(errs...)
}
