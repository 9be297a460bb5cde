package console

import (
	"context"

	"github.com/vendingops/vmconsole/pkg/assetstore"
	"github.com/vendingops/vmconsole/pkg/crud"
	"github.com/vendingops/vmconsole/pkg/docstore"
	"github.com/vendingops/vmconsole/pkg/vmmodel"
)

func BrandSchema() crud.Schema {
	return crud.Schema{
		Collection:  vmmodel.BrandsCollection,
		Required:    []string{"name"},
		AssetField:  "image",
		AssetPrefix: "brands/",
		Validate:    withModel[vmmodel.Brand](nil),
	}
}

// Brands renames and deletes cascade to the brand's flavors.
type Brands struct {
	*Service
}

func NewBrands(docs docstore.Store, assets assetstore.Store, flavors *Flavors) *Brands {
	s := newService(BrandSchema(), docs, assets)
	s.cascade = crud.NewCascade(docs, assets, flavors.Schema(), "brand", flavors.Cache)
	return &Brands{Service: s}
}

func (b *Brands) Typed(ctx context.Context) ([]vmmodel.Brand, error) {
	entities, err := b.List(ctx)
	if err != nil {
		return nil, err
	}

	return vmmodel.DecodeAll[vmmodel.Brand](vmmodel.BrandsCollection, entities), nil
}

// Exists reports whether a cached brand has the given name.
func (b *Brands) Exists(name string) bool {
	for _, e := range b.Cache.Entities() {
		if crud.StringField(e.Fields, "name") == name {
			return true
		}
	}

	return false
}
