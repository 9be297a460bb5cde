package console

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vendingops/vmconsole/pkg/assetstore"
	"github.com/vendingops/vmconsole/pkg/crud"
	"github.com/vendingops/vmconsole/pkg/docstore"
	"github.com/vendingops/vmconsole/pkg/vmmodel"
)

// Flavors are listed grouped by brand. A flavor's brand must name an
// existing brand, and its ml must be a size its supplement is sold in.
type Flavors struct {
	*Service
	brands *Brands
}

func NewFlavors(docs docstore.Store, assets assetstore.Store) *Flavors {
	f := &Flavors{}
	f.Service = newService(crud.Schema{
		Collection:    vmmodel.FlavorsCollection,
		Required:      []string{"brand", "name", "supplement", "ml"},
		CategoryField: "brand",
		AssetField:    "imageUrl",
		AssetPrefix:   "flavors/",
		Validate:      withModel[vmmodel.Flavor](f.validate),
	}, docs, assets)
	return f
}

// setBrands completes the brand/flavor wiring once both exist.
func (f *Flavors) setBrands(b *Brands) { f.brands = b }

func (f *Flavors) validate(fields map[string]any) map[string]string {
	invalid := map[string]string{}

	supplement := crud.StringField(fields, "supplement")
	ml := crud.StringField(fields, "ml")
	if supplement != "" {
		if _, ok := vmmodel.SupplementServingSizes[supplement]; !ok {
			invalid["supplement"] = fmt.Sprintf("unknown supplement %q", supplement)
		} else if ml != "" && !vmmodel.ServingSizeAllowed(supplement, ml) {
			invalid["ml"] = fmt.Sprintf("%s is not sold in %s", supplement, ml)
		}
	}

	if brand := crud.StringField(fields, "brand"); brand != "" && f.brands != nil && !f.brands.Exists(brand) {
		invalid["brand"] = fmt.Sprintf("no brand named %q", brand)
	}

	if len(invalid) == 0 {
		return nil
	}

	return invalid
}

func (f *Flavors) ensureBrands(ctx context.Context) error {
	if f.brands == nil {
		return nil
	}

	return f.brands.Cache.EnsureLoaded(ctx)
}

func (f *Flavors) Create(ctx context.Context, ch Change) (crud.Entity, error) {
	if err := f.ensureBrands(ctx); err != nil {
		return crud.Entity{}, err
	}

	return f.Service.Create(ctx, ch)
}

// Update clears ml when the supplement changes and no new ml was given,
// since serving sizes differ per supplement.
func (f *Flavors) Update(ctx context.Context, id string, ch Change) (crud.Entity, error) {
	if err := f.ensureBrands(ctx); err != nil {
		return crud.Entity{}, err
	}

	if supplement, ok := ch.Fields["supplement"]; ok {
		if _, hasML := ch.Fields["ml"]; !hasML {
			existing, err := f.Get(ctx, id)
			if err != nil {
				return crud.Entity{}, err
			}

			if crud.StringField(existing.Fields, "supplement") != fmt.Sprint(supplement) {
				ch.Fields = docstore.CloneFields(ch.Fields)
				ch.Fields["ml"] = ""
			}
		}
	}

	return f.Service.Update(ctx, id, ch)
}

func (f *Flavors) Typed(ctx context.Context) ([]vmmodel.Flavor, error) {
	entities, err := f.List(ctx)
	if err != nil {
		return nil, err
	}

	return vmmodel.DecodeAll[vmmodel.Flavor](vmmodel.FlavorsCollection, entities), nil
}

type FlavorGroup struct {
	Brand   string           `json:"brand"`
	Flavors []vmmodel.Flavor `json:"flavors"`
}

// Grouped returns flavors by brand, brands in name order.
func (f *Flavors) Grouped(ctx context.Context) ([]FlavorGroup, error) {
	flavors, err := f.Typed(ctx)
	if err != nil {
		return nil, err
	}

	byBrand := map[string][]vmmodel.Flavor{}
	for _, fl := range flavors {
		byBrand[fl.Brand] = append(byBrand[fl.Brand], fl)
	}

	brands := make([]string, 0, len(byBrand))
	for b := range byBrand {
		brands = append(brands, b)
	}
	sort.Slice(brands, func(i, j int) bool { return strings.ToLower(brands[i]) < strings.ToLower(brands[j]) })

	groups := make([]FlavorGroup, 0, len(brands))
	for _, b := range brands {
		groups = append(groups, FlavorGroup{Brand: b, Flavors: byBrand[b]})
	}

	return groups, nil
}
