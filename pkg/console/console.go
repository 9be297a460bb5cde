package console

import (
	"context"

	"github.com/sourcegraph/conc/pool"
	"github.com/vendingops/vmconsole/pkg/assetstore"
	"github.com/vendingops/vmconsole/pkg/crud"
	"github.com/vendingops/vmconsole/pkg/docstore"
)

// Console wires every management screen to one document store and one
// asset store.
type Console struct {
	Docs   docstore.Store
	Assets assetstore.Store

	Brands    *Brands
	Flavors   *Flavors
	Customers *Customers
	Ads       *Ads
	Nutrients *Nutrients
	Reports   *Reports
}

func New(docs docstore.Store, assets assetstore.Store) *Console {
	flavors := NewFlavors(docs, assets)
	brands := NewBrands(docs, assets, flavors)
	flavors.setBrands(brands)

	return &Console{
		Docs:      docs,
		Assets:    assets,
		Brands:    brands,
		Flavors:   flavors,
		Customers: NewCustomers(docs, assets),
		Ads:       NewAds(docs, assets),
		Nutrients: NewNutrients(docs, flavors),
		Reports:   NewReports(docs),
	}
}

// Pricing returns a fresh pricing grid over the flavor list.
func (c *Console) Pricing() *PricingGrid {
	return NewPricingGrid(c.Flavors)
}

// Caches lists the entity caches, for subscribers that fan out changes.
func (c *Console) Caches() []*crud.ListCache {
	return []*crud.ListCache{c.Brands.Cache, c.Flavors.Cache, c.Customers.Cache, c.Ads.Cache}
}

// LoadAll loads the entity caches concurrently.
func (c *Console) LoadAll(ctx context.Context) error {
	p := pool.New().WithErrors().WithContext(ctx)
	for _, cache := range c.Caches() {
		p.Go(func(ctx context.Context) error {
			return cache.Load(ctx)
		})
	}

	return p.Wait()
}
