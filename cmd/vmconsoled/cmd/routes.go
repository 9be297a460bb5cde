package cmd

import (
	"github.com/labstack/echo/v4"
	"github.com/vendingops/vmconsole/pkg/assetstore"
	"github.com/vendingops/vmconsole/pkg/auth"
	"github.com/vendingops/vmconsole/pkg/console"
	"github.com/vendingops/vmconsole/pkg/docstore"
	"github.com/vendingops/vmconsole/pkg/vmmodel"
	"github.com/vendingops/vmconsole/pkg/webapi"
)

type RouteOpts struct {
	console *console.Console
	docs    docstore.Store
	assets  assetstore.Store
	hub     *webapi.EventHub
	metrics *webapi.Metrics
}

func setupRoutes(e *echo.Echo, opts RouteOpts) {
	e.Use(opts.metrics.Middleware())
	e.GET("/metrics", opts.metrics.Handler())
	e.GET("/api/health", webapi.Health)

	if fs, ok := opts.assets.(*assetstore.FSStore); ok {
		e.Static("/assets", fs.Root())
	}

	apikeyCache := auth.NewAPIKeyCache(auth.NewUserLookup(opts.docs))
	g := e.Group("/api")
	g.Use(auth.APIKeyAuth(auth.APIKeyConfig{
		Skipper:      func(c echo.Context) bool { return c.Path() == "/api/health" },
		GetPrincipal: apikeyCache.GetPrincipalByAPIKey,
	}))
	g.Use(auth.RequireRole(vmmodel.RoleAdmin))

	vmc := opts.console

	brandController := webapi.NewEntityController(vmc.Brands)
	g.GET("/brands", brandController.Index)
	g.POST("/brands", brandController.Create)
	g.GET("/brands/:id", brandController.Show)
	g.PUT("/brands/:id", brandController.Update)
	g.DELETE("/brands/:id", brandController.Delete)

	flavorController := webapi.NewEntityController(vmc.Flavors)
	groupedFlavorController := webapi.NewFlavorController(vmc.Flavors)
	g.GET("/flavors", flavorController.Index)
	g.GET("/flavors/grouped", groupedFlavorController.Grouped)
	g.POST("/flavors", flavorController.Create)
	g.GET("/flavors/:id", flavorController.Show)
	g.PUT("/flavors/:id", flavorController.Update)
	g.DELETE("/flavors/:id", flavorController.Delete)

	customerController := webapi.NewEntityController(vmc.Customers)
	customerStatsController := webapi.NewCustomerController(vmc.Customers)
	g.GET("/customers", customerController.Index)
	g.GET("/customers/stats", customerStatsController.Stats)
	g.POST("/customers", customerController.Create)
	g.GET("/customers/:id", customerController.Show)
	g.PUT("/customers/:id", customerController.Update)
	g.DELETE("/customers/:id", customerController.Delete)

	pricingController := webapi.NewPricingController(vmc)
	g.GET("/pricing", pricingController.Index)
	g.PUT("/pricing", pricingController.Save)

	nutrientsController := webapi.NewNutrientsController(vmc.Nutrients)
	g.GET("/nutrients", nutrientsController.Index)
	g.PUT("/nutrients", nutrientsController.Save)
	g.POST("/nutrients/names", nutrientsController.AddName)
	g.DELETE("/nutrients/names/:type/:id", nutrientsController.DeleteName)

	adsController := webapi.NewAdsController(vmc.Ads)
	g.GET("/ads", adsController.Index)
	g.POST("/ads", adsController.Create)
	g.DELETE("/ads/:id", adsController.Delete)

	reportsController := webapi.NewReportsController(vmc.Reports)
	g.GET("/reports/transactions", reportsController.Transactions)
	g.GET("/reports/dashboard", reportsController.Dashboard)

	g.GET("/events", opts.hub.ServeWS)
}
