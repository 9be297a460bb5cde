package webapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vendingops/vmconsole/pkg/console"
	"github.com/vendingops/vmconsole/pkg/crud"
)

type EntityService interface {
	Schema() crud.Schema
	List(ctx context.Context) ([]crud.Entity, error)
	Get(ctx context.Context, id string) (crud.Entity, error)
	Create(ctx context.Context, ch console.Change) (crud.Entity, error)
	Update(ctx context.Context, id string, ch console.Change) (crud.Entity, error)
	Delete(ctx context.Context, id string) (crud.BatchResult, error)
}

// EntityController serves list/get/create/update/delete for one collection.
type EntityController struct {
	svc EntityService
}

func NewEntityController(svc EntityService) *EntityController {
	return &EntityController{svc: svc}
}

func (c *EntityController) Index(ctx echo.Context) error {
	entities, err := c.svc.List(ctx.Request().Context())
	if err != nil {
		return respondWithError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, entitiesJSON(entities))
}

func (c *EntityController) Show(ctx echo.Context) error {
	e, err := c.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return respondWithError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, entityJSON(e))
}

func (c *EntityController) Create(ctx echo.Context) error {
	ch, err := changeFromRequest(ctx, c.svc.Schema())
	if err != nil {
		return respondWithError(ctx, err)
	}

	e, err := c.svc.Create(ctx.Request().Context(), ch)
	if err != nil {
		return respondWithError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, entityJSON(e))
}

// Update returns the entity even when a cascade to dependents partly
// failed; the error then explains which dependents were left behind.
func (c *EntityController) Update(ctx echo.Context) error {
	ch, err := changeFromRequest(ctx, c.svc.Schema())
	if err != nil {
		return respondWithError(ctx, err)
	}

	e, err := c.svc.Update(ctx.Request().Context(), ctx.Param("id"), ch)
	switch {
	case err != nil && e.ID != "":
		return ctx.JSON(statusFor(err), map[string]any{"error": err.Error(), "entity": entityJSON(e)})
	case err != nil:
		return respondWithError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, entityJSON(e))
}

func (c *EntityController) Delete(ctx echo.Context) error {
	result, err := c.svc.Delete(ctx.Request().Context(), ctx.Param("id"))
	if err != nil && result.Op == "" {
		return respondWithError(ctx, err)
	}

	return respondWithBatch(ctx, result, err)
}

type FlavorController struct {
	*EntityController
	flavors *console.Flavors
}

func NewFlavorController(flavors *console.Flavors) *FlavorController {
	return &FlavorController{EntityController: NewEntityController(flavors), flavors: flavors}
}

func (c *FlavorController) Grouped(ctx echo.Context) error {
	groups, err := c.flavors.Grouped(ctx.Request().Context())
	if err != nil {
		return respondWithError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, groups)
}

type CustomerController struct {
	*EntityController
	customers *console.Customers
}

func NewCustomerController(customers *console.Customers) *CustomerController {
	return &CustomerController{EntityController: NewEntityController(customers), customers: customers}
}

func (c *CustomerController) Stats(ctx echo.Context) error {
	stats, err := c.customers.Stats(ctx.Request().Context())
	if err != nil {
		return respondWithError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, stats)
}
