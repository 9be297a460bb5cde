package webapi

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/vendingops/vmconsole/pkg/console"
)

// NutrientsController drives the shared nutrient grid. Requests that edit
// the grid are serialized so one request's cells never mix with another's.
type NutrientsController struct {
	mu        sync.Mutex
	nutrients *console.Nutrients
}

func NewNutrientsController(nutrients *console.Nutrients) *NutrientsController {
	return &NutrientsController{nutrients: nutrients}
}

func (c *NutrientsController) Index(ctx echo.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.nutrients.Load(ctx.Request().Context()); err != nil {
		return respondWithError(ctx, err)
	}

	major, minor, err := c.nutrients.Columns(ctx.Request().Context())
	if err != nil {
		return respondWithError(ctx, err)
	}

	rows, err := c.nutrients.Rows(ctx.Request().Context())
	if err != nil {
		return respondWithError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"major": major,
		"minor": minor,
		"rows":  rows,
	})
}

func (c *NutrientsController) AddName(ctx echo.Context) error {
	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.nutrients.Load(ctx.Request().Context()); err != nil {
		return respondWithError(ctx, err)
	}

	col, err := c.nutrients.AddColumn(ctx.Request().Context(), req.Type, req.Name)
	if err != nil {
		return respondWithError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, col)
}

// DeleteName removes a column and rewrites the rows that held a value in
// it.
func (c *NutrientsController) DeleteName(ctx echo.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	reqCtx := ctx.Request().Context()
	if err := c.nutrients.Load(reqCtx); err != nil {
		return respondWithError(ctx, err)
	}
	if err := c.nutrients.DeleteColumn(reqCtx, ctx.Param("type"), ctx.Param("id")); err != nil {
		return respondWithError(ctx, err)
	}

	if err := c.nutrients.BeginEdit(reqCtx); err != nil {
		return respondWithError(ctx, err)
	}

	result, err := c.nutrients.SaveAll(reqCtx)
	return respondWithBatch(ctx, result, err)
}

func (c *NutrientsController) Save(ctx echo.Context) error {
	var req struct {
		Cells []console.NutrientCell `json:"cells"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	reqCtx := ctx.Request().Context()
	if err := c.nutrients.Load(reqCtx); err != nil {
		return respondWithError(ctx, err)
	}
	if err := c.nutrients.BeginEdit(reqCtx); err != nil {
		return respondWithError(ctx, err)
	}

	for _, cell := range req.Cells {
		if err := c.nutrients.SetCell(cell); err != nil {
			c.nutrients.Cancel()
			return respondWithError(ctx, err)
		}
	}

	result, err := c.nutrients.SaveAll(reqCtx)
	if err != nil && result.Op == "" {
		return respondWithError(ctx, err)
	}

	return respondWithBatch(ctx, result, err)
}

