package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vendingops/vmconsole/pkg/console"
)

type PricingController struct {
	console *console.Console
}

func NewPricingController(c *console.Console) *PricingController {
	return &PricingController{console: c}
}

func (c *PricingController) Index(ctx echo.Context) error {
	rows, err := c.console.Pricing().Rows(ctx.Request().Context())
	if err != nil {
		return respondWithError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, rows)
}

// Save applies the edited rows and writes the ones that changed.
func (c *PricingController) Save(ctx echo.Context) error {
	var req struct {
		Rows []console.PricingEdit `json:"rows"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	grid := c.console.Pricing()
	if err := grid.BeginEdit(ctx.Request().Context()); err != nil {
		return respondWithError(ctx, err)
	}

	for _, edit := range req.Rows {
		if err := grid.Edit(edit); err != nil {
			grid.Cancel()
			return respondWithError(ctx, err)
		}
	}

	result, err := grid.SaveAll(ctx.Request().Context())
	return respondWithBatch(ctx, result, err)
}
