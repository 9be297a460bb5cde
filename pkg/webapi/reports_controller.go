package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vendingops/vmconsole/pkg/console"
)

type ReportsController struct {
	reports *console.Reports
}

func NewReportsController(reports *console.Reports) *ReportsController {
	return &ReportsController{reports: reports}
}

func (c *ReportsController) Transactions(ctx echo.Context) error {
	summary, err := c.reports.TransactionSummary(ctx.Request().Context())
	if err != nil {
		return respondWithError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, summary)
}

func (c *ReportsController) Dashboard(ctx echo.Context) error {
	d, err := c.reports.Dashboard(ctx.QueryParam("period"))
	if err != nil {
		return respondWithError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, d)
}

func Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
