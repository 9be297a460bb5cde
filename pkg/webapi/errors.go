// Package webapi holds the echo controllers of the console HTTP API.
package webapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vendingops/vmconsole/pkg/clog"
	"github.com/vendingops/vmconsole/pkg/crud"
	"github.com/vendingops/vmconsole/pkg/docstore"
)

func errorResponse(ctx echo.Context, code int, msg string) error {
	return ctx.JSON(code, map[string]string{"error": msg})
}

// statusFor maps a console error to the HTTP status it is reported with.
func statusFor(err error) int {
	var (
		verr    *crud.ValidationError
		partial *crud.PartialCascadeFailure
		werr    *crud.StoreWriteError
		orphan  *crud.OrphanedAssetError
		herr    *echo.HTTPError
	)

	switch {
	case errors.As(err, &herr):
		return herr.Code
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &partial):
		return http.StatusBadGateway
	case errors.Is(err, crud.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, crud.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, crud.ErrSubmitInProgress), errors.Is(err, crud.ErrNotDrafting):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, crud.ErrStoreUnavailable), errors.Is(err, docstore.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &werr), errors.As(err, &orphan):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError writes err as JSON. Validation errors carry the field
// lists so a form can mark them.
func respondWithError(ctx echo.Context, err error) error {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		clog.UsingCtx("http").WithField("path", ctx.Path()).Errorf("Request failed: %s", err)
	}

	var verr *crud.ValidationError
	if errors.As(err, &verr) {
		return ctx.JSON(code, map[string]any{
			"error":   err.Error(),
			"missing": verr.Missing,
			"invalid": verr.Invalid,
		})
	}

	return errorResponse(ctx, code, err.Error())
}

// respondWithBatch reports a batch. A batch error still carries the per-row
// outcomes so the caller can retry the failed rows.
func respondWithBatch(ctx echo.Context, result crud.BatchResult, err error) error {
	body := map[string]any{
		"op":       result.Op,
		"status":   result.Status(),
		"outcomes": result.Outcomes,
	}
	if result.Outcomes == nil {
		body["outcomes"] = []crud.RowOutcome{}
	}

	if err == nil {
		return ctx.JSON(http.StatusOK, body)
	}

	body["error"] = err.Error()
	return ctx.JSON(statusFor(err), body)
}
