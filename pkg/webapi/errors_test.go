package webapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendingops/vmconsole/pkg/crud"
	"github.com/vendingops/vmconsole/pkg/docstore"
)

func TestStatusFor(t *testing.T) {
	partial := &crud.PartialCascadeFailure{Op: "rename", Total: 2, Succeeded: 1, Failed: []crud.RowOutcome{{ID: "f2", Err: docstore.ErrPermissionDenied}}}

	tests := []struct {
		err  error
		want int
	}{
		{&crud.ValidationError{Missing: []string{"name"}}, http.StatusBadRequest},
		{fmt.Errorf("flavor x: %w", crud.ErrNotFound), http.StatusNotFound},
		{&crud.StoreWriteError{Op: "update", Err: docstore.ErrPermissionDenied}, http.StatusForbidden},
		{crud.ErrSubmitInProgress, http.StatusConflict},
		{fmt.Errorf("%w: %w", crud.ErrStoreUnavailable, errors.New("dial tcp")), http.StatusServiceUnavailable},
		{partial, http.StatusBadGateway},
		{&crud.OrphanedAssetError{Key: "k", Err: errors.New("boom")}, http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{echo.NewHTTPError(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge},
		{errors.New("?"), http.StatusInternalServerError},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, statusFor(test.err), "%v", test.err)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ctx, rec := setupEchoContext(t, http.MethodGet, "/api/health", nil, nil)
	ctx.SetPath("/api/health")
	require.NoError(t, m.Middleware()(Health)(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/health", http.MethodGet, "200")))

	ctx, rec = setupEchoContext(t, http.MethodGet, "/metrics", nil, nil)
	require.NoError(t, m.Handler()(ctx))
	require.Contains(t, rec.Body.String(), "vmconsole_http_requests_total")
}
