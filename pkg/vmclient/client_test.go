package vmclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vendingops/vmconsole/pkg/console"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "secret")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListBrandsSendsAPIKey(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/brands", r.URL.Path)
		if r.Header.Get("X-API-Key") != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "b1", "name": "Optimum"}})
	})

	brands, err := c.ListBrands(context.Background())
	require.NoError(t, err)
	require.Len(t, brands, 1)
	require.Equal(t, "b1", brands[0].ID)
	require.Equal(t, "Optimum", brands[0].Name)
}

func TestCreateBrandValidationError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "missing": []string{"name"}})
	})

	_, err := c.CreateBrand(context.Background(), "")
	require.ErrorIs(t, err, ErrAPI)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, []string{"name"}, apiErr.Response.Missing)
}

func TestDeleteBrandPartialReport(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/brands/b1", r.URL.Path)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"op":     "delete-dependents",
			"status": "partial",
			"error":  "1 of 2 rows failed",
			"outcomes": []map[string]any{
				{"id": "f1"},
				{"id": "f2", "error": "permission denied"},
			},
		})
	})

	report, err := c.DeleteBrand(context.Background(), "b1")
	require.ErrorIs(t, err, ErrAPI)
	require.Equal(t, "partial", report.Status)
	require.Len(t, report.Outcomes, 2)
	require.Equal(t, "permission denied", report.Outcomes[1].Error)
}

func TestSavePricing(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Rows []console.PricingEdit `json:"rows"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Rows, 1)
		require.Equal(t, 99.0, *req.Rows[0].Price)
		writeJSON(w, http.StatusOK, map[string]any{"op": "save-pricing", "status": "complete", "outcomes": []map[string]any{{"id": "f1"}}})
	})

	price := 99.0
	report, err := c.SavePricing(context.Background(), []console.PricingEdit{{FlavorID: "f1", Price: &price}})
	require.NoError(t, err)
	require.Equal(t, "complete", report.Status)
}

func TestDashboardAndNonJSONError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("period") == "weekly" {
			writeJSON(w, http.StatusOK, map[string]any{"period": "weekly"})
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	d, err := c.Dashboard(context.Background(), "weekly")
	require.NoError(t, err)
	require.Equal(t, "weekly", d.Period)

	_, err = c.Dashboard(context.Background(), "daily")
	require.ErrorIs(t, err, ErrAPI)
}
