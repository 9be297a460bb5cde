// Package vmclient is a Go client for the console HTTP API.
package vmclient

import (
	"context"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/vendingops/vmconsole/pkg/console"
	"github.com/vendingops/vmconsole/pkg/vmmodel"
)

const apiKeyHeader = "X-API-Key"

type Client struct {
	http *resty.Client
}

func New(baseURL, apikey string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader(apiKeyHeader, apikey).
		SetTimeout(30 * time.Second)
	return &Client{http: c}
}

// BatchReport is the per-row result of a bulk write.
type BatchReport struct {
	Op       string `json:"op"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Outcomes []struct {
		ID    string `json:"id"`
		Error string `json:"error,omitempty"`
	} `json:"outcomes"`
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}

	if resp.IsError() {
		return toErrorFromResponse(resp)
	}

	return nil
}

// doBatch decodes the batch report even when the status is an error, since
// it still lists which rows were written.
func (c *Client) doBatch(ctx context.Context, method, path string, body any) (BatchReport, error) {
	var report BatchReport
	req := c.http.R().SetContext(ctx).SetResult(&report).SetError(&report)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return report, err
	}

	if resp.IsError() {
		return report, &APIError{StatusCode: resp.StatusCode(), Response: ErrorResponse{Error: report.Error}}
	}

	return report, nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, resty.MethodGet, "/api/health", nil, nil)
}

func (c *Client) ListBrands(ctx context.Context) ([]vmmodel.Brand, error) {
	var brands []vmmodel.Brand
	err := c.do(ctx, resty.MethodGet, "/api/brands", nil, &brands)
	return brands, err
}

func (c *Client) CreateBrand(ctx context.Context, name string) (vmmodel.Brand, error) {
	var brand vmmodel.Brand
	err := c.do(ctx, resty.MethodPost, "/api/brands", map[string]any{"name": name}, &brand)
	return brand, err
}

// RenameBrand renames a brand; its flavors follow.
func (c *Client) RenameBrand(ctx context.Context, id, name string) (vmmodel.Brand, error) {
	var brand vmmodel.Brand
	err := c.do(ctx, resty.MethodPut, "/api/brands/"+url.PathEscape(id), map[string]any{"name": name}, &brand)
	return brand, err
}

// DeleteBrand deletes a brand and its flavors.
func (c *Client) DeleteBrand(ctx context.Context, id string) (BatchReport, error) {
	return c.doBatch(ctx, resty.MethodDelete, "/api/brands/"+url.PathEscape(id), nil)
}

func (c *Client) ListFlavors(ctx context.Context) ([]vmmodel.Flavor, error) {
	var flavors []vmmodel.Flavor
	err := c.do(ctx, resty.MethodGet, "/api/flavors", nil, &flavors)
	return flavors, err
}

func (c *Client) GroupedFlavors(ctx context.Context) ([]console.FlavorGroup, error) {
	var groups []console.FlavorGroup
	err := c.do(ctx, resty.MethodGet, "/api/flavors/grouped", nil, &groups)
	return groups, err
}

func (c *Client) Pricing(ctx context.Context) ([]console.PricingRow, error) {
	var rows []console.PricingRow
	err := c.do(ctx, resty.MethodGet, "/api/pricing", nil, &rows)
	return rows, err
}

func (c *Client) SavePricing(ctx context.Context, edits []console.PricingEdit) (BatchReport, error) {
	return c.doBatch(ctx, resty.MethodPut, "/api/pricing", map[string]any{"rows": edits})
}

func (c *Client) TransactionSummary(ctx context.Context) (console.TransactionSummary, error) {
	var s console.TransactionSummary
	err := c.do(ctx, resty.MethodGet, "/api/reports/transactions", nil, &s)
	return s, err
}

func (c *Client) Dashboard(ctx context.Context, period string) (console.Dashboard, error) {
	var d console.Dashboard
	err := c.do(ctx, resty.MethodGet, "/api/reports/dashboard?period="+url.QueryEscape(period), nil, &d)
	return d, err
}
