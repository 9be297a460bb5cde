package console

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/vendingops/vmconsole/pkg/crud"
	"github.com/vendingops/vmconsole/pkg/docstore"
	"github.com/vendingops/vmconsole/pkg/vmmodel"
)

const topSellingCount = 5

type Reports struct {
	docs docstore.Store
}

func NewReports(docs docstore.Store) *Reports {
	return &Reports{docs: docs}
}

type TransactionSummary struct {
	Success        int               `json:"success"`
	Failed         int               `json:"failed"`
	Total          int               `json:"total"`
	SuccessPercent float64           `json:"successPercent"`
	FailedPercent  float64           `json:"failedPercent"`
	Revenue        float64           `json:"revenue"`
	Transactions   []vmmodel.Payment `json:"transactions"`
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*10000) / 100
}

// TransactionSummary counts successful and failed payments. Payments with
// any other status are listed but not counted. Revenue sums the successful
// amounts. Transactions are newest first.
func (r *Reports) TransactionSummary(ctx context.Context) (TransactionSummary, error) {
	docs, err := r.docs.List(ctx, vmmodel.PaymentsCollection)
	if err != nil {
		return TransactionSummary{}, err
	}

	payments := vmmodel.DecodeAll[vmmodel.Payment](vmmodel.PaymentsCollection, docs)
	sort.SliceStable(payments, func(i, j int) bool { return payments[i].Timestamp > payments[j].Timestamp })

	s := TransactionSummary{Transactions: payments}
	for _, p := range payments {
		switch p.Status {
		case vmmodel.PaymentSuccess:
			s.Success++
			s.Revenue += p.Amount
		case vmmodel.PaymentFailed:
			s.Failed++
		}
	}
	s.Total = s.Success + s.Failed
	s.SuccessPercent = percent(s.Success, s.Total)
	s.FailedPercent = percent(s.Failed, s.Total)

	return s, nil
}

type RevenuePoint struct {
	Brand  string  `json:"brand"`
	Amount float64 `json:"amount"`
}

type FlavorStock struct {
	Flavor     string `json:"flavor"`
	Supplement string `json:"supplement"`
	Percentage int    `json:"percentage"`
	Count      int    `json:"count"`
	Color      string `json:"color"`
}

type BrandStock struct {
	Brand   string        `json:"brand"`
	Flavors []FlavorStock `json:"flavors"`
}

type TopProduct struct {
	Brand      string `json:"brand"`
	Flavor     string `json:"flavor"`
	Supplement string `json:"supplement"`
	Count      int    `json:"count"`
}

type Dashboard struct {
	Period  string         `json:"period"`
	Revenue []RevenuePoint `json:"revenue"`
	Stock   []BrandStock   `json:"stock"`
	Top     []TopProduct   `json:"top"`
}

// Periods lists the revenue periods the dashboard accepts.
var Periods = []string{"daily", "weekly", "monthly", "yearly"}

// ColorForPercentage buckets a remaining stock level for display.
func ColorForPercentage(p int) string {
	switch {
	case p <= 0:
		return "#ccc"
	case p <= 30:
		return "#f44336"
	case p <= 70:
		return "#ffeb3b"
	default:
		return "#4caf50"
	}
}

// Dashboard builds the overview for a revenue period. The top products are
// those with the lowest remaining stock, meaning the most sold.
func (r *Reports) Dashboard(period string) (Dashboard, error) {
	if period == "" {
		period = "daily"
	}

	points, ok := sampleRevenue[period]
	if !ok {
		return Dashboard{}, &crud.ValidationError{Invalid: map[string]string{"period": fmt.Sprintf("must be one of %v", Periods)}}
	}

	d := Dashboard{Period: period}
	for _, p := range points {
		d.Revenue = append(d.Revenue, RevenuePoint{Brand: p.brand, Amount: p.amount})
	}

	var all []TopProduct
	var levels []int
	for _, b := range sampleStock {
		stock := BrandStock{Brand: b.Brand}
		for _, f := range b.Flavors {
			f.Color = ColorForPercentage(f.Percentage)
			stock.Flavors = append(stock.Flavors, f)
			all = append(all, TopProduct{Brand: b.Brand, Flavor: f.Flavor, Supplement: f.Supplement, Count: f.Count})
			levels = append(levels, f.Percentage)
		}
		d.Stock = append(d.Stock, stock)
	}

	idx := make([]int, len(all))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return levels[idx[i]] < levels[idx[j]] })
	for _, i := range idx[:min(topSellingCount, len(idx))] {
		d.Top = append(d.Top, all[i])
	}

	return d, nil
}
