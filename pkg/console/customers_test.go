package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendingops/vmconsole/pkg/crud"
)

func TestEndDate(t *testing.T) {
	tests := []struct {
		start, pkg, want string
	}{
		{"2024-01-15", "1 Year", "2025-01-15"},
		{"2024-01-15", "2 Years", "2026-01-15"},
		{"2024-01-15", "6 Months", "2024-07-15"},
		{"2024-01-31", "1 Month", "2024-03-02"},
		{"2024-01-15", "Lifetime", "2024-01-15"},
	}

	for _, test := range tests {
		got, err := EndDate(test.start, test.pkg)
		require.NoError(t, err)
		assert.Equal(t, test.want, got, "%s + %s", test.start, test.pkg)
	}

	_, err := EndDate("15/01/2024", "1 Year")
	require.Error(t, err)
}

func TestCustomerCreateDerivesEndDate(t *testing.T) {
	f := newFixture(t)

	e, err := f.c.Customers.Create(context.Background(), Change{Fields: map[string]any{
		"fullName":            "Asha Rao",
		"email":               "asha@example.com",
		"membershipStatus":    "Active",
		"subscriptionPackage": "3 Months",
		"dateOfRegistration":  "2024-05-01",
	}})
	require.NoError(t, err)
	require.Equal(t, "2024-08-01", e.Fields["endDate"])

	customers, err := f.c.Customers.Typed(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 1)
	require.Equal(t, "2024-08-01", customers[0].EndDate)

	_, err = f.c.Customers.Create(context.Background(), Change{Fields: map[string]any{
		"fullName":            "B",
		"email":               "b@example.com",
		"membershipStatus":    "Active",
		"subscriptionPackage": "1 Year",
		"dateOfRegistration":  "yesterday",
	}})
	var verr *crud.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Invalid, "dateOfRegistration")
}

func TestCustomerStats(t *testing.T) {
	f := newFixture(t)
	f.mem.Seed("customer", "c1", map[string]any{"fullName": "A", "membershipStatus": "Active"})
	f.mem.Seed("customer", "c2", map[string]any{"fullName": "B", "membershipStatus": "Inactive"})
	f.mem.Seed("customer", "c3", map[string]any{"fullName": "C", "membershipStatus": "Suspended"})

	stats, err := f.c.Customers.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, CustomerStats{Active: 1, Inactive: 2, Total: 3}, stats)
}
