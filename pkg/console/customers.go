package console

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vendingops/vmconsole/pkg/assetstore"
	"github.com/vendingops/vmconsole/pkg/crud"
	"github.com/vendingops/vmconsole/pkg/docstore"
	"github.com/vendingops/vmconsole/pkg/vmmodel"
)

const dateLayout = time.DateOnly

var packagePattern = regexp.MustCompile(`^\s*(\d+)\s*(Year|Month)s?\b`)

// EndDate adds a subscription package such as "1 Year" or "6 Months" to a
// registration date. An unrecognised package ends on the start date.
func EndDate(start, subscriptionPackage string) (string, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(start))
	if err != nil {
		return "", err
	}

	if m := packagePattern.FindStringSubmatch(subscriptionPackage); m != nil {
		n, _ := strconv.Atoi(m[1])
		if m[2] == "Year" {
			t = t.AddDate(n, 0, 0)
		} else {
			t = t.AddDate(0, n, 0)
		}
	}

	return t.Format(dateLayout), nil
}

func CustomerSchema() crud.Schema {
	return crud.Schema{
		Collection:  vmmodel.CustomersCollection,
		Required:    []string{"fullName", "email", "membershipStatus", "subscriptionPackage", "dateOfRegistration"},
		NameField:   "fullName",
		AssetField:  "profilePicture",
		AssetPrefix: "profile_pics/",
		Validate: withModel[vmmodel.Customer](func(fields map[string]any) map[string]string {
			if d := crud.StringField(fields, "dateOfRegistration"); d != "" {
				if _, err := time.Parse(dateLayout, d); err != nil {
					return map[string]string{"dateOfRegistration": "must be a YYYY-MM-DD date"}
				}
			}
			return nil
		}),
		Prepare: func(fields map[string]any) error {
			end, err := EndDate(crud.StringField(fields, "dateOfRegistration"), crud.StringField(fields, "subscriptionPackage"))
			if err != nil {
				return err
			}
			fields["endDate"] = end
			return nil
		},
	}
}

type Customers struct {
	*Service
}

func NewCustomers(docs docstore.Store, assets assetstore.Store) *Customers {
	return &Customers{Service: newService(CustomerSchema(), docs, assets)}
}

func (c *Customers) Typed(ctx context.Context) ([]vmmodel.Customer, error) {
	entities, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	return vmmodel.DecodeAll[vmmodel.Customer](vmmodel.CustomersCollection, entities), nil
}

type CustomerStats struct {
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Total    int `json:"total"`
}

// Stats counts customers by membership status. Any status other than
// Active counts as inactive.
func (c *Customers) Stats(ctx context.Context) (CustomerStats, error) {
	entities, err := c.List(ctx)
	if err != nil {
		return CustomerStats{}, err
	}

	var s CustomerStats
	for _, e := range entities {
		if crud.StringField(e.Fields, "membershipStatus") == vmmodel.MembershipActive {
			s.Active++
		} else {
			s.Inactive++
		}
	}
	s.Total = len(entities)

	return s, nil
}
