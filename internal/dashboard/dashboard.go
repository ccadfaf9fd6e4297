// Package dashboard builds the landing page summary.
package dashboard

import (
	"context"

	"winsbygroup.com/crmweb/internal/apiclient"
	"winsbygroup.com/crmweb/internal/models"
)

// Summary is the data shown on the dashboard
type Summary struct {
	TotalCustomers int
	// TotalAddresses sums address_count over the recent customers only; the
	// API has no address total.
	TotalAddresses int
	Recent         []models.Customer
}

// Load fetches the first dashboard page of customers and summarises it
func Load(ctx context.Context, api apiclient.CustomerAPI) (Summary, error) {
	page, err := api.ListCustomers(ctx, models.ListParams{Page: 1, Limit: models.DashboardPageSize})
	if err != nil {
		return Summary{}, err
	}

	recent := page.Data
	if len(recent) > models.DashboardPageSize {
		recent = recent[:models.DashboardPageSize]
	}

	s := Summary{
		TotalCustomers: page.Pagination.Total,
		Recent:         recent,
	}
	for _, c := range page.Data {
		s.TotalAddresses += c.AddressCount
	}
	return s, nil
}
