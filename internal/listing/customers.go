package listing

import (
	"context"
	"fmt"

	"winsbygroup.com/crmweb/internal/apiclient"
	"winsbygroup.com/crmweb/internal/models"
)

type customerSource struct {
	api   apiclient.CustomerAPI
	limit int
}

// NewCustomers creates the paged, filterable customer list
func NewCustomers(api apiclient.CustomerAPI) *Controller[models.Customer] {
	return New[models.Customer](customerSource{api: api, limit: models.ListPageSize})
}

func (s customerSource) Fetch(ctx context.Context, q Query) (Fetched[models.Customer], error) {
	page, err := s.api.ListCustomers(ctx, models.ListParams{
		Page:   q.Page,
		Limit:  s.limit,
		Search: q.Search,
		City:   q.City,
	})
	if err != nil {
		return Fetched[models.Customer]{}, err
	}
	p := page.Pagination
	return Fetched[models.Customer]{Items: page.Data, Pagination: &p}, nil
}

func (s customerSource) Delete(ctx context.Context, id int64) error {
	return s.api.DeleteCustomer(ctx, id)
}

func (customerSource) ID(c models.Customer) int64 {
	return c.ID
}

func (customerSource) ConfirmMessage(c models.Customer) string {
	return CustomerConfirmMessage(c)
}

// CustomerConfirmMessage is the question asked before deleting c
func CustomerConfirmMessage(c models.Customer) string {
	return fmt.Sprintf("Are you sure you want to delete %s? This will also delete all their addresses.", c.FullName())
}

func (customerSource) Messages() Messages {
	return Messages{
		FetchFailed:  "Failed to fetch customers",
		DeleteFailed: "Failed to delete customer",
	}
}
