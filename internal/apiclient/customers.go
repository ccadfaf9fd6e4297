package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"winsbygroup.com/crmweb/internal/models"
)

// CustomerAPI is the customer half of the API, as consumed by controllers
type CustomerAPI interface {
	ListCustomers(ctx context.Context, p models.ListParams) (*models.CustomerPage, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	CreateCustomer(ctx context.Context, in models.CustomerInput) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, in models.CustomerInput) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

var _ CustomerAPI = (*Client)(nil)

func customerPath(id int64) string {
	return "/customers/" + strconv.FormatInt(id, 10)
}

// ListCustomers fetches one page of customers matching the search and city filters
func (c *Client) ListCustomers(ctx context.Context, p models.ListParams) (*models.CustomerPage, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.City != "" {
		q.Set("city", p.City)
	}

	var out models.CustomerPage
	err := c.do(ctx, call{
		op:     "ListCustomers",
		method: http.MethodGet,
		route:  "/customers",
		path:   "/customers",
		query:  q,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []models.Customer{}
	}
	return &out, nil
}

// GetCustomer fetches a single customer
func (c *Client) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	var out envelope[models.Customer]
	err := c.do(ctx, call{
		op:     "GetCustomer",
		method: http.MethodGet,
		route:  "/customers/{id}",
		path:   customerPath(id),
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.value.ID == 0 {
		return nil, fmt.Errorf("GetCustomer %d: %w", id, ErrNotFound)
	}
	return &out.value, nil
}

// CreateCustomer creates a customer and returns the stored record
func (c *Client) CreateCustomer(ctx context.Context, in models.CustomerInput) (*models.Customer, error) {
	var out envelope[models.Customer]
	err := c.do(ctx, call{
		op:     "CreateCustomer",
		method: http.MethodPost,
		route:  "/customers",
		path:   "/customers",
		body:   in,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.value, nil
}

// UpdateCustomer replaces a customer's editable fields
func (c *Client) UpdateCustomer(ctx context.Context, id int64, in models.CustomerInput) (*models.Customer, error) {
	var out envelope[models.Customer]
	err := c.do(ctx, call{
		op:     "UpdateCustomer",
		method: http.MethodPut,
		route:  "/customers/{id}",
		path:   customerPath(id),
		body:   in,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.value, nil
}

// DeleteCustomer deletes a customer; the server removes its addresses too
func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.do(ctx, call{
		op:     "DeleteCustomer",
		method: http.MethodDelete,
		route:  "/customers/{id}",
		path:   customerPath(id),
	}, nil)
}
