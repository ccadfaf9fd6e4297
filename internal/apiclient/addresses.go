package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"winsbygroup.com/crmweb/internal/models"
)

// AddressAPI is the address half of the API, as consumed by controllers
type AddressAPI interface {
	ListAddresses(ctx context.Context, customerID int64) ([]models.Address, error)
	GetAddress(ctx context.Context, id int64) (*models.Address, error)
	CreateAddress(ctx context.Context, customerID int64, in models.AddressInput) (*models.Address, error)
	UpdateAddress(ctx context.Context, id int64, in models.AddressInput) (*models.Address, error)
	DeleteAddress(ctx context.Context, id int64) error
}

var _ AddressAPI = (*Client)(nil)

func addressPath(id int64) string {
	return "/addresses/" + strconv.FormatInt(id, 10)
}

// ListAddresses fetches every address owned by a customer
func (c *Client) ListAddresses(ctx context.Context, customerID int64) ([]models.Address, error) {
	var out envelope[[]models.Address]
	err := c.do(ctx, call{
		op:     "ListAddresses",
		method: http.MethodGet,
		route:  "/customers/{id}/addresses",
		path:   customerPath(customerID) + "/addresses",
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.value == nil {
		return []models.Address{}, nil
	}
	return out.value, nil
}

// GetAddress fetches a single address
func (c *Client) GetAddress(ctx context.Context, id int64) (*models.Address, error) {
	var out envelope[models.Address]
	err := c.do(ctx, call{
		op:     "GetAddress",
		method: http.MethodGet,
		route:  "/addresses/{id}",
		path:   addressPath(id),
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.value.ID == 0 {
		return nil, fmt.Errorf("GetAddress %d: %w", id, ErrNotFound)
	}
	return &out.value, nil
}

// CreateAddress adds an address to a customer
func (c *Client) CreateAddress(ctx context.Context, customerID int64, in models.AddressInput) (*models.Address, error) {
	var out envelope[models.Address]
	err := c.do(ctx, call{
		op:     "CreateAddress",
		method: http.MethodPost,
		route:  "/customers/{id}/addresses",
		path:   customerPath(customerID) + "/addresses",
		body:   in,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.value, nil
}

// UpdateAddress replaces an address's fields
func (c *Client) UpdateAddress(ctx context.Context, id int64, in models.AddressInput) (*models.Address, error) {
	var out envelope[models.Address]
	err := c.do(ctx, call{
		op:     "UpdateAddress",
		method: http.MethodPut,
		route:  "/addresses/{id}",
		path:   addressPath(id),
		body:   in,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.value, nil
}

// DeleteAddress deletes a single address
func (c *Client) DeleteAddress(ctx context.Context, id int64) error {
	return c.do(ctx, call{
		op:     "DeleteAddress",
		method: http.MethodDelete,
		route:  "/addresses/{id}",
		path:   addressPath(id),
	}, nil)
}
