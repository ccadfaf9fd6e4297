package devapi

import (
	"context"
	"fmt"
	"strings"

	"winsbygroup.com/crmweb/internal/address"
	"winsbygroup.com/crmweb/internal/customer"
	"winsbygroup.com/crmweb/internal/models"
	"winsbygroup.com/crmweb/internal/sqlite"
	"winsbygroup.com/crmweb/internal/validation"
)

const (
	defaultLimit = models.ListPageSize
	maxLimit     = 100
)

type Service struct {
	customers *customer.Service
	addresses *address.Service
}

func NewService(c *customer.Service, a *address.Service) *Service {
	return &Service{
		customers: c,
		addresses: a,
	}
}

// -------------------------
// Customers
// -------------------------

func (s *Service) ListCustomers(ctx context.Context, p models.ListParams) (*models.CustomerPage, error) {
	page, limit := p.Page, p.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	rows, total, err := s.customers.List(ctx, customer.Filter{
		Search: p.Search,
		City:   p.City,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	out := &models.CustomerPage{
		Data: make([]models.Customer, 0, len(rows)),
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}
	for i := range rows {
		out.Data = append(out.Data, toCustomer(&rows[i]))
	}
	return out, nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	c, err := s.customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toCustomer(c)
	return &out, nil
}

func (s *Service) CreateCustomer(ctx context.Context, in models.CustomerInput) (*models.Customer, error) {
	c, err := checkCustomer(in)
	if err != nil {
		return nil, err
	}
	created, err := s.customers.Create(ctx, c)
	if err != nil {
		return nil, mapUnique(err)
	}
	out := toCustomer(created)
	return &out, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, in models.CustomerInput) (*models.Customer, error) {
	c, err := checkCustomer(in)
	if err != nil {
		return nil, err
	}
	c.CustomerID = id
	updated, err := s.customers.Update(ctx, c)
	if err != nil {
		return nil, mapUnique(err)
	}
	out := toCustomer(updated)
	return &out, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	return s.customers.Delete(ctx, id)
}

// -------------------------
// Addresses
// -------------------------

func (s *Service) ListAddresses(ctx context.Context, customerID int64) ([]models.Address, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	rows, err := s.addresses.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Address, 0, len(rows))
	for i := range rows {
		out = append(out, toAddress(&rows[i]))
	}
	return out, nil
}

func (s *Service) GetAddress(ctx context.Context, id int64) (*models.Address, error) {
	a, err := s.addresses.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toAddress(a)
	return &out, nil
}

func (s *Service) CreateAddress(ctx context.Context, customerID int64, in models.AddressInput) (*models.Address, error) {
	a, err := checkAddress(in)
	if err != nil {
		return nil, err
	}
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	a.CustomerID = customerID
	created, err := s.addresses.Create(ctx, a)
	if sqlite.IsForeignKeyError(err) {
		// customer deleted since the existence check
		return nil, fmt.Errorf("%w (%d)", customer.ErrNotFound, customerID)
	}
	if err != nil {
		return nil, err
	}
	out := toAddress(created)
	return &out, nil
}

func (s *Service) UpdateAddress(ctx context.Context, id int64, in models.AddressInput) (*models.Address, error) {
	a, err := checkAddress(in)
	if err != nil {
		return nil, err
	}
	a.AddressID = id
	updated, err := s.addresses.Update(ctx, a)
	if err != nil {
		return nil, err
	}
	out := toAddress(updated)
	return &out, nil
}

func (s *Service) DeleteAddress(ctx context.Context, id int64) error {
	return s.addresses.Delete(ctx, id)
}

func (s *Service) requireCustomer(ctx context.Context, id int64) error {
	ok, err := s.customers.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w (%d)", customer.ErrNotFound, id)
	}
	return nil
}

// -------------------------
// Mapping
// -------------------------

func checkCustomer(in models.CustomerInput) (*customer.Customer, error) {
	errs := validation.Customer(map[string]string{
		validation.FirstName:   in.FirstName,
		validation.LastName:    in.LastName,
		validation.PhoneNumber: in.PhoneNumber,
	})
	if err := newInvalid(validation.CustomerFields, errs); err != nil {
		return nil, err
	}
	return &customer.Customer{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		PhoneNumber: validation.Digits(in.PhoneNumber),
	}, nil
}

func checkAddress(in models.AddressInput) (*address.Address, error) {
	errs := validation.Address(map[string]string{
		validation.AddressDetails: in.AddressDetails,
		validation.City:           in.City,
		validation.State:          in.State,
		validation.PinCode:        in.PinCode,
	})
	if err := newInvalid(validation.AddressFields, errs); err != nil {
		return nil, err
	}
	return &address.Address{
		AddressDetails: strings.TrimSpace(in.AddressDetails),
		City:           strings.TrimSpace(in.City),
		State:          strings.TrimSpace(in.State),
		PinCode:        in.PinCode,
	}, nil
}

func mapUnique(err error) error {
	if sqlite.IsUniqueConstraintError(err) {
		return errDuplicatePhone
	}
	return err
}

func toCustomer(c *customer.Customer) models.Customer {
	return models.Customer{
		ID:           c.CustomerID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		PhoneNumber:  c.PhoneNumber,
		AddressCount: c.AddressCount,
		CreatedAt:    c.CreatedAt,
	}
}

func toAddress(a *address.Address) models.Address {
	return models.Address{
		ID:             a.AddressID,
		CustomerID:     a.CustomerID,
		AddressDetails: a.AddressDetails,
		City:           a.City,
		State:          a.State,
		PinCode:        a.PinCode,
	}
}
