// Package apiclienttest provides an in-memory stand-in for the CRM API.
package apiclienttest

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"winsbygroup.com/crmweb/internal/apiclient"
	"winsbygroup.com/crmweb/internal/models"
)

// Fake implements apiclient.CustomerAPI and apiclient.AddressAPI in memory
type Fake struct {
	mu        sync.Mutex
	customers map[int64]models.Customer
	addresses map[int64]models.Address
	nextID    int64
	calls     []string
	errs      map[string]error

	// BeforeList, when set, runs at the start of ListCustomers outside the lock.
	// Tests use it to hold a response back.
	BeforeList func(ctx context.Context, p models.ListParams)
}

var (
	_ apiclient.CustomerAPI = (*Fake)(nil)
	_ apiclient.AddressAPI  = (*Fake)(nil)
)

// New creates an empty fake
func New() *Fake {
	return &Fake{
		customers: make(map[int64]models.Customer),
		addresses: make(map[int64]models.Address),
		errs:      make(map[string]error),
	}
}

// FailWith makes every call to op return err until cleared with a nil err
func (f *Fake) FailWith(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, op)
		return
	}
	f.errs[op] = err
}

// Calls returns the operations invoked so far, in order
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// AddCustomer stores a customer directly and returns it with its id
func (f *Fake) AddCustomer(first, last, phone string) models.Customer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := models.Customer{
		ID:          f.nextID,
		FirstName:   first,
		LastName:    last,
		PhoneNumber: phone,
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Hour),
	}
	f.customers[c.ID] = c
	return c
}

// AddAddress stores an address directly and returns it with its id
func (f *Fake) AddAddress(customerID int64, details, city, state, pin string) models.Address {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	a := models.Address{
		ID:             f.nextID,
		CustomerID:     customerID,
		AddressDetails: details,
		City:           city,
		State:          state,
		PinCode:        pin,
	}
	f.addresses[a.ID] = a
	return a
}

// HasAddress reports whether the address is still stored, bypassing the API
func (f *Fake) HasAddress(id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.addresses[id]
	return ok
}

func (f *Fake) begin(op string) error {
	f.calls = append(f.calls, op)
	return f.errs[op]
}

func notFound(op, what string) error {
	return &apiclient.HTTPError{Op: op, Status: http.StatusNotFound, Message: what + " not found"}
}

func (f *Fake) withCount(c models.Customer) models.Customer {
	c.AddressCount = 0
	for _, a := range f.addresses {
		if a.CustomerID == c.ID {
			c.AddressCount++
		}
	}
	return c
}

func (f *Fake) matches(c models.Customer, p models.ListParams) bool {
	if s := strings.ToLower(p.Search); s != "" {
		hay := strings.ToLower(c.FirstName + " " + c.LastName + " " + c.PhoneNumber)
		if !strings.Contains(hay, s) {
			return false
		}
	}
	if city := strings.ToLower(p.City); city != "" {
		for _, a := range f.addresses {
			if a.CustomerID == c.ID && strings.Contains(strings.ToLower(a.City), city) {
				return true
			}
		}
		return false
	}
	return true
}

func (f *Fake) ListCustomers(ctx context.Context, p models.ListParams) (*models.CustomerPage, error) {
	if f.BeforeList != nil {
		f.BeforeList(ctx, p)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("ListCustomers"); err != nil {
		return nil, err
	}

	page, limit := p.Page, p.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = models.ListPageSize
	}

	var all []models.Customer
	for _, c := range f.customers {
		if f.matches(c, p) {
			all = append(all, f.withCount(c))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := len(all)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &models.CustomerPage{
		Data: append([]models.Customer{}, all[start:end]...),
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

func (f *Fake) GetCustomer(_ context.Context, id int64) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("GetCustomer"); err != nil {
		return nil, err
	}
	c, ok := f.customers[id]
	if !ok {
		return nil, notFound("GetCustomer", "Customer")
	}
	c = f.withCount(c)
	return &c, nil
}

func (f *Fake) CreateCustomer(_ context.Context, in models.CustomerInput) (*models.Customer, error) {
	f.mu.Lock()
	if err := f.begin("CreateCustomer"); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.mu.Unlock()
	c := f.AddCustomer(in.FirstName, in.LastName, in.PhoneNumber)
	return &c, nil
}

func (f *Fake) UpdateCustomer(_ context.Context, id int64, in models.CustomerInput) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("UpdateCustomer"); err != nil {
		return nil, err
	}
	c, ok := f.customers[id]
	if !ok {
		return nil, notFound("UpdateCustomer", "Customer")
	}
	c.FirstName, c.LastName, c.PhoneNumber = in.FirstName, in.LastName, in.PhoneNumber
	f.customers[id] = c
	c = f.withCount(c)
	return &c, nil
}

func (f *Fake) DeleteCustomer(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("DeleteCustomer"); err != nil {
		return err
	}
	if _, ok := f.customers[id]; !ok {
		return notFound("DeleteCustomer", "Customer")
	}
	delete(f.customers, id)
	for aid, a := range f.addresses {
		if a.CustomerID == id {
			delete(f.addresses, aid)
		}
	}
	return nil
}

func (f *Fake) ListAddresses(_ context.Context, customerID int64) ([]models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("ListAddresses"); err != nil {
		return nil, err
	}
	if _, ok := f.customers[customerID]; !ok {
		return nil, notFound("ListAddresses", "Customer")
	}
	out := []models.Address{}
	for _, a := range f.addresses {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *Fake) GetAddress(_ context.Context, id int64) (*models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("GetAddress"); err != nil {
		return nil, err
	}
	a, ok := f.addresses[id]
	if !ok {
		return nil, notFound("GetAddress", "Address")
	}
	return &a, nil
}

func (f *Fake) CreateAddress(_ context.Context, customerID int64, in models.AddressInput) (*models.Address, error) {
	f.mu.Lock()
	if err := f.begin("CreateAddress"); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	_, ok := f.customers[customerID]
	f.mu.Unlock()
	if !ok {
		return nil, notFound("CreateAddress", "Customer")
	}
	a := f.AddAddress(customerID, in.AddressDetails, in.City, in.State, in.PinCode)
	return &a, nil
}

func (f *Fake) UpdateAddress(_ context.Context, id int64, in models.AddressInput) (*models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("UpdateAddress"); err != nil {
		return nil, err
	}
	a, ok := f.addresses[id]
	if !ok {
		return nil, notFound("UpdateAddress", "Address")
	}
	a.AddressDetails, a.City, a.State, a.PinCode = in.AddressDetails, in.City, in.State, in.PinCode
	f.addresses[id] = a
	return &a, nil
}

func (f *Fake) DeleteAddress(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("DeleteAddress"); err != nil {
		return err
	}
	if _, ok := f.addresses[id]; !ok {
		return notFound("DeleteAddress", "Address")
	}
	delete(f.addresses, id)
	return nil
}

// String summarises the fake's contents, for test failure messages
func (f *Fake) String() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fmt.Sprintf("Fake{customers: %d, addresses: %d}", len(f.customers), len(f.addresses))
}
