package models

import "time"

// Customer is a customer record as served by the CRM API
type Customer struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PhoneNumber  string    `json:"phone_number"`
	AddressCount int       `json:"address_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// FullName returns "First Last"
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Address is a postal address belonging to a customer
type Address struct {
	ID             int64  `json:"id"`
	CustomerID     int64  `json:"customer_id"`
	AddressDetails string `json:"address_details"`
	City           string `json:"city"`
	State          string `json:"state"`
	PinCode        string `json:"pin_code"`
}

// CustomerInput is the request body for creating or updating a customer
type CustomerInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

// AddressInput is the request body for creating or updating an address
type AddressInput struct {
	AddressDetails string `json:"address_details"`
	City           string `json:"city"`
	State          string `json:"state"`
	PinCode        string `json:"pin_code"`
}

// Pagination is the paging metadata returned with a customer listing.
// Values always come from the server.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit,omitempty"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// CustomerPage is one page of a customer listing
type CustomerPage struct {
	Data       []Customer `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ListParams are the query parameters for a customer listing
type ListParams struct {
	Page   int
	Limit  int
	Search string
	City   string
}

// Page sizes used by the front end
const (
	ListPageSize      = 10
	DashboardPageSize = 5
)
