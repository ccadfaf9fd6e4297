package viewmodels

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Count formats n with thousands separators ("1,234")
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// Plural returns "1 address" / "3 addresses"
func Plural(n int, one, many string) string {
	if n == 1 {
		return printer.Sprintf("%d %s", n, one)
	}
	return printer.Sprintf("%d %s", n, many)
}

// Layout is the data every full page needs
type Layout struct {
	Title   string
	Nav     string // active menu item: "dashboard", "customers" or "new"
	Theme   string
	Version string
	RepoURL string
	CSRF    string
}

// Customer is a view model for customer display
type Customer struct {
	ID            int64
	FirstName     string
	LastName      string
	FullName      string
	PhoneNumber   string
	Addresses     string // "2 addresses"
	Since         string
	ConfirmDelete string
}

// Address is a view model for address display
type Address struct {
	ID             int64
	CustomerID     int64
	AddressDetails string
	City           string
	State          string
	PinCode        string
	ConfirmDelete  string
}

// Pager is the pagination bar under the customer table
type Pager struct {
	Visible    bool
	HasPrev    bool
	HasNext    bool
	Page       int
	PrevPage   int
	NextPage   int
	TotalPages int
	Summary    string // "Page 1 of 2 (12 total customers)"
}

// CustomerList is the swappable customer table region
type CustomerList struct {
	ViewID    string
	Search    string
	City      string
	Customers []Customer
	Pager     Pager
	Loading   bool
	Empty     bool
	Error     string
}

// Field is one labelled form input
type Field struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Value       string
	Error       string
	Wide        bool // spans both grid columns
}

// Form is a customer or address form
type Form struct {
	ViewID      string
	Kind        string // route segment: "customer-form" or "address-form"
	Title       string
	SubmitLabel string
	BusyLabel   string
	Fields      []Field
	General     string
	Disabled    bool
	Busy        bool
	CancelURL   string // fallback for browsers without JS
	Target      string // hx-target of the submit response
	Swap        string
	CSRF        string
}

// FieldSlot is the error element of one field, re-rendered on edit
type FieldSlot struct {
	Kind  string
	Name  string
	Error string
}

// AddressSection is the address list on the customer detail page
type AddressSection struct {
	ViewID       string
	CustomerName string
	Addresses    []Address
	Empty        bool
	Error        string
	Form         *Form
	FormOpen     bool
	EditingID    int64
}

// Dashboard is the landing page
type Dashboard struct {
	Layout
	TotalCustomers string
	TotalAddresses string
	Recent         []Customer
	Error          string
}

// CustomersPage is the customer directory
type CustomersPage struct {
	Layout
	List CustomerList
}

// FormPage hosts the customer create/edit form
type FormPage struct {
	Layout
	Form Form
}

// DetailPage is a single customer with its addresses
type DetailPage struct {
	Layout
	ViewID    string
	Customer  Customer
	Error     string
	Addresses AddressSection
}

// ErrorPage is a page-level failure such as "Customer Not Found"
type ErrorPage struct {
	Layout
	Heading   string
	Message   string
	BackURL   string
	BackLabel string
}
