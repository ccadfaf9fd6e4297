package web

import (
	"fmt"

	"winsbygroup.com/crmweb/internal/dashboard"
	"winsbygroup.com/crmweb/internal/form"
	"winsbygroup.com/crmweb/internal/listing"
	"winsbygroup.com/crmweb/internal/models"
	"winsbygroup.com/crmweb/internal/validation"
	vm "winsbygroup.com/crmweb/internal/viewmodels"
)

// fieldSpec describes how one draft field is presented
type fieldSpec struct {
	name        string
	label       string
	kind        string
	placeholder string
	wide        bool
}

var customerFieldSpecs = []fieldSpec{
	{name: validation.FirstName, label: "First Name", kind: "text", placeholder: "Enter first name"},
	{name: validation.LastName, label: "Last Name", kind: "text", placeholder: "Enter last name"},
	{name: validation.PhoneNumber, label: "Phone Number", kind: "tel", placeholder: "Enter 10-digit phone number", wide: true},
}

var addressFieldSpecs = []fieldSpec{
	{name: validation.AddressDetails, label: "Address Details", kind: "textarea", placeholder: "Street address, building name, apartment number...", wide: true},
	{name: validation.City, label: "City", kind: "text", placeholder: "Enter city"},
	{name: validation.State, label: "State", kind: "text", placeholder: "Enter state"},
	{name: validation.PinCode, label: "PIN Code", kind: "text", placeholder: "Enter 6-digit PIN code", wide: true},
}

// FromModelCustomer converts an API customer to view model
func FromModelCustomer(c models.Customer) vm.Customer {
	out := vm.Customer{
		ID:            c.ID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		FullName:      c.FullName(),
		PhoneNumber:   c.PhoneNumber,
		Addresses:     vm.Plural(c.AddressCount, "address", "addresses"),
		ConfirmDelete: listing.CustomerConfirmMessage(c),
	}
	if !c.CreatedAt.IsZero() {
		out.Since = c.CreatedAt.Format("Jan 2, 2006")
	}
	return out
}

// FromModelCustomers converts a slice of API customers to view models
func FromModelCustomers(customers []models.Customer) []vm.Customer {
	result := make([]vm.Customer, len(customers))
	for i, c := range customers {
		result[i] = FromModelCustomer(c)
	}
	return result
}

// FromModelAddress converts an API address to view model
func FromModelAddress(a models.Address) vm.Address {
	return vm.Address{
		ID:             a.ID,
		CustomerID:     a.CustomerID,
		AddressDetails: a.AddressDetails,
		City:           a.City,
		State:          a.State,
		PinCode:        a.PinCode,
		ConfirmDelete:  listing.AddressConfirmMessage(a),
	}
}

// FromCustomerView converts a customer list snapshot to the table view model
func FromCustomerView(viewID string, v listing.View[models.Customer]) vm.CustomerList {
	out := vm.CustomerList{
		ViewID:    viewID,
		Search:    v.Query.Search,
		City:      v.Query.City,
		Customers: FromModelCustomers(v.Items),
		Loading:   v.Loading,
		Empty:     v.Empty(),
		Error:     v.Error,
	}
	if v.Paged {
		p := v.Pager
		out.Pager = vm.Pager{
			Visible:    p.Visible(),
			HasPrev:    p.HasPrev(),
			HasNext:    p.HasNext(),
			Page:       p.Page,
			PrevPage:   p.PrevPage(),
			NextPage:   p.NextPage(),
			TotalPages: p.TotalPages,
			Summary:    fmt.Sprintf("Page %d of %d (%s total customers)", p.Page, p.TotalPages, vm.Count(p.Total)),
		}
	}
	return out
}

// FromAddressView converts an address list snapshot and the open form, if any
func FromAddressView(viewID, customerName string, v listing.View[models.Address], f *vm.Form, editingID int64) vm.AddressSection {
	addrs := make([]vm.Address, len(v.Items))
	for i, a := range v.Items {
		addrs[i] = FromModelAddress(a)
	}
	return vm.AddressSection{
		ViewID:       viewID,
		CustomerName: customerName,
		Addresses:    addrs,
		Empty:        v.Empty(),
		Error:        v.Error,
		Form:         f,
		FormOpen:     f != nil,
		EditingID:    editingID,
	}
}

// FromDashboard converts a dashboard summary
func FromDashboard(s dashboard.Summary) (total, addresses string, recent []vm.Customer) {
	return vm.Count(s.TotalCustomers), vm.Count(s.TotalAddresses), FromModelCustomers(s.Recent)
}

func fromSnapshot(specs []fieldSpec, s form.Snapshot) []vm.Field {
	fields := make([]vm.Field, len(specs))
	for i, sp := range specs {
		fields[i] = vm.Field{
			Name:        sp.name,
			Label:       sp.label,
			Type:        sp.kind,
			Placeholder: sp.placeholder,
			Value:       s.Draft[sp.name],
			Error:       s.Errors.Get(sp.name),
			Wide:        sp.wide,
		}
	}
	return fields
}

// FromCustomerForm converts a customer form snapshot
func FromCustomerForm(viewID string, s form.Snapshot) vm.Form {
	f := vm.Form{
		ViewID:      viewID,
		Kind:        "customer-form",
		Title:       "Create New Customer",
		SubmitLabel: "Create Customer",
		BusyLabel:   "Saving...",
		Fields:      fromSnapshot(customerFieldSpecs, s),
		General:     s.General,
		Disabled:    s.State == form.StateBroken || s.State == form.StateLoading,
		Busy:        s.Busy(),
		CancelURL:   "/customers",
		Target:      "this",
		Swap:        "outerHTML",
	}
	if s.Editing() {
		f.Title = "Edit Customer"
		f.SubmitLabel = "Update Customer"
		f.CancelURL = fmt.Sprintf("/customers/%d", s.ID)
	}
	return f
}

// FromAddressForm converts an address form snapshot
func FromAddressForm(viewID string, customerID int64, s form.Snapshot) vm.Form {
	f := vm.Form{
		ViewID:      viewID,
		Kind:        "address-form",
		Title:       "Add New Address",
		SubmitLabel: "Add Address",
		BusyLabel:   "Saving...",
		Fields:      fromSnapshot(addressFieldSpecs, s),
		General:     s.General,
		Disabled:    s.State == form.StateBroken || s.State == form.StateLoading,
		Busy:        s.Busy(),
		CancelURL:   fmt.Sprintf("/customers/%d", customerID),
		Target:      "#addresses",
		Swap:        "innerHTML",
	}
	if s.Editing() {
		f.Title = "Edit Address"
		f.SubmitLabel = "Update Address"
	}
	return f
}
