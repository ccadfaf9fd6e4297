// Package components renders the page fragments HTMX swaps in place.
package components

import (
	"github.com/a-h/templ"

	vm "winsbygroup.com/crmweb/internal/viewmodels"
	"winsbygroup.com/crmweb/templates"
)

// CustomersTable renders the filterable, paged customer table
func CustomersTable(list vm.CustomerList) templ.Component {
	return templates.Component("customers_table", list)
}

// Form renders a customer or address form
func Form(f vm.Form) templ.Component {
	return templates.Component("form", f)
}

// FieldError renders the error slot of one form field
func FieldError(slot vm.FieldSlot) templ.Component {
	return templates.Component("field_error", slot)
}

// AddressSection renders a customer's address list and the open address form
func AddressSection(s vm.AddressSection) templ.Component {
	return templates.Component("address_section", s)
}

// DetailError renders the error banner of the customer detail page
func DetailError(message string) templ.Component {
	return templates.Component("detail_error", message)
}
