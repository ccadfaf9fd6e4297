// Package validation checks customer and address drafts before they are sent to the API.
package validation

import (
	"regexp"
	"sort"
	"strings"
)

// Field names shared by forms, drafts and API bodies
const (
	FirstName      = "first_name"
	LastName       = "last_name"
	PhoneNumber    = "phone_number"
	AddressDetails = "address_details"
	City           = "city"
	State          = "state"
	PinCode        = "pin_code"
)

// CustomerFields lists the customer form fields in display order
var CustomerFields = []string{FirstName, LastName, PhoneNumber}

// AddressFields lists the address form fields in display order
var AddressFields = []string{AddressDetails, City, State, PinCode}

var pinCodeRE = regexp.MustCompile(`^\d{6}$`)

// Errors maps a field name to its error message. An empty Errors means valid.
type Errors map[string]string

// OK reports whether there are no errors
func (e Errors) OK() bool {
	return len(e) == 0
}

// Get returns the message for a field, or ""
func (e Errors) Get(field string) string {
	return e[field]
}

// Fields returns the failing field names, sorted
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Digits returns s with every non-digit character removed
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Customer validates a customer draft and returns every failing field
func Customer(draft map[string]string) Errors {
	errs := Errors{}

	if blank(draft[FirstName]) {
		errs[FirstName] = "First name is required"
	}
	if blank(draft[LastName]) {
		errs[LastName] = "Last name is required"
	}

	switch phone := draft[PhoneNumber]; {
	case blank(phone):
		errs[PhoneNumber] = "Phone number is required"
	case len(Digits(phone)) != 10:
		errs[PhoneNumber] = "Phone number must be 10 digits"
	}

	return errs
}

// Address validates an address draft and returns every failing field
func Address(draft map[string]string) Errors {
	errs := Errors{}

	if blank(draft[AddressDetails]) {
		errs[AddressDetails] = "Address details are required"
	}
	if blank(draft[City]) {
		errs[City] = "City is required"
	}
	if blank(draft[State]) {
		errs[State] = "State is required"
	}

	switch pin := draft[PinCode]; {
	case blank(pin):
		errs[PinCode] = "PIN code is required"
	case !pinCodeRE.MatchString(pin):
		errs[PinCode] = "PIN code must be 6 digits"
	}

	return errs
}
