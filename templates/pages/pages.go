// Package pages renders full HTML documents.
package pages

import (
	"github.com/a-h/templ"

	vm "winsbygroup.com/crmweb/internal/viewmodels"
	"winsbygroup.com/crmweb/templates"
)

func Dashboard(d vm.Dashboard) templ.Component {
	return templates.Component("page_dashboard", d)
}

func Customers(p vm.CustomersPage) templ.Component {
	return templates.Component("page_customers", p)
}

func CustomerForm(p vm.FormPage) templ.Component {
	return templates.Component("page_customer_form", p)
}

func CustomerDetail(p vm.DetailPage) templ.Component {
	return templates.Component("page_customer_detail", p)
}

// Error renders a page-level failure with a link back
func Error(p vm.ErrorPage) templ.Component {
	return templates.Component("page_error", p)
}
