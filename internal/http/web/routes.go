package web

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all web UI routes
func RegisterRoutes(e *echo.Group, h *Handler) {
	// Dashboard
	e.GET("/", h.Index)
	e.GET("", h.Index)

	// Full pages; each one creates a view
	e.GET("/customers", h.ListCustomers)
	e.GET("/customers/new", h.NewCustomerForm)
	e.GET("/customers/:id", h.CustomerDetail)
	e.GET("/customers/:id/edit", h.EditCustomerForm)

	// Customer list view
	e.GET("/views/:view/customers", h.UpdateCustomerList)
	e.DELETE("/views/:view/customers/:id", h.DeleteListedCustomer)

	// Customer form view
	e.POST("/views/:view/customer-form", h.SubmitCustomerForm)
	e.POST("/views/:view/customer-form/cancel", h.CancelCustomerForm)
	e.PATCH("/views/:view/customer-form/fields/:field", h.CustomerFormField)

	// Customer detail view
	e.DELETE("/views/:view/customer", h.DeleteDetailCustomer)
	e.GET("/views/:view/addresses/new", h.NewAddressForm)
	e.GET("/views/:view/addresses/:id/edit", h.EditAddressForm)
	e.DELETE("/views/:view/addresses/:id", h.DeleteAddress)
	e.POST("/views/:view/address-form", h.SubmitAddressForm)
	e.POST("/views/:view/address-form/cancel", h.CancelAddressForm)
	e.PATCH("/views/:view/address-form/fields/:field", h.AddressFormField)
}
