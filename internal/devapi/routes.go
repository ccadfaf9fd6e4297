package devapi

import "github.com/labstack/echo/v4"

func RegisterRoutes(g *echo.Group, h *Handler) {

	// Customers
	g.GET("/customers", h.GetCustomers)
	g.GET("/customers/:id", h.GetCustomer)
	g.POST("/customers", h.CreateCustomer)
	g.PUT("/customers/:id", h.UpdateCustomer)
	g.DELETE("/customers/:id", h.DeleteCustomer)

	// Addresses
	g.GET("/customers/:id/addresses", h.GetAddresses)
	g.POST("/customers/:id/addresses", h.CreateAddress)
	g.GET("/addresses/:id", h.GetAddress)
	g.PUT("/addresses/:id", h.UpdateAddress)
	g.DELETE("/addresses/:id", h.DeleteAddress)
}
