package devapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"winsbygroup.com/crmweb/internal/address"
	"winsbygroup.com/crmweb/internal/customer"
	"winsbygroup.com/crmweb/internal/models"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Customers

func (h *Handler) GetCustomers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	out, err := h.svc.ListCustomers(c.Request().Context(), models.ListParams{
		Page:   page,
		Limit:  limit,
		Search: c.QueryParam("search"),
		City:   c.QueryParam("city"),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetCustomer(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	out, err := h.svc.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: out})
}

func (h *Handler) CreateCustomer(c echo.Context) error {
	var req models.CustomerInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
	}
	out, err := h.svc.CreateCustomer(c.Request().Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dataResponse{Data: out})
}

func (h *Handler) UpdateCustomer(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}

	var req models.CustomerInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
	}

	out, err := h.svc.UpdateCustomer(c.Request().Context(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: out})
}

func (h *Handler) DeleteCustomer(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	if err := h.svc.DeleteCustomer(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Addresses

func (h *Handler) GetAddresses(c echo.Context) error {
	custID, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	out, err := h.svc.ListAddresses(c.Request().Context(), custID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: out})
}

func (h *Handler) GetAddress(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	out, err := h.svc.GetAddress(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: out})
}

func (h *Handler) CreateAddress(c echo.Context) error {
	custID, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	var req models.AddressInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
	}
	out, err := h.svc.CreateAddress(c.Request().Context(), custID, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dataResponse{Data: out})
}

func (h *Handler) UpdateAddress(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	var req models.AddressInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
	}
	out, err := h.svc.UpdateAddress(c.Request().Context(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: out})
}

func (h *Handler) DeleteAddress(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	if err := h.svc.DeleteAddress(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func badID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidID})
}

// fail maps a service error to its status code and {"error"} body
func fail(c echo.Context, err error) error {
	var invalid *InvalidError
	switch {
	case errors.As(err, &invalid):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: invalid.Message})
	case errors.Is(err, customer.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: msgCustomerNotFound})
	case errors.Is(err, address.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: msgAddressNotFound})
	case errors.Is(err, errDuplicatePhone):
		return c.JSON(http.StatusConflict, errorResponse{Error: msgDuplicatePhone})
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
}
