package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"winsbygroup.com/crmweb/internal/apiclient"
	"winsbygroup.com/crmweb/internal/dashboard"
	"winsbygroup.com/crmweb/internal/form"
	"winsbygroup.com/crmweb/internal/listing"
	"winsbygroup.com/crmweb/internal/middleware"
	"winsbygroup.com/crmweb/internal/models"
	vm "winsbygroup.com/crmweb/internal/viewmodels"
	"winsbygroup.com/crmweb/internal/viewstate"
	"winsbygroup.com/crmweb/templates/components"
	"winsbygroup.com/crmweb/templates/pages"
)

const (
	customerFormKind = "customer-form"
	addressFormKind  = "address-form"
)

// Handler handles web UI requests
type Handler struct {
	customers apiclient.CustomerAPI
	addresses apiclient.AddressAPI
	views     *viewstate.Store
}

// NewHandler creates a new web handler
func NewHandler(customers apiclient.CustomerAPI, addresses apiclient.AddressAPI, views *viewstate.Store) *Handler {
	return &Handler{
		customers: customers,
		addresses: addresses,
		views:     views,
	}
}

// detailView is the state of one customer detail page. At most one address
// form is open at a time.
type detailView struct {
	customer  models.Customer
	addresses *listing.Controller[models.Address]

	mu        sync.Mutex
	addrForm  *form.Controller
	editingID int64
}

func (d *detailView) openForm(f *form.Controller, editingID int64) {
	d.mu.Lock()
	d.addrForm = f
	d.editingID = editingID
	d.mu.Unlock()
}

func (d *detailView) closeForm() {
	d.openForm(nil, 0)
}

func (d *detailView) currentForm() (*form.Controller, int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addrForm, d.editingID
}

// --------------------------
// Dashboard
// --------------------------

// Index renders the dashboard page
func (h *Handler) Index(c echo.Context) error {
	ctx := c.Request().Context()
	page := vm.Dashboard{Layout: layout(c, "Dashboard", "dashboard")}

	s, err := dashboard.Load(ctx, h.customers)
	if err != nil {
		c.Logger().Errorf("load dashboard: %v", err)
		page.Error = "Failed to load dashboard data"
	}
	page.TotalCustomers, page.TotalAddresses, page.Recent = FromDashboard(s)

	return render(c, http.StatusOK, pages.Dashboard(page))
}

// --------------------------
// Customer list
// --------------------------

// ListCustomers renders the customer directory in a new view
func (h *Handler) ListCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	list := listing.NewCustomers(h.customers)
	if u := list.Apply(ctx, listQuery(c)); u.Err != nil {
		c.Logger().Errorf("list customers: %v", u.Err)
	}

	viewID := h.views.Create(list)
	return render(c, http.StatusOK, pages.Customers(vm.CustomersPage{
		Layout: layout(c, "Customers", "customers"),
		List:   FromCustomerView(viewID, list.Snapshot()),
	}))
}

// UpdateCustomerList applies a search, city or page change to a list view
func (h *Handler) UpdateCustomerList(c echo.Context) error {
	viewID := c.Param("view")
	list, err := viewstate.Lookup[*listing.Controller[models.Customer]](h.views, viewID)
	if err != nil {
		return viewError(err)
	}

	u := list.Apply(c.Request().Context(), listQuery(c))
	if u.Stale {
		return noSwap(c)
	}
	if u.Err != nil {
		c.Logger().Errorf("list customers: %v", u.Err)
	}

	return render(c, http.StatusOK, components.CustomersTable(FromCustomerView(viewID, list.Snapshot())))
}

// DeleteListedCustomer deletes a customer from the directory and refetches the page
func (h *Handler) DeleteListedCustomer(c echo.Context) error {
	viewID := c.Param("view")
	list, err := viewstate.Lookup[*listing.Controller[models.Customer]](h.views, viewID)
	if err != nil {
		return viewError(err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	outcome, err := list.Delete(c.Request().Context(), id, confirmer(c))
	switch {
	case outcome == listing.Aborted:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, listing.ErrNotListed):
		return echo.NewHTTPError(http.StatusNotFound, "Customer is not on this page")
	case err != nil:
		c.Logger().Errorf("delete customer %d: %v", id, err)
	}

	return render(c, http.StatusOK, components.CustomersTable(FromCustomerView(viewID, list.Snapshot())))
}

// --------------------------
// Customer form
// --------------------------

// NewCustomerForm renders an empty customer form in a new view
func (h *Handler) NewCustomerForm(c echo.Context) error {
	fc := form.NewCustomer(h.customers, 0)
	viewID := h.views.Create(fc)
	return render(c, http.StatusOK, pages.CustomerForm(vm.FormPage{
		Layout: layout(c, "Add Customer", "new"),
		Form:   customerForm(c, viewID, fc),
	}))
}

// EditCustomerForm loads a customer into a new form view
func (h *Handler) EditCustomerForm(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	fc := form.NewCustomer(h.customers, id)
	if err := fc.Load(c.Request().Context()); err != nil {
		if apiclient.IsNotFound(err) {
			return customerNotFound(c)
		}
		c.Logger().Errorf("load customer %d: %v", id, err)
	}

	viewID := h.views.Create(fc)
	return render(c, http.StatusOK, pages.CustomerForm(vm.FormPage{
		Layout: layout(c, "Edit Customer", "customers"),
		Form:   customerForm(c, viewID, fc),
	}))
}

// SubmitCustomerForm saves the posted draft. On success the browser is sent to
// the customer (edit) or the directory (create).
func (h *Handler) SubmitCustomerForm(c echo.Context) error {
	viewID := c.Param("view")
	fc, err := viewstate.Lookup[*form.Controller](h.views, viewID)
	if err != nil {
		return viewError(err)
	}

	values, err := postedDraft(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}
	fc.SetFields(values)

	res := fc.Submit(c.Request().Context())
	switch res.Outcome {
	case form.Succeeded:
		h.views.Delete(viewID)
		return redirect(c, customerFormExit(fc, res))
	case form.Failed:
		c.Logger().Errorf("save customer: %v", res.Err)
	}

	return render(c, http.StatusOK, components.Form(customerForm(c, viewID, fc)))
}

// CancelCustomerForm abandons the draft and leaves the form
func (h *Handler) CancelCustomerForm(c echo.Context) error {
	viewID := c.Param("view")
	fc, err := viewstate.Lookup[*form.Controller](h.views, viewID)
	if err != nil {
		return viewError(err)
	}

	res := fc.Cancel()
	h.views.Delete(viewID)
	return redirect(c, customerFormExit(fc, res))
}

// CustomerFormField records one field edit and re-renders its error slot
func (h *Handler) CustomerFormField(c echo.Context) error {
	fc, err := viewstate.Lookup[*form.Controller](h.views, c.Param("view"))
	if err != nil {
		return viewError(err)
	}
	return setField(c, customerFormKind, fc)
}

func customerFormExit(fc *form.Controller, res form.Result) string {
	if fc.Snapshot().Editing() {
		return fmt.Sprintf("/customers/%d", res.ID)
	}
	return "/customers"
}

// --------------------------
// Customer detail
// --------------------------

// CustomerDetail renders one customer with its addresses in a new view
func (h *Handler) CustomerDetail(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	cust, err := h.customers.GetCustomer(ctx, id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			return customerNotFound(c)
		}
		c.Logger().Errorf("get customer %d: %v", id, err)
		return render(c, http.StatusBadGateway, pages.Error(vm.ErrorPage{
			Layout:    layout(c, "Error", "customers"),
			Heading:   "Error",
			Message:   "Failed to fetch customer details",
			BackURL:   "/customers",
			BackLabel: "Back to Customers",
		}))
	}

	d := &detailView{customer: *cust, addresses: listing.NewAddresses(h.addresses, id)}
	if u := d.addresses.Refresh(ctx); u.Err != nil {
		c.Logger().Errorf("list addresses of customer %d: %v", id, u.Err)
	}

	viewID := h.views.Create(d)
	return render(c, http.StatusOK, pages.CustomerDetail(vm.DetailPage{
		Layout:    layout(c, cust.FullName(), "customers"),
		ViewID:    viewID,
		Customer:  FromModelCustomer(*cust),
		Addresses: addressSection(c, viewID, d),
	}))
}

// DeleteDetailCustomer deletes the customer shown on a detail page
func (h *Handler) DeleteDetailCustomer(c echo.Context) error {
	viewID := c.Param("view")
	d, err := viewstate.Lookup[*detailView](h.views, viewID)
	if err != nil {
		return viewError(err)
	}

	if !confirmer(c).Confirm(listing.CustomerConfirmMessage(d.customer)) {
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.customers.DeleteCustomer(c.Request().Context(), d.customer.ID); err != nil {
		c.Logger().Errorf("delete customer %d: %v", d.customer.ID, err)
		return render(c, http.StatusOK, components.DetailError("Failed to delete customer"))
	}

	h.views.Delete(viewID)
	return redirect(c, "/customers")
}

// --------------------------
// Addresses
// --------------------------

// NewAddressForm opens an empty address form on a detail page
func (h *Handler) NewAddressForm(c echo.Context) error {
	viewID := c.Param("view")
	d, err := viewstate.Lookup[*detailView](h.views, viewID)
	if err != nil {
		return viewError(err)
	}

	d.openForm(form.NewAddress(h.addresses, d.customer.ID, 0), 0)
	return render(c, http.StatusOK, components.AddressSection(addressSection(c, viewID, d)))
}

// EditAddressForm opens a form for one of the listed addresses
func (h *Handler) EditAddressForm(c echo.Context) error {
	viewID := c.Param("view")
	d, err := viewstate.Lookup[*detailView](h.views, viewID)
	if err != nil {
		return viewError(err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if !d.addresses.Has(id) {
		return echo.NewHTTPError(http.StatusNotFound, "Address is not listed")
	}

	fc := form.NewAddress(h.addresses, d.customer.ID, id)
	if err := fc.Load(c.Request().Context()); err != nil {
		c.Logger().Errorf("load address %d: %v", id, err)
	}

	d.openForm(fc, id)
	return render(c, http.StatusOK, components.AddressSection(addressSection(c, viewID, d)))
}

// SubmitAddressForm saves the open address form and refetches the list
func (h *Handler) SubmitAddressForm(c echo.Context) error {
	ctx := c.Request().Context()
	viewID := c.Param("view")
	d, err := viewstate.Lookup[*detailView](h.views, viewID)
	if err != nil {
		return viewError(err)
	}

	fc, _ := d.currentForm()
	if fc == nil {
		return echo.NewHTTPError(http.StatusConflict, "No address form is open")
	}

	values, err := postedDraft(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}
	fc.SetFields(values)

	res := fc.Submit(ctx)
	switch res.Outcome {
	case form.Succeeded:
		d.closeForm()
		if u := d.addresses.Refresh(ctx); u.Err != nil {
			c.Logger().Errorf("list addresses of customer %d: %v", d.customer.ID, u.Err)
		}
	case form.Failed:
		c.Logger().Errorf("save address: %v", res.Err)
	}

	return render(c, http.StatusOK, components.AddressSection(addressSection(c, viewID, d)))
}

// CancelAddressForm closes the open address form
func (h *Handler) CancelAddressForm(c echo.Context) error {
	viewID := c.Param("view")
	d, err := viewstate.Lookup[*detailView](h.views, viewID)
	if err != nil {
		return viewError(err)
	}

	d.closeForm()
	return render(c, http.StatusOK, components.AddressSection(addressSection(c, viewID, d)))
}

// AddressFormField records one field edit of the open address form
func (h *Handler) AddressFormField(c echo.Context) error {
	d, err := viewstate.Lookup[*detailView](h.views, c.Param("view"))
	if err != nil {
		return viewError(err)
	}

	fc, _ := d.currentForm()
	if fc == nil {
		return echo.NewHTTPError(http.StatusConflict, "No address form is open")
	}
	return setField(c, addressFormKind, fc)
}

// DeleteAddress deletes one of the listed addresses
func (h *Handler) DeleteAddress(c echo.Context) error {
	viewID := c.Param("view")
	d, err := viewstate.Lookup[*detailView](h.views, viewID)
	if err != nil {
		return viewError(err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	outcome, err := d.addresses.Delete(c.Request().Context(), id, confirmer(c))
	switch {
	case outcome == listing.Aborted:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, listing.ErrNotListed):
		return echo.NewHTTPError(http.StatusNotFound, "Address is not listed")
	}
	if err != nil {
		c.Logger().Errorf("delete address %d: %v", id, err)
	}
	if outcome == listing.Deleted {
		if _, editing := d.currentForm(); editing == id {
			d.closeForm()
		}
	}

	return render(c, http.StatusOK, components.AddressSection(addressSection(c, viewID, d)))
}

// --------------------------
// Helpers
// --------------------------

func render(c echo.Context, status int, comp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return comp.Render(c.Request().Context(), c.Response())
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// redirect sends HTMX requests to url with HX-Redirect and plain posts with a 303
func redirect(c echo.Context, url string) error {
	if isHTMX(c) {
		c.Response().Header().Set("HX-Redirect", url)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, url)
}

// noSwap answers a superseded request; the newer one will update the page
func noSwap(c echo.Context) error {
	c.Response().Header().Set("HX-Reswap", "none")
	return c.NoContent(http.StatusNoContent)
}

func viewError(err error) error {
	switch {
	case errors.Is(err, viewstate.ErrExpired):
		return echo.NewHTTPError(http.StatusGone, "This page has expired. Reload to continue.")
	case errors.Is(err, viewstate.ErrWrongKind):
		return echo.NewHTTPError(http.StatusBadRequest, "Request does not belong to this page")
	default:
		return err
	}
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

// listQuery reads search, city and page from the query string. A missing or
// bad page is 0, which keeps the list on its current page.
func listQuery(c echo.Context) listing.Query {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	return listing.Query{
		Page:   page,
		Search: c.QueryParam("search"),
		City:   c.QueryParam("city"),
	}
}

// confirmer reads the answer the browser gave to hx-confirm
func confirmer(c echo.Context) listing.Confirmer {
	return listing.ConfirmFunc(func(string) bool {
		return c.FormValue("confirm") == "yes"
	})
}

// postedDraft returns the first value of every posted parameter. Names the
// form does not know are ignored by the controller.
func postedDraft(c echo.Context) (map[string]string, error) {
	params, err := c.FormParams()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(params))
	for name, values := range params {
		if len(values) > 0 {
			out[name] = values[0]
		}
	}
	return out, nil
}

func setField(c echo.Context, kind string, fc *form.Controller) error {
	name := c.Param("field")
	if _, ok := fc.Snapshot().Draft[name]; !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown field")
	}

	fc.SetField(name, c.FormValue(name))
	return render(c, http.StatusOK, components.FieldError(vm.FieldSlot{
		Kind:  kind,
		Name:  name,
		Error: fc.Snapshot().Errors.Get(name),
	}))
}

func layout(c echo.Context, title, nav string) vm.Layout {
	ctx := c.Request().Context()
	return vm.Layout{
		Title:   title,
		Nav:     nav,
		Theme:   middleware.GetTheme(ctx),
		Version: middleware.GetVersion(ctx),
		RepoURL: middleware.GetRepoURL(),
		CSRF:    middleware.GetCSRF(ctx),
	}
}

func customerForm(c echo.Context, viewID string, fc *form.Controller) vm.Form {
	f := FromCustomerForm(viewID, fc.Snapshot())
	f.CSRF = middleware.GetCSRF(c.Request().Context())
	return f
}

func addressSection(c echo.Context, viewID string, d *detailView) vm.AddressSection {
	fc, editingID := d.currentForm()
	var f *vm.Form
	if fc != nil {
		v := FromAddressForm(viewID, d.customer.ID, fc.Snapshot())
		v.CSRF = middleware.GetCSRF(c.Request().Context())
		f = &v
	}
	return FromAddressView(viewID, d.customer.FullName(), d.addresses.Snapshot(), f, editingID)
}

func customerNotFound(c echo.Context) error {
	return render(c, http.StatusNotFound, pages.Error(vm.ErrorPage{
		Layout:    layout(c, "Customer Not Found", "customers"),
		Heading:   "Customer Not Found",
		Message:   "The customer you're looking for doesn't exist.",
		BackURL:   "/customers",
		BackLabel: "Back to Customers",
	}))
}
