package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"winsbygroup.com/crmweb/internal/apiclient"
	"winsbygroup.com/crmweb/internal/models"
)

// recorded captures the last request seen by the test server
type recorded struct {
	method string
	path   string
	query  map[string]string
	body   map[string]any
}

func newServer(t *testing.T, status int, response string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = map[string]string{}
		for k := range r.URL.Query() {
			rec.query[k] = r.URL.Query().Get(k)
		}
		rec.body = nil
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			if err := json.Unmarshal(data, &rec.body); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestListCustomers(t *testing.T) {
	ctx := context.Background()
	srv, rec := newServer(t, http.StatusOK, `{
		"data": [{"id": 7, "first_name": "Ann", "last_name": "Lee", "phone_number": "1234567890", "address_count": 2, "created_at": "2025-01-02T03:04:05Z"}],
		"pagination": {"page": 2, "total": 11, "totalPages": 2}
	}`)
	client := apiclient.New(srv.URL + "/api/")

	page, err := client.ListCustomers(ctx, models.ListParams{Page: 2, Limit: 10, Search: "an", City: "Pune"})
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}

	if rec.method != http.MethodGet || rec.path != "/api/customers" {
		t.Errorf("expected GET /api/customers, got %s %s", rec.method, rec.path)
	}
	want := map[string]string{"page": "2", "limit": "10", "search": "an", "city": "Pune"}
	for k, v := range want {
		if rec.query[k] != v {
			t.Errorf("expected query %s=%q, got %q", k, v, rec.query[k])
		}
	}

	if len(page.Data) != 1 || page.Data[0].FullName() != "Ann Lee" {
		t.Fatalf("unexpected data: %+v", page.Data)
	}
	if page.Data[0].AddressCount != 2 {
		t.Errorf("expected address_count 2, got %d", page.Data[0].AddressCount)
	}
	if page.Pagination.Page != 2 || page.Pagination.Total != 11 || page.Pagination.TotalPages != 2 {
		t.Errorf("unexpected pagination: %+v", page.Pagination)
	}
}

func TestListCustomersOmitsEmptyFilters(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"data": null, "pagination": {"page": 1, "total": 0, "totalPages": 0}}`)
	client := apiclient.New(srv.URL)

	page, err := client.ListCustomers(context.Background(), models.ListParams{Page: 1, Limit: 5})
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if _, ok := rec.query["search"]; ok {
		t.Errorf("expected no search parameter, got %q", rec.query["search"])
	}
	if _, ok := rec.query["city"]; ok {
		t.Errorf("expected no city parameter, got %q", rec.query["city"])
	}
	if page.Data == nil || len(page.Data) != 0 {
		t.Errorf("expected empty non-nil data, got %#v", page.Data)
	}
}

func TestCustomerMutations(t *testing.T) {
	ctx := context.Background()
	in := models.CustomerInput{FirstName: "Ann", LastName: "Lee", PhoneNumber: "(123) 456-7890"}

	t.Run("create posts body and accepts enveloped response", func(t *testing.T) {
		srv, rec := newServer(t, http.StatusCreated, `{"data": {"id": 3, "first_name": "Ann"}}`)
		out, err := apiclient.New(srv.URL).CreateCustomer(ctx, in)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if rec.method != http.MethodPost || rec.path != "/customers" {
			t.Errorf("expected POST /customers, got %s %s", rec.method, rec.path)
		}
		if rec.body["phone_number"] != "(123) 456-7890" || rec.body["first_name"] != "Ann" {
			t.Errorf("unexpected body: %v", rec.body)
		}
		if out.ID != 3 {
			t.Errorf("expected id 3, got %d", out.ID)
		}
	})

	t.Run("update accepts bare response", func(t *testing.T) {
		srv, rec := newServer(t, http.StatusOK, `{"id": 3, "first_name": "Ann", "last_name": "Lee"}`)
		out, err := apiclient.New(srv.URL).UpdateCustomer(ctx, 3, in)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if rec.method != http.MethodPut || rec.path != "/customers/3" {
			t.Errorf("expected PUT /customers/3, got %s %s", rec.method, rec.path)
		}
		if out.LastName != "Lee" {
			t.Errorf("expected last name Lee, got %q", out.LastName)
		}
	})

	t.Run("delete tolerates no content", func(t *testing.T) {
		srv, rec := newServer(t, http.StatusNoContent, "")
		if err := apiclient.New(srv.URL).DeleteCustomer(ctx, 9); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if rec.method != http.MethodDelete || rec.path != "/customers/9" {
			t.Errorf("expected DELETE /customers/9, got %s %s", rec.method, rec.path)
		}
	})
}

func TestAddressEndpoints(t *testing.T) {
	ctx := context.Background()
	in := models.AddressInput{AddressDetails: "12 MG Road", City: "Pune", State: "MH", PinCode: "411001"}

	cases := []struct {
		name   string
		call   func(c *apiclient.Client) error
		method string
		path   string
	}{
		{"list", func(c *apiclient.Client) error { _, err := c.ListAddresses(ctx, 4); return err }, http.MethodGet, "/customers/4/addresses"},
		{"get", func(c *apiclient.Client) error { _, err := c.GetAddress(ctx, 8); return err }, http.MethodGet, "/addresses/8"},
		{"create", func(c *apiclient.Client) error { _, err := c.CreateAddress(ctx, 4, in); return err }, http.MethodPost, "/customers/4/addresses"},
		{"update", func(c *apiclient.Client) error { _, err := c.UpdateAddress(ctx, 8, in); return err }, http.MethodPut, "/addresses/8"},
		{"delete", func(c *apiclient.Client) error { return c.DeleteAddress(ctx, 8) }, http.MethodDelete, "/addresses/8"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			response := `{"data": {"id": 8, "customer_id": 4, "city": "Pune"}}`
			if tc.name == "list" {
				response = `{"data": [{"id": 8, "customer_id": 4, "city": "Pune"}]}`
			}
			srv, rec := newServer(t, http.StatusOK, response)
			if err := tc.call(apiclient.New(srv.URL)); err != nil {
				t.Fatalf("%s: %v", tc.name, err)
			}
			if rec.method != tc.method || rec.path != tc.path {
				t.Errorf("expected %s %s, got %s %s", tc.method, tc.path, rec.method, rec.path)
			}
			if tc.method == http.MethodPost || tc.method == http.MethodPut {
				if rec.body["pin_code"] != "411001" || rec.body["address_details"] != "12 MG Road" {
					t.Errorf("unexpected body: %v", rec.body)
				}
			}
		})
	}
}

func TestErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("server message is surfaced", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusConflict, `{"error": "A customer with this phone number already exists"}`)
		_, err := apiclient.New(srv.URL).CreateCustomer(ctx, models.CustomerInput{})

		var httpErr *apiclient.HTTPError
		if !errors.As(err, &httpErr) {
			t.Fatalf("expected HTTPError, got %v", err)
		}
		if httpErr.Status != http.StatusConflict {
			t.Errorf("expected status 409, got %d", httpErr.Status)
		}
		if got := apiclient.ServerMessage(err); got != "A customer with this phone number already exists" {
			t.Errorf("unexpected server message %q", got)
		}
	})

	t.Run("non JSON error body yields empty message", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusBadGateway, `<html>bad gateway</html>`)
		_, err := apiclient.New(srv.URL).GetCustomer(ctx, 1)
		if apiclient.ServerMessage(err) != "" {
			t.Errorf("expected empty message, got %q", apiclient.ServerMessage(err))
		}
		if apiclient.IsNotFound(err) {
			t.Error("502 must not be reported as not found")
		}
	})

	t.Run("404 is not found", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusNotFound, `{"error": "Customer not found"}`)
		_, err := apiclient.New(srv.URL).GetCustomer(ctx, 1)
		if !apiclient.IsNotFound(err) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("empty data is not found", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusOK, `{"data": null}`)
		_, err := apiclient.New(srv.URL).GetAddress(ctx, 1)
		if !apiclient.IsNotFound(err) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("undecodable success body is a decode error", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusOK, `<html>maintenance</html>`)
		_, err := apiclient.New(srv.URL).GetCustomer(ctx, 1)
		var decErr *apiclient.DecodeError
		if !errors.As(err, &decErr) {
			t.Fatalf("expected DecodeError, got %T %v", err, err)
		}
		if decErr.Op != "GetCustomer" || decErr.Status != http.StatusOK {
			t.Errorf("unexpected decode error %+v", decErr)
		}
		if apiclient.IsNotFound(err) || apiclient.ServerMessage(err) != "" {
			t.Error("decode error must not look like a not found or server message")
		}
	})

	t.Run("unreachable server is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := apiclient.New(url).ListCustomers(ctx, models.ListParams{Page: 1})
		var netErr *apiclient.NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("expected NetworkError, got %v", err)
		}
		if netErr.Op != "ListCustomers" {
			t.Errorf("expected op ListCustomers, got %q", netErr.Op)
		}
	})
}

func TestSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	srv, _ := newServer(t, http.StatusNotFound, `{"error": "Address not found"}`)
	client := apiclient.New(srv.URL, apiclient.WithTracerProvider(tp))

	if _, err := client.GetAddress(context.Background(), 5); err == nil {
		t.Fatal("expected error")
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != "crm.GetAddress" {
		t.Errorf("expected span name crm.GetAddress, got %q", span.Name())
	}
	if span.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", span.Status().Code)
	}

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs["http.route"].AsString() != "/addresses/{id}" {
		t.Errorf("unexpected route attribute %q", attrs["http.route"].AsString())
	}
	if attrs["http.status_code"].AsInt64() != http.StatusNotFound {
		t.Errorf("unexpected status attribute %d", attrs["http.status_code"].AsInt64())
	}
}
