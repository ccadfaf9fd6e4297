// Package apiclient talks to the remote CRM API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "winsbygroup.com/crmweb/internal/apiclient"

// Client is a thin JSON client for the customer and address endpoints.
// It performs no retries and no caching; failures are returned unchanged.
type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the transport used for every request
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTracerProvider sets the provider used to create client spans
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// New creates a client for the API rooted at baseURL (e.g. "https://host/api")
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was created with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call describes one API round trip
type call struct {
	op     string
	method string
	route  string // path template, used for span attributes
	path   string
	query  url.Values
	body   any
}

func (c *Client) do(ctx context.Context, cl call, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "crm."+cl.op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", cl.method),
			attribute.String("http.route", cl.route),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var reqBody io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", cl.op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, reqBody)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: cl.op, Err: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: cl.op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Op: cl.op, Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{Op: cl.op, Status: resp.StatusCode, Err: err}
	}
	return nil
}

// errorMessage extracts the "error" string from an error body, if any
func errorMessage(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Error
}

// envelope accepts both {"data": X} and a bare X
type envelope[T any] struct {
	value T
}

func (e *envelope[T]) UnmarshalJSON(raw []byte) error {
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Data) > 0 {
		if string(wrapped.Data) == "null" {
			return nil
		}
		return json.Unmarshal(wrapped.Data, &e.value)
	}
	return json.Unmarshal(raw, &e.value)
}

// Ping checks that the API answers a minimal customer listing
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("page", "1")
	q.Set("limit", "1")
	return c.do(ctx, call{op: "Ping", method: http.MethodGet, route: "/customers", path: "/customers", query: q}, nil)
}
