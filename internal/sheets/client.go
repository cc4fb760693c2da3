// Package sheets is the client of the remote persistence API: a single
// endpoint taking {action, payload} and answering {success, data, message}.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("titling.sheets")

// Action names a persistence operation.
type Action string

const (
	ActionGetCustomers           Action = "GET_CUSTOMERS"
	ActionUpdateCustomer         Action = "UPDATE_CUSTOMER"
	ActionDeleteCustomer         Action = "DELETE_CUSTOMER"
	ActionLogHistory             Action = "LOG_HISTORY"
	ActionAddCustomersFromCSV    Action = "ADD_CUSTOMERS_FROM_CSV"
	ActionUpdateCustomersFromCSV Action = "UPDATE_CUSTOMERS_FROM_CSV"
)

// Response is the envelope of every reply.
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Count   *int            `json:"count,omitempty"`
}

type request struct {
	Action  Action `json:"action"`
	Payload any    `json:"payload,omitempty"`
}

// Client calls the persistence endpoint.
type Client struct {
	url     string
	http    *http.Client
	metrics *Metrics
}

type Option func(*Client)

// WithHTTPClient replaces the default client, whose only setting is the
// timeout passed to New.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func New(url string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call posts one action. The body is sent as text/plain, which the endpoint
// requires to avoid a CORS preflight. An empty 2xx body counts as success
// with an empty list.
func (c *Client) Call(ctx context.Context, action Action, payload any) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "sheets."+string(action),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("sheets.action", string(action))),
	)
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = string(GetCategory(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		} else {
			span.SetStatus(codes.Ok, "")
		}
		c.metrics.ObserveCall(action, outcome, time.Since(start))
		span.End()
	}()

	body, err := json.Marshal(request{Action: action, Payload: payload})
	if err != nil {
		return nil, newAPIError(ErrorMalformed, action, "could not encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, newAPIError(ErrorTransport, action, err.Error(), err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=UTF-8")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, newAPIError(ErrorTransport, action, err.Error(), err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, newAPIError(ErrorTransport, action, err.Error(), err)
	}
	span.SetAttributes(attribute.Int("http.status_code", httpResp.StatusCode))

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		text := strings.TrimSpace(string(raw))
		msg := text
		if text == "" || strings.HasPrefix(text, "<") {
			msg = "Error del servidor: " + httpResp.Status
		}
		apiErr := newAPIError(ErrorTransport, action, msg, nil)
		apiErr.StatusCode = httpResp.StatusCode
		return nil, apiErr
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return &Response{Success: true, Data: json.RawMessage("[]")}, nil
	}
	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, newAPIError(ErrorMalformed, action, MsgInvalidResponse, err)
	}
	if !out.Success {
		return nil, newAPIError(ErrorApplication, action, out.Message, nil)
	}
	return &out, nil
}

// GetCustomers returns the raw customer records. Each element is left
// untyped for the normalizer.
func (c *Client) GetCustomers(ctx context.Context) ([]any, error) {
	resp, err := c.Call(ctx, ActionGetCustomers, nil)
	if err != nil {
		return nil, err
	}
	var records []any
	if err := json.Unmarshal(resp.Data, &records); err != nil || records == nil {
		return nil, newAPIError(ErrorMalformed, ActionGetCustomers, MsgUnexpectedFormat, err)
	}
	return records, nil
}

// UpdateCustomer replaces one full customer record.
func (c *Client) UpdateCustomer(ctx context.Context, customer any) error {
	_, err := c.Call(ctx, ActionUpdateCustomer, map[string]any{"customer": customer})
	return err
}

func (c *Client) DeleteCustomer(ctx context.Context, customerID string) error {
	_, err := c.Call(ctx, ActionDeleteCustomer, map[string]any{"customerId": customerID})
	return err
}

// LogHistory appends entries to the remote history sheet.
func (c *Client) LogHistory(ctx context.Context, customerID string, logs any) error {
	_, err := c.Call(ctx, ActionLogHistory, map[string]any{"customerId": customerID, "logs": logs})
	return err
}

// AddCustomersFromCSV inserts the rows of csv server side and returns the
// reported count, or -1 when the endpoint did not report one.
func (c *Client) AddCustomersFromCSV(ctx context.Context, csv string) (int, error) {
	return c.csvCall(ctx, ActionAddCustomersFromCSV, csv)
}

// UpdateCustomersFromCSV updates existing rows server side.
func (c *Client) UpdateCustomersFromCSV(ctx context.Context, csv string) (int, error) {
	return c.csvCall(ctx, ActionUpdateCustomersFromCSV, csv)
}

func (c *Client) csvCall(ctx context.Context, action Action, csv string) (int, error) {
	resp, err := c.Call(ctx, action, map[string]any{"csvString": csv})
	if err != nil {
		return 0, err
	}
	return resp.ReportedCount(), nil
}

// ReportedCount reads data.count, falling back to the top-level count.
func (r *Response) ReportedCount() int {
	var data struct {
		Count *int `json:"count"`
	}
	if len(r.Data) > 0 && json.Unmarshal(r.Data, &data) == nil && data.Count != nil {
		return *data.Count
	}
	if r.Count != nil {
		return *r.Count
	}
	return -1
}
