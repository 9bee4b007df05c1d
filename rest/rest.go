// Package rest implements the HTTP/JSON connection used to persist records.
//
// A Connection is bound to a single collection endpoint (for example
// "https://example.test/api/people") and derives every request URL from it:
// the bare endpoint addresses the collection, "{endpoint}/{id}" addresses one
// resource, and structured filters travel URL-encoded in a "query" parameter.
// Responses are expected to be JSON: arrays for collection reads, objects for
// single reads and writes.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ledgelabs/restrec/idgen"
)

// ErrEndpointRequired is returned when a Connection has no endpoint to
// address requests against.
var ErrEndpointRequired = errors.New("rest: endpoint is required")

// StatusError represents a non-2xx response from the server.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Connection performs REST requests against one collection endpoint.
type Connection struct {
	endpoint   string
	token      string
	header     http.Header
	requestIDs bool
	httpClient *http.Client
}

// Option configures a Connection.
type Option func(*Connection)

// WithHTTPClient replaces the underlying *http.Client, the injection point
// for custom transports and timeouts.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Connection) { c.httpClient = hc }
}

// WithToken sets a bearer token sent in the Authorization header.
func WithToken(token string) Option {
	return func(c *Connection) { c.token = token }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Connection) { c.header.Add(key, value) }
}

// WithoutRequestIDs disables the X-Request-ID header.
func WithoutRequestIDs() Option {
	return func(c *Connection) { c.requestIDs = false }
}

// New creates a Connection for the given collection endpoint.
func New(endpoint string, opts ...Option) (*Connection, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, ErrEndpointRequired
	}
	c := &Connection{
		endpoint:   strings.TrimRight(endpoint, "/"),
		header:     http.Header{},
		requestIDs: true,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the collection endpoint the Connection addresses.
func (c *Connection) Endpoint() string { return c.endpoint }

// Read fetches the collection (idOrQuery nil or empty), a single resource
// (scalar idOrQuery), or a filtered collection (any other value, serialized
// as JSON into the "query" parameter). The response body is decoded into
// result.
func (c *Connection) Read(ctx context.Context, idOrQuery any, result any) error {
	target, err := c.target(idOrQuery)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodGet, target, nil, result)
}

// Create POSTs attrs to the collection endpoint and returns the decoded
// response object.
func (c *Connection) Create(ctx context.Context, attrs map[string]any) (map[string]any, error) {
	if c.endpoint == "" {
		return nil, ErrEndpointRequired
	}
	var out map[string]any
	if err := c.do(ctx, http.MethodPost, c.endpoint, attrs, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update PUTs attrs addressed by id (scalar idOrQuery) or against the
// collection (nil or query idOrQuery, for bulk updates) and returns the
// decoded response object.
func (c *Connection) Update(ctx context.Context, idOrQuery any, attrs map[string]any) (map[string]any, error) {
	target, err := c.target(idOrQuery)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := c.do(ctx, http.MethodPut, target, attrs, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete issues a DELETE with the same addressing rules as Read. It returns
// true on any 2xx response regardless of the response body.
func (c *Connection) Delete(ctx context.Context, idOrQuery any) (bool, error) {
	target, err := c.target(idOrQuery)
	if err != nil {
		return false, err
	}
	if err := c.do(ctx, http.MethodDelete, target, nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

// target computes the request URL for an id-or-query value. Scalars address
// a single resource; anything else is serialized to JSON and passed in the
// "query" parameter. Integral floats are printed without an exponent or
// decimal point so JSON-decoded numeric keys form clean paths.
func (c *Connection) target(idOrQuery any) (string, error) {
	if c.endpoint == "" {
		return "", ErrEndpointRequired
	}
	switch v := idOrQuery.(type) {
	case nil:
		return c.endpoint, nil
	case string:
		if v == "" {
			return c.endpoint, nil
		}
		return c.endpoint + "/" + url.PathEscape(v), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%s/%d", c.endpoint, v), nil
	case float32:
		return c.endpoint + "/" + strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return c.endpoint + "/" + strconv.FormatFloat(v, 'f', -1, 64), nil
	case json.Number:
		return c.endpoint + "/" + url.PathEscape(v.String()), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encoding query: %w", err)
		}
		q := url.Values{}
		q.Set("query", string(data))
		return c.endpoint + "?" + q.Encode(), nil
	}
}

// do performs an HTTP request with optional JSON body and decodes the JSON
// response. If result is nil, the response body is discarded.
func (c *Connection) do(ctx context.Context, method, target string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if c.requestIDs {
		if id, err := idgen.Generate(); err == nil {
			req.Header.Set("X-Request-ID", id)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content carries no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &StatusError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
