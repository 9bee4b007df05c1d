package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ledgelabs/restrec"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	// captured from the request
	method      string
	path        string
	requestURI  string
	query       string
	body        string
	contentType string
	auth        string
	requestID   string

	// canned response
	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.requestURI = r.RequestURI
	h.query = r.URL.Query().Get("query")
	h.contentType = r.Header.Get("Content-Type")
	h.auth = r.Header.Get("Authorization")
	h.requestID = r.Header.Get("X-Request-ID")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

// newTestConnection creates a Connection pointed at a test server with the
// given handler. The endpoint includes a collection path to mirror real use.
func newTestConnection(t *testing.T, h http.Handler, opts ...Option) (*Connection, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	c, err := New(srv.URL+"/api/people", opts...)
	if err != nil {
		srv.Close()
		t.Fatalf("New() error = %v", err)
	}
	return c, srv
}

// --- New ---

func TestNew_EmptyEndpoint(t *testing.T) {
	for _, endpoint := range []string{"", "   "} {
		if _, err := New(endpoint); !errors.Is(err, ErrEndpointRequired) {
			t.Errorf("New(%q) error = %v, want ErrEndpointRequired", endpoint, err)
		}
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c, err := New("http://localhost:8080/api/people/")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Endpoint() != "http://localhost:8080/api/people" {
		t.Errorf("Endpoint() = %q, want trailing slash trimmed", c.Endpoint())
	}
}

// --- Read ---

func TestRead_Collection(t *testing.T) {
	h := &testHandler{responseBody: `[{"id": 1, "name": "Cat"}, {"id": 2, "name": "Dog"}]`}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	var rows []map[string]any
	if err := c.Read(context.Background(), nil, &rows); err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if h.method != http.MethodGet {
		t.Errorf("method = %q, want GET", h.method)
	}
	if h.path != "/api/people" {
		t.Errorf("path = %q, want /api/people", h.path)
	}
	if h.contentType != "" {
		t.Errorf("GET should not have Content-Type, got %q", h.contentType)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[1]["name"] != "Dog" {
		t.Errorf("rows[1][name] = %v, want Dog", rows[1]["name"])
	}
}

func TestRead_EmptyStringAddressesCollection(t *testing.T) {
	h := &testHandler{responseBody: `[]`}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	var rows []map[string]any
	if err := c.Read(context.Background(), "", &rows); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if h.path != "/api/people" {
		t.Errorf("path = %q, want /api/people", h.path)
	}
}

func TestRead_ByStringID(t *testing.T) {
	h := &testHandler{responseBody: `{"id": "p-1", "name": "Cat"}`}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	var row map[string]any
	if err := c.Read(context.Background(), "p-1", &row); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if h.path != "/api/people/p-1" {
		t.Errorf("path = %q, want /api/people/p-1", h.path)
	}
	if row["name"] != "Cat" {
		t.Errorf("row[name] = %v, want Cat", row["name"])
	}
}

func TestRead_ByNumericID(t *testing.T) {
	h := &testHandler{responseBody: `{"id": 2}`}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	// JSON-decoded keys arrive as float64; the path must print them as
	// plain integers.
	if err := c.Read(context.Background(), float64(2), nil); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if h.path != "/api/people/2" {
		t.Errorf("path = %q, want /api/people/2", h.path)
	}

	if err := c.Read(context.Background(), 17, nil); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if h.path != "/api/people/17" {
		t.Errorf("path = %q, want /api/people/17", h.path)
	}
}

func TestRead_IDEscaping(t *testing.T) {
	h := &testHandler{responseBody: `{}`}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	if err := c.Read(context.Background(), "p/1", nil); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	// r.URL.Path is decoded by the Go HTTP server, so check requestURI.
	wantURI := "/api/people/p%2F1"
	if h.requestURI != wantURI {
		t.Errorf("requestURI = %q, want %q", h.requestURI, wantURI)
	}
}

func TestRead_QuerySpec(t *testing.T) {
	h := &testHandler{responseBody: `[]`}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	var rows []map[string]any
	if err := c.Read(context.Background(), []any{"stack"}, &rows); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if h.path != "/api/people" {
		t.Errorf("path = %q, want /api/people", h.path)
	}
	if h.query != `["stack"]` {
		t.Errorf("query param = %q, want %q", h.query, `["stack"]`)
	}
}

func TestRead_QuerySpecWithClauses(t *testing.T) {
	h := &testHandler{responseBody: `[]`}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	spec := []any{"active", map[string]any{"name": "Cat"}}
	if err := c.Read(context.Background(), spec, nil); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if h.query != `["active",{"name":"Cat"}]` {
		t.Errorf("query param = %q", h.query)
	}
}

// --- Create ---

func TestCreate(t *testing.T) {
	h := &testHandler{responseBody: `{"id": 2, "name": "Cat"}`}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	out, err := c.Create(context.Background(), map[string]any{"name": "Cat"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if h.method != http.MethodPost {
		t.Errorf("method = %q, want POST", h.method)
	}
	if h.path != "/api/people" {
		t.Errorf("path = %q, want /api/people", h.path)
	}
	if h.contentType != "application/json" {
		t.Errorf("content-type = %q, want application/json", h.contentType)
	}

	var reqBody map[string]any
	if err := json.Unmarshal([]byte(h.body), &reqBody); err != nil {
		t.Fatalf("unmarshaling request body: %v", err)
	}
	if reqBody["name"] != "Cat" {
		t.Errorf("request body name = %v, want Cat", reqBody["name"])
	}

	if out["id"] != float64(2) {
		t.Errorf("out[id] = %v, want 2", out["id"])
	}
}

func TestCreate_SetsRequestID(t *testing.T) {
	h := &testHandler{responseBody: `{}`}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	if _, err := c.Create(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !strings.HasPrefix(h.requestID, "req-") {
		t.Errorf("X-Request-ID = %q, want req- prefix", h.requestID)
	}
}

func TestWithoutRequestIDs(t *testing.T) {
	h := &testHandler{responseBody: `{}`}
	c, srv := newTestConnection(t, h, WithoutRequestIDs())
	defer srv.Close()

	if _, err := c.Create(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if h.requestID != "" {
		t.Errorf("X-Request-ID = %q, want unset", h.requestID)
	}
}

// --- Update ---

func TestUpdate_ByID(t *testing.T) {
	h := &testHandler{responseBody: `{"id": 2, "name": "Dog"}`}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	out, err := c.Update(context.Background(), float64(2), map[string]any{"name": "Dog"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if h.method != http.MethodPut {
		t.Errorf("method = %q, want PUT", h.method)
	}
	if h.path != "/api/people/2" {
		t.Errorf("path = %q, want /api/people/2", h.path)
	}
	if out["name"] != "Dog" {
		t.Errorf("out[name] = %v, want Dog", out["name"])
	}
}

func TestUpdate_Bulk(t *testing.T) {
	h := &testHandler{responseBody: `{"updated": 3}`}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	if _, err := c.Update(context.Background(), nil, map[string]any{"status": "archived"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if h.method != http.MethodPut {
		t.Errorf("method = %q, want PUT", h.method)
	}
	if h.path != "/api/people" {
		t.Errorf("path = %q, want /api/people", h.path)
	}
}

func TestUpdate_EmptyAttrs(t *testing.T) {
	h := &testHandler{responseBody: `{"id": 2}`}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	if _, err := c.Update(context.Background(), float64(2), map[string]any{}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if h.body != "{}" {
		t.Errorf("body = %q, want {}", h.body)
	}
}

// --- Delete ---

func TestDelete_TrueOnAny2xx(t *testing.T) {
	h := &testHandler{statusCode: http.StatusOK, responseBody: `{"whatever": "ignored"}`}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	ok, err := c.Delete(context.Background(), float64(2))
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !ok {
		t.Error("Delete() = false, want true")
	}
	if h.method != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", h.method)
	}
	if h.path != "/api/people/2" {
		t.Errorf("path = %q, want /api/people/2", h.path)
	}
}

func TestDelete_204(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNoContent}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	ok, err := c.Delete(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !ok {
		t.Error("Delete() = false, want true")
	}
}

func TestDelete_ErrorStatus(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNotFound, responseBody: `{"error": "person not found"}`}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	ok, err := c.Delete(context.Background(), "p-1")
	if ok {
		t.Error("Delete() = true, want false")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", statusErr.StatusCode)
	}
}

// --- Headers ---

func TestWithToken(t *testing.T) {
	h := &testHandler{responseBody: `[]`}
	c, srv := newTestConnection(t, h, WithToken("secret"))
	defer srv.Close()

	if err := c.Read(context.Background(), nil, nil); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if h.auth != "Bearer secret" {
		t.Errorf("Authorization = %q, want 'Bearer secret'", h.auth)
	}
}

func TestWithHeader(t *testing.T) {
	var gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/api/people", WithHeader("Accept", "application/json"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := c.Read(context.Background(), nil, nil); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
}

// --- Error handling ---

func TestError_JSONBody(t *testing.T) {
	h := &testHandler{statusCode: http.StatusBadRequest, responseBody: `{"error": "name is required"}`}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	_, err := c.Create(context.Background(), map[string]any{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", statusErr.StatusCode)
	}
	if statusErr.Message != "name is required" {
		t.Errorf("message = %q, want 'name is required'", statusErr.Message)
	}
}

func TestError_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal server error"))
	}))
	defer srv.Close()

	c, err := New(srv.URL + "/api/people")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	readErr := c.Read(context.Background(), "p-1", nil)
	if readErr == nil {
		t.Fatal("expected error, got nil")
	}

	var statusErr *StatusError
	if !errors.As(readErr, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", readErr, readErr)
	}
	if statusErr.Message != "internal server error" {
		t.Errorf("message = %q, want raw body", statusErr.Message)
	}
}

func TestStatusError_Format(t *testing.T) {
	statusErr := &StatusError{StatusCode: 403, Message: "forbidden"}
	want := "HTTP 403: forbidden"
	if statusErr.Error() != want {
		t.Errorf("Error() = %q, want %q", statusErr.Error(), want)
	}
}

func TestError_CanceledContext(t *testing.T) {
	h := &testHandler{responseBody: `[]`}
	c, srv := newTestConnection(t, h)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Read(ctx, nil, nil)
	if err == nil {
		t.Fatal("expected error for canceled context, got nil")
	}
	if !strings.Contains(err.Error(), "context canceled") {
		t.Errorf("error = %q, want to contain 'context canceled'", err.Error())
	}
}

// --- Interface compliance ---

func TestConnection_ImplementsConn(t *testing.T) {
	var _ restrec.Conn = (*Connection)(nil)
}
