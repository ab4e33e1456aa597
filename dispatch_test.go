package dino

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const dispatchBundle = `({
	hello: function(req) {
		return { status: 200, headers: { "content-type": "application/json" }, body: JSON.stringify({ id: req.params.id, q: req.query.q }) };
	}
})`

func newTestDispatcher(t *testing.T) *Dispatcher {
	registry := NewTenantRegistry()
	router, err := NewRouter(dispatchBundle, []RouteEntry{
		{Pattern: "/api/hello/:id", Handlers: []RouteHandler{{Method: "GET", Handler: "hello"}}},
	})
	assert.NoError(t, err)

	registry.Register("example.com", router, func(code string) (*Worker, error) {
		return NewWorker(code, &bytes.Buffer{})
	})

	return NewDispatcher(registry, NewLogger())
}

func TestDispatcherServesMatchedRoute(t *testing.T) {
	d := newTestDispatcher(t)

	req := httptest.NewRequest(http.MethodGet, "/api/hello/42?q=go", nil)
	req.Host = "example.com:8080"
	rec := httptest.NewRecorder()

	d.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"42","q":"go"}`, rec.Body.String())
}

func TestDispatcherUnknownHost(t *testing.T) {
	d := newTestDispatcher(t)

	req := httptest.NewRequest(http.MethodGet, "/api/hello/42", nil)
	req.Host = "nope.example.com"
	rec := httptest.NewRecorder()

	d.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDispatcherMethodNotAllowed(t *testing.T) {
	d := newTestDispatcher(t)

	req := httptest.NewRequest(http.MethodPost, "/api/hello/42", nil)
	req.Host = "example.com"
	rec := httptest.NewRecorder()

	d.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStripPort(t *testing.T) {
	assert.Equal(t, "example.com", stripPort("example.com:8080"))
	assert.Equal(t, "example.com", stripPort("example.com"))
}
