// Package testutil provides test utilities and mocks for Hoist upload operations.
// This package is internal and should only be used for testing within the module.
package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/hoisthq/hoist-go/hoisttypes"
	"github.com/hoisthq/hoist-go/internal/hoistapi"
)

// GatewayCall records one GraphQL request observed by MockGateway.
type GatewayCall struct {
	Query     string
	Variables map[string]any
}

// MockGateway is a mock implementation of the hoistapi.Gateway interface for
// testing. Behavior is customized through RequestFunc; every call is recorded
// so tests can assert on the requests an operation issued.
type MockGateway struct {
	RequestFunc func(ctx context.Context, query string, variables map[string]any) (*hoisttypes.GraphQLResponse, error)

	mu    sync.Mutex
	calls []GatewayCall
}

// Request mocks GraphQL request execution.
func (m *MockGateway) Request(
	ctx context.Context,
	query string,
	variables map[string]any,
) (*hoisttypes.GraphQLResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, GatewayCall{Query: query, Variables: variables})
	m.mu.Unlock()

	if m.RequestFunc != nil {
		return m.RequestFunc(ctx, query, variables)
	}
	return &hoisttypes.GraphQLResponse{
		Status: http.StatusOK,
		Data:   map[string]json.RawMessage{},
	}, nil
}

// Calls returns a snapshot of all recorded requests.
func (m *MockGateway) Calls() []GatewayCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GatewayCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsFor returns the recorded requests whose query mentions the given
// top-level operation field.
func (m *MockGateway) CallsFor(field string) []GatewayCall {
	var out []GatewayCall
	for _, call := range m.Calls() {
		if strings.Contains(call.Query, field) {
			out = append(out, call)
		}
	}
	return out
}

// TransportCall records one PUT observed by MockTransport.
type TransportCall struct {
	URL      string
	Headers  map[string]string
	BodySize int
}

// MockTransport is a mock implementation of the hoistapi.Transport interface
// for testing. The default behavior accepts every PUT with status 200 and a
// quoted mock ETag header.
type MockTransport struct {
	PutFunc func(ctx context.Context, url string, headers map[string]string, body []byte) (*hoisttypes.TransportResponse, error)

	mu    sync.Mutex
	calls []TransportCall
}

// Put mocks pre-signed URL delivery.
func (m *MockTransport) Put(
	ctx context.Context,
	url string,
	headers map[string]string,
	body []byte,
) (*hoisttypes.TransportResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, TransportCall{URL: url, Headers: headers, BodySize: len(body)})
	m.mu.Unlock()

	if m.PutFunc != nil {
		return m.PutFunc(ctx, url, headers, body)
	}
	header := http.Header{}
	header.Set("ETag", `"mock-etag"`)
	return &hoisttypes.TransportResponse{Status: http.StatusOK, Header: header}, nil
}

// Calls returns a snapshot of all recorded PUTs.
func (m *MockTransport) Calls() []TransportCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TransportCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// Ensure the mocks implement the hoistapi interfaces
var (
	_ hoistapi.Gateway   = (*MockGateway)(nil)
	_ hoistapi.Transport = (*MockTransport)(nil)
)
