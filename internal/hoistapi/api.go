// Package hoistapi defines interfaces for Hoist API operations to enable testing and mocking.
package hoistapi

import (
	"context"

	"github.com/hoisthq/hoist-go/hoisttypes"
)

// Gateway defines the interface for GraphQL request execution used by this module.
// This interface allows for mocking in tests and potential future implementations.
type Gateway interface {
	// Request sends one query or mutation with its variables to the configured
	// endpoint and returns the HTTP status alongside the parsed response body.
	// A non-nil response is returned whenever the round trip completed, even if
	// the server reported GraphQL-level errors.
	Request(ctx context.Context, query string, variables map[string]any) (*hoisttypes.GraphQLResponse, error)
}

// Transport defines the interface for raw object delivery to pre-signed URLs.
type Transport interface {
	// Put issues an HTTP PUT of body to url with the given headers and returns
	// the response status and headers. Status interpretation is the caller's.
	Put(ctx context.Context, url string, headers map[string]string, body []byte) (*hoisttypes.TransportResponse, error)
}
