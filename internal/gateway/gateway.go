package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hoisthq/hoist-go/hoisttypes"
	"github.com/hoisthq/hoist-go/internal/hoistapi"
)

// Config holds the construction-time configuration for a gateway client.
type Config struct {
	// Endpoint is the absolute URL of the GraphQL endpoint
	Endpoint string

	// Token is the bearer token presented on every request
	Token string

	// UserAgent is sent as the User-Agent header when non-empty
	UserAgent string

	// HTTPClient executes the requests; http.DefaultClient when nil
	HTTPClient *http.Client
}

// Client sends GraphQL queries and mutations to a single endpoint. It is safe
// for concurrent use by multiple goroutines.
type Client struct {
	endpoint   string
	token      string
	userAgent  string
	httpClient *http.Client
}

// New creates a gateway client from the given configuration.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		token:      cfg.Token,
		userAgent:  cfg.UserAgent,
		httpClient: httpClient,
	}
}

// envelope is the wire shape of a GraphQL HTTP request body.
type envelope struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// wireResponse is the wire shape of a GraphQL HTTP response body.
type wireResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []hoisttypes.GraphQLError  `json:"errors"`
}

// Request sends one query or mutation with its variables and returns the HTTP
// status alongside the parsed body. Server-reported GraphQL errors do not fail
// the call; they are surfaced on the response for the caller to interpret.
// A non-JSON body on a non-success status is tolerated and yields a response
// carrying only the status code.
func (c *Client) Request(
	ctx context.Context,
	query string,
	variables map[string]any,
) (*hoisttypes.GraphQLResponse, error) {
	payload, err := json.Marshal(envelope{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	out := &hoisttypes.GraphQLResponse{Status: resp.StatusCode}
	if len(body) == 0 {
		return out, nil
	}

	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		// Proxies and load balancers answer failed requests with HTML or
		// plain text; keep the status and let the caller decide.
		if resp.StatusCode != http.StatusOK {
			return out, nil
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	out.Data = wire.Data
	out.Errors = wire.Errors
	return out, nil
}

// Verify that the client implements the gateway interface
var _ hoistapi.Gateway = (*Client)(nil)
