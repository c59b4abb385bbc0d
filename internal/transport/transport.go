package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hoisthq/hoist-go/hoisttypes"
	"github.com/hoisthq/hoist-go/internal/hoistapi"
)

// Client issues raw HTTP PUT requests against pre-signed URLs. It is safe for
// concurrent use by multiple goroutines.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// New creates a transport client backed by the given HTTP client.
func New(httpClient *http.Client, userAgent string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Put uploads body to url with the given headers and returns the response
// status code and headers. The response body is drained and discarded so the
// underlying connection can be reused.
func (c *Client) Put(
	ctx context.Context,
	url string,
	headers map[string]string,
	body []byte,
) (*hoisttypes.TransportResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.ContentLength = int64(len(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute put: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	return &hoisttypes.TransportResponse{
		Status: resp.StatusCode,
		Header: resp.Header,
	}, nil
}

// Verify that the client implements the transport interface
var _ hoistapi.Transport = (*Client)(nil)
