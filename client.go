// Package hoist provides client initialization and configuration.
//
// The Client provides a high-level interface for uploading files to the
// Hoist platform, supporting multipart and direct uploads with built-in
// retry logic, concurrency control, and progress tracking.
package hoist

import (
	"net/http"
	"sync"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"

	"github.com/hoisthq/hoist-go/hoisttypes"
	"github.com/hoisthq/hoist-go/internal/gateway"
	"github.com/hoisthq/hoist-go/internal/hoistapi"
	"github.com/hoisthq/hoist-go/internal/operations/upload"
	"github.com/hoisthq/hoist-go/internal/transfer/multipart"
	"github.com/hoisthq/hoist-go/internal/transport"
	"github.com/hoisthq/hoist-go/internal/validation"
)

// defaultUserAgent identifies this library on gateway and storage requests.
const defaultUserAgent = "hoist-go/1"

// Client represents a Hoist upload client with configurable options.
// It provides thread-safe access to upload operations with built-in
// retry logic, concurrency control, and progress tracking.
type Client struct {
	// gateway executes GraphQL calls against the Hoist API
	gateway hoistapi.Gateway

	// transport delivers bytes to pre-signed storage URLs
	transport hoistapi.Transport

	// engine drives multipart uploads
	engine *multipart.Engine

	// uploader performs direct single-request uploads
	uploader *upload.Uploader

	// config holds the resolved client configuration
	config hoisttypes.ClientConfig

	// mu protects concurrent access to client configuration
	mu sync.RWMutex

	// fs is the filesystem abstraction for file operations
	fs fs.Filesystem
}

// New creates a new Hoist client with the provided options.
// The endpoint and token options are required; everything else has
// working defaults.
//
// Example:
//
//	client, err := hoist.New(
//	    hoist.WithEndpoint("https://api.hoist.example/graphql"),
//	    hoist.WithToken(os.Getenv("HOIST_TOKEN")),
//	    hoist.WithConcurrency(8),
//	)
func New(opts ...hoisttypes.Option) (*Client, error) {
	clientCfg := &hoisttypes.ClientConfig{
		UserAgent:        defaultUserAgent,
		Timeout:          0, // No timeout by default
		Concurrency:      5, // Default part concurrency
		RetryMaxAttempts: 3, // Default attempts per part request
	}

	for _, opt := range opts {
		opt(clientCfg)
	}

	if err := validation.ValidateEndpoint(clientCfg.Endpoint); err != nil {
		return nil, err
	}
	if err := validation.ValidateToken(clientCfg.Token); err != nil {
		return nil, err
	}
	if err := validation.ValidateConcurrency(clientCfg.Concurrency); err != nil {
		return nil, err
	}

	// Use the custom HTTP client when provided so callers control proxies
	// and TLS; otherwise build one honoring the configured timeout.
	httpClient := clientCfg.CustomHTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: clientCfg.Timeout}
	}

	gw := gateway.New(gateway.Config{
		Endpoint:   clientCfg.Endpoint,
		Token:      clientCfg.Token,
		UserAgent:  clientCfg.UserAgent,
		HTTPClient: httpClient,
	})
	tp := transport.New(httpClient, clientCfg.UserAgent)

	// Initialize filesystem - use provided one or default to OS filesystem
	var filesystem fs.Filesystem
	if clientCfg.Filesystem != nil {
		filesystem = clientCfg.Filesystem
	} else {
		// Default to OS filesystem rooted at /
		filesystem = billy.NewOSFS("/")
	}

	client := &Client{
		gateway:   gw,
		transport: tp,
		engine: multipart.New(multipart.Config{
			Gateway:          gw,
			Transport:        tp,
			Logger:           clientCfg.Logger,
			Concurrency:      clientCfg.Concurrency,
			RetryMaxAttempts: clientCfg.RetryMaxAttempts,
		}),
		uploader: upload.New(gw, tp),
		config:   *clientCfg,
		fs:       filesystem,
	}

	return client, nil
}

// NewWithClient creates a new Hoist client with custom Gateway and Transport
// implementations. This is primarily used for testing with mocks.
func NewWithClient(gw hoistapi.Gateway, tp hoistapi.Transport) *Client {
	return &Client{
		gateway:   gw,
		transport: tp,
		engine: multipart.New(multipart.Config{
			Gateway:   gw,
			Transport: tp,
		}),
		uploader: upload.New(gw, tp),
		config: hoisttypes.ClientConfig{
			Concurrency:      5,
			RetryMaxAttempts: 3,
		},
		fs: billy.NewOSFS("/"), // Default to OS filesystem
	}
}

// SetFilesystem sets the filesystem implementation for the client.
// This is useful for testing or when the filesystem needs to be changed after creation.
func (c *Client) SetFilesystem(filesystem fs.Filesystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fs = filesystem
}

// Close releases any resources held by the client.
// Currently a no-op but included for future extensibility.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Future: close idle connections on the owned HTTP client
	return nil
}
