// Package hoist provides functional options for configuring client behavior.
// These options follow the functional options pattern for clean, composable configuration.
package hoist

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/hoisthq/hoist-go/hoisttypes"
)

// WithEndpoint sets the GraphQL endpoint all API calls are sent to.
// This option is required; New fails without a usable endpoint.
func WithEndpoint(endpoint string) hoisttypes.Option {
	return func(c *hoisttypes.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithToken sets the bearer token presented on every API call.
// This option is required; New fails without a token.
func WithToken(token string) hoisttypes.Option {
	return func(c *hoisttypes.ClientConfig) {
		c.Token = token
	}
}

// WithUserAgent overrides the User-Agent header sent on API and storage
// requests.
func WithUserAgent(userAgent string) hoisttypes.Option {
	return func(c *hoisttypes.ClientConfig) {
		c.UserAgent = userAgent
	}
}

// WithTimeout sets the timeout for individual HTTP requests.
// Default is no timeout (0). Values should be positive durations.
func WithTimeout(timeout time.Duration) hoisttypes.Option {
	return func(c *hoisttypes.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithConcurrency sets the maximum number of parts uploaded concurrently.
// Default is 5 concurrent parts.
func WithConcurrency(concurrency int) hoisttypes.Option {
	return func(c *hoisttypes.ClientConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithRetryMaxAttempts sets the total number of attempts for each part URL
// fetch and part PUT. Default is 3 attempts. Set to 1 to disable retries.
func WithRetryMaxAttempts(attempts int) hoisttypes.Option {
	return func(c *hoisttypes.ClientConfig) {
		if attempts > 0 {
			c.RetryMaxAttempts = attempts
		}
	}
}

// WithCustomHTTPClient allows providing a custom HTTP client.
// This gives full control over HTTP behavior including proxies and TLS.
// When set, WithTimeout has no effect; configure the client directly.
func WithCustomHTTPClient(client *http.Client) hoisttypes.Option {
	return func(c *hoisttypes.ClientConfig) {
		c.CustomHTTPClient = client
	}
}

// WithLogger sets the structured logger for upload progress and failures.
// If not specified, the client logs nothing.
func WithLogger(logger *slog.Logger) hoisttypes.Option {
	return func(c *hoisttypes.ClientConfig) {
		c.Logger = logger
	}
}

// WithFilesystem sets a custom filesystem implementation for file operations.
// This allows using in-memory filesystems for testing or virtual filesystems.
// If not specified, defaults to the OS filesystem.
func WithFilesystem(filesystem fs.Filesystem) hoisttypes.Option {
	return func(c *hoisttypes.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithContentType sets the content type for upload operations.
// If not specified, the content type is detected from the source.
func WithContentType(contentType string) hoisttypes.UploadOption {
	return func(c *hoisttypes.UploadOptionConfig) {
		c.ContentType = contentType
	}
}

// WithProgress sets a progress tracker for upload operations.
func WithProgress(tracker hoisttypes.ProgressTracker) hoisttypes.UploadOption {
	return func(c *hoisttypes.UploadOptionConfig) {
		c.ProgressTracker = tracker
	}
}

// WithUploadConcurrency sets the part concurrency for a single upload.
// This overrides the client-level default for this specific upload.
func WithUploadConcurrency(concurrency int) hoisttypes.UploadOption {
	return func(c *hoisttypes.UploadOptionConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}
