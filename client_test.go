// Package hoist provides comprehensive tests for client initialization and configuration.
package hoist

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoisthq/hoist-go/errors"
	"github.com/hoisthq/hoist-go/hoisttypes"
)

const (
	testEndpoint = "https://api.hoist.test/graphql"
	testToken    = "test-token"
)

// TestClient_New tests the New() constructor.
func TestClient_New(t *testing.T) {
	tests := []struct {
		name        string
		opts        []hoisttypes.Option
		wantErr     bool
		errContains string
	}{
		{
			name: "minimal configuration",
			opts: []hoisttypes.Option{
				WithEndpoint(testEndpoint),
				WithToken(testToken),
			},
			wantErr: false,
		},
		{
			name: "full configuration",
			opts: []hoisttypes.Option{
				WithEndpoint(testEndpoint),
				WithToken(testToken),
				WithUserAgent("uploader-service/2.3"),
				WithTimeout(30 * time.Second),
				WithConcurrency(10),
				WithRetryMaxAttempts(5),
			},
			wantErr: false,
		},
		{
			name:        "missing endpoint",
			opts:        []hoisttypes.Option{WithToken(testToken)},
			wantErr:     true,
			errContains: "endpoint cannot be empty",
		},
		{
			name: "missing token",
			opts: []hoisttypes.Option{
				WithEndpoint(testEndpoint),
			},
			wantErr:     true,
			errContains: "token cannot be empty",
		},
		{
			name: "endpoint without scheme",
			opts: []hoisttypes.Option{
				WithEndpoint("api.hoist.test/graphql"),
				WithToken(testToken),
			},
			wantErr:     true,
			errContains: "scheme",
		},
		{
			name: "endpoint with unsupported scheme",
			opts: []hoisttypes.Option{
				WithEndpoint("ftp://api.hoist.test/graphql"),
				WithToken(testToken),
			},
			wantErr:     true,
			errContains: "scheme",
		},
		{
			name: "token with control characters",
			opts: []hoisttypes.Option{
				WithEndpoint(testEndpoint),
				WithToken("broken\ntoken"),
			},
			wantErr:     true,
			errContains: "control characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, client)
				assert.True(t, errors.IsInvalidInput(err), "expected invalid input error, got %v", err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, client)
			assert.NotNil(t, client.gateway)
			assert.NotNil(t, client.transport)
			assert.NotNil(t, client.engine)
			assert.NotNil(t, client.uploader)
			assert.NotNil(t, client.fs)
		})
	}
}

// TestClient_New_WithDefaults tests that default values are applied correctly.
func TestClient_New_WithDefaults(t *testing.T) {
	client, err := New(WithEndpoint(testEndpoint), WithToken(testToken))
	require.NoError(t, err)
	require.NotNil(t, client)

	assert.Equal(t, defaultUserAgent, client.config.UserAgent)
	assert.Equal(t, 5, client.config.Concurrency)
	assert.Equal(t, 3, client.config.RetryMaxAttempts)
	assert.Zero(t, client.config.Timeout)
}

// TestClient_New_ConcurrentSafety tests that client creation is safe for concurrent use.
func TestClient_New_ConcurrentSafety(t *testing.T) {
	const numGoroutines = 10
	const numCreations = 20

	var wg sync.WaitGroup
	clients := make([]*Client, 0, numGoroutines*numCreations)
	var clientsMu sync.Mutex

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numCreations; j++ {
				client, err := New(WithEndpoint(testEndpoint), WithToken(testToken))
				require.NoError(t, err)
				require.NotNil(t, client)

				clientsMu.Lock()
				clients = append(clients, client)
				clientsMu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Len(t, clients, numGoroutines*numCreations)
}

// TestClient_OptionPrecedence tests that later options override earlier ones.
func TestClient_OptionPrecedence(t *testing.T) {
	client, err := New(
		WithEndpoint("https://first.hoist.test/graphql"),
		WithEndpoint(testEndpoint), // This should override the previous endpoint
		WithToken(testToken),
	)
	require.NoError(t, err)
	require.NotNil(t, client)

	assert.Equal(t, testEndpoint, client.config.Endpoint)
}

// TestClient_ConfigIsolation tests that different client instances have isolated configurations.
func TestClient_ConfigIsolation(t *testing.T) {
	client1, err := New(WithEndpoint(testEndpoint), WithToken(testToken), WithConcurrency(2))
	require.NoError(t, err)

	client2, err := New(WithEndpoint(testEndpoint), WithToken(testToken), WithConcurrency(12))
	require.NoError(t, err)

	assert.Equal(t, 2, client1.config.Concurrency)
	assert.Equal(t, 12, client2.config.Concurrency)
}

// TestWithConcurrency tests that non-positive concurrency values are ignored.
func TestWithConcurrency(t *testing.T) {
	tests := []struct {
		name        string
		concurrency int
		expected    int
	}{
		{name: "concurrency 1", concurrency: 1, expected: 1},
		{name: "concurrency 20", concurrency: 20, expected: 20},
		{name: "zero keeps default", concurrency: 0, expected: 5},
		{name: "negative keeps default", concurrency: -1, expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(
				WithEndpoint(testEndpoint),
				WithToken(testToken),
				WithConcurrency(tt.concurrency),
			)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, client.config.Concurrency)
		})
	}
}

// TestWithRetryMaxAttempts tests that non-positive attempt counts are ignored.
func TestWithRetryMaxAttempts(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
		expected int
	}{
		{name: "single attempt disables retries", attempts: 1, expected: 1},
		{name: "five attempts", attempts: 5, expected: 5},
		{name: "zero keeps default", attempts: 0, expected: 3},
		{name: "negative keeps default", attempts: -2, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(
				WithEndpoint(testEndpoint),
				WithToken(testToken),
				WithRetryMaxAttempts(tt.attempts),
			)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, client.config.RetryMaxAttempts)
		})
	}
}

// TestWithCustomHTTPClient tests the WithCustomHTTPClient option.
func TestWithCustomHTTPClient(t *testing.T) {
	httpClient := &http.Client{Timeout: 42 * time.Second}

	client, err := New(
		WithEndpoint(testEndpoint),
		WithToken(testToken),
		WithCustomHTTPClient(httpClient),
	)
	require.NoError(t, err)
	assert.Same(t, httpClient, client.config.CustomHTTPClient)
}

// TestWithFilesystem tests the WithFilesystem option.
func TestWithFilesystem(t *testing.T) {
	memFS := billy.NewInMemoryFS()

	client, err := New(
		WithEndpoint(testEndpoint),
		WithToken(testToken),
		WithFilesystem(memFS),
	)
	require.NoError(t, err)
	assert.Equal(t, memFS, client.fs)
}

// TestClient_SetFilesystem tests swapping the filesystem after creation.
func TestClient_SetFilesystem(t *testing.T) {
	client, err := New(WithEndpoint(testEndpoint), WithToken(testToken))
	require.NoError(t, err)

	memFS := billy.NewInMemoryFS()
	client.SetFilesystem(memFS)
	assert.Equal(t, memFS, client.fs)
}

// TestClient_Close tests that Close succeeds on a fresh client.
func TestClient_Close(t *testing.T) {
	client, err := New(WithEndpoint(testEndpoint), WithToken(testToken))
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}

// BenchmarkClient_New benchmarks client creation performance.
func BenchmarkClient_New(b *testing.B) {
	for i := 0; i < b.N; i++ {
		client, err := New(WithEndpoint(testEndpoint), WithToken(testToken))
		if err != nil {
			b.Fatal(err)
		}
		_ = client
	}
}
