package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Put(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		headers    map[string]string
		body       []byte
		wantHeader string
	}{
		{
			name:       "success returns status and response headers",
			status:     http.StatusOK,
			headers:    map[string]string{"Content-Type": "application/octet-stream"},
			body:       []byte("part-bytes"),
			wantHeader: `"abc123"`,
		},
		{
			name:   "non-success status is returned without error",
			status: http.StatusInternalServerError,
			body:   []byte("x"),
		},
		{
			name:   "empty body is allowed",
			status: http.StatusOK,
			body:   []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod string
			var gotBody []byte
			var gotContentType string

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotContentType = r.Header.Get("Content-Type")
				b, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				gotBody = b
				if tt.wantHeader != "" {
					w.Header().Set("ETag", tt.wantHeader)
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := New(server.Client(), "hoist-test/1.0")
			resp, err := client.Put(context.Background(), server.URL, tt.headers, tt.body)

			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, http.MethodPut, gotMethod)
			assert.Equal(t, tt.body, gotBody)
			if ct, ok := tt.headers["Content-Type"]; ok {
				assert.Equal(t, ct, gotContentType)
			}
			if tt.wantHeader != "" {
				assert.Equal(t, tt.wantHeader, resp.Header.Get("ETag"))
			}
		})
	}
}

func TestClient_PutSetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.Client(), "hoist-go/0.1.0")
	_, err := client.Put(context.Background(), server.URL, nil, []byte("data"))

	require.NoError(t, err)
	assert.Equal(t, "hoist-go/0.1.0", gotUA)
}

func TestClient_PutContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	client := New(server.Client(), "")
	_, err := client.Put(ctx, server.URL, nil, []byte("data"))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_PutInvalidURL(t *testing.T) {
	client := New(nil, "")
	_, err := client.Put(context.Background(), "http://\x7f", nil, []byte("data"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "build request")
}
