package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Request(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     bool
		errContains string
		wantData    bool
		wantErrors  int
	}{
		{
			name:     "parses data fields",
			status:   http.StatusOK,
			body:     `{"data":{"create_multipart_file_upload":{"file_id":"f-1"}}}`,
			wantData: true,
		},
		{
			name:       "surfaces graphql errors without failing",
			status:     http.StatusOK,
			body:       `{"data":null,"errors":[{"message":"owner not found"}]}`,
			wantErrors: 1,
		},
		{
			name:   "tolerates non-json body on error status",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
		},
		{
			name:        "rejects non-json body on success status",
			status:      http.StatusOK,
			body:        `not json`,
			wantErr:     true,
			errContains: "decode response",
		},
		{
			name:   "empty body yields status only",
			status: http.StatusNoContent,
			body:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			client := New(Config{
				Endpoint:   server.URL,
				Token:      "tok-123",
				HTTPClient: server.Client(),
			})
			resp, err := client.Request(context.Background(), "query { viewer }", nil)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.status, resp.Status)
			if tt.wantData {
				assert.Contains(t, resp.Data, "create_multipart_file_upload")
			}
			assert.Len(t, resp.Errors, tt.wantErrors)
		})
	}
}

func TestClient_RequestWireFormat(t *testing.T) {
	var gotAuth, gotContentType, gotMethod string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = io.WriteString(w, `{"data":{}}`)
	}))
	defer server.Close()

	client := New(Config{
		Endpoint:   server.URL,
		Token:      "secret-token",
		UserAgent:  "hoist-go/0.1.0",
		HTTPClient: server.Client(),
	})
	vars := map[string]any{"partNumber": 2, "uploadID": "u-9"}
	_, err := client.Request(context.Background(), "mutation Prepare { }", vars)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "mutation Prepare { }", gotBody["query"])

	sent, ok := gotBody["variables"].(map[string]any)
	require.True(t, ok, "variables must be a JSON object")
	assert.Equal(t, float64(2), sent["partNumber"])
	assert.Equal(t, "u-9", sent["uploadID"])
}

func TestClient_RequestNilVariables(t *testing.T) {
	var raw []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		raw = b
		_, _ = io.WriteString(w, `{"data":{}}`)
	}))
	defer server.Close()

	client := New(Config{Endpoint: server.URL, Token: "t", HTTPClient: server.Client()})
	_, err := client.Request(context.Background(), "query { viewer }", nil)
	require.NoError(t, err)

	// The variables key is always present, mirroring the {query, variables}
	// shape the endpoint expects.
	assert.JSONEq(t, `{"query":"query { viewer }","variables":null}`, string(raw))
}

func TestClient_RequestConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := New(Config{Endpoint: server.URL, Token: "t"})
	_, err := client.Request(context.Background(), "query { viewer }", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute request")
}
