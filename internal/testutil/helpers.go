// Package testutil provides test helper functions.
package testutil

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"

	"github.com/hoisthq/hoist-go/hoisttypes"
)

// GenerateRandomData generates random bytes of the specified size.
// This is useful for creating test data for uploads.
func GenerateRandomData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(rand.Intn(256))
	}
	return data
}

// PatternData generates deterministic bytes of the specified size. The value
// at each index is a function of the index, so reassembled uploads can be
// verified byte by byte.
func PatternData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

// SessionPayload returns the initiate-response payload for a test session.
func SessionPayload(fileID, ownerID, storageKey, uploadID string) map[string]any {
	return map[string]any{
		"file_id":     fileID,
		"owner_id":    ownerID,
		"storage_key": storageKey,
		"upload_id":   uploadID,
	}
}

// GraphQLData builds a successful GraphQL response whose data carries the
// given payload under the given top-level field.
// It panics if the payload cannot be marshaled; it is for tests only.
func GraphQLData(field string, payload any) *hoisttypes.GraphQLResponse {
	raw, err := json.Marshal(payload)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal %s payload: %v", field, err))
	}
	return &hoisttypes.GraphQLResponse{
		Status: http.StatusOK,
		Data:   map[string]json.RawMessage{field: raw},
	}
}

// GraphQLErrors builds a status-200 GraphQL response carrying only
// server-reported errors.
func GraphQLErrors(messages ...string) *hoisttypes.GraphQLResponse {
	resp := &hoisttypes.GraphQLResponse{Status: http.StatusOK}
	for _, message := range messages {
		resp.Errors = append(resp.Errors, hoisttypes.GraphQLError{Message: message})
	}
	return resp
}

// GraphQLStatus builds an empty GraphQL response with the given HTTP status.
func GraphQLStatus(status int) *hoisttypes.GraphQLResponse {
	return &hoisttypes.GraphQLResponse{Status: status}
}

// ETagResponse builds a transport response with the given status and a quoted
// ETag header.
func ETagResponse(status int, etag string) *hoisttypes.TransportResponse {
	header := http.Header{}
	header.Set("ETag", fmt.Sprintf("%q", etag))
	return &hoisttypes.TransportResponse{Status: status, Header: header}
}

// StatusResponse builds a transport response with the given status and no
// headers.
func StatusResponse(status int) *hoisttypes.TransportResponse {
	return &hoisttypes.TransportResponse{Status: status, Header: http.Header{}}
}
