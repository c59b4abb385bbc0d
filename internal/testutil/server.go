// Package testutil provides an in-process fake of the Hoist backend.
package testutil

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// FakeBackend stands in for the Hoist GraphQL API plus its object store. The
// GraphQL server implements the upload mutations against in-memory state and
// hands out pre-signed-looking URLs pointing at the storage server, so whole
// uploads can run end to end without touching the network.
type FakeBackend struct {
	// GraphQL serves the upload mutations
	GraphQL *httptest.Server

	// Storage accepts the PUTs addressed by prepared part URLs
	Storage *httptest.Server

	// AuthToken, when set, is required as the bearer token on GraphQL calls
	AuthToken string

	// FailComplete makes complete_multipart_file_upload report false
	FailComplete bool

	mu           sync.Mutex
	nextID       int
	sessions     map[string]*fakeSession // keyed by upload_id
	objects      map[string][]byte       // assembled bodies keyed by storage_key
	aborted      []string                // upload_ids
	putFailures  map[int32]int           // part number -> remaining induced failures (-1 forever)
	completeSeen int
}

type fakeSession struct {
	fileID      string
	ownerID     string
	storageKey  string
	uploadID    string
	byteSize    int64
	contentType string
	filename    string
	direct      bool
	parts       map[int32][]byte
	etags       map[int32]string
}

// NewFakeBackend starts the fake servers. Callers own the returned backend
// and must Close it.
func NewFakeBackend() *FakeBackend {
	b := &FakeBackend{
		sessions:    make(map[string]*fakeSession),
		objects:     make(map[string][]byte),
		putFailures: make(map[int32]int),
	}
	b.GraphQL = httptest.NewServer(http.HandlerFunc(b.handleGraphQL))
	b.Storage = httptest.NewServer(http.HandlerFunc(b.handleStorage))
	return b
}

// Close shuts both servers down.
func (b *FakeBackend) Close() {
	b.GraphQL.Close()
	b.Storage.Close()
}

// FailPut makes the storage server answer the given part number with status
// 500 for the next count attempts; count < 0 fails it forever.
func (b *FakeBackend) FailPut(partNumber int32, count int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.putFailures[partNumber] = count
}

// Object returns the assembled body stored under the given storage key.
func (b *FakeBackend) Object(storageKey string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	body, ok := b.objects[storageKey]
	return body, ok
}

// Aborted returns the upload IDs that were aborted.
func (b *FakeBackend) Aborted() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.aborted))
	copy(out, b.aborted)
	return out
}

// CompleteCalls returns how many completion mutations the backend received.
func (b *FakeBackend) CompleteCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.completeSeen
}

func (b *FakeBackend) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	if b.AuthToken != "" && r.Header.Get("Authorization") != "Bearer "+b.AuthToken {
		writeGraphQLErrors(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var envelope struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		writeGraphQLErrors(w, http.StatusBadRequest, "malformed request body")
		return
	}

	switch {
	case strings.Contains(envelope.Query, "create_multipart_file_upload"):
		b.handleCreate(w, envelope.Variables, false)
	case strings.Contains(envelope.Query, "create_file_upload"):
		b.handleCreate(w, envelope.Variables, true)
	case strings.Contains(envelope.Query, "prepare_multipart_file_upload_part"):
		b.handlePrepare(w, envelope.Variables)
	case strings.Contains(envelope.Query, "complete_multipart_file_upload"):
		b.handleComplete(w, envelope.Variables)
	case strings.Contains(envelope.Query, "abort_multipart_file_upload"):
		b.handleAbort(w, envelope.Variables)
	default:
		writeGraphQLErrors(w, http.StatusOK, "unknown operation")
	}
}

func (b *FakeBackend) handleCreate(w http.ResponseWriter, vars map[string]any, direct bool) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	session := &fakeSession{
		fileID:      fmt.Sprintf("file-%d", id),
		ownerID:     fmt.Sprintf("owner-%d", id),
		storageKey:  fmt.Sprintf("uploads/file-%d", id),
		uploadID:    fmt.Sprintf("upload-%d", id),
		byteSize:    asInt64(vars["byteSize"]),
		contentType: asString(vars["contentType"]),
		filename:    asString(vars["filename"]),
		direct:      direct,
		parts:       make(map[int32][]byte),
		etags:       make(map[int32]string),
	}
	b.sessions[session.uploadID] = session
	b.mu.Unlock()

	if direct {
		writeGraphQLData(w, "create_file_upload", map[string]any{
			"file_id":  session.fileID,
			"owner_id": session.ownerID,
			"url":      b.partURL(session, 1),
		})
		return
	}
	writeGraphQLData(w, "create_multipart_file_upload", map[string]any{
		"file_id":     session.fileID,
		"owner_id":    session.ownerID,
		"storage_key": session.storageKey,
		"upload_id":   session.uploadID,
	})
}

func (b *FakeBackend) handlePrepare(w http.ResponseWriter, vars map[string]any) {
	uploadID := asString(vars["uploadId"])
	partNumber := int32(asInt64(vars["partNumber"]))

	b.mu.Lock()
	session, ok := b.sessions[uploadID]
	b.mu.Unlock()
	if !ok {
		writeGraphQLErrors(w, http.StatusOK, "upload not found")
		return
	}

	writeGraphQLData(w, "prepare_multipart_file_upload_part", map[string]any{
		"url": b.partURL(session, partNumber),
	})
}

func (b *FakeBackend) handleComplete(w http.ResponseWriter, vars map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.completeSeen++
	uploadID := asString(vars["uploadId"])
	session, ok := b.sessions[uploadID]
	if !ok {
		writeGraphQLErrorsLocked(w, "upload not found")
		return
	}
	if b.FailComplete {
		writeGraphQLData(w, "complete_multipart_file_upload", false)
		return
	}

	manifest, err := decodeManifest(vars["parts"])
	if err != nil {
		writeGraphQLErrorsLocked(w, err.Error())
		return
	}

	// The manifest must cover exactly the uploaded parts, in order, with
	// matching etags.
	if len(manifest) != len(session.parts) {
		writeGraphQLErrorsLocked(w, fmt.Sprintf("manifest lists %d parts, %d uploaded", len(manifest), len(session.parts)))
		return
	}
	numbers := make([]int, 0, len(session.parts))
	for n := range session.parts {
		numbers = append(numbers, int(n))
	}
	sort.Ints(numbers)
	var body []byte
	for i, n := range numbers {
		entry := manifest[i]
		if entry.partNumber != int32(n) {
			writeGraphQLErrorsLocked(w, fmt.Sprintf("manifest out of order at index %d", i))
			return
		}
		if entry.etag != session.etags[int32(n)] {
			writeGraphQLErrorsLocked(w, fmt.Sprintf("etag mismatch for part %d", n))
			return
		}
		body = append(body, session.parts[int32(n)]...)
	}

	b.objects[session.storageKey] = body
	delete(b.sessions, uploadID)
	writeGraphQLData(w, "complete_multipart_file_upload", true)
}

func (b *FakeBackend) handleAbort(w http.ResponseWriter, vars map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	uploadID := asString(vars["uploadId"])
	b.aborted = append(b.aborted, uploadID)
	delete(b.sessions, uploadID)
	writeGraphQLData(w, "abort_multipart_file_upload", true)
}

// partURL builds a pre-signed-looking URL for one part of a session.
func (b *FakeBackend) partURL(session *fakeSession, partNumber int32) string {
	return fmt.Sprintf("%s/put?upload=%s&part=%d&sig=fake", b.Storage.URL, session.uploadID, partNumber)
}

func (b *FakeBackend) handleStorage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	uploadID := r.URL.Query().Get("upload")
	partNumber, err := strconv.Atoi(r.URL.Query().Get("part"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if remaining, ok := b.putFailures[int32(partNumber)]; ok && remaining != 0 {
		if remaining > 0 {
			b.putFailures[int32(partNumber)] = remaining - 1
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	session, ok := b.sessions[uploadID]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	sum := md5.Sum(body)
	etag := hex.EncodeToString(sum[:])

	if session.direct {
		b.objects[session.storageKey] = body
	} else {
		session.parts[int32(partNumber)] = body
		session.etags[int32(partNumber)] = etag
	}

	w.Header().Set("ETag", `"`+etag+`"`)
	w.WriteHeader(http.StatusOK)
}

type manifestEntry struct {
	partNumber int32
	etag       string
}

// decodeManifest normalizes the parts variable back out of its JSON form.
func decodeManifest(v any) ([]manifestEntry, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("malformed parts variable: %v", err)
	}
	var wire []struct {
		PartNumber int32  `json:"part_number"`
		ETag       string `json:"etag"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("malformed parts variable: %v", err)
	}
	out := make([]manifestEntry, len(wire))
	for i, entry := range wire {
		out[i] = manifestEntry{partNumber: entry.PartNumber, etag: entry.ETag}
	}
	return out, nil
}

func writeGraphQLData(w http.ResponseWriter, field string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		writeGraphQLErrors(w, http.StatusOK, "encode payload")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]json.RawMessage{field: raw},
	})
}

func writeGraphQLErrors(w http.ResponseWriter, status int, messages ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	errs := make([]map[string]string, len(messages))
	for i, message := range messages {
		errs[i] = map[string]string{"message": message}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"data": nil, "errors": errs})
}

// writeGraphQLErrorsLocked is writeGraphQLErrors for call sites already
// holding the backend mutex.
func writeGraphQLErrorsLocked(w http.ResponseWriter, messages ...string) {
	writeGraphQLErrors(w, http.StatusOK, messages...)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	default:
		return 0
	}
}
