// Package hoisttypes provides shared type definitions for the Hoist upload module.
package hoisttypes

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
)

// Protocol constants fixed by the backing storage API.
const (
	// MinPartSize is the minimum byte length of every non-final part of a
	// multipart upload. It is a hard lower bound imposed by the storage backend
	// and is not configurable by callers; a smaller non-final part would be
	// rejected at completion time.
	MinPartSize int64 = 5 * 1024 * 1024

	// MaxPartCount is the protocol upper bound on the number of parts in a
	// single multipart upload.
	MaxPartCount = 10000
)

// UploadState represents the lifecycle stage of one multipart upload.
type UploadState string

// Upload lifecycle states. An upload moves strictly forward through these; any
// step failure moves it to StateFailed, which is terminal.
const (
	// StateUninitiated is the zero state before the session is created
	StateUninitiated UploadState = "uninitiated"

	// StateInitiated means the server issued an UploadSession
	StateInitiated UploadState = "initiated"

	// StatePartsPending means part uploads are in flight
	StatePartsPending UploadState = "parts_pending"

	// StatePartsComplete means every planned part uploaded successfully
	StatePartsComplete UploadState = "parts_complete"

	// StateFinalized means the server assembled the parts into the final object
	StateFinalized UploadState = "finalized"

	// StateFailed is the terminal state entered on any step failure
	StateFailed UploadState = "failed"
)

// UploadSession identifies one server-side multipart upload. It is created by
// the initiate step, immutable once created, and consumed by every subsequent
// step of the same upload.
type UploadSession struct {
	// FileID is the platform identifier of the file being created
	FileID string `json:"file_id"`

	// OwnerID is the resolved identifier of the owning domain resource
	OwnerID string `json:"owner_id"`

	// StorageKey is the backend's identifier for the destination object
	StorageKey string `json:"storage_key"`

	// UploadID is the storage backend's multipart upload identifier
	UploadID string `json:"upload_id"`
}

// PartSpec describes one planned byte range of the source.
type PartSpec struct {
	// PartNumber is 1-based and contiguous across the plan
	PartNumber int32

	// ByteOffset is the range start within the source
	ByteOffset int64

	// ByteLength is the exact number of bytes this part carries
	ByteLength int64
}

// PartResult records the storage backend's content identifier for one
// successfully uploaded part. ETag is stored unquoted.
type PartResult struct {
	PartNumber int32  `json:"part_number"`
	ETag       string `json:"etag"`
}

// GraphQLError is one server-reported error from a GraphQL response body.
type GraphQLError struct {
	Message string `json:"message"`
}

// GraphQLResponse is the parsed result of one GraphQL round trip. Status is the
// HTTP status code; Data maps top-level response fields to their raw JSON so
// callers can decode only the operations they issued.
type GraphQLResponse struct {
	Status int
	Data   map[string]json.RawMessage
	Errors []GraphQLError
}

// TransportResponse is the observable outcome of one HTTP PUT issued by the
// transport client. Interpretation of the status code is left to the caller.
type TransportResponse struct {
	Status int
	Header http.Header
}

// ProgressTracker defines the interface for tracking upload progress.
// Implementations can provide real-time progress updates during uploads.
type ProgressTracker interface {
	// Update is called as parts complete with cumulative transfer progress
	Update(bytesTransferred, totalBytes int64)

	// Complete is called when the upload finalizes successfully
	Complete()

	// Error is called when the upload fails
	Error(err error)
}

// UploadResult contains the result of an upload operation.
type UploadResult struct {
	// FileID is the platform identifier of the uploaded file
	FileID string

	// OwnerID is the resolved identifier of the owning resource
	OwnerID string

	// StorageKey is the backend's identifier for the assembled object
	StorageKey string

	// UploadID is the multipart upload identifier (empty for direct uploads)
	UploadID string

	// Size is the number of bytes uploaded
	Size int64

	// Parts is the number of parts uploaded (1 for direct uploads)
	Parts int

	// ContentType is the content type declared to the server
	ContentType string

	// Duration is how long the upload took
	Duration time.Duration
}

// Configuration types for functional options

// ClientConfig holds configuration for the Hoist client.
type ClientConfig struct {
	Endpoint         string
	Token            string
	UserAgent        string
	Timeout          time.Duration
	Concurrency      int
	RetryMaxAttempts int
	CustomHTTPClient *http.Client
	Logger           *slog.Logger
	Filesystem       fs.Filesystem // Filesystem abstraction for file operations
}

// UploadOptionConfig holds configuration for upload operations via functional options.
type UploadOptionConfig struct {
	ContentType     string
	ProgressTracker ProgressTracker
	Concurrency     int
}

// Option is a functional option for configuring the Hoist client.
type (
	Option func(*ClientConfig)
	// UploadOption is a functional option for configuring upload operations.
	UploadOption func(*UploadOptionConfig)
)
