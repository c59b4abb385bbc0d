// Package errors provides error types and handling for Hoist upload operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a Hoist operation error with context about the operation that
// failed. It wraps the underlying gateway or transport error with additional
// context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "Upload", "Initiate", "Finalize")
	Op string

	// Key is the storage key of the object being assembled (if applicable)
	Key string

	// UploadID is the server-issued multipart upload identifier (if applicable)
	UploadID string

	// Err is the underlying error from the gateway, transport, or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Key != "" && e.UploadID != "" {
		return fmt.Sprintf("hoist.%s %s (upload %s): %v", e.Op, e.Key, e.UploadID, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("hoist.%s %s: %v", e.Op, e.Key, e.Err)
	}
	if e.UploadID != "" {
		return fmt.Sprintf("hoist.%s upload %s: %v", e.Op, e.UploadID, e.Err)
	}
	return fmt.Sprintf("hoist.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithKey adds storage key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithUploadID adds upload identifier context to an existing error.
func (e *Error) WithUploadID(uploadID string) *Error {
	e.UploadID = uploadID
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewSessionError creates a new Error with storage key and upload identifier
// context taken from an active upload session.
func NewSessionError(op, key, uploadID string, err error) *Error {
	return &Error{
		Op:       op,
		Key:      key,
		UploadID: uploadID,
		Err:      err,
	}
}

// NewPartError creates a new Error for a failure scoped to a single part of an
// active upload session.
func NewPartError(op string, partNumber int32, key, uploadID string, err error) *Error {
	return &Error{
		Op:       op,
		Key:      key,
		UploadID: uploadID,
		Err:      fmt.Errorf("part %d: %w", partNumber, err),
	}
}

// Sentinel errors for the failure kinds an upload can surface.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("hoist: invalid input")

	// ErrInitiation indicates that creating the upload session failed
	ErrInitiation = errors.New("hoist: upload initiation failed")

	// ErrRead indicates that the byte source returned fewer bytes than the part
	// plan declared, typically because the file changed size after initiation
	ErrRead = errors.New("hoist: source read failed")

	// ErrPartURL indicates that requesting a pre-signed part URL failed
	ErrPartURL = errors.New("hoist: part url request failed")

	// ErrPartUpload indicates that uploading a part body was rejected
	ErrPartUpload = errors.New("hoist: part upload failed")

	// ErrFinalization indicates that completing the multipart upload failed,
	// leaving the storage-side upload in an incomplete state
	ErrFinalization = errors.New("hoist: upload finalization failed")

	// ErrGateway indicates a failure talking to the GraphQL endpoint itself
	ErrGateway = errors.New("hoist: gateway request failed")
)

// IsInvalidInput checks if an error indicates invalid input.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsInitiation checks if an error indicates the upload session could not be created.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInitiation(err error) bool {
	return errors.Is(err, ErrInitiation)
}

// IsRead checks if an error indicates a short or failed source read.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsRead(err error) bool {
	return errors.Is(err, ErrRead)
}

// IsPartURL checks if an error indicates a pre-signed part URL could not be obtained.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsPartURL(err error) bool {
	return errors.Is(err, ErrPartURL)
}

// IsPartUpload checks if an error indicates a part body upload was rejected.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsPartUpload(err error) bool {
	return errors.Is(err, ErrPartUpload)
}

// IsFinalization checks if an error indicates the completion call failed.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsFinalization(err error) bool {
	return errors.Is(err, ErrFinalization)
}

// IsGateway checks if an error indicates a transport-level GraphQL failure.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsGateway(err error) bool {
	return errors.Is(err, ErrGateway)
}
