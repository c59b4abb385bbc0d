package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/hoisthq/hoist-go/errors"
)

// maxFilenameLength is the longest filename accepted by the upload API.
const maxFilenameLength = 1024

// ValidateEndpoint validates that the GraphQL endpoint is an absolute HTTP or
// HTTPS URL. Returns ErrInvalidInput if the endpoint is unusable.
func ValidateEndpoint(endpoint string) error {
	if endpoint == "" {
		return errors.NewError("validateEndpoint", errors.ErrInvalidInput).
			WithMessage("endpoint cannot be empty")
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return errors.NewError("validateEndpoint", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("endpoint is not a valid URL: %v", err))
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.NewError("validateEndpoint", errors.ErrInvalidInput).
			WithMessage("endpoint must use the http or https scheme")
	}
	if parsed.Host == "" {
		return errors.NewError("validateEndpoint", errors.ErrInvalidInput).
			WithMessage("endpoint must include a host")
	}

	return nil
}

// ValidateToken validates that a bearer token is present and free of
// characters that would corrupt the Authorization header.
func ValidateToken(token string) error {
	if token == "" {
		return errors.NewError("validateToken", errors.ErrInvalidInput).
			WithMessage("token cannot be empty")
	}

	if hasControlCharacters(token) {
		return errors.NewError("validateToken", errors.ErrInvalidInput).
			WithMessage("token cannot contain control characters")
	}

	return nil
}

// ValidateFilename validates the filename declared to the upload API.
func ValidateFilename(filename string) error {
	if filename == "" {
		return errors.NewError("validateFilename", errors.ErrInvalidInput).
			WithMessage("filename cannot be empty")
	}

	if len(filename) > maxFilenameLength {
		return errors.NewError("validateFilename", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("filename cannot exceed %d characters", maxFilenameLength))
	}

	if hasControlCharacters(filename) {
		return errors.NewError("validateFilename", errors.ErrInvalidInput).
			WithMessage("filename cannot contain control characters")
	}

	return nil
}

// ValidateSize validates a declared byte size.
func ValidateSize(size int64) error {
	if size < 0 {
		return errors.NewError("validateSize", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("size cannot be negative, got %d", size))
	}

	return nil
}

// ValidateOwner validates the owner descriptor passed to the upload API.
// The descriptor itself is opaque; only its presence is required.
func ValidateOwner(owner any) error {
	if owner == nil {
		return errors.NewError("validateOwner", errors.ErrInvalidInput).
			WithMessage("owner descriptor cannot be nil")
	}

	return nil
}

// ValidateUploadURL validates a pre-signed upload URL returned by the server.
func ValidateUploadURL(raw string) error {
	if raw == "" {
		return errors.NewError("validateUploadURL", errors.ErrInvalidInput).
			WithMessage("upload url cannot be empty")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return errors.NewError("validateUploadURL", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("upload url is not a valid URL: %v", err))
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.NewError("validateUploadURL", errors.ErrInvalidInput).
			WithMessage("upload url must use the http or https scheme")
	}

	return nil
}

// ValidateContentType validates that a content type is a well-formed MIME type.
func ValidateContentType(contentType string) error {
	if contentType == "" {
		return nil // Empty content type is allowed; it is detected later
	}

	mimePattern := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-+.]*\/[a-zA-Z0-9][a-zA-Z0-9\-+.]*(\s*;.*)?$`)
	if !mimePattern.MatchString(contentType) {
		return errors.NewError("validateContentType", errors.ErrInvalidInput).
			WithMessage("content type must be a valid MIME type")
	}

	return nil
}

// ValidateConcurrency validates a worker-pool concurrency setting.
func ValidateConcurrency(concurrency int) error {
	if concurrency < 0 {
		return errors.NewError("validateConcurrency", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("concurrency cannot be negative, got %d", concurrency))
	}

	return nil
}

// hasControlCharacters checks for control characters in the value
func hasControlCharacters(value string) bool {
	return strings.ContainsFunc(value, unicode.IsControl)
}
