package validation

import (
	"strings"
	"testing"

	"github.com/hoisthq/hoist-go/errors"
)

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		name      string
		endpoint  string
		wantError bool
		errMsg    string
	}{
		// Valid endpoints
		{"valid_https", "https://api.hoist.dev/graphql", false, ""},
		{"valid_http", "http://localhost:8080/graphql", false, ""},
		{"valid_with_port", "https://api.hoist.dev:8443/graphql", false, ""},

		// Invalid endpoints
		{"empty", "", true, "endpoint cannot be empty"},
		{"missing_scheme", "api.hoist.dev/graphql", true, "endpoint must use the http or https scheme"},
		{"wrong_scheme", "ftp://api.hoist.dev/graphql", true, "endpoint must use the http or https scheme"},
		{"missing_host", "https:///graphql", true, "endpoint must include a host"},
		{"garbage", "http://\x7f", true, "endpoint is not a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEndpoint(tt.endpoint)
			checkValidationResult(t, err, tt.wantError, tt.errMsg)
		})
	}
}

func TestValidateToken(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		wantError bool
		errMsg    string
	}{
		{"valid", "tok_live_4eC39HqLyjWDarjtT1zdp7dc", false, ""},
		{"empty", "", true, "token cannot be empty"},
		{"newline", "tok\nsecond-line", true, "token cannot contain control characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateToken(tt.token)
			checkValidationResult(t, err, tt.wantError, tt.errMsg)
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		wantError bool
		errMsg    string
	}{
		{"valid_simple", "report.pdf", false, ""},
		{"valid_spaces", "annual report 2026.pdf", false, ""},
		{"valid_unicode", "रिपोर्ट.pdf", false, ""},
		{"valid_max_length", strings.Repeat("a", 1024), false, ""},

		{"empty", "", true, "filename cannot be empty"},
		{"too_long", strings.Repeat("a", 1025), true, "filename cannot exceed 1024 characters"},
		{"control_chars", "report\x00.pdf", true, "filename cannot contain control characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.filename)
			checkValidationResult(t, err, tt.wantError, tt.errMsg)
		})
	}
}

func TestValidateSize(t *testing.T) {
	tests := []struct {
		name      string
		size      int64
		wantError bool
	}{
		{"zero", 0, false},
		{"positive", 1 << 30, false},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSize(tt.size)
			if tt.wantError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateOwner(t *testing.T) {
	if err := ValidateOwner(map[string]any{"type": "project", "id": "p-1"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateOwner("project:p-1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateOwner(nil); err == nil {
		t.Error("expected error for nil owner, got nil")
	}
}

func TestValidateUploadURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantError bool
	}{
		{"valid_presigned", "https://storage.hoist.dev/obj?X-Amz-Signature=abc", false},
		{"empty", "", true},
		{"relative", "/obj/part-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUploadURL(tt.url)
			if tt.wantError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateContentType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantError   bool
	}{
		{"empty_allowed", "", false},
		{"simple", "application/pdf", false},
		{"with_params", "text/plain; charset=utf-8", false},
		{"vendor_tree", "application/vnd.ms-excel", false},
		{"missing_subtype", "application", true},
		{"leading_slash", "/pdf", true},
		{"spaces", "application/ pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContentType(tt.contentType)
			if tt.wantError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateConcurrency(t *testing.T) {
	if err := ValidateConcurrency(4); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateConcurrency(0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateConcurrency(-1); err == nil {
		t.Error("expected error, got nil")
	}
}

// checkValidationResult asserts the outcome of a validation call, including
// that failures carry the ErrInvalidInput sentinel.
func checkValidationResult(t *testing.T, err error, wantError bool, errMsg string) {
	t.Helper()

	if !wantError {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		return
	}
	if err == nil {
		t.Error("expected error, got nil")
		return
	}
	if !errors.IsInvalidInput(err) {
		t.Errorf("expected invalid input error, got: %v", err)
	}
	if errMsg != "" && !strings.Contains(err.Error(), errMsg) {
		t.Errorf("expected error containing %q, got: %v", errMsg, err)
	}
}
