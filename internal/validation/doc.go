// Package validation provides centralized input validation logic.
// This includes endpoint, token, filename, and content-type checks.
//
// All caller-supplied inputs are validated before any network round trip so
// misconfiguration fails fast instead of surfacing as confusing server errors.
package validation
