// Package operations contains the core Hoist operation implementations.
// These functions handle the low-level API interactions for basic
// operations like direct uploads.
//
// Each operation is isolated into its own subpackage for better organization
// and testability.
package operations
