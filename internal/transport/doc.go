// Package transport delivers byte buffers to pre-signed upload URLs.
// This includes HTTP PUT execution, header propagation, and response
// status/header capture.
//
// The package performs no interpretation of response status codes; success
// policy belongs to the callers orchestrating the upload.
package transport
