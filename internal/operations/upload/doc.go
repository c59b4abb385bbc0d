// Package upload handles direct single-request file uploads.
// A direct upload registers the file with one mutation and delivers the
// whole body with one PUT to the returned pre-signed URL.
//
// The package suits small payloads; larger files should go through the
// multipart engine, which splits, retries, and aborts per part.
package upload
