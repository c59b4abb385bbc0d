// Package multipart handles multipart upload orchestration.
// This includes session initiation, part planning, concurrent part uploads
// via pre-signed URLs, manifest completion, and failure cleanup.
//
// The package manages the complexity of multipart operations while providing
// a simple interface for the rest of the module.
package multipart
