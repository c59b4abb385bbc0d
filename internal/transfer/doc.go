// Package transfer manages complex upload transfer operations.
// This includes multipart upload coordination, progress tracking,
// and concurrency management.
//
// The transfer package orchestrates high-level transfer operations and
// delegates the individual network calls to the gateway and transport.
package transfer
