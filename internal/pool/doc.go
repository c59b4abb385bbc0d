// Package pool provides memory management optimizations.
// This includes buffer pooling and resource reuse to reduce allocations.
//
// Part uploads read fixed-size byte ranges over and over; pooling those
// buffers keeps steady-state allocation flat regardless of file size.
package pool
