package pool

import (
	"sync"
)

const (
	// SmallBufferSize defines the size for small buffers (64KB), used for
	// direct uploads of small bodies
	SmallBufferSize = 64 * 1024

	// PartBufferSize matches the fixed minimum part length of a multipart
	// upload (5MB), so one pooled buffer holds any planned part
	PartBufferSize = 5 * 1024 * 1024
)

// BufferPool manages reusable byte buffers for part reads to reduce allocations.
type BufferPool struct {
	small *sync.Pool
	part  *sync.Pool
}

// NewBufferPool creates a new buffer pool with default sizes.
func NewBufferPool() *BufferPool {
	return &BufferPool{
		small: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, SmallBufferSize)
				return &buf
			},
		},
		part: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, PartBufferSize)
				return &buf
			},
		},
	}
}

// Get returns a buffer of exactly size bytes, backed by a pooled allocation
// when size fits a pool tier. Buffers larger than PartBufferSize are allocated
// fresh and will not be pooled on return.
// The caller is responsible for calling Put when done with the buffer.
func (bp *BufferPool) Get(size int) []byte {
	switch {
	case size <= SmallBufferSize:
		bufPtr := bp.small.Get().(*[]byte)
		return (*bufPtr)[:size]
	case size <= PartBufferSize:
		bufPtr := bp.part.Get().(*[]byte)
		return (*bufPtr)[:size]
	default:
		return make([]byte, size)
	}
}

// Put returns a buffer to the pool matching its capacity.
// The buffer should not be used after calling Put.
func (bp *BufferPool) Put(buf []byte) {
	switch capacity := cap(buf); capacity {
	case SmallBufferSize:
		full := buf[:capacity]
		bp.small.Put(&full)
	case PartBufferSize:
		full := buf[:capacity]
		bp.part.Put(&full)
		// Oversized buffers are not pooled to avoid memory bloat
	}
}

// Global buffer pool instance for use throughout the module.
var globalBufferPool = NewBufferPool()

// GetBuffer returns a buffer of exactly size bytes from the global pool.
func GetBuffer(size int) []byte {
	return globalBufferPool.Get(size)
}

// PutBuffer returns a buffer to the global pool.
func PutBuffer(buf []byte) {
	globalBufferPool.Put(buf)
}
