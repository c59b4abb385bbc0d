package testutil

import "sync"

// ProgressUpdate records one Update callback observed by MockProgressTracker.
type ProgressUpdate struct {
	Transferred int64
	Total       int64
}

// MockProgressTracker implements hoist.ProgressTracker for testing. Every
// callback is recorded so tests can assert on the sequence of updates an
// operation reported. Operations report progress from worker goroutines, so
// recording is mutex-protected like the other mocks in this package.
type MockProgressTracker struct {
	mu        sync.Mutex
	updates   []ProgressUpdate
	completed bool
	lastErr   error
}

// Update records a progress callback.
func (m *MockProgressTracker) Update(transferred, total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, ProgressUpdate{Transferred: transferred, Total: total})
}

// Complete records that the operation reported completion.
func (m *MockProgressTracker) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = true
}

// Error records that the operation reported a failure.
func (m *MockProgressTracker) Error(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = err
}

// Updates returns a snapshot of all recorded progress callbacks.
func (m *MockProgressTracker) Updates() []ProgressUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ProgressUpdate, len(m.updates))
	copy(out, m.updates)
	return out
}

// Completed reports whether Complete was called.
func (m *MockProgressTracker) Completed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completed
}

// LastError returns the error passed to the most recent Error call, or nil.
func (m *MockProgressTracker) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Transferred returns the transferred byte count from the most recent update,
// or zero when no updates were recorded.
func (m *MockProgressTracker) Transferred() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.updates) == 0 {
		return 0
	}
	return m.updates[len(m.updates)-1].Transferred
}
