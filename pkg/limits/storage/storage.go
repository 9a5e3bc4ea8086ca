// Package storage provides persistence backends for rate-limit records.
//
// The limiter itself is always in-memory; a backend only smooths restarts
// of a single instance by reloading live windows at startup. Horizontally
// scaled instances keep independent rate-limit views.
package storage

import "time"

// Record is a client's request count within its current fixed window.
type Record struct {
	// Key identifies the client (normally an IP address)
	Key string

	// Count is the number of requests consumed in the current window
	Count int

	// WindowStart is when the current window opened
	WindowStart time.Time
}

// Backend persists rate-limit records across restarts.
//
// Save and Delete are called from inside the limiter's critical section,
// so implementations must be fast; a slow backend slows every request.
type Backend interface {
	// LoadAll returns all persisted records.
	LoadAll() ([]Record, error)

	// Save persists a record, replacing any existing record for the key.
	Save(rec Record) error

	// Delete removes the record for a key.
	Delete(key string) error

	// DeleteExpired removes records whose window opened before the cutoff
	// and returns how many were removed.
	DeleteExpired(cutoff time.Time) (int, error)

	// Close releases backend resources.
	Close() error
}

// MemoryBackend is the no-persistence backend. All methods are no-ops;
// records live only in the limiter's own map.
type MemoryBackend struct{}

// NewMemoryBackend creates a no-op backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// LoadAll returns no records.
func (m *MemoryBackend) LoadAll() ([]Record, error) { return nil, nil }

// Save is a no-op.
func (m *MemoryBackend) Save(Record) error { return nil }

// Delete is a no-op.
func (m *MemoryBackend) Delete(string) error { return nil }

// DeleteExpired is a no-op.
func (m *MemoryBackend) DeleteExpired(time.Time) (int, error) { return 0, nil }

// Close is a no-op.
func (m *MemoryBackend) Close() error { return nil }
