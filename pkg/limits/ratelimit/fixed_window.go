// Package ratelimit implements per-client fixed-window rate limiting.
//
// Each client gets a window of a fixed length. The first request opens the
// window; requests inside it count against the maximum, and the first
// request after the window ends opens a fresh one. Windows are anchored to
// each client's first request, not to wall-clock hours.
package ratelimit

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tavola-hq/menugate/pkg/limits/storage"
)

// Result is the outcome of a CheckAndConsume call.
type Result struct {
	// Allowed is true when the request may proceed
	Allowed bool

	// Limit is the configured maximum requests per window
	Limit int

	// Remaining is how many requests the client has left in this window
	Remaining int

	// ResetAt is when the client's current window ends
	ResetAt time.Time

	// RetryAfter is how long a blocked client must wait (zero when allowed)
	RetryAfter time.Duration
}

// Metrics is an aggregate view of limiter activity, served by the
// rate-limit stats endpoint.
type Metrics struct {
	// ActiveClients is the number of live (unexpired) windows
	ActiveClients int `json:"activeClients"`

	// TotalRequests counts every CheckAndConsume call since startup
	TotalRequests int64 `json:"totalRequests"`

	// BlockedRequests counts calls that were denied
	BlockedRequests int64 `json:"blockedRequests"`

	// BlockRate is BlockedRequests over TotalRequests as a percentage
	// string, "0%" when no requests have been seen
	BlockRate string `json:"blockRate"`

	// UniqueClients counts distinct client keys ever seen since startup
	UniqueClients int64 `json:"uniqueClients"`

	// CleanupRuns counts completed sweep passes
	CleanupRuns int64 `json:"cleanupRuns"`

	// BlockedKeys counts clients currently at their limit; entries clear
	// when the client's window resets
	BlockedKeys int `json:"blockedKeys"`

	// LastCleanupAt is when the last sweep pass ran, nil before the first
	LastCleanupAt *time.Time `json:"lastCleanupAt,omitempty"`
}

// Stats is a lightweight live-record summary, computed by scanning the
// record map at call time.
type Stats struct {
	// TotalKeys is the number of records currently held, expired or not
	TotalKeys int `json:"totalKeys"`

	// ActiveRecords is the number of records whose window is still open
	ActiveRecords int `json:"activeRecords"`
}

// FixedWindow is a per-client fixed-window rate limiter.
//
// All decision state lives in memory behind a single mutex: checking the
// window, expiring it, and consuming a slot happen in one critical section
// so two concurrent requests can never both take the last slot.
type FixedWindow struct {
	mu      sync.Mutex
	records map[string]*storage.Record

	window      time.Duration
	maxRequests int

	totalRequests   int64
	blockedRequests int64

	// seen holds every key ever observed. It only grows, bounded by the
	// number of distinct clients, not by request volume.
	seen map[string]struct{}

	// blocked holds keys currently at their limit; a key leaves the set
	// when its window resets, lazily or via the sweeper
	blocked map[string]struct{}

	cleanupRuns   int64
	lastCleanupAt time.Time

	backend storage.Backend

	// now is replaceable in tests
	now func() time.Time
}

// NewFixedWindow creates a limiter and reloads any live windows from the
// backend. Expired persisted records are discarded on load.
func NewFixedWindow(window time.Duration, maxRequests int, backend storage.Backend) (*FixedWindow, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %s", window)
	}
	if maxRequests <= 0 {
		return nil, fmt.Errorf("max requests must be positive, got %d", maxRequests)
	}
	if backend == nil {
		backend = storage.NewMemoryBackend()
	}

	fw := &FixedWindow{
		records:     make(map[string]*storage.Record),
		seen:        make(map[string]struct{}),
		blocked:     make(map[string]struct{}),
		window:      window,
		maxRequests: maxRequests,
		backend:     backend,
		now:         time.Now,
	}

	persisted, err := backend.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted rate-limit records: %w", err)
	}

	cutoff := fw.now().Add(-window)
	restored := 0
	for _, rec := range persisted {
		if rec.WindowStart.After(cutoff) {
			r := rec
			fw.records[rec.Key] = &r
			restored++
		}
	}
	if restored > 0 {
		slog.Info("restored rate-limit windows", "count", restored)
	}

	return fw, nil
}

// CheckAndConsume checks whether the client identified by key may make a
// request and, if so, consumes one slot. Check and consume are atomic.
func (fw *FixedWindow) CheckAndConsume(key string) Result {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	now := fw.now()
	fw.totalRequests++
	fw.seen[key] = struct{}{}

	rec, ok := fw.records[key]
	if ok && now.Sub(rec.WindowStart) >= fw.window {
		// Window expired; the next request opens a fresh one.
		rec = nil
		delete(fw.blocked, key)
	}

	if rec == nil {
		rec = &storage.Record{Key: key, Count: 0, WindowStart: now}
		fw.records[key] = rec
	}

	resetAt := rec.WindowStart.Add(fw.window)

	if rec.Count >= fw.maxRequests {
		fw.blockedRequests++
		fw.blocked[key] = struct{}{}
		return Result{
			Allowed:    false,
			Limit:      fw.maxRequests,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: resetAt.Sub(now),
		}
	}

	rec.Count++
	if err := fw.backend.Save(*rec); err != nil {
		// Persistence is best effort; the in-memory decision stands.
		slog.Warn("failed to persist rate-limit record", "key", key, "error", err)
	}

	return Result{
		Allowed:   true,
		Limit:     fw.maxRequests,
		Remaining: fw.maxRequests - rec.Count,
		ResetAt:   resetAt,
	}
}

// PruneExpired removes expired windows and returns how many were removed.
// Called by the periodic sweeper; correctness never depends on it because
// CheckAndConsume resets expired windows lazily.
func (fw *FixedWindow) PruneExpired() int {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	now := fw.now()
	removed := 0
	for key, rec := range fw.records {
		if now.Sub(rec.WindowStart) >= fw.window {
			delete(fw.records, key)
			delete(fw.blocked, key)
			removed++
			if err := fw.backend.Delete(key); err != nil {
				slog.Warn("failed to delete persisted rate-limit record", "key", key, "error", err)
			}
		}
	}

	if _, err := fw.backend.DeleteExpired(now.Add(-fw.window)); err != nil {
		slog.Warn("failed to prune persisted rate-limit records", "error", err)
	}

	fw.cleanupRuns++
	fw.lastCleanupAt = now

	return removed
}

// Metrics returns aggregate limiter activity.
func (fw *FixedWindow) Metrics() Metrics {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	active := 0
	now := fw.now()
	for _, rec := range fw.records {
		if now.Sub(rec.WindowStart) < fw.window {
			active++
		}
	}

	m := Metrics{
		ActiveClients:   active,
		TotalRequests:   fw.totalRequests,
		BlockedRequests: fw.blockedRequests,
		BlockRate:       formatBlockRate(fw.blockedRequests, fw.totalRequests),
		UniqueClients:   int64(len(fw.seen)),
		BlockedKeys:     len(fw.blocked),
		CleanupRuns:     fw.cleanupRuns,
	}
	if !fw.lastCleanupAt.IsZero() {
		at := fw.lastCleanupAt
		m.LastCleanupAt = &at
	}
	return m
}

// Stats scans the live record map and returns a summary. Unlike Metrics,
// nothing here is cached or cumulative.
func (fw *FixedWindow) Stats() Stats {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	now := fw.now()
	s := Stats{TotalKeys: len(fw.records)}
	for _, rec := range fw.records {
		if now.Sub(rec.WindowStart) < fw.window {
			s.ActiveRecords++
		}
	}
	return s
}

// Close closes the persistence backend.
func (fw *FixedWindow) Close() error {
	return fw.backend.Close()
}

// formatBlockRate renders blocked/total as a percentage string. Integral
// percentages drop the decimal ("0%", "25%"); others keep one ("33.3%").
func formatBlockRate(blocked, total int64) string {
	if total == 0 {
		return "0%"
	}

	rate := float64(blocked) / float64(total) * 100
	if rate == float64(int64(rate)) {
		return fmt.Sprintf("%d%%", int64(rate))
	}
	return fmt.Sprintf("%.1f%%", rate)
}
