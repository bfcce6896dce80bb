package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// StaleRetention is how long an expired entry stays in the backend so it
// can be revalidated with a conditional request.
const StaleRetention = 10 * time.Minute

// Backend stores serialized entries. Get returns ErrCacheMiss for unknown
// or expired keys.
type Backend interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Manager handles caching operations on top of a Backend.
type Manager struct {
	backend Backend
}

// NewManager creates a new cache manager.
func NewManager(backend Backend) *Manager {
	if backend == nil {
		panic("cache backend cannot be nil")
	}
	return &Manager{
		backend: backend,
	}
}

// Layer returns the backend name used as metrics label.
func (m *Manager) Layer() string {
	return m.backend.Name()
}

// Get retrieves a cache entry by key.
// Returns ErrCacheMiss if the key doesn't exist or entry is expired.
func (m *Manager) Get(ctx context.Context, key CacheKey) (*CacheEntry, error) {
	entry, fresh, err := m.Lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if !fresh {
		_ = m.Delete(ctx, key)
		return nil, ErrCacheMiss
	}
	return entry, nil
}

// Lookup returns the stored entry even when it has expired; fresh reports
// whether it may be served without revalidation.
// Returns ErrCacheMiss if the key doesn't exist.
func (m *Manager) Lookup(ctx context.Context, key CacheKey) (entry *CacheEntry, fresh bool, err error) {
	data, err := m.backend.Get(ctx, key.String())
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			CacheMisses.Inc()
			return nil, false, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, false, fmt.Errorf("%s get: %w", m.backend.Name(), err)
	}

	entry = &CacheEntry{}
	if err := json.Unmarshal(data, entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	if entry.IsExpired() {
		CacheMisses.Inc()
		return entry, false, nil
	}

	CacheHits.WithLabelValues(m.backend.Name()).Inc()
	return entry, true, nil
}

// Set stores a cache entry with TTL based on the entry's Expires field.
// Entries that are already expired are not stored.
func (m *Manager) Set(ctx context.Context, key CacheKey, entry *CacheEntry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	ttl := entry.TTL()
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := m.backend.Set(ctx, key.String(), data, ttl+StaleRetention); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("%s set: %w", m.backend.Name(), err)
	}

	CacheBytesWritten.WithLabelValues(m.backend.Name()).Add(float64(len(data)))

	return nil
}

// Delete removes a cache entry.
func (m *Manager) Delete(ctx context.Context, key CacheKey) error {
	if err := m.backend.Delete(ctx, key.String()); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("%s delete: %w", m.backend.Name(), err)
	}
	return nil
}

// Contains reports whether a fresh entry exists for key.
func (m *Manager) Contains(ctx context.Context, key CacheKey) bool {
	_, fresh, err := m.Lookup(ctx, key)
	return err == nil && fresh
}

// UpdateTTL extends an existing, possibly stale, entry after a 304 Not
// Modified response carrying a new expiry.
func (m *Manager) UpdateTTL(ctx context.Context, key CacheKey, newExpires time.Time) error {
	entry, _, err := m.Lookup(ctx, key)
	if err != nil {
		return err
	}

	entry.Expires = newExpires

	return m.Set(ctx, key, entry)
}
