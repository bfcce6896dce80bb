package cache

import (
	"net/http"
	"time"
)

// CacheEntry is one cached delivery response.
type CacheEntry struct {
	// Data is the response body.
	Data []byte `json:"data"`

	// ETag is sent back as If-None-Match on revalidation.
	ETag string `json:"etag"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`

	// LastModified is sent back as If-Modified-Since when no ETag exists.
	LastModified time.Time `json:"last_modified"`

	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers"`
	CachedAt   time.Time   `json:"cached_at"`
}

// IsExpired returns true if the cache entry has expired.
func (e *CacheEntry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration, or 0 if already expired.
func (e *CacheEntry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// Size returns the approximate memory footprint of the entry in bytes.
func (e *CacheEntry) Size() int {
	size := len(e.Data) + len(e.ETag)
	for key, values := range e.Headers {
		size += len(key)
		for _, v := range values {
			size += len(v)
		}
	}
	return size
}
