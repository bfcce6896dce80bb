// Package cache provides the response cache behind the delivery client.
//
// Responses of the delivery search endpoint are stored as Entry values keyed
// by a deterministic CacheKey built from the request URL. Two backends are
// available:
//
//   - MemoryBackend: in-process LRU bounded by bytes (the default)
//   - RedisBackend: shared cache for several processes
//
// # Basic Usage
//
//	manager := cache.NewManager(cache.NewMemoryBackend(cache.DefaultMemoryCapacity))
//
//	key := cache.KeyForURL(searchURL)
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the delivery API
//	}
//
// # Conditional Requests
//
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//		// the server answers 304 when the document set is unchanged
//	}
//
// # Expiry
//
// Entry lifetime follows Cache-Control max-age, then Expires, then
// DefaultTTL. Backends drop entries once they expire.
//
// # Metrics
//
//   - delivery_cache_hits_total{layer} - Cache hits by backend
//   - delivery_cache_misses_total - Cache misses
//   - delivery_cache_bytes_written_total{layer} - Bytes written per backend
//   - delivery_cache_errors_total{operation} - Cache operation errors
//   - delivery_conditional_requests_total - Revalidation requests sent
//   - delivery_304_responses_total - Revalidations answered with 304
package cache
