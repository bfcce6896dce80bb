package cache

import (
	"net/url"
	"strings"
)

// CacheKey identifies a cached delivery response.
type CacheKey struct {
	// Endpoint is the scheme, host and escaped path of the request, e.g.
	// "https://host/api/<hub>/delivery/v1/search".
	Endpoint string

	// QueryParams are the request query parameters.
	QueryParams url.Values
}

// KeyForURL builds the cache key for a request URL. The path is kept in its
// escaped form so a literal "?" can never appear in the endpoint.
func KeyForURL(u *url.URL) CacheKey {
	endpoint := u.Host + u.EscapedPath()
	if u.Scheme != "" {
		endpoint = u.Scheme + "://" + endpoint
	}
	return CacheKey{
		Endpoint:    endpoint,
		QueryParams: u.Query(),
	}
}

// String generates a deterministic cache key string. Query parameters are
// form-encoded and sorted by name; repeated values keep their order as
// separate pairs, so distinct parameter sets never share a key.
//
// Example:
//
//	delivery:https://host/api/hub/delivery/v1/search?fl=document&q=type%3ARegion&rows=3
func (k CacheKey) String() string {
	var b strings.Builder
	b.WriteString("delivery")

	if endpoint := strings.TrimRight(k.Endpoint, "/"); endpoint != "" {
		b.WriteByte(':')
		b.WriteString(endpoint)
	}

	if len(k.QueryParams) > 0 {
		b.WriteByte('?')
		b.WriteString(k.QueryParams.Encode())
	}

	return b.String()
}
