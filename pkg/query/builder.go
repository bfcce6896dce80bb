// Package query builds delivery search URLs for the content hub.
//
// Builder turns a Spec (content type, category, free text, paging, sort) into
// a canonical search URL. No network access happens here.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Compile-time delivery defaults.
const (
	DefaultDomain       = "https://your-domain-name.com"
	DefaultContentHubID = "00000000-0000-0000-0000-00000000000"

	// DefaultPageSize is the number of rows requested when a Spec leaves Rows unset.
	DefaultPageSize = 3

	searchPath = "delivery/v1/search"
)

// ErrInvalidEndpoint is returned when the search endpoint cannot be constructed.
var ErrInvalidEndpoint = errors.New("invalid search endpoint")

// Filters maps search parameter names to values. Nil values are dropped.
type Filters map[string]*string

// Value returns a pointer to s for use in Filters.
func Value(s string) *string {
	return &s
}

// Builder constructs search URLs against one content hub.
type Builder struct {
	domain   string
	hubID    string
	pageSize int
}

// NewBuilder creates a builder for the given domain and content hub.
// A non-positive pageSize falls back to DefaultPageSize.
func NewBuilder(domain, hubID string, pageSize int) *Builder {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Builder{
		domain:   strings.TrimRight(domain, "/"),
		hubID:    hubID,
		pageSize: pageSize,
	}
}

// Default returns a builder using the compile-time defaults.
func Default() *Builder {
	return NewBuilder(DefaultDomain, DefaultContentHubID, DefaultPageSize)
}

// PageSize returns the default number of rows per page.
func (b *Builder) PageSize() int {
	return b.pageSize
}

// BaseURL returns the content hub API root, e.g. https://host/api/<hub>.
func (b *Builder) BaseURL() string {
	return fmt.Sprintf("%s/api/%s", b.domain, b.hubID)
}

// SearchEndpoint returns the delivery search endpoint without a query.
func (b *Builder) SearchEndpoint() string {
	return b.BaseURL() + "/" + searchPath
}

// SearchURL builds the search URL for the given filters. Nil-valued entries
// are dropped and the query string is encoded with sorted keys.
func (b *Builder) SearchURL(filters Filters) (*url.URL, error) {
	u, err := url.Parse(b.SearchEndpoint())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no scheme or host", ErrInvalidEndpoint, b.domain)
	}

	values := url.Values{}
	for key, value := range filters {
		if value == nil {
			continue
		}
		values.Set(key, *value)
	}
	u.RawQuery = values.Encode()

	return u, nil
}

// URL builds the search URL for spec. Zero Rows on a paged spec uses the
// builder's page size.
func (b *Builder) URL(spec Spec) (*url.URL, error) {
	if spec.Paged && spec.Rows <= 0 {
		spec.Rows = b.pageSize
	}
	return b.SearchURL(spec.Filters())
}

// ImageURL resolves an asset path returned in a rendition against the domain.
func (b *Builder) ImageURL(path string) (*url.URL, error) {
	u, err := url.Parse(b.domain + path)
	if err != nil {
		return nil, fmt.Errorf("parse image url: %w", err)
	}
	return u, nil
}
