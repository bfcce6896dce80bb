package cache

import (
	"net/url"
	"testing"
)

func TestCacheKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  CacheKey
		want string
	}{
		{
			name: "endpoint only",
			key: CacheKey{
				Endpoint: "host/api/hub/delivery/v1/search/",
			},
			want: "delivery:host/api/hub/delivery/v1/search",
		},
		{
			name: "single query param",
			key: CacheKey{
				Endpoint:    "host/api/hub/delivery/v1/search",
				QueryParams: url.Values{"q": []string{"type:Region"}},
			},
			want: "delivery:host/api/hub/delivery/v1/search?q=type%3ARegion",
		},
		{
			name: "query params sorted by name",
			key: CacheKey{
				Endpoint: "host/api/hub/delivery/v1/search",
				QueryParams: url.Values{
					"rows":  []string{"3"},
					"fl":    []string{"document"},
					"start": []string{"0"},
				},
			},
			want: "delivery:host/api/hub/delivery/v1/search?fl=document&rows=3&start=0",
		},
		{
			name: "repeated values keep order",
			key: CacheKey{
				Endpoint:    "host/x",
				QueryParams: url.Values{"fq": []string{"b", "a"}},
			},
			want: "delivery:host/x?fq=b&fq=a",
		},
		{
			name: "empty key",
			key:  CacheKey{},
			want: "delivery",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.key.String()
			if got != tt.want {
				t.Errorf("CacheKey.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyForURL(t *testing.T) {
	a, _ := url.Parse("https://example.com/api/hub/delivery/v1/search?q=type%3ACountry&fl=document")
	b, _ := url.Parse("https://example.com/api/hub/delivery/v1/search?fl=document&q=type%3ACountry")
	c, _ := url.Parse("https://other.com/api/hub/delivery/v1/search?fl=document&q=type%3ACountry")

	if KeyForURL(a).String() != KeyForURL(b).String() {
		t.Errorf("parameter order changed key: %q vs %q", KeyForURL(a), KeyForURL(b))
	}
	if KeyForURL(a).String() == KeyForURL(c).String() {
		t.Error("different hosts produced the same key")
	}

	want := "delivery:https://example.com/api/hub/delivery/v1/search?fl=document&q=type%3ACountry"
	if got := KeyForURL(a).String(); got != want {
		t.Errorf("KeyForURL() = %v, want %v", got, want)
	}
}

func TestCacheKey_DistinctParamsNeverCollide(t *testing.T) {
	endpoint := "https://host/api/hub/delivery/v1/search"
	pairs := []struct {
		name string
		a, b url.Values
	}{
		{
			name: "separator inside value",
			a:    url.Values{"q": {"type:Region:rows=3"}},
			b:    url.Values{"q": {"type:Region"}, "rows": {"3"}},
		},
		{
			name: "comma inside value",
			a:    url.Values{"fq": {"1,2"}},
			b:    url.Values{"fq": {"1", "2"}},
		},
		{
			name: "ampersand inside value",
			a:    url.Values{"q": {"a&rows=3"}},
			b:    url.Values{"q": {"a"}, "rows": {"3"}},
		},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			ka := CacheKey{Endpoint: endpoint, QueryParams: tt.a}.String()
			kb := CacheKey{Endpoint: endpoint, QueryParams: tt.b}.String()
			if ka == kb {
				t.Errorf("distinct params share key %q", ka)
			}
		})
	}
}

func TestKeyForURL_SchemeAndEscapedPath(t *testing.T) {
	plain, _ := url.Parse("http://example.com/api/hub/delivery/v1/search?rows=3")
	secure, _ := url.Parse("https://example.com/api/hub/delivery/v1/search?rows=3")
	if KeyForURL(plain).String() == KeyForURL(secure).String() {
		t.Error("http and https produced the same key")
	}

	escaped, _ := url.Parse("https://example.com/a%3Frows=3")
	query, _ := url.Parse("https://example.com/a?rows=3")
	if KeyForURL(escaped).String() == KeyForURL(query).String() {
		t.Errorf("escaped path collided with query: %q", KeyForURL(escaped))
	}
}

// TestCacheKey_Determinism ensures same input always produces same key
func TestCacheKey_Determinism(t *testing.T) {
	key := CacheKey{
		Endpoint: "host/api/hub/delivery/v1/search",
		QueryParams: url.Values{
			"q":     []string{`type:"Travel Article"`},
			"start": []string{"3"},
			"rows":  []string{"3"},
			"sort":  []string{"lastModified desc"},
		},
	}

	first := key.String()
	for i := 0; i < 10; i++ {
		if got := key.String(); got != first {
			t.Errorf("result[%d] = %v, want %v (not deterministic)", i, got, first)
		}
	}
}
