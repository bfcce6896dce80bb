package datasource

import (
	"context"
	"sync"

	"github.com/acoustic-content-samples/traveler-content-client/pkg/content"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/pagination"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/query"
	"github.com/rs/zerolog"
)

// Articles lists travel articles, newest first.
type Articles struct {
	*pagination.Fetcher[content.Article]
}

// NewArticles creates an article source.
func NewArticles(getter pagination.Getter, builder *query.Builder, logger zerolog.Logger) *Articles {
	return &Articles{pagination.New(getter, builder, "articles", content.DecodeArticle, logger)}
}

// Get loads up to maxCount articles after those already loaded. An empty
// category lists every article; maxCount <= 0 uses the page size.
func (a *Articles) Get(ctx context.Context, category string, maxCount int) ([]content.Article, error) {
	return a.FetchNext(ctx, func(start int) query.Spec {
		return query.Articles(start, maxCount, category)
	})
}

// Gallery lists gallery images, newest first.
type Gallery struct {
	*pagination.Fetcher[content.GalleryImage]
}

// NewGallery creates a gallery source.
func NewGallery(getter pagination.Getter, builder *query.Builder, logger zerolog.Logger) *Gallery {
	return &Gallery{pagination.New(getter, builder, "gallery", content.DecodeGalleryImage, logger)}
}

// Get loads up to maxCount images after those already loaded.
func (g *Gallery) Get(ctx context.Context, maxCount int) ([]content.GalleryImage, error) {
	return g.FetchNext(ctx, func(start int) query.Spec {
		return query.GalleryImages(start, maxCount)
	})
}

// Search runs free-text searches over articles and gallery images.
type Search struct {
	*pagination.Fetcher[content.SearchResult]

	mu   sync.Mutex
	text *string
}

// NewSearch creates a search source.
func NewSearch(getter pagination.Getter, builder *query.Builder, logger zerolog.Logger) *Search {
	return &Search{Fetcher: pagination.New(getter, builder, "search", content.DecodeSearchResult, logger)}
}

// Get loads the next page of results for text and remembers text for
// NextPage. Call Clear before searching for a different text.
func (s *Search) Get(ctx context.Context, text string) ([]content.SearchResult, error) {
	s.mu.Lock()
	s.text = &text
	s.mu.Unlock()

	return s.FetchNext(ctx, func(start int) query.Spec {
		return query.Search(start, 0, text)
	})
}

// NextPage continues the last search. It returns (nil, nil) when no search
// ran or every result is loaded.
func (s *Search) NextPage(ctx context.Context) ([]content.SearchResult, error) {
	text, ok := s.Text()
	if !ok || !s.CanFetchNextPage() {
		return nil, nil
	}
	return s.Get(ctx, text)
}

// Text returns the text of the last search.
func (s *Search) Text() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.text == nil {
		return "", false
	}
	return *s.text, true
}

// Clear forgets results and the search text.
func (s *Search) Clear() {
	s.Fetcher.Clear()
	s.mu.Lock()
	s.text = nil
	s.mu.Unlock()
}
