package content

import "fmt"

// ResultKind tags the variant held by a SearchResult.
type ResultKind string

const (
	ResultGallery ResultKind = "gallery"
	ResultArticle ResultKind = "article"
)

// SearchResult is one hit of the mixed article and gallery search. Exactly
// one of Gallery and Article is set, matching Kind.
type SearchResult struct {
	Kind    ResultKind    `json:"kind"`
	Gallery *GalleryImage `json:"gallery,omitempty"`
	Article *Article      `json:"article,omitempty"`
}

// RecordID implements Record.
func (r SearchResult) RecordID() string {
	switch r.Kind {
	case ResultGallery:
		return r.Gallery.ID
	case ResultArticle:
		return r.Article.ID
	default:
		return ""
	}
}

// DecodeSearchResult tries the gallery shape first and the article shape
// second. The first shape whose required elements are all present wins.
func DecodeSearchResult(document []byte) (SearchResult, error) {
	if g, err := DecodeGalleryImage(document); err == nil {
		return SearchResult{Kind: ResultGallery, Gallery: &g}, nil
	}
	if a, err := DecodeArticle(document); err == nil {
		return SearchResult{Kind: ResultArticle, Article: &a}, nil
	}
	return SearchResult{}, fmt.Errorf("%w: neither gallery image nor travel article", ErrSchemaMismatch)
}
