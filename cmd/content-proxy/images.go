package main

import (
	"net/url"

	"github.com/acoustic-content-samples/traveler-content-client/pkg/aggregate"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/content"
)

// assetURL makes a rendition path absolute against the delivery domain.
// Absolute URLs and paths that fail to resolve are returned unchanged.
func (s *server) assetURL(path string) string {
	if path == "" {
		return path
	}
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	u, err := s.builder.ImageURL(path)
	if err != nil {
		s.logger.Debug().Err(err).Str("path", path).Msg("Asset path not resolved")
		return path
	}
	return u.String()
}

// The helpers below copy their input: records held by shared sources must
// keep their relative paths.

func (s *server) resolveArticles(in []content.Article) []content.Article {
	out := make([]content.Article, len(in))
	for i, a := range in {
		a.Image = a.Image.Resolve(s.assetURL)
		out[i] = a
	}
	return out
}

func (s *server) resolveGallery(in []content.GalleryImage) []content.GalleryImage {
	out := make([]content.GalleryImage, len(in))
	for i, g := range in {
		g.Image = g.Image.Resolve(s.assetURL)
		out[i] = g
	}
	return out
}

func (s *server) resolveCountries(in []content.Country) []content.Country {
	out := make([]content.Country, len(in))
	for i, c := range in {
		c.Image = c.Image.Resolve(s.assetURL)
		out[i] = c
	}
	return out
}

func (s *server) resolveResults(in []content.SearchResult) []content.SearchResult {
	out := make([]content.SearchResult, len(in))
	for i, r := range in {
		if r.Article != nil {
			a := *r.Article
			a.Image = a.Image.Resolve(s.assetURL)
			r.Article = &a
		}
		if r.Gallery != nil {
			g := *r.Gallery
			g.Image = g.Image.Resolve(s.assetURL)
			r.Gallery = &g
		}
		out[i] = r
	}
	return out
}

func (s *server) resolveHome(view aggregate.HomeView) aggregate.HomeView {
	view.Gallery = s.resolveGallery(view.Gallery)
	view.Articles = s.resolveArticles(view.Articles)
	return view
}
