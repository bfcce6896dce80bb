package aggregate

import (
	"context"

	"github.com/acoustic-content-samples/traveler-content-client/pkg/content"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/datasource"
	"github.com/rs/zerolog"
)

// HomeView is the content of the home page.
type HomeView struct {
	Home     *content.Home          `json:"home"`
	Gallery  []content.GalleryImage `json:"gallery"`
	Articles []content.Article      `json:"articles"`
}

// HomeLoader loads the home document, then the slider images and article
// previews it configures.
type HomeLoader struct {
	home     *datasource.Home
	gallery  *datasource.Gallery
	articles *datasource.Articles
	logger   zerolog.Logger
}

// NewHomeLoader creates a home loader over the given sources.
func NewHomeLoader(home *datasource.Home, gallery *datasource.Gallery, articles *datasource.Articles, logger zerolog.Logger) *HomeLoader {
	return &HomeLoader{
		home:     home,
		gallery:  gallery,
		articles: articles,
		logger:   logger,
	}
}

// Load clears the sources and reloads the home page. The view holds
// whatever loaded; the report names what failed.
func (l *HomeLoader) Load(ctx context.Context) (HomeView, Report) {
	l.home.Clear()
	l.gallery.Clear()
	l.articles.Clear()

	g := NewGroup(ctx, "home", l.logger)
	g.Go("home", func(ctx context.Context, g *Group) error {
		home, err := l.home.Get(ctx)
		if err != nil {
			return err
		}

		sliderItems := home.ImageSlider.NumberOfListItems.Value
		g.Go("gallery", func(ctx context.Context, _ *Group) error {
			_, err := l.gallery.Get(ctx, sliderItems)
			return err
		})

		articleItems := home.ArticlePreviews.NumberOfListItems.Value
		g.Go("articles", func(ctx context.Context, _ *Group) error {
			_, err := l.articles.Get(ctx, "", articleItems)
			return err
		})
		return nil
	})
	report := g.Wait()

	view := HomeView{
		Gallery:  l.gallery.Records(),
		Articles: l.articles.Records(),
	}
	if home, ok := l.home.Current(); ok {
		view.Home = &home
	}
	return view, report
}
