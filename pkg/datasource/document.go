package datasource

import (
	"context"
	"errors"

	"github.com/acoustic-content-samples/traveler-content-client/pkg/content"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/pagination"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/query"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a document query matches no decodable document.
var ErrNotFound = errors.New("document not found")

// DocumentSource loads a single content document.
type DocumentSource[T content.Record] struct {
	*pagination.Fetcher[T]

	spec query.Spec
}

// Get fetches the document and returns the first decoded match.
func (d *DocumentSource[T]) Get(ctx context.Context) (T, error) {
	var zero T
	batch, err := d.Fetch(ctx, d.spec)
	if err != nil {
		return zero, err
	}
	if len(batch) == 0 {
		return zero, ErrNotFound
	}
	return batch[0], nil
}

// Current returns the first loaded document, if any.
func (d *DocumentSource[T]) Current() (T, bool) {
	var zero T
	records := d.Records()
	if len(records) == 0 {
		return zero, false
	}
	return records[0], true
}

func newDocument[T content.Record](getter pagination.Getter, builder *query.Builder, kind string, spec query.Spec, decode content.Decoder[T], logger zerolog.Logger) *DocumentSource[T] {
	return &DocumentSource[T]{
		Fetcher: pagination.New(getter, builder, kind, decode, logger),
		spec:    spec,
	}
}

// Home is the home page document source.
type Home = DocumentSource[content.Home]

// NewHome creates the home page source.
func NewHome(getter pagination.Getter, builder *query.Builder, logger zerolog.Logger) *Home {
	return newDocument(getter, builder, "home", query.Home(), content.DecodeHome, logger)
}

// About is the about page document source.
type About = DocumentSource[content.About]

// NewAbout creates the about page source.
func NewAbout(getter pagination.Getter, builder *query.Builder, logger zerolog.Logger) *About {
	return newDocument(getter, builder, "about", query.About(), content.DecodeAbout, logger)
}

// Contacts is the contact information document source.
type Contacts = DocumentSource[content.Contacts]

// NewContacts creates the contact information source.
func NewContacts(getter pagination.Getter, builder *query.Builder, logger zerolog.Logger) *Contacts {
	return newDocument(getter, builder, "contacts", query.Contacts(), content.DecodeContacts, logger)
}

// Destinations is the destinations document source.
type Destinations = DocumentSource[content.Destinations]

// NewDestinations creates the destinations source.
func NewDestinations(getter pagination.Getter, builder *query.Builder, logger zerolog.Logger) *Destinations {
	return newDocument(getter, builder, "destinations", query.Destinations(), content.DecodeDestinations, logger)
}
