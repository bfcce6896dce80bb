package query

import (
	"strconv"
	"strings"
)

// Content type names as stored in the content hub.
const (
	TypeTravelArticle      = "Travel Article"
	TypeGalleryImage       = "Gallery Image"
	TypeCountry            = "Country"
	TypeRegion             = "Region"
	TypeDestinations       = "Destinations"
	TypeHomeInformation    = "Home Information"
	TypeAboutInformation   = "About Information"
	TypeContactInformation = "Contact Information"
)

// Sort orders used by the delivery queries.
const (
	SortLastModifiedDesc = "lastModified desc"
	SortNameAsc          = "name asc"
	SortTypeAsc          = "type asc"
)

// Spec describes one search request. It is a value type: builders return a
// fresh Spec and WithStart returns a modified copy.
type Spec struct {
	// Query is the main "q" expression.
	Query string
	// FilterQuery is the optional "fq" expression (free-text search).
	FilterQuery string
	// Sort is the optional sort key.
	Sort string
	// Paged specs carry start and rows parameters.
	Paged bool
	Start int
	Rows  int
}

// WithStart returns a copy of s starting at offset start.
func (s Spec) WithStart(start int) Spec {
	s.Start = start
	return s
}

// Filters converts the spec into search parameters.
func (s Spec) Filters() Filters {
	f := Filters{
		"q":  Value(s.Query),
		"fl": Value("document"),
	}
	if s.FilterQuery != "" {
		f["fq"] = Value(s.FilterQuery)
	}
	if s.Sort != "" {
		f["sort"] = Value(s.Sort)
	}
	if s.Paged {
		f["start"] = Value(strconv.Itoa(s.Start))
		f["rows"] = Value(strconv.Itoa(s.Rows))
	}
	return f
}

func contentQuery(typeClause string, extra ...string) string {
	parts := append([]string{typeClause}, extra...)
	parts = append(parts, "classification:content")
	return strings.Join(parts, " AND ")
}

var phraseEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// phrase quotes s as a search phrase. Only backslash and double quote are
// escaped; every other byte is passed through as typed.
func phrase(s string) string {
	return `"` + phraseEscaper.Replace(s) + `"`
}

func quotedType(name string) string {
	return "type:" + phrase(name)
}

func categoryClause(category string) string {
	return "categories:" + phrase(category)
}

// Articles returns the travel article listing, newest first. An empty
// category lists all articles; rows <= 0 uses the builder page size.
func Articles(start, rows int, category string) Spec {
	var extra []string
	if category != "" {
		extra = append(extra, categoryClause(category))
	}
	return Spec{
		Query: contentQuery(quotedType(TypeTravelArticle), extra...),
		Sort:  SortLastModifiedDesc,
		Paged: true,
		Start: start,
		Rows:  rows,
	}
}

// GalleryImages returns the gallery listing, newest first.
func GalleryImages(start, rows int) Spec {
	return Spec{
		Query: contentQuery(quotedType(TypeGalleryImage)),
		Sort:  SortLastModifiedDesc,
		Paged: true,
		Start: start,
		Rows:  rows,
	}
}

// Countries returns the countries tagged with category, sorted by name.
func Countries(category string) Spec {
	return Spec{
		Query: "type:" + TypeCountry + " AND " + categoryClause(category) + " AND classification:content",
		Sort:  SortNameAsc,
	}
}

// Regions returns the regions tagged with category.
func Regions(category string) Spec {
	return Spec{
		Query: "type:" + TypeRegion + " AND " + categoryClause(category) + " AND classification:content",
	}
}

// Search returns the mixed article and gallery search for text. A single
// word becomes a wildcard substring match, several words an exact phrase.
func Search(start, rows int, text string) Spec {
	text = strings.TrimSpace(text)
	fq := "text:" + phrase(text)
	if len(strings.Fields(text)) == 1 {
		fq = "text:*" + text + "*"
	}
	return Spec{
		Query:       quotedType(TypeTravelArticle) + " OR " + quotedType(TypeGalleryImage),
		FilterQuery: fq,
		Sort:        SortTypeAsc,
		Paged:       true,
		Start:       start,
		Rows:        rows,
	}
}

// Document returns the query for a single-document content type such as
// the home, about, contacts or destinations page.
func Document(contentType string) Spec {
	return Spec{Query: contentQuery(quotedType(contentType))}
}

// Home returns the home page settings document query.
func Home() Spec { return Document(TypeHomeInformation) }

// About returns the about page document query.
func About() Spec { return Document(TypeAboutInformation) }

// Contacts returns the contact information document query.
func Contacts() Spec { return Document(TypeContactInformation) }

// Destinations returns the destinations page document query.
func Destinations() Spec { return Document(TypeDestinations) }
