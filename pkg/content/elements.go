package content

import "strings"

// Text is a plain or formatted text element.
type Text struct {
	ElementType string `json:"elementType"`
	Value       string `json:"value"`
}

// IsFormatted reports whether the value carries HTML markup.
func (t Text) IsFormatted() bool {
	return t.ElementType == "formattedtext"
}

// Category is a category element holding hierarchical category paths such as
// "regions/europe/west".
type Category struct {
	ElementType string   `json:"elementType"`
	Categories  []string `json:"categories"`
}

// Contains reports whether any category path contains sub as a substring.
func (c Category) Contains(sub string) bool {
	for _, category := range c.Categories {
		if strings.Contains(category, sub) {
			return true
		}
	}
	return false
}

// First returns the first category path or "".
func (c Category) First() string {
	if len(c.Categories) == 0 {
		return ""
	}
	return c.Categories[0]
}

// Rendition is one cropped or resized variant of an image asset.
type Rendition struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Image is an image element with its named renditions.
type Image struct {
	ElementType string               `json:"elementType"`
	URL         string               `json:"url"`
	Renditions  map[string]Rendition `json:"renditions"`
}

// Rendition returns the named rendition, falling back to "default".
func (i Image) Rendition(name string) (Rendition, bool) {
	if r, ok := i.Renditions[name]; ok {
		return r, true
	}
	r, ok := i.Renditions["default"]
	return r, ok
}

// Resolve returns a copy of the image with its URL and every rendition URL
// passed through resolve. The receiver is left untouched.
func (i Image) Resolve(resolve func(path string) string) Image {
	out := Image{ElementType: i.ElementType, URL: resolve(i.URL)}
	if i.Renditions != nil {
		out.Renditions = make(map[string]Rendition, len(i.Renditions))
		for name, r := range i.Renditions {
			r.URL = resolve(r.URL)
			out.Renditions[name] = r
		}
	}
	return out
}

// Number is a numeric element.
type Number struct {
	ElementType string `json:"elementType"`
	Value       int    `json:"value"`
}

// raw element shapes used while decoding. Pointers mark presence so that a
// missing required element fails validation while an empty value does not.

type rawText struct {
	ElementType *string `json:"elementType" validate:"required"`
	Value       *string `json:"value"`
}

func (r *rawText) text() Text {
	t := Text{ElementType: *r.ElementType}
	if r.Value != nil {
		t.Value = *r.Value
	}
	return t
}

type rawCategory struct {
	ElementType *string  `json:"elementType" validate:"required"`
	Categories  []string `json:"categories" validate:"required"`
}

func (r *rawCategory) category() Category {
	return Category{ElementType: *r.ElementType, Categories: r.Categories}
}

type rawRendition struct {
	URL    *string `json:"url" validate:"required"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

func (r *rawRendition) rendition() Rendition {
	return Rendition{URL: *r.URL, Width: r.Width, Height: r.Height}
}

type renditionSet interface {
	renditions() map[string]Rendition
}

type rawImage[R renditionSet] struct {
	ElementType *string `json:"elementType" validate:"required"`
	URL         *string `json:"url" validate:"required"`
	Renditions  *R      `json:"renditions" validate:"required"`
}

func (r *rawImage[R]) image() Image {
	return Image{
		ElementType: *r.ElementType,
		URL:         *r.URL,
		Renditions:  (*r.Renditions).renditions(),
	}
}

type articleRenditions struct {
	Card    *rawRendition `json:"card" validate:"required"`
	Default *rawRendition `json:"default" validate:"required"`
}

func (r articleRenditions) renditions() map[string]Rendition {
	return map[string]Rendition{
		"card":    r.Card.rendition(),
		"default": r.Default.rendition(),
	}
}

type galleryRenditions struct {
	SquareCard    *rawRendition `json:"squareCard" validate:"required"`
	RectangleCard *rawRendition `json:"rectangleCard" validate:"required"`
	Default       *rawRendition `json:"default" validate:"required"`
}

func (r galleryRenditions) renditions() map[string]Rendition {
	return map[string]Rendition{
		"squareCard":    r.SquareCard.rendition(),
		"rectangleCard": r.RectangleCard.rendition(),
		"default":       r.Default.rendition(),
	}
}

type countryRenditions struct {
	CountryCard      *rawRendition `json:"countryCard" validate:"required"`
	DestinationsCard *rawRendition `json:"destinationsCard" validate:"required"`
	Default          *rawRendition `json:"default" validate:"required"`
}

func (r countryRenditions) renditions() map[string]Rendition {
	return map[string]Rendition{
		"countryCard":      r.CountryCard.rendition(),
		"destinationsCard": r.DestinationsCard.rendition(),
		"default":          r.Default.rendition(),
	}
}

type rawNumber struct {
	ElementType *string `json:"elementType" validate:"required"`
	Value       *int    `json:"value" validate:"required"`
}

func (r *rawNumber) number() Number {
	return Number{ElementType: *r.ElementType, Value: *r.Value}
}
