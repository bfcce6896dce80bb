package content

import "strings"

// Record is implemented by every decoded content record. RecordID is the
// stable identity used for deduplication across fetches.
type Record interface {
	RecordID() string
}

// Article is a travel article.
type Article struct {
	ID           string   `json:"id"`
	LastModified string   `json:"lastModified"`
	Title        Text     `json:"title"`
	Image        Image    `json:"image"`
	Author       Text     `json:"author"`
	Body         Text     `json:"body"`
	Country      Category `json:"country"`
}

// RecordID implements Record.
func (a Article) RecordID() string { return a.ID }

// GalleryImage is one image of the photo gallery.
type GalleryImage struct {
	ID          string   `json:"id"`
	Title       Text     `json:"title"`
	Image       Image    `json:"image"`
	Description Text     `json:"description"`
	Country     Category `json:"country"`
}

// RecordID implements Record.
func (g GalleryImage) RecordID() string { return g.ID }

// Country is a destination country page.
type Country struct {
	ID       string   `json:"id"`
	Title    Text     `json:"title"`
	Image    Image    `json:"image"`
	Category Category `json:"category"`
}

// RecordID implements Record.
func (c Country) RecordID() string { return c.ID }

// Region groups countries under one category.
type Region struct {
	ID          string   `json:"id"`
	Title       Text     `json:"title"`
	CountryList Category `json:"countryList"`
}

// RecordID implements Record.
func (r Region) RecordID() string { return r.ID }

// RegionCategory returns the parent path of the first country category,
// e.g. "regions/europe" for "regions/europe/france". It is empty when the
// region lists no categories or the first one has no parent.
func (r Region) RegionCategory() string {
	first := r.CountryList.First()
	idx := strings.LastIndex(first, "/")
	if idx < 0 {
		return ""
	}
	return first[:idx]
}

// Destinations is the destinations page listing region categories.
type Destinations struct {
	ID         string   `json:"id"`
	Title      Text     `json:"title"`
	RegionList Category `json:"regionList"`
}

// RecordID implements Record.
func (d Destinations) RecordID() string { return d.ID }

// ListSettings configures a list on the home page.
type ListSettings struct {
	ElementType       string  `json:"elementType"`
	NumberOfListItems Number  `json:"numberOfListItems"`
	DisplayTime       *Number `json:"displayTime,omitempty"`
}

// Home holds the home page settings.
type Home struct {
	ID              string       `json:"id"`
	WebsiteTitle    Text         `json:"websiteTitle"`
	ImageSlider     ListSettings `json:"imageSlider"`
	ArticlePreviews ListSettings `json:"articlePreviews"`
}

// RecordID implements Record.
func (h Home) RecordID() string { return h.ID }

// About is the about page.
type About struct {
	ID        string `json:"id"`
	PageTitle Text   `json:"pageTitle"`
	PageText  Text   `json:"pageText"`
}

// RecordID implements Record.
func (a About) RecordID() string { return a.ID }

// ContactValue is one entry of the contact information list.
type ContactValue struct {
	Type  Text `json:"type"`
	Value Text `json:"value"`
}

// Contacts is the contact information page.
type Contacts struct {
	ID     string         `json:"id"`
	Values []ContactValue `json:"values"`
}

// RecordID implements Record.
func (c Contacts) RecordID() string { return c.ID }
