package testutil

import (
	"encoding/json"
	"fmt"
)

// Doc is a document as stored in the content hub, before being encoded into
// the "document" string of a search hit.
type Doc map[string]any

func text(value string) map[string]any {
	return map[string]any{"elementType": "text", "value": value}
}

func categories(paths ...string) map[string]any {
	if paths == nil {
		paths = []string{}
	}
	return map[string]any{"elementType": "category", "categories": paths}
}

func image(id string, renditions ...string) map[string]any {
	r := map[string]any{}
	for _, name := range renditions {
		r[name] = map[string]any{"url": fmt.Sprintf("/hub/dxresources/%s/%s.jpg", id, name)}
	}
	return map[string]any{
		"elementType": "image",
		"url":         fmt.Sprintf("/hub/dxresources/%s/original.jpg", id),
		"renditions":  r,
	}
}

func number(n int) map[string]any {
	return map[string]any{"elementType": "number", "value": n}
}

// ArticleDoc returns a valid "Travel Article" document.
func ArticleDoc(id string, countryCategories ...string) Doc {
	return Doc{
		"id":           id,
		"lastModified": "2020-05-01T10:00:00Z",
		"elements": map[string]any{
			"travelArticleTitle":     text("Article " + id),
			"travelArticleImage":     image(id, "card", "default"),
			"articleAuthor":          text("Author"),
			"travelArticleText":      map[string]any{"elementType": "formattedtext", "value": "<p>Body</p>"},
			"countryOfTravelArticle": categories(countryCategories...),
		},
	}
}

// GalleryDoc returns a valid "Gallery Image" document.
func GalleryDoc(id string, countryCategories ...string) Doc {
	return Doc{
		"id": id,
		"elements": map[string]any{
			"ImageTitle":        text("Image " + id),
			"galleryImage":      image(id, "squareCard", "rectangleCard", "default"),
			"imageDescription":  text("Description " + id),
			"imageCountryValue": categories(countryCategories...),
		},
	}
}

// CountryDoc returns a valid "Country" document tagged with category.
func CountryDoc(id, category string) Doc {
	return Doc{
		"id": id,
		"elements": map[string]any{
			"countryTitle":        text("Country " + id),
			"countryImage":        image(id, "countryCard", "destinationsCard", "default"),
			"countryValueForPage": categories(category),
		},
	}
}

// RegionDoc returns a valid "Region" document listing countryCategories.
func RegionDoc(id string, countryCategories ...string) Doc {
	return Doc{
		"id": id,
		"elements": map[string]any{
			"regionTitle": text("Region " + id),
			"countryList": categories(countryCategories...),
		},
	}
}

// DestinationsDoc returns a valid "Destinations" document listing regionCategories.
func DestinationsDoc(id string, regionCategories ...string) Doc {
	return Doc{
		"id": id,
		"elements": map[string]any{
			"destinationsTitle": text("Destinations"),
			"regionList":        categories(regionCategories...),
		},
	}
}

// HomeDoc returns a valid "Home Information" document.
func HomeDoc(id string, sliderItems, articleItems int) Doc {
	return Doc{
		"id": id,
		"elements": map[string]any{
			"websiteTitle": text("Traveler"),
			"imageSliderSettings": map[string]any{
				"elementType": "group",
				"value": map[string]any{
					"numberOfListItems": number(sliderItems),
					"DisplayTime":       number(5),
				},
			},
			"articlePreviewsSettings": map[string]any{
				"elementType": "group",
				"value": map[string]any{
					"numberOfListItems": number(articleItems),
				},
			},
		},
	}
}

// AboutDoc returns a valid "About Information" document.
func AboutDoc(id string) Doc {
	return Doc{
		"id": id,
		"elements": map[string]any{
			"pageTitle":     text("About us"),
			"aboutPageText": map[string]any{"elementType": "formattedtext", "value": "<p>We travel.</p>"},
		},
	}
}

// ContactsDoc returns a valid "Contact Information" document with one entry
// per type/value pair.
func ContactsDoc(id string, pairs ...string) Doc {
	values := []any{}
	for i := 0; i+1 < len(pairs); i += 2 {
		values = append(values, map[string]any{
			"contactType":  text(pairs[i]),
			"contactValue": text(pairs[i+1]),
		})
	}
	return Doc{
		"id": id,
		"elements": map[string]any{
			"contactInformation": map[string]any{"elementType": "group", "values": values},
		},
	}
}

// JSON returns the document encoded as JSON.
func (d Doc) JSON() []byte {
	data, err := json.Marshal(d)
	if err != nil {
		panic(err)
	}
	return data
}

// SearchBody builds a delivery search envelope with the given hits.
func SearchBody(numFound int, docs ...Doc) []byte {
	hits := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		hits = append(hits, map[string]any{"document": string(d.JSON())})
	}
	data, err := json.Marshal(map[string]any{
		"numFound":  numFound,
		"documents": hits,
	})
	if err != nil {
		panic(err)
	}
	return data
}
