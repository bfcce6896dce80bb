package content

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrSchemaMismatch is returned when a document does not match a record schema.
var ErrSchemaMismatch = errors.New("document does not match schema")

// Decoder decodes one document into a record of type T.
type Decoder[T any] func(document []byte) (T, error)

var validate = validator.New()

// decodeStrict unmarshals document into v and checks required elements.
func decodeStrict(document []byte, v any) error {
	if err := json.Unmarshal(document, v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return nil
}

type rawArticle struct {
	ID           *string `json:"id" validate:"required"`
	LastModified *string `json:"lastModified" validate:"required"`
	Elements     *struct {
		Title   *rawText                     `json:"travelArticleTitle" validate:"required"`
		Image   *rawImage[articleRenditions] `json:"travelArticleImage" validate:"required"`
		Author  *rawText                     `json:"articleAuthor" validate:"required"`
		Body    *rawText                     `json:"travelArticleText" validate:"required"`
		Country *rawCategory                 `json:"countryOfTravelArticle" validate:"required"`
	} `json:"elements" validate:"required"`
}

// DecodeArticle decodes a "Travel Article" document.
func DecodeArticle(document []byte) (Article, error) {
	var raw rawArticle
	if err := decodeStrict(document, &raw); err != nil {
		return Article{}, err
	}
	e := raw.Elements
	return Article{
		ID:           *raw.ID,
		LastModified: *raw.LastModified,
		Title:        e.Title.text(),
		Image:        e.Image.image(),
		Author:       e.Author.text(),
		Body:         e.Body.text(),
		Country:      e.Country.category(),
	}, nil
}

type rawGalleryImage struct {
	ID       *string `json:"id" validate:"required"`
	Elements *struct {
		Title       *rawText                     `json:"ImageTitle" validate:"required"`
		Image       *rawImage[galleryRenditions] `json:"galleryImage" validate:"required"`
		Description *rawText                     `json:"imageDescription" validate:"required"`
		Country     *rawCategory                 `json:"imageCountryValue" validate:"required"`
	} `json:"elements" validate:"required"`
}

// DecodeGalleryImage decodes a "Gallery Image" document.
func DecodeGalleryImage(document []byte) (GalleryImage, error) {
	var raw rawGalleryImage
	if err := decodeStrict(document, &raw); err != nil {
		return GalleryImage{}, err
	}
	e := raw.Elements
	return GalleryImage{
		ID:          *raw.ID,
		Title:       e.Title.text(),
		Image:       e.Image.image(),
		Description: e.Description.text(),
		Country:     e.Country.category(),
	}, nil
}

type rawCountry struct {
	ID       *string `json:"id" validate:"required"`
	Elements *struct {
		Title    *rawText                     `json:"countryTitle" validate:"required"`
		Image    *rawImage[countryRenditions] `json:"countryImage" validate:"required"`
		Category *rawCategory                 `json:"countryValueForPage" validate:"required"`
	} `json:"elements" validate:"required"`
}

// DecodeCountry decodes a "Country" document.
func DecodeCountry(document []byte) (Country, error) {
	var raw rawCountry
	if err := decodeStrict(document, &raw); err != nil {
		return Country{}, err
	}
	e := raw.Elements
	return Country{
		ID:       *raw.ID,
		Title:    e.Title.text(),
		Image:    e.Image.image(),
		Category: e.Category.category(),
	}, nil
}

type rawRegion struct {
	ID       *string `json:"id" validate:"required"`
	Elements *struct {
		Title       *rawText     `json:"regionTitle" validate:"required"`
		CountryList *rawCategory `json:"countryList" validate:"required"`
	} `json:"elements" validate:"required"`
}

// DecodeRegion decodes a "Region" document.
func DecodeRegion(document []byte) (Region, error) {
	var raw rawRegion
	if err := decodeStrict(document, &raw); err != nil {
		return Region{}, err
	}
	return Region{
		ID:          *raw.ID,
		Title:       raw.Elements.Title.text(),
		CountryList: raw.Elements.CountryList.category(),
	}, nil
}

type rawDestinations struct {
	ID       *string `json:"id" validate:"required"`
	Elements *struct {
		Title      *rawText     `json:"destinationsTitle" validate:"required"`
		RegionList *rawCategory `json:"regionList" validate:"required"`
	} `json:"elements" validate:"required"`
}

// DecodeDestinations decodes the "Destinations" document.
func DecodeDestinations(document []byte) (Destinations, error) {
	var raw rawDestinations
	if err := decodeStrict(document, &raw); err != nil {
		return Destinations{}, err
	}
	return Destinations{
		ID:         *raw.ID,
		Title:      raw.Elements.Title.text(),
		RegionList: raw.Elements.RegionList.category(),
	}, nil
}

type rawListSettings struct {
	ElementType *string `json:"elementType" validate:"required"`
	Value       *struct {
		NumberOfListItems *rawNumber `json:"numberOfListItems" validate:"required"`
		DisplayTime       *rawNumber `json:"DisplayTime" validate:"omitempty"`
	} `json:"value" validate:"required"`
}

func (r *rawListSettings) settings() ListSettings {
	s := ListSettings{
		ElementType:       *r.ElementType,
		NumberOfListItems: r.Value.NumberOfListItems.number(),
	}
	if r.Value.DisplayTime != nil {
		n := r.Value.DisplayTime.number()
		s.DisplayTime = &n
	}
	return s
}

type rawHome struct {
	ID       *string `json:"id" validate:"required"`
	Elements *struct {
		WebsiteTitle    *rawText         `json:"websiteTitle" validate:"required"`
		ImageSlider     *rawListSettings `json:"imageSliderSettings" validate:"required"`
		ArticlePreviews *rawListSettings `json:"articlePreviewsSettings" validate:"required"`
	} `json:"elements" validate:"required"`
}

// DecodeHome decodes the "Home Information" document.
func DecodeHome(document []byte) (Home, error) {
	var raw rawHome
	if err := decodeStrict(document, &raw); err != nil {
		return Home{}, err
	}
	e := raw.Elements
	return Home{
		ID:              *raw.ID,
		WebsiteTitle:    e.WebsiteTitle.text(),
		ImageSlider:     e.ImageSlider.settings(),
		ArticlePreviews: e.ArticlePreviews.settings(),
	}, nil
}

type rawAbout struct {
	ID       *string `json:"id" validate:"required"`
	Elements *struct {
		PageTitle *rawText `json:"pageTitle" validate:"required"`
		PageText  *rawText `json:"aboutPageText" validate:"required"`
	} `json:"elements" validate:"required"`
}

// DecodeAbout decodes the "About Information" document.
func DecodeAbout(document []byte) (About, error) {
	var raw rawAbout
	if err := decodeStrict(document, &raw); err != nil {
		return About{}, err
	}
	return About{
		ID:        *raw.ID,
		PageTitle: raw.Elements.PageTitle.text(),
		PageText:  raw.Elements.PageText.text(),
	}, nil
}

type rawContactValue struct {
	Type  *rawText `json:"contactType" validate:"required"`
	Value *rawText `json:"contactValue" validate:"required"`
}

type rawContacts struct {
	ID       *string `json:"id" validate:"required"`
	Elements *struct {
		Information *struct {
			Values []rawContactValue `json:"values" validate:"required,dive"`
		} `json:"contactInformation" validate:"required"`
	} `json:"elements" validate:"required"`
}

// DecodeContacts decodes the "Contact Information" document.
func DecodeContacts(document []byte) (Contacts, error) {
	var raw rawContacts
	if err := decodeStrict(document, &raw); err != nil {
		return Contacts{}, err
	}
	values := make([]ContactValue, 0, len(raw.Elements.Information.Values))
	for _, v := range raw.Elements.Information.Values {
		values = append(values, ContactValue{Type: v.Type.text(), Value: v.Value.text()})
	}
	return Contacts{ID: *raw.ID, Values: values}, nil
}
