package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrEnvelope is returned when a search response body is not a valid envelope.
	ErrEnvelope = errors.New("invalid search envelope")

	// ErrEncoding is returned when a document's text is not valid UTF-8.
	// It aborts the whole batch.
	ErrEncoding = errors.New("invalid document encoding")
)

// Envelope is the delivery search response.
type Envelope struct {
	NumFound  int           `json:"numFound"`
	Documents []RawDocument `json:"documents"`
}

// RawDocument is one search hit. Document holds the raw JSON string whose
// content is the encoded record.
type RawDocument struct {
	Document json.RawMessage `json:"document"`
}

type rawEnvelope struct {
	NumFound  *int          `json:"numFound" validate:"required"`
	Documents []RawDocument `json:"documents"`
}

// ParseEnvelope parses a search response body. A body without numFound,
// including "null" and "{}", is rejected with ErrEnvelope.
func ParseEnvelope(body []byte) (*Envelope, error) {
	var raw rawEnvelope
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvelope, err)
	}
	if err := validate.Struct(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvelope, err)
	}
	return &Envelope{NumFound: *raw.NumFound, Documents: raw.Documents}, nil
}

// Text returns the decoded document text. The raw bytes are checked for
// valid UTF-8 before unquoting because unquoting silently replaces bad
// sequences.
func (d RawDocument) Text() ([]byte, error) {
	if !utf8.Valid(d.Document) {
		return nil, ErrEncoding
	}
	var text string
	if err := json.Unmarshal(d.Document, &text); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return []byte(text), nil
}

// DecodeDocuments decodes every document with decode. Documents that do not
// match the schema are skipped and counted in dropped. An encoding failure
// aborts the batch and returns ErrEncoding with no records.
func DecodeDocuments[T any](docs []RawDocument, decode Decoder[T]) (batch []T, dropped int, err error) {
	batch = make([]T, 0, len(docs))
	for i, doc := range docs {
		text, err := doc.Text()
		if err != nil {
			return nil, 0, fmt.Errorf("document %d: %w", i, err)
		}
		record, err := decode(text)
		if err != nil {
			dropped++
			continue
		}
		batch = append(batch, record)
	}
	return batch, dropped, nil
}
