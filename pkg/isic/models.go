package isic

import (
	"bytes"
	"encoding/json"
	"errors"
)

var (
	// ErrMissingResults is returned when a search response has no results array
	ErrMissingResults = errors.New("search response has no results field")

	// ErrMissingNext is returned when a search response has no next field
	ErrMissingNext = errors.New("search response has no next field")
)

// SearchPage is one decoded page of the images search endpoint
type SearchPage struct {
	Count    int           `json:"count"`
	Next     *string       `json:"next"`
	Previous *string       `json:"previous"`
	Results  []ImageRecord `json:"results"`
}

// ImageRecord is a single image entry of a search page
type ImageRecord struct {
	ISICID           string            `json:"isic_id"`
	CopyrightLicense string            `json:"copyright_license,omitempty"`
	Attribution      string            `json:"attribution,omitempty"`
	URLs             map[string]string `json:"urls"`
	Metadata         json.RawMessage   `json:"metadata,omitempty"`
}

// UnmarshalJSON decodes a page and rejects responses lacking the
// results array or the next key. A null next is valid and ends pagination.
func (p *SearchPage) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	results, ok := raw["results"]
	if !ok || bytes.Equal(bytes.TrimSpace(results), []byte("null")) {
		return ErrMissingResults
	}
	if _, ok := raw["next"]; !ok {
		return ErrMissingNext
	}

	type page SearchPage
	var decoded page
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = SearchPage(decoded)
	return nil
}

// NextURL returns the cursor of the following page
func (p *SearchPage) NextURL() (string, bool) {
	if p.Next == nil || *p.Next == "" {
		return "", false
	}
	return *p.Next, true
}

// FullURL returns the full-resolution download URL of the record
func (r ImageRecord) FullURL() (string, bool) {
	u, ok := r.URLs["full"]
	if !ok || u == "" {
		return "", false
	}
	return u, true
}
