package publication

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNoPublications is returned when the document has no publications list.
var ErrNoPublications = errors.New("document has no publications list")

// Flag is the "selected" marker of a publication. Only a JSON number equal
// to 1 counts as selected; strings, booleans and other numbers do not.
type Flag int

// UnmarshalJSON accepts any JSON value and keeps 1 only for numeric ones.
func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = 0
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	if n == 1 {
		*f = 1
	}
	return nil
}

// Links holds the optional external links of a publication.
type Links struct {
	PDF     string `json:"pdf,omitempty"`
	Code    string `json:"code,omitempty"`
	Project string `json:"project,omitempty"`
}

// Publication is one entry of the publication document.
type Publication struct {
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Venue    string   `json:"venue"`
	Award    string   `json:"award,omitempty"`
	Selected Flag     `json:"selected"`
	Links    *Links   `json:"links,omitempty"`
}

// IsSelected reports whether the entry belongs to the selected view.
func (p Publication) IsSelected() bool {
	return p.Selected == 1
}

// Document is the top-level shape of publications.json.
type Document struct {
	Publications []Publication `json:"publications"`
}

// Decode parses a publication document. Fields with unexpected types are
// tolerated where the page would tolerate them; anything else is an error.
func Decode(r io.Reader) (Document, error) {
	var raw struct {
		Publications []json.RawMessage `json:"publications"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Document{}, fmt.Errorf("decoding publications: %w", err)
	}
	if raw.Publications == nil {
		return Document{}, fmt.Errorf("decoding publications: %w", ErrNoPublications)
	}

	doc := Document{Publications: make([]Publication, 0, len(raw.Publications))}
	for i, msg := range raw.Publications {
		p, err := decodeOne(msg)
		if err != nil {
			return Document{}, fmt.Errorf("decoding publication %d: %w", i, err)
		}
		doc.Publications = append(doc.Publications, p)
	}
	return doc, nil
}

// DecodeBytes is Decode for an in-memory document.
func DecodeBytes(data []byte) (Document, error) {
	return Decode(bytes.NewReader(data))
}

// decodeOne decodes a single entry. A non-string award is treated as absent,
// matching the "present and non-empty" rule for the badge.
func decodeOne(msg json.RawMessage) (Publication, error) {
	var p struct {
		Title    string          `json:"title"`
		Authors  []string        `json:"authors"`
		Venue    string          `json:"venue"`
		Award    json.RawMessage `json:"award"`
		Selected Flag            `json:"selected"`
		Links    *Links          `json:"links"`
	}
	if err := json.Unmarshal(msg, &p); err != nil {
		return Publication{}, err
	}

	var award string
	if len(p.Award) > 0 {
		_ = json.Unmarshal(p.Award, &award)
	}

	return Publication{
		Title:    p.Title,
		Authors:  p.Authors,
		Venue:    p.Venue,
		Award:    award,
		Selected: p.Selected,
		Links:    p.Links,
	}, nil
}

// Filter returns the publications to show. With selectedOnly it keeps the
// entries flagged selected, otherwise the full list; order is preserved.
func Filter(pubs []Publication, selectedOnly bool) []Publication {
	if !selectedOnly {
		out := make([]Publication, len(pubs))
		copy(out, pubs)
		return out
	}
	out := make([]Publication, 0, len(pubs))
	for _, p := range pubs {
		if p.IsSelected() {
			out = append(out, p)
		}
	}
	return out
}

// CountSelected returns how many entries carry the selected flag.
func CountSelected(pubs []Publication) int {
	n := 0
	for _, p := range pubs {
		if p.IsSelected() {
			n++
		}
	}
	return n
}
