package publication

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultHighlight is the author name emphasized in author lines.
const DefaultHighlight = "Pablo Algarrada"

// ErrMalformed marks a record that cannot be rendered.
var ErrMalformed = errors.New("malformed publication")

// AuthorSegment is one author in an author line.
type AuthorSegment struct {
	Name      string `json:"name"`
	Highlight bool   `json:"highlight,omitempty"`
	Last      bool   `json:"-"`
}

// Link is one anchor of the links row.
type Link struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	NewTab bool   `json:"new_tab,omitempty"`
}

// View is the render description of one publication item.
type View struct {
	Title    string          `json:"title"`
	Authors  []AuthorSegment `json:"authors"`
	Venue    string          `json:"venue"`
	Award    string          `json:"award,omitempty"`
	HasLinks bool            `json:"has_links"`
	Links    []Link          `json:"links,omitempty"`
}

// AuthorLine returns the authors as plain text, comma separated.
func (v View) AuthorLine() string {
	names := make([]string, len(v.Authors))
	for i, a := range v.Authors {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

// NewView builds the view of a single publication. highlight is the
// substring that marks an author for emphasis; empty disables highlighting.
func NewView(p Publication, highlight string) (View, error) {
	if p.Authors == nil {
		return View{}, fmt.Errorf("%w: %q has no authors", ErrMalformed, p.Title)
	}

	v := View{
		Title:   p.Title,
		Venue:   p.Venue,
		Award:   p.Award,
		Authors: make([]AuthorSegment, len(p.Authors)),
	}
	for i, name := range p.Authors {
		v.Authors[i] = AuthorSegment{
			Name:      name,
			Highlight: highlight != "" && strings.Contains(name, highlight),
			Last:      i == len(p.Authors)-1,
		}
	}

	if p.Links != nil {
		v.HasLinks = true
		v.Links = linksOf(*p.Links)
	}
	return v, nil
}

// linksOf returns the anchors in display order, skipping empty ones.
func linksOf(l Links) []Link {
	var out []Link
	if l.PDF != "" {
		out = append(out, Link{Label: "[PDF]", Href: l.PDF, NewTab: true})
	}
	if l.Code != "" {
		out = append(out, Link{Label: "[Code]", Href: l.Code})
	}
	if l.Project != "" {
		out = append(out, Link{Label: "[Project Page]", Href: l.Project})
	}
	return out
}

// BuildViews maps publications to views in order. It stops at the first
// malformed record and returns the views built before it along with the error.
func BuildViews(pubs []Publication, highlight string) ([]View, error) {
	views := make([]View, 0, len(pubs))
	for i, p := range pubs {
		v, err := NewView(p, highlight)
		if err != nil {
			return views, fmt.Errorf("publication %d: %w", i, err)
		}
		views = append(views, v)
	}
	return views, nil
}
