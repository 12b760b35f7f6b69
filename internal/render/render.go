// Package render turns publication views into HTML pages and fragments.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/publist/publist/internal/publication"
	"github.com/publist/publist/internal/state"
)

// PageData holds everything the page template needs.
type PageData struct {
	Title           string
	Intro           template.HTML
	Header          string
	Button          string
	ShowingSelected bool
	Items           []publication.View
	Failed          bool
	FallbackMessage string

	// Exactly one of ToggleAction (form POST target) and ToggleHref (plain
	// link to the other view) is set.
	ToggleAction string
	ToggleHref   string

	AssetBase    string
	LiveReload   bool
	ImagePreview bool
}

// PageOptions are the page settings that do not come from the view state.
type PageOptions struct {
	Title        string
	Intro        template.HTML
	ToggleAction string
	ToggleHref   string
	AssetBase    string
	LiveReload   bool
	ImagePreview bool
}

// Renderer renders publication pages. It is safe for concurrent use.
type Renderer struct {
	tmpl      *template.Template
	md        goldmark.Markdown
	highlight string
}

// New parses the page templates. highlight is the author name to emphasize.
func New(highlight string) (*Renderer, error) {
	tmpl, err := template.New("page").Funcs(template.FuncMap{
		"delay": sectionDelay,
	}).Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	return &Renderer{tmpl: tmpl, md: md, highlight: highlight}, nil
}

// sectionDelay staggers the fade-in of page sections by 0.1s each.
func sectionDelay(index int) template.CSS {
	return template.CSS(fmt.Sprintf("animation-delay: %.1fs", float64(index)*0.1))
}

// Highlight returns the author name this renderer emphasizes.
func (r *Renderer) Highlight() string { return r.highlight }

// PageFor builds page data for a snapshot in the given mode. On a malformed
// record the returned data holds the items before it and err is non-nil;
// callers render the data anyway.
func (r *Renderer) PageFor(snap state.Snapshot, selectedOnly bool, opts PageOptions) (PageData, error) {
	labels := state.LabelsFor(selectedOnly)
	data := PageData{
		Title:           opts.Title,
		Intro:           opts.Intro,
		Header:          labels.Header,
		Button:          labels.Button,
		ShowingSelected: selectedOnly,
		ToggleAction:    opts.ToggleAction,
		ToggleHref:      opts.ToggleHref,
		AssetBase:       opts.AssetBase,
		LiveReload:      opts.LiveReload,
		ImagePreview:    opts.ImagePreview,
	}

	if snap.Failed() {
		data.Failed = true
		data.FallbackMessage = state.FallbackMessage
		return data, nil
	}

	items, err := publication.BuildViews(snap.For(selectedOnly), r.highlight)
	data.Items = items
	return data, err
}

// Page writes a complete HTML page.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	return r.tmpl.ExecuteTemplate(w, "page", data)
}

// Container writes only the publications container element.
func (r *Renderer) Container(w io.Writer, data PageData) error {
	return r.tmpl.ExecuteTemplate(w, "container", data)
}

// ContainerHTML is Container into a string.
func (r *Renderer) ContainerHTML(data PageData) (string, error) {
	var buf bytes.Buffer
	if err := r.Container(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Markdown converts an intro document to HTML.
func (r *Renderer) Markdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// CSS returns the page stylesheet.
func CSS() string { return cssContent }

// JS returns the page script.
func JS() string { return jsContent }
