package site

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/publist/publist/internal/progress"
	"github.com/publist/publist/internal/render"
	"github.com/publist/publist/internal/state"
)

const (
	selectedPage = "index.html"
	allPage      = "all.html"
	dataFile     = "publications.json"
)

// Generator writes the publication page as a static site: one HTML page per
// view mode, the shared assets and a copy of the publication document.
type Generator struct {
	Controller *state.Controller
	Renderer   *render.Renderer
	OutputDir  string
	Title      string

	// IntroFile is an optional Markdown file rendered above the list.
	IntroFile string
	// AssetRoot is the directory Assets patterns are matched against.
	AssetRoot string
	// Assets are doublestar patterns of files copied verbatim.
	Assets []string

	ImagePreview bool
	// Strict turns load failures and malformed records into errors.
	Strict bool

	Reporter progress.Reporter
	Logger   *zap.Logger
}

// NewGenerator creates a Generator with a no-op reporter and logger.
func NewGenerator(ctrl *state.Controller, r *render.Renderer, outputDir, title string) *Generator {
	return &Generator{
		Controller: ctrl,
		Renderer:   r,
		OutputDir:  outputDir,
		Title:      title,
		AssetRoot:  ".",
		Reporter:   progress.Nop{},
		Logger:     zap.NewNop(),
	}
}

type page struct {
	name         string
	selectedOnly bool
	toggleHref   string
}

// Generate loads the document and builds the site. Returns the number of
// pages written.
func (g *Generator) Generate(ctx context.Context) (int, error) {
	snap := g.Controller.Load(ctx)
	if snap.Failed() && g.Strict {
		return 0, fmt.Errorf("loading publications: %w", snap.LoadErr)
	}

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return 0, err
	}

	// Write static assets.
	if err := os.WriteFile(filepath.Join(g.OutputDir, "style.css"), []byte(render.CSS()), 0o644); err != nil {
		return 0, err
	}
	if err := os.WriteFile(filepath.Join(g.OutputDir, "script.js"), []byte(render.JS()), 0o644); err != nil {
		return 0, err
	}

	if !snap.Failed() {
		if err := os.WriteFile(filepath.Join(g.OutputDir, dataFile), snap.Raw, 0o644); err != nil {
			return 0, fmt.Errorf("writing publication document: %w", err)
		}
	}

	intro, err := g.intro()
	if err != nil {
		return 0, err
	}

	pages := []page{
		{name: selectedPage, selectedOnly: true, toggleHref: allPage},
		{name: allPage, selectedOnly: false, toggleHref: selectedPage},
	}

	g.Reporter.Start(len(pages))
	for i, p := range pages {
		if err := g.renderPage(snap, p, intro); err != nil {
			return i, fmt.Errorf("rendering %s: %w", p.name, err)
		}
		g.Reporter.Update(i+1, p.name)
	}
	g.Reporter.Finish()

	copied, err := g.copyAssets()
	if err != nil {
		return len(pages), fmt.Errorf("copying assets: %w", err)
	}
	if copied > 0 {
		g.Logger.Info("assets copied", zap.Int("count", copied))
	}

	return len(pages), nil
}

func (g *Generator) renderPage(snap state.Snapshot, p page, intro template.HTML) error {
	data, err := g.Renderer.PageFor(snap, p.selectedOnly, render.PageOptions{
		Title:        g.Title,
		Intro:        intro,
		ToggleHref:   p.toggleHref,
		ImagePreview: g.ImagePreview,
	})
	if err != nil {
		if g.Strict {
			return err
		}
		g.Logger.Warn("rendering stopped at malformed publication",
			zap.String("page", p.name),
			zap.Int("rendered", len(data.Items)),
			zap.Error(err),
		)
	}

	f, err := os.Create(filepath.Join(g.OutputDir, p.name))
	if err != nil {
		return err
	}
	defer f.Close()

	return g.Renderer.Page(f, data)
}

func (g *Generator) intro() (template.HTML, error) {
	if g.IntroFile == "" {
		return "", nil
	}
	src, err := os.ReadFile(g.IntroFile)
	if err != nil {
		return "", fmt.Errorf("reading intro %s: %w", g.IntroFile, err)
	}
	return g.Renderer.Markdown(src)
}

// copyAssets copies every file under AssetRoot matching one of the Assets
// patterns into the output directory, keeping relative paths.
func (g *Generator) copyAssets() (int, error) {
	if len(g.Assets) == 0 {
		return 0, nil
	}

	fsys := os.DirFS(g.AssetRoot)
	seen := make(map[string]bool)
	for _, pattern := range g.Assets {
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return len(seen), fmt.Errorf("pattern %q: %w", pattern, err)
		}
		for _, rel := range matches {
			if seen[rel] {
				continue
			}
			if err := copyFile(fsys, rel, filepath.Join(g.OutputDir, filepath.FromSlash(rel))); err != nil {
				return len(seen), err
			}
			seen[rel] = true
		}
	}
	return len(seen), nil
}

func copyFile(fsys fs.FS, rel, dst string) error {
	data, err := fs.ReadFile(fsys, rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
