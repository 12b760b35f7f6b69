// Package state owns the view state of the publication page: the loaded
// publication list and whether only selected entries are shown.
package state

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/publist/publist/internal/loader"
	"github.com/publist/publist/internal/loadlog"
	"github.com/publist/publist/internal/publication"
)

// FallbackMessage replaces the publication list when loading fails.
const FallbackMessage = "Error loading publications."

// Labels is the toggle button text and section header for a view mode.
type Labels struct {
	Button string `json:"button"`
	Header string `json:"header"`
}

// LabelsFor returns the UI text for the given mode.
func LabelsFor(showingSelected bool) Labels {
	if showingSelected {
		return Labels{Button: "Show All", Header: "Selected Publications"}
	}
	return Labels{Button: "Show Selected", Header: "All Publications"}
}

// Snapshot is a copy of the view state at one point in time.
type Snapshot struct {
	Publications    []publication.Publication
	ShowingSelected bool
	Loaded          bool
	LoadErr         error
	// Raw is the undecoded document of the last successful load. It is
	// shared between snapshots and must not be modified.
	Raw []byte
}

// Visible returns the publications for the snapshot's mode.
func (s Snapshot) Visible() []publication.Publication {
	return s.For(s.ShowingSelected)
}

// For returns the publications for an explicit mode.
func (s Snapshot) For(selectedOnly bool) []publication.Publication {
	return publication.Filter(s.Publications, selectedOnly)
}

// Labels returns the UI text for the snapshot's mode.
func (s Snapshot) Labels() Labels {
	return LabelsFor(s.ShowingSelected)
}

// Failed reports whether the last load attempt failed.
func (s Snapshot) Failed() bool {
	return s.LoadErr != nil
}

// Recorder receives one event per load attempt.
type Recorder interface {
	Record(ctx context.Context, e loadlog.Event) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecorder records every load attempt.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller holds the view state. It is safe for concurrent use.
type Controller struct {
	source   loader.Source
	logger   *zap.Logger
	recorder Recorder

	mu              sync.RWMutex
	pubs            []publication.Publication
	showingSelected bool
	loaded          bool
	loadErr         error
	raw             []byte
	listeners       []func(Snapshot)
}

// New creates a Controller in selected-only mode with an empty list.
func New(source loader.Source, opts ...Option) *Controller {
	c := &Controller{
		source:          source,
		logger:          zap.NewNop(),
		showingSelected: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source returns the configured document source.
func (c *Controller) Source() loader.Source { return c.source }

// OnLoad registers fn to run after every load attempt.
func (c *Controller) OnLoad(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Load fetches the document. On success the list is replaced wholesale; on
// failure the previous list is kept but the snapshot reports the error, and
// renderers show FallbackMessage instead of items. The view mode is not
// changed. Load never returns the error to the caller; it is in the snapshot.
// The source is read once per call and the bytes decoded are kept in
// Snapshot.Raw.
func (c *Controller) Load(ctx context.Context) Snapshot {
	var doc publication.Document
	raw, err := c.source.Raw(ctx)
	if err == nil {
		doc, err = publication.DecodeBytes(raw)
	}

	event := loadlog.Event{Source: c.source.String()}
	if err != nil {
		c.logger.Error("error loading publications",
			zap.String("source", c.source.String()),
			zap.Error(err),
		)
		event.Status = loadlog.StatusFailed
		event.Error = err.Error()
	} else {
		c.logger.Info("publications loaded",
			zap.String("source", c.source.String()),
			zap.Int("count", len(doc.Publications)),
		)
		event.Status = loadlog.StatusOK
		event.PublicationCount = len(doc.Publications)
		event.SelectedCount = publication.CountSelected(doc.Publications)
	}

	c.mu.Lock()
	if err != nil {
		c.loadErr = err
	} else {
		c.pubs = doc.Publications
		c.raw = raw
		c.loadErr = nil
		c.loaded = true
	}
	snap := c.snapshotLocked()
	listeners := append([]func(Snapshot){}, c.listeners...)
	c.mu.Unlock()

	if c.recorder != nil {
		if recErr := c.recorder.Record(ctx, event); recErr != nil {
			c.logger.Warn("recording load event", zap.Error(recErr))
		}
	}
	for _, fn := range listeners {
		fn(snap)
	}
	return snap
}

// Toggle inverts the view mode and returns the new state.
func (c *Controller) Toggle() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showingSelected = !c.showingSelected
	return c.snapshotLocked()
}

// SetMode switches to the given mode and returns the new state. Setting the
// current mode is a no-op.
func (c *Controller) SetMode(selectedOnly bool) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showingSelected = selectedOnly
	return c.snapshotLocked()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	pubs := make([]publication.Publication, len(c.pubs))
	copy(pubs, c.pubs)
	return Snapshot{
		Publications:    pubs,
		ShowingSelected: c.showingSelected,
		Loaded:          c.loaded,
		LoadErr:         c.loadErr,
		Raw:             c.raw,
	}
}
