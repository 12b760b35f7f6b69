package state

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/publist/publist/internal/loader"
	"github.com/publist/publist/internal/loadlog"
	"github.com/publist/publist/internal/publication"
)

// fakeSource serves a fixed document or error.
type fakeSource struct {
	doc publication.Document
	err error
}

func (f *fakeSource) Fetch(context.Context) (publication.Document, error) { return f.doc, f.err }
func (f *fakeSource) String() string                                       { return "fake" }

func (f *fakeSource) Raw(context.Context) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return json.Marshal(f.doc)
}

// memRecorder keeps recorded events in memory.
type memRecorder struct {
	mu     sync.Mutex
	events []loadlog.Event
}

func (m *memRecorder) Record(_ context.Context, e loadlog.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func sampleDoc() publication.Document {
	return publication.Document{Publications: []publication.Publication{
		{Title: "A", Authors: []string{"x"}, Selected: 1},
		{Title: "B", Authors: []string{"y"}},
		{Title: "C", Authors: []string{"z"}, Selected: 1},
	}}
}

func titles(pubs []publication.Publication) []string {
	out := make([]string, len(pubs))
	for i, p := range pubs {
		out[i] = p.Title
	}
	return out
}

func TestNewDefaults(t *testing.T) {
	c := New(&fakeSource{})
	snap := c.Snapshot()
	if !snap.ShowingSelected {
		t.Error("default mode should be selected-only")
	}
	if snap.Loaded || len(snap.Publications) != 0 {
		t.Error("state should be empty before load")
	}
}

func TestLoadSuccess(t *testing.T) {
	rec := &memRecorder{}
	c := New(&fakeSource{doc: sampleDoc()}, WithRecorder(rec))

	snap := c.Load(context.Background())
	if snap.Failed() {
		t.Fatalf("unexpected load error: %v", snap.LoadErr)
	}
	if diff := cmp.Diff([]string{"A", "C"}, titles(snap.Visible())); diff != "" {
		t.Errorf("visible mismatch (-want +got):\n%s", diff)
	}

	if len(rec.events) != 1 {
		t.Fatalf("recorded events = %d, want 1", len(rec.events))
	}
	ev := rec.events[0]
	if ev.Status != loadlog.StatusOK || ev.PublicationCount != 3 || ev.SelectedCount != 2 {
		t.Errorf("event = %+v", ev)
	}
}

func TestLoadFailureFromHTTP500(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	rec := &memRecorder{}
	c := New(loader.New(ts.URL, 0), WithRecorder(rec))
	snap := c.Load(context.Background())

	if !snap.Failed() {
		t.Fatal("expected failed snapshot")
	}
	var statusErr *loader.StatusError
	if !errors.As(snap.LoadErr, &statusErr) {
		t.Errorf("LoadErr = %v, want *loader.StatusError", snap.LoadErr)
	}
	if len(snap.Visible()) != 0 {
		t.Error("no publications should be visible after a failed first load")
	}
	if rec.events[0].Status != loadlog.StatusFailed {
		t.Errorf("event status = %q, want failed", rec.events[0].Status)
	}
}

func TestLoadFailureKeepsPreviousList(t *testing.T) {
	src := &fakeSource{doc: sampleDoc()}
	c := New(src)
	c.Load(context.Background())

	src.err = errors.New("gone")
	snap := c.Load(context.Background())
	if !snap.Failed() {
		t.Fatal("expected failed snapshot")
	}
	if len(snap.Publications) != 3 {
		t.Errorf("publications = %d, want previous 3", len(snap.Publications))
	}

	src.err = nil
	if snap := c.Load(context.Background()); snap.Failed() {
		t.Error("successful load should clear the error")
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	c := New(&fakeSource{doc: sampleDoc()})
	c.Load(context.Background())
	before := c.Snapshot()

	first := c.Toggle()
	if first.ShowingSelected {
		t.Error("first toggle should switch to all")
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, titles(first.Visible())); diff != "" {
		t.Errorf("all view mismatch (-want +got):\n%s", diff)
	}
	if first.Labels() != (Labels{Button: "Show Selected", Header: "All Publications"}) {
		t.Errorf("labels after first toggle = %+v", first.Labels())
	}

	second := c.Toggle()
	if second.ShowingSelected != before.ShowingSelected {
		t.Error("second toggle should restore the mode")
	}
	if second.Labels() != before.Labels() {
		t.Errorf("labels = %+v, want %+v", second.Labels(), before.Labels())
	}
	if diff := cmp.Diff(titles(before.Visible()), titles(second.Visible())); diff != "" {
		t.Errorf("visible mismatch (-want +got):\n%s", diff)
	}
}

func TestLabelsFor(t *testing.T) {
	if got := LabelsFor(true); got.Button != "Show All" || got.Header != "Selected Publications" {
		t.Errorf("LabelsFor(true) = %+v", got)
	}
	if got := LabelsFor(false); got.Button != "Show Selected" || got.Header != "All Publications" {
		t.Errorf("LabelsFor(false) = %+v", got)
	}
}

func TestReloadKeepsMode(t *testing.T) {
	c := New(&fakeSource{doc: sampleDoc()})
	c.Load(context.Background())
	c.Toggle()

	if snap := c.Load(context.Background()); snap.ShowingSelected {
		t.Error("reload should not reset the view mode")
	}
}

func TestOnLoadListeners(t *testing.T) {
	c := New(&fakeSource{doc: sampleDoc()})
	var calls int
	c.OnLoad(func(s Snapshot) {
		calls++
		if len(s.Publications) != 3 {
			t.Errorf("listener saw %d publications, want 3", len(s.Publications))
		}
	})
	c.Load(context.Background())
	if calls != 1 {
		t.Errorf("listener calls = %d, want 1", calls)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	c := New(&fakeSource{doc: sampleDoc()})
	c.Load(context.Background())

	snap := c.Snapshot()
	snap.Publications[0].Title = "mutated"
	if c.Snapshot().Publications[0].Title != "A" {
		t.Error("mutating a snapshot should not change the controller")
	}
}

func TestLoadMissingListFails(t *testing.T) {
	for _, body := range []string{`{}`, `{"publications": null}`, `{"pubs": []}`} {
		t.Run(body, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "publications.json")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			rec := &memRecorder{}
			c := New(loader.New(path, 0), WithRecorder(rec))

			snap := c.Load(context.Background())
			if !errors.Is(snap.LoadErr, publication.ErrNoPublications) {
				t.Fatalf("LoadErr = %v, want ErrNoPublications", snap.LoadErr)
			}
			if snap.Loaded {
				t.Error("a document without a list should not count as loaded")
			}
			if len(rec.events) != 1 || rec.events[0].Status != loadlog.StatusFailed {
				t.Errorf("events = %+v, want one failed event", rec.events)
			}
		})
	}
}

func TestLoadKeepsRawDocument(t *testing.T) {
	var hits atomic.Int32
	body := `{"publications":[{"title":"A","authors":["x"],"selected":1}]}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(body))
	}))
	defer ts.Close()

	snap := New(loader.New(ts.URL, 0)).Load(context.Background())
	if snap.Failed() {
		t.Fatalf("unexpected load error: %v", snap.LoadErr)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("requests = %d, want 1", n)
	}
	if string(snap.Raw) != body {
		t.Errorf("Raw = %q, want %q", snap.Raw, body)
	}
}

func TestSetMode(t *testing.T) {
	c := New(&fakeSource{doc: sampleDoc()})
	c.Load(context.Background())

	snap := c.SetMode(false)
	if snap.ShowingSelected {
		t.Error("SetMode(false) should show all")
	}
	if snap := c.SetMode(false); snap.ShowingSelected || len(snap.Visible()) != 3 {
		t.Error("setting the current mode again should not flip it")
	}
	if snap := c.SetMode(true); !snap.ShowingSelected || snap.Labels().Button != "Show All" {
		t.Errorf("SetMode(true) = %+v", snap.Labels())
	}
}
