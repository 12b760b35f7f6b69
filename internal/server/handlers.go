package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/publist/publist/internal/publication"
	"github.com/publist/publist/internal/render"
	"github.com/publist/publist/internal/state"
)

// stateResponse describes the current view for in-place updates.
type stateResponse struct {
	ShowingSelected bool   `json:"showing_selected"`
	Button          string `json:"button"`
	Header          string `json:"header"`
	HTML            string `json:"html"`
	Failed          bool   `json:"failed"`
	Error           string `json:"error,omitempty"`
}

// publicationsResponse is the JSON form of the rendered list.
type publicationsResponse struct {
	ShowingSelected bool               `json:"showing_selected"`
	Failed          bool               `json:"failed"`
	Error           string             `json:"error,omitempty"`
	Publications    []publication.View `json:"publications"`
}

// viewMode reads ?view=all|selected, falling back to def.
func viewMode(r *http.Request, def bool) bool {
	return parseView(r.URL.Query().Get("view"), def)
}

func parseView(v string, def bool) bool {
	switch v {
	case "all":
		return false
	case "selected":
		return true
	default:
		return def
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// pageData builds page data and logs a malformed record without failing.
func (s *Server) pageData(snap state.Snapshot, selectedOnly bool) (render.PageData, error) {
	data, err := s.renderer.PageFor(snap, selectedOnly, render.PageOptions{
		Title:        s.cfg.Title,
		Intro:        s.cfg.Intro,
		ToggleAction: "/toggle",
		AssetBase:    "/assets/",
		LiveReload:   s.cfg.LiveReload,
		ImagePreview: s.cfg.ImagePreview,
	})
	if err != nil {
		s.logger.Warn("rendering stopped at malformed publication",
			zap.Int("rendered", len(data.Items)),
			zap.Error(err),
		)
	}
	return data, err
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	snap := s.ctrl.Snapshot()
	data, _ := s.pageData(snap, viewMode(r, snap.ShowingSelected))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Page(w, data); err != nil {
		s.logger.Error("writing page", zap.Error(err))
	}
}

// handleToggle switches to the mode named by the "view" form field, which
// the page sets to the opposite of what it shows. Without the field the
// stored mode is inverted.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var snap state.Snapshot
	if v := r.PostFormValue("view"); v == "all" || v == "selected" {
		snap = s.ctrl.SetMode(parseView(v, true))
	} else {
		snap = s.ctrl.Toggle()
	}
	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.writeState(w, snap)
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	snap := s.ctrl.Snapshot()
	data, _ := s.pageData(snap, viewMode(r, snap.ShowingSelected))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Container(w, data); err != nil {
		s.logger.Error("writing fragment", zap.Error(err))
	}
}

func (s *Server) handlePublications(w http.ResponseWriter, r *http.Request) {
	snap := s.ctrl.Snapshot()
	selectedOnly := viewMode(r, snap.ShowingSelected)

	resp := publicationsResponse{ShowingSelected: selectedOnly, Publications: []publication.View{}}
	if snap.Failed() {
		resp.Failed = true
		resp.Error = snap.LoadErr.Error()
		writeJSON(w, http.StatusOK, resp)
		return
	}

	views, err := publication.BuildViews(snap.For(selectedOnly), s.renderer.Highlight())
	resp.Publications = views
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, s.ctrl.Snapshot())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, s.ctrl.Load(r.Context()))
}

func (s *Server) writeState(w http.ResponseWriter, snap state.Snapshot) {
	data, _ := s.pageData(snap, snap.ShowingSelected)
	html, err := s.renderer.ContainerHTML(data)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	labels := snap.Labels()
	resp := stateResponse{
		ShowingSelected: snap.ShowingSelected,
		Button:          labels.Button,
		Header:          labels.Header,
		HTML:            html,
		Failed:          snap.Failed(),
	}
	if snap.Failed() {
		resp.Error = snap.LoadErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
