package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/publist/publist/internal/loadlog"
	"github.com/publist/publist/internal/render"
	"github.com/publist/publist/internal/state"
)

// Config holds server configuration.
type Config struct {
	Port         int
	AllowAll     bool // allow all CORS origins
	Title        string
	Intro        template.HTML
	ImagePreview bool
	LiveReload   bool
	StaticDir    string
	// Assets are doublestar patterns, relative to StaticDir. Only matching
	// files are served, under /static/ and from the site root so relative
	// links in the document resolve.
	Assets []string
}

// Server serves the publication page and its JSON API.
type Server struct {
	cfg        Config
	ctrl       *state.Controller
	renderer   *render.Renderer
	loads      *loadlog.Store
	hub        *Hub
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. loads may be nil, in which case /api/loads is not
// mounted.
func New(cfg Config, ctrl *state.Controller, renderer *render.Renderer, loads *loadlog.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		ctrl:     ctrl,
		renderer: renderer,
		loads:    loads,
		hub:      NewHub(logger),
		logger:   logger,
	}

	if cfg.LiveReload {
		ctrl.OnLoad(func(state.Snapshot) {
			s.hub.Broadcast(liveMessage{Type: "reload"})
		})
	}

	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Long-lived websocket connections stay outside the request timeout.
	if s.cfg.LiveReload {
		r.Get("/ws/live", s.hub.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Get("/", s.handlePage)
		r.Post("/toggle", s.handleToggle)
		r.Get("/fragment/publications", s.handleFragment)

		r.Get("/api/publications", s.handlePublications)
		r.Get("/api/state", s.handleState)
		r.Post("/api/reload", s.handleReload)
		if s.loads != nil {
			loadlog.RegisterRoutes(r, s.loads)
		}

		r.Get("/assets/style.css", serveAsset("text/css; charset=utf-8", render.CSS()))
		r.Get("/assets/script.js", serveAsset("application/javascript; charset=utf-8", render.JS()))
		if s.cfg.StaticDir != "" && len(s.cfg.Assets) > 0 {
			r.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
				s.serveStatic(w, r, chi.URLParam(r, "*"))
			})
		}
	})

	if s.cfg.StaticDir != "" && len(s.cfg.Assets) > 0 {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			s.serveStatic(w, r, r.URL.Path)
		})
	}

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the live-reload hub.
func (s *Server) Hub() *Hub { return s.hub }

// Start begins listening on the configured port. It returns nil once the
// server has been shut down, including when Shutdown ran first.
func (s *Server) Start() error {
	s.logger.Info("publist server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// matchesAsset reports whether name, relative to StaticDir, matches one of
// the configured asset patterns.
func (s *Server) matchesAsset(name string) bool {
	for _, pattern := range s.cfg.Assets {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// serveStatic serves name from StaticDir if it is a configured asset.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request, name string) {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if !s.matchesAsset(name) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.cfg.StaticDir, filepath.FromSlash(name)))
}

func serveAsset(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(body))
	}
}
