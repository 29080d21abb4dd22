package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gompdf/pageflow/internal/config"
	"github.com/gompdf/pageflow/internal/layout"
	"github.com/gompdf/pageflow/pkg/api"
)

// Server is the HTTP API for one-shot pagination of stored documents.
type Server struct {
	router chi.Router
	log    *slog.Logger
	cfg    config.Config
	opts   []api.Option
}

// NewServer creates and configures the HTTP server. cfg is expected to have
// passed Validate; an unknown page size falls back to Letter.
func NewServer(cfg config.Config, log *slog.Logger) *Server {
	ps, err := layout.LookupPageSize(cfg.PageSize)
	if err != nil {
		log.Warn("unknown page size, using Letter", "page_size", cfg.PageSize)
		ps = layout.PageSizeLetter
	}
	s := &Server{
		log: log,
		cfg: cfg,
		opts: []api.Option{
			api.WithPageSize(ps.Width, ps.Height),
			api.WithMargin(cfg.Margin),
			api.WithFont(cfg.Font),
			api.WithMaxIterations(cfg.MaxIterations),
			// Requests reflow synchronously; the background scheduler stays idle.
			api.WithDebounce(time.Hour),
			api.WithLogger(log),
		},
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}
		r.Use(BodyLimit(s.cfg.MaxBodyBytes))

		r.Post("/api/reflow", s.handleReflow)
		r.Post("/api/paginate/text", s.handlePaginateText)
		r.Post("/api/export/pdf", s.handleExport)
		r.Post("/api/import", s.handleImport)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) editorOptions(extra ...api.Option) []api.Option {
	return append(append([]api.Option(nil), s.opts...), extra...)
}
