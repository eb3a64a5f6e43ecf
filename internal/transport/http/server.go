package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Roofsimple/tech-custom-rss-feed/internal/shared/config"
	sloghttp "github.com/samber/slog-http"
)

// Server serves the rendered output directory for local preview.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a new preview server
func New(cfg *config.Config) *Server {
	return &Server{
		cfg:    cfg,
		logger: slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Handler returns the routed handler, wrapped with logging and recovery
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Rendered digest files
	mux.Handle("GET /", http.FileServer(http.Dir(s.cfg.Settings.OutputDir)))

	// Health check endpoint
	mux.HandleFunc("GET /health", s.handleHealth)

	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)
	return handler
}

// Start starts the preview server and blocks until it fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.Settings.PreviewPort)
	s.logger.Info("Preview server starting", "addr", addr, "dir", s.cfg.Settings.OutputDir)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
