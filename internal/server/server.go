// Package server provides the HTTP server: frame API, settings, MJPEG
// preview and the live hand summary feed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ayusman/handframe/internal/server/api"
	"github.com/ayusman/handframe/internal/store"
	"github.com/ayusman/handframe/internal/tracking"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Tracker   *tracking.Tracker
	Logger    *log.Logger
	// OnSettingChange is forwarded to the settings handler.
	OnSettingChange func(key, value string)
}

// Server represents the HTTP server.
type Server struct {
	config Config
	logger *log.Logger
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		config: config,
		logger: logger.WithPrefix("http"),
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		frames := api.NewFrameHandler(s.config.Store, s.logger)
		s.mux.Handle("/api/frames", frames)
		s.mux.Handle("/api/frames/", frames)

		settings := api.NewSettingsHandler(s.config.Store)
		settings.OnChange = s.config.OnSettingChange
		s.mux.Handle("/api/settings", settings)
	}

	if s.config.Tracker != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Tracker.Camera()))
		s.mux.Handle("/api/live", NewLiveHandler(s.config.Tracker, s.logger))
	}

	if s.config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Tracker != nil {
		response["tracking"] = s.config.Tracker.IsEnabled()
		if last, ok := s.config.Tracker.Last(); ok {
			response["last_frame"] = last
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
