// Package app wires the store, camera, detector, tracker and HTTP server
// into one runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/handframe/internal/capture"
	"github.com/ayusman/handframe/internal/config"
	"github.com/ayusman/handframe/internal/detector"
	"github.com/ayusman/handframe/internal/server"
	"github.com/ayusman/handframe/internal/store"
	"github.com/ayusman/handframe/internal/tracking"
)

// SettingTrackingEnabled persists the tracking toggle across restarts.
const SettingTrackingEnabled = "tracking_enabled"

// App is the running application.
type App struct {
	config   config.Config
	logger   *log.Logger
	store    *store.Store
	camera   capture.Camera
	detector detector.Detector
	tracker  *tracking.Tracker
	server   *server.Server
}

// Option customizes New.
type Option func(*App)

// WithCamera replaces the configured camera.
func WithCamera(c capture.Camera) Option {
	return func(a *App) { a.camera = c }
}

// WithDetector replaces the MediaPipe detector.
func WithDetector(d detector.Detector) Option {
	return func(a *App) { a.detector = d }
}

// New opens the data directory and builds every component. The caller
// must Close the App.
func New(cfg config.Config, logger *log.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}
	a := &App{config: cfg, logger: logger}
	for _, opt := range opts {
		opt(a)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.store = st

	if a.camera == nil {
		a.camera = capture.NewCamera(cfg.Camera)
	}

	if a.detector == nil {
		// Try MediaPipe first, fall back to mock detector
		mp, err := detector.NewMediaPipeDetector(cfg.Detector, logger)
		if err != nil {
			logger.Warn("MediaPipe not available, using mock detector", "err", err)
			a.detector = detector.NewMockDetector()
		} else {
			logger.Info("using MediaPipe hand detection")
			a.detector = mp
		}
	}

	a.tracker = tracking.New(cfg.Tracking, a.camera, a.detector,
		tracking.WithRecorder(tracking.NewStoreRecorder(st, cfg.Tracking.KeepFrames)),
		tracking.WithLogger(logger),
	)
	a.tracker.SetEnabled(a.restoreEnabled())

	a.server = server.New(server.Config{
		StaticDir:       cfg.Server.StaticDir,
		Store:           st,
		Tracker:         a.tracker,
		Logger:          logger,
		OnSettingChange: a.onSettingChange,
	})

	return a, nil
}

// restoreEnabled reads the persisted toggle; tracking defaults to on.
func (a *App) restoreEnabled() bool {
	v, err := a.store.Settings().Get(SettingTrackingEnabled)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.logger.Warn("reading tracking setting", "err", err)
		}
		return true
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		a.logger.Warn("ignoring invalid tracking setting", "value", v)
		return true
	}
	return enabled
}

func (a *App) onSettingChange(key, value string) {
	if key != SettingTrackingEnabled {
		return
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		a.logger.Warn("ignoring invalid tracking setting", "value", value)
		return
	}
	a.tracker.SetEnabled(enabled)
	a.logger.Info("tracking toggled", "enabled", enabled)
}

// SetEnabled toggles tracking and persists the choice.
func (a *App) SetEnabled(enabled bool) {
	a.tracker.SetEnabled(enabled)
	if err := a.store.Settings().Set(SettingTrackingEnabled, strconv.FormatBool(enabled)); err != nil {
		a.logger.Warn("saving tracking setting", "err", err)
	}
}

// IsEnabled returns whether tracking is on.
func (a *App) IsEnabled() bool {
	return a.tracker.IsEnabled()
}

// Tracker returns the frame tracker.
func (a *App) Tracker() *tracking.Tracker {
	return a.tracker
}

// Server returns the HTTP handler.
func (a *App) Server() *server.Server {
	return a.server
}

// Store returns the frame store.
func (a *App) Store() *store.Store {
	return a.store
}

// Run runs the tracker and the HTTP server until ctx is done or either fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.tracker.Run(ctx); err != nil {
			return fmt.Errorf("tracker: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := a.server.ListenAndServe(ctx, a.config.Server.Addr); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Close releases the detector and the store.
func (a *App) Close() error {
	var errs []error
	if err := a.detector.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close detector: %w", err))
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}
