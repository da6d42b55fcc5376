package tracking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/ayusman/handframe/internal/capture"
	"github.com/ayusman/handframe/internal/detector"
)

// Config holds tracker settings.
type Config struct {
	// FPS is how many frames per second the tracker processes.
	FPS int `toml:"fps"`
	// Record stores every processed frame when a Recorder is set.
	Record bool `toml:"record"`
	// KeepFrames caps how many recorded frames are kept (0 = unlimited).
	KeepFrames int `toml:"keep_frames"`
}

// DefaultConfig returns 15 FPS with recording on and the last 10k frames kept.
func DefaultConfig() Config {
	return Config{
		FPS:        15,
		Record:     true,
		KeepFrames: 10000,
	}
}

// subscriberBuffer is the channel size handed to each subscriber.
const subscriberBuffer = 16

// Tracker reads frames from a camera, detects hands in them and publishes
// a Summary per frame.
type Tracker struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	recorder Recorder
	clock    quartz.Clock
	logger   *log.Logger

	mu      sync.RWMutex
	enabled bool
	last    *Summary
	subs    map[int]chan Summary
	nextSub int
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithRecorder records processed frames through r.
func WithRecorder(r Recorder) Option {
	return func(t *Tracker) { t.recorder = r }
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c quartz.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// New creates an enabled tracker.
func New(config Config, camera capture.Camera, det detector.Detector, opts ...Option) *Tracker {
	if config.FPS <= 0 {
		config.FPS = DefaultConfig().FPS
	}
	t := &Tracker{
		config:   config,
		camera:   camera,
		detector: det,
		clock:    quartz.NewReal(),
		logger:   log.Default(),
		enabled:  true,
		subs:     make(map[int]chan Summary),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.WithPrefix("tracker")
	return t
}

// SetEnabled pauses or resumes frame processing.
func (t *Tracker) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
}

// IsEnabled returns whether frames are being processed.
func (t *Tracker) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Camera returns the camera the tracker reads from.
func (t *Tracker) Camera() capture.Camera {
	return t.camera
}

// Last returns the most recent summary, if any frame was processed.
func (t *Tracker) Last() (Summary, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.last == nil {
		return Summary{}, false
	}
	return *t.last, true
}

// Subscribe returns a channel of summaries and a function that cancels the
// subscription and closes the channel. A subscriber that falls behind
// misses summaries; the pipeline never waits for it.
func (t *Tracker) Subscribe() (<-chan Summary, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextSub
	t.nextSub++
	ch := make(chan Summary, subscriberBuffer)
	t.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			delete(t.subs, id)
			close(ch)
		})
	}
}

func (t *Tracker) publish(s Summary) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = &s
	for id, ch := range t.subs {
		select {
		case ch <- s:
		default:
			t.logger.Debug("subscriber behind, dropping summary", "sub", id, "frame", s.FrameID)
		}
	}
}

// ProcessFrame reads one frame, detects its hands, records and publishes it.
// A recording failure is logged; the frame is still published.
func (t *Tracker) ProcessFrame() (*Frame, error) {
	mat, err := t.camera.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	defer mat.Close()

	hands, err := t.detector.Detect(mat)
	if err != nil {
		return nil, fmt.Errorf("detect hands: %w", err)
	}

	f := &Frame{
		ID:         uuid.NewString(),
		CapturedAt: t.clock.Now(),
		Hands:      hands,
	}
	summary := f.Summary()

	if t.recorder != nil && t.config.Record {
		if err := t.recorder.Record(f); err != nil {
			t.logger.Warn("recording failed", "err", err)
		}
	}

	if prev, ok := t.Last(); !ok || !sameScene(prev, summary) {
		t.logger.Info("hands changed", "left", summary.Left, "right", summary.Right)
	}
	t.publish(summary)

	return f, nil
}

// Run opens the camera and processes frames at the configured rate until
// ctx is done. Per-frame errors are logged and the tick is skipped.
func (t *Tracker) Run(ctx context.Context) error {
	if err := t.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer func() {
		if err := t.camera.Close(); err != nil {
			t.logger.Warn("closing camera", "err", err)
		}
	}()
	t.camera.SetFPS(t.config.FPS)

	interval := time.Second / time.Duration(t.config.FPS)
	ticker := t.clock.NewTicker(interval, "tracker")
	defer ticker.Stop()

	t.logger.Info("tracking started", "fps", t.config.FPS, "record", t.config.Record && t.recorder != nil)
	defer t.logger.Info("tracking stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !t.IsEnabled() {
				continue
			}
			if _, err := t.ProcessFrame(); err != nil {
				t.logger.Debug("frame skipped", "err", err)
			}
		}
	}
}
