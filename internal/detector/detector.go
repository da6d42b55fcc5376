package detector

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/handframe/internal/hand"
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the hands found in it.
	// Returns an empty list if no hands are detected.
	Detect(frame *gocv.Mat) (*hand.List, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int `toml:"max_hands"`

	// MinConfidence drops hands scored below it (0.0-1.0).
	MinConfidence float64 `toml:"min_confidence"`

	// ScriptPath points at the MediaPipe helper. Empty means search the
	// usual locations.
	ScriptPath string `toml:"script_path"`

	// PythonPath is the interpreter used to run the helper. Empty means
	// use a virtualenv if one is found, python3 otherwise.
	PythonPath string `toml:"python_path"`

	// IdleTimeoutSec stops the helper after this many seconds without frames.
	IdleTimeoutSec int `toml:"idle_timeout_sec"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:       2,
		MinConfidence:  0.5,
		IdleTimeoutSec: 30,
	}
}

// filter applies MaxHands and MinConfidence, keeping detection order.
func (c Config) filter(hands []HandLandmarks) []HandLandmarks {
	kept := hands[:0]
	for _, h := range hands {
		if h.Score < c.MinConfidence {
			continue
		}
		if c.MaxHands > 0 && len(kept) >= c.MaxHands {
			break
		}
		kept = append(kept, h)
	}
	return kept
}
