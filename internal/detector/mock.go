package detector

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/handframe/internal/hand"
)

// MockDetector is a test implementation of the Detector interface.
// It returns whatever hands or error it was last given.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands ...HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns a fresh list over a copy of the configured hands.
func (m *MockDetector) Detect(frame *gocv.Mat) (*hand.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	hands := make([]HandLandmarks, len(m.hands))
	copy(hands, m.hands)
	return ToList(hands), nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// openPalm is a right open palm in normalized image coordinates,
// wrist at (0.5, 0.8). Y decreases going up.
var openPalm = [NumLandmarks]hand.Vector{
	Wrist:    {X: 0.50, Y: 0.80},
	ThumbCMC: {X: 0.55, Y: 0.75, Z: 0.02},
	ThumbMCP: {X: 0.62, Y: 0.70, Z: 0.03},
	ThumbIP:  {X: 0.68, Y: 0.65, Z: 0.03},
	ThumbTip: {X: 0.73, Y: 0.60, Z: 0.03},

	IndexMCP: {X: 0.55, Y: 0.68},
	IndexPIP: {X: 0.57, Y: 0.55},
	IndexDIP: {X: 0.58, Y: 0.45},
	IndexTip: {X: 0.58, Y: 0.35},

	MiddleMCP: {X: 0.50, Y: 0.66},
	MiddlePIP: {X: 0.50, Y: 0.52},
	MiddleDIP: {X: 0.50, Y: 0.40},
	MiddleTip: {X: 0.50, Y: 0.28},

	RingMCP: {X: 0.45, Y: 0.68},
	RingPIP: {X: 0.43, Y: 0.55},
	RingDIP: {X: 0.42, Y: 0.45},
	RingTip: {X: 0.42, Y: 0.35},

	PinkyMCP: {X: 0.40, Y: 0.70},
	PinkyPIP: {X: 0.37, Y: 0.60},
	PinkyDIP: {X: 0.35, Y: 0.50},
	PinkyTip: {X: 0.34, Y: 0.42},
}

// OpenPalmLandmarks returns a right open palm with all fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return HandLandmarks{Points: openPalm, Handedness: Right, Score: 0.95}
}

// LandmarksAt returns an open palm of the given handedness, translated so
// that its PalmPosition is palm, up to rounding. Left hands are mirrored in X.
func LandmarksAt(handedness string, palm hand.Vector) HandLandmarks {
	h := OpenPalmLandmarks()
	h.Handedness = handedness
	if handedness == Left {
		for i := range h.Points {
			h.Points[i].X = 1 - h.Points[i].X
		}
	}

	center := h.PalmPosition()
	for i := range h.Points {
		h.Points[i].X += palm.X - center.X
		h.Points[i].Y += palm.Y - center.Y
		h.Points[i].Z += palm.Z - center.Z
	}
	return h
}
