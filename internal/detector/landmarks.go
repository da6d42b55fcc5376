// Package detector turns camera frames into tracked hands.
package detector

import "github.com/ayusman/handframe/internal/hand"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Handedness labels reported by MediaPipe.
const (
	Left  = "Left"
	Right = "Right"
)

// palmLandmarks are the joints whose centroid is taken as the palm center.
var palmLandmarks = [...]int{Wrist, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

// HandLandmarks is one detected hand: the 21 MediaPipe landmarks plus
// handedness and detection score. It implements hand.Hand.
type HandLandmarks struct {
	Points     [NumLandmarks]hand.Vector `json:"points"`
	Handedness string                    `json:"handedness"`
	Score      float64                   `json:"score"`
}

var _ hand.Hand = (*HandLandmarks)(nil)

// IsLeft reports whether MediaPipe labelled the hand as left.
func (h *HandLandmarks) IsLeft() bool {
	return h.Handedness == Left
}

// PalmPosition returns the centroid of the wrist and the four finger MCP joints.
func (h *HandLandmarks) PalmPosition() hand.Vector {
	var c hand.Vector
	for _, i := range palmLandmarks {
		c.X += h.Points[i].X
		c.Y += h.Points[i].Y
		c.Z += h.Points[i].Z
	}
	n := float64(len(palmLandmarks))
	return hand.Vector{X: c.X / n, Y: c.Y / n, Z: c.Z / n}
}

// Confidence returns the detection score.
func (h *HandLandmarks) Confidence() float64 {
	return h.Score
}

// ToList wraps detected hands in a hand list, preserving detection order.
// The list refers to the elements of hands, it does not copy them.
func ToList(hands []HandLandmarks) *hand.List {
	l := hand.NewList(len(hands))
	for i := range hands {
		l.Append(&hands[i])
	}
	return l
}
