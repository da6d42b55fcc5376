// Package hand provides the hand abstraction shared by detectors, the store
// and the tracking pipeline, plus the per-frame hand list and its queries.
package hand

// Vector is a position in the tracker's frame of reference.
// X increases to the right; the sign of Z is defined by the tracker.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand is a tracked hand as seen by a single frame.
type Hand interface {
	// IsLeft reports whether this is a left hand.
	IsLeft() bool
	// PalmPosition returns the center of the palm.
	PalmPosition() Vector
}

// invalidHand is the type of the Invalid sentinel.
type invalidHand struct{}

func (*invalidHand) IsLeft() bool         { return false }
func (*invalidHand) PalmPosition() Vector { return Vector{} }

// Invalid is returned by queries that have no hand to answer with.
var Invalid Hand = &invalidHand{}

// IsValid reports whether h is a real hand, i.e. neither nil nor Invalid.
func IsValid(h Hand) bool {
	return h != nil && h != Invalid
}
