// Package tracking runs the capture -> detect -> hand list pipeline and
// fans per-frame summaries out to the store and live subscribers.
package tracking

import (
	"time"

	"github.com/ayusman/handframe/internal/hand"
)

// Frame is one processed camera frame.
type Frame struct {
	ID         string
	CapturedAt time.Time
	Hands      *hand.List
}

// Extreme identifies the hand a list query picked.
type Extreme struct {
	Index int         `json:"index"`
	Left  bool        `json:"is_left"`
	Palm  hand.Vector `json:"palm"`
}

// Summary is what a frame's hand list says about the scene.
// Extremes are nil when the frame has no hands.
type Summary struct {
	FrameID    string    `json:"frame_id"`
	CapturedAt time.Time `json:"captured_at"`
	Hands      int       `json:"hands"`
	Left       int       `json:"left"`
	Right      int       `json:"right"`
	Leftmost   *Extreme  `json:"leftmost"`
	Rightmost  *Extreme  `json:"rightmost"`
	Frontmost  *Extreme  `json:"frontmost"`
}

// Summarize runs the list queries over a frame's hands.
func Summarize(id string, capturedAt time.Time, hands *hand.List) Summary {
	left := hands.HandType(true).Len()
	return Summary{
		FrameID:    id,
		CapturedAt: capturedAt,
		Hands:      hands.Len(),
		Left:       left,
		Right:      hands.Len() - left,
		Leftmost:   extreme(hands, hands.Leftmost()),
		Rightmost:  extreme(hands, hands.Rightmost()),
		Frontmost:  extreme(hands, hands.Frontmost()),
	}
}

// Summary summarizes f.
func (f *Frame) Summary() Summary {
	return Summarize(f.ID, f.CapturedAt, f.Hands)
}

func extreme(hands *hand.List, h hand.Hand) *Extreme {
	if !hand.IsValid(h) {
		return nil
	}
	return &Extreme{
		Index: hands.IndexOf(h),
		Left:  h.IsLeft(),
		Palm:  h.PalmPosition(),
	}
}

// sameScene reports whether two summaries show the same hand counts.
func sameScene(a, b Summary) bool {
	return a.Left == b.Left && a.Right == b.Right
}
