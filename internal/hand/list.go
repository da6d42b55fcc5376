package hand

import (
	"iter"
	"math"
)

// List is an ordered collection of hands belonging to one frame.
// The zero value is an empty list. A List is not safe for concurrent
// mutation.
type List struct {
	hands []Hand
}

// NewList creates an empty list with room for capacity hands.
func NewList(capacity int) *List {
	if capacity < 0 {
		capacity = 0
	}
	return &List{hands: make([]Hand, 0, capacity)}
}

// ListOf creates a list holding the given hands in order.
func ListOf(hands ...Hand) *List {
	l := NewList(len(hands))
	l.Append(hands...)
	return l
}

// Append adds hands to the end of the list. Duplicates are kept.
func (l *List) Append(hands ...Hand) {
	l.hands = append(l.hands, hands...)
}

// Remove deletes the hand at index i and returns it.
func (l *List) Remove(i int) (Hand, bool) {
	if i < 0 || i >= len(l.hands) {
		return Invalid, false
	}
	h := l.hands[i]
	l.hands = append(l.hands[:i], l.hands[i+1:]...)
	return h, true
}

// Len returns the number of hands in the list.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.hands)
}

// At returns the hand at index i, or Invalid when i is out of range.
func (l *List) At(i int) Hand {
	if i < 0 || i >= l.Len() {
		return Invalid
	}
	return l.hands[i]
}

// IndexOf returns the first index of h, or -1.
func (l *List) IndexOf(h Hand) int {
	for i := 0; i < l.Len(); i++ {
		if l.hands[i] == h {
			return i
		}
	}
	return -1
}

// All iterates over the hands in order.
func (l *List) All() iter.Seq2[int, Hand] {
	return func(yield func(int, Hand) bool) {
		for i := 0; i < l.Len(); i++ {
			if !yield(i, l.hands[i]) {
				return
			}
		}
	}
}

// Hands returns a copy of the hands in order.
func (l *List) Hands() []Hand {
	out := make([]Hand, l.Len())
	if l != nil {
		copy(out, l.hands)
	}
	return out
}

// IsEmpty reports whether the list has no hands.
func (l *List) IsEmpty() bool {
	return l.Len() == 0
}

// HandType returns a new list with only the left (left=true) or right hands,
// in their original order. The receiver is left untouched.
func (l *List) HandType(left bool) *List {
	out := NewList(l.Len())
	for _, h := range l.All() {
		if h.IsLeft() == left {
			out.Append(h)
		}
	}
	return out
}

// Leftmost returns the hand with the smallest palm X.
// On ties the earliest hand wins. Returns Invalid for an empty list.
func (l *List) Leftmost() Hand {
	if l.IsEmpty() {
		return Invalid
	}
	best, pos := Invalid, math.MaxFloat64
	for _, h := range l.All() {
		if x := h.PalmPosition().X; x < pos || best == Invalid {
			best, pos = h, x
		}
	}
	return best
}

// Rightmost returns the hand with the largest palm X.
// On ties the latest hand wins. Returns Invalid for an empty list.
func (l *List) Rightmost() Hand {
	if l.IsEmpty() {
		return Invalid
	}
	best, pos := Invalid, -math.MaxFloat64
	for _, h := range l.All() {
		if x := h.PalmPosition().X; x >= pos || best == Invalid {
			best, pos = h, x
		}
	}
	return best
}

// Frontmost returns the hand with the smallest palm Z.
// On ties the earliest hand wins. Returns Invalid for an empty list.
func (l *List) Frontmost() Hand {
	if l.IsEmpty() {
		return Invalid
	}
	best, pos := Invalid, math.MaxFloat64
	for _, h := range l.All() {
		if z := h.PalmPosition().Z; z < pos || best == Invalid {
			best, pos = h, z
		}
	}
	return best
}
