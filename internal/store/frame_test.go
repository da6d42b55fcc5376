package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/handframe/internal/hand"
)

func storedHand(left bool, x, y, z, score float64) *StoredHand {
	return &StoredHand{Left: left, Palm: hand.Vector{X: x, Y: y, Z: z}, Score: score}
}

func TestFrameRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	frames := s.Frames()

	captured := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &Frame{
		ID:         "frame-1",
		CapturedAt: captured,
		Hands: hand.ListOf(
			storedHand(true, 5, 1, 0.5, 0.9),
			storedHand(false, -3, 2, 0.1, 0.8),
			storedHand(true, -3, 3, 0.2, 0.7),
		),
	}
	require.NoError(t, frames.Create(f))
	assert.Equal(t, 3, f.HandCount)

	got, err := frames.GetByID("frame-1")
	require.NoError(t, err)

	assert.Equal(t, "frame-1", got.ID)
	assert.True(t, captured.Equal(got.CapturedAt), "captured_at = %v, want %v", got.CapturedAt, captured)
	assert.Equal(t, 3, got.HandCount)
	require.Equal(t, 3, got.Hands.Len())

	for i, h := range got.Hands.All() {
		sh := h.(*StoredHand)
		assert.Equal(t, i, sh.Position)
		assert.Equal(t, f.Hands.At(i).IsLeft(), sh.IsLeft())
		assert.Equal(t, f.Hands.At(i).PalmPosition(), sh.PalmPosition())
	}
	assert.Equal(t, 0.8, got.Hands.At(1).(*StoredHand).Confidence())

	// queries work on loaded hands exactly as on live ones
	assert.Same(t, got.Hands.At(1), got.Hands.Leftmost())
	assert.Same(t, got.Hands.At(0), got.Hands.Rightmost())
	assert.Same(t, got.Hands.At(1), got.Hands.Frontmost())
	assert.Equal(t, 2, got.Hands.HandType(true).Len())
}

func TestFrameRepository_CreateDefaults(t *testing.T) {
	s := newTestStore(t)

	f := &Frame{}
	require.NoError(t, s.Frames().Create(f))

	assert.NotEmpty(t, f.ID, "ID should be generated")
	assert.False(t, f.CapturedAt.IsZero())
	assert.Equal(t, 0, f.HandCount)

	got, err := s.Frames().GetByID(f.ID)
	require.NoError(t, err)
	assert.True(t, got.Hands.IsEmpty())
	assert.Equal(t, hand.Invalid, got.Hands.Leftmost())
}

func TestFrameRepository_DuplicateID(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Frames().Create(&Frame{ID: "dup"}))
	assert.Error(t, s.Frames().Create(&Frame{ID: "dup", Hands: hand.ListOf(storedHand(true, 0, 0, 0, 1))}))

	got, err := s.Frames().GetByID("dup")
	require.NoError(t, err)
	assert.True(t, got.Hands.IsEmpty(), "failed create must not leave hands behind")
}

func TestFrameRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Frames().GetByID("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFrameRepository_ListAndPrune(t *testing.T) {
	s := newTestStore(t)
	frames := s.Frames()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, frames.Create(&Frame{
			ID:         id,
			CapturedAt: base.Add(time.Duration(i) * time.Second),
			Hands:      hand.ListOf(storedHand(i%2 == 0, float64(i), 0, 0, 1)),
		}))
	}

	all, err := frames.List(0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "d", all[0].ID, "newest first")
	assert.Nil(t, all[0].Hands)
	assert.Equal(t, 1, all[0].HandCount)

	two, err := frames.List(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c"}, []string{two[0].ID, two[1].ID})

	removed, err := frames.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	n, err := frames.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = frames.GetByID("a")
	assert.ErrorIs(t, err, ErrNotFound)

	var orphans int
	require.NoError(t, s.DB().QueryRow(
		`SELECT COUNT(*) FROM frame_hands WHERE frame_id IN ('a', 'b')`,
	).Scan(&orphans))
	assert.Zero(t, orphans, "hands are deleted with their frame")
}

func TestFrameRepository_Delete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Frames().Create(&Frame{ID: "x"}))
	require.NoError(t, s.Frames().Delete("x"))

	assert.ErrorIs(t, s.Frames().Delete("x"), ErrNotFound)
}
