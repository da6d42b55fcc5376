package tracking

import (
	"fmt"

	"github.com/ayusman/handframe/internal/store"
)

// Recorder persists processed frames.
type Recorder interface {
	Record(f *Frame) error
}

// pruneEvery is how many recorded frames pass between prunes.
const pruneEvery = 100

// StoreRecorder writes frames to the SQLite store and keeps at most
// keep frames (0 keeps everything).
type StoreRecorder struct {
	frames  *store.FrameRepository
	keep    int
	written int
}

// NewStoreRecorder creates a recorder over s.
func NewStoreRecorder(s *store.Store, keep int) *StoreRecorder {
	return &StoreRecorder{frames: s.Frames(), keep: keep}
}

// Record stores f. It is called from the tracker loop only.
func (r *StoreRecorder) Record(f *Frame) error {
	if err := r.frames.Create(&store.Frame{
		ID:         f.ID,
		CapturedAt: f.CapturedAt,
		Hands:      f.Hands,
	}); err != nil {
		return fmt.Errorf("record frame %s: %w", f.ID, err)
	}

	r.written++
	if r.keep > 0 && r.written%pruneEvery == 0 {
		if _, err := r.frames.Prune(r.keep); err != nil {
			return fmt.Errorf("prune frames: %w", err)
		}
	}
	return nil
}
