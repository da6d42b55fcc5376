package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/handframe/internal/hand"
)

// StoredHand is a hand loaded back from the database. It implements hand.Hand.
type StoredHand struct {
	Position int         `json:"position"`
	Left     bool        `json:"is_left"`
	Palm     hand.Vector `json:"palm"`
	Score    float64     `json:"score"`
}

var _ hand.Hand = (*StoredHand)(nil)

func (h *StoredHand) IsLeft() bool              { return h.Left }
func (h *StoredHand) PalmPosition() hand.Vector { return h.Palm }
func (h *StoredHand) Confidence() float64       { return h.Score }

// scorer is implemented by hands that carry a detection score.
type scorer interface {
	Confidence() float64
}

// Frame is a recorded frame and its hands.
type Frame struct {
	ID         string
	CapturedAt time.Time
	HandCount  int
	// Hands is nil for frames returned by List.
	Hands *hand.List
}

// FrameRepository provides access to recorded frames.
type FrameRepository struct {
	db *sql.DB
}

// Frames returns the frame repository for this store.
func (s *Store) Frames() *FrameRepository {
	return &FrameRepository{db: s.db}
}

// Create records f and its hands in one transaction. An empty ID is filled
// with a new UUID.
func (r *FrameRepository) Create(f *Frame) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.CapturedAt.IsZero() {
		f.CapturedAt = time.Now()
	}
	f.HandCount = f.Hands.Len()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO frames (id, captured_at, hand_count) VALUES (?, ?, ?)`,
		f.ID, f.CapturedAt.UTC(), f.HandCount,
	); err != nil {
		return fmt.Errorf("insert frame: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO frame_hands (frame_id, position, is_left, palm_x, palm_y, palm_z, score)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, h := range f.Hands.All() {
		palm := h.PalmPosition()
		var score float64
		if s, ok := h.(scorer); ok {
			score = s.Confidence()
		}
		if _, err := stmt.Exec(f.ID, i, h.IsLeft(), palm.X, palm.Y, palm.Z, score); err != nil {
			return fmt.Errorf("insert hand %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetByID retrieves a frame with its hands in their recorded order.
func (r *FrameRepository) GetByID(id string) (*Frame, error) {
	f := &Frame{}
	err := r.db.QueryRow(
		`SELECT id, captured_at, hand_count FROM frames WHERE id = ?`,
		id,
	).Scan(&f.ID, &f.CapturedAt, &f.HandCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(
		`SELECT position, is_left, palm_x, palm_y, palm_z, score
		 FROM frame_hands WHERE frame_id = ? ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	f.Hands = hand.NewList(f.HandCount)
	for rows.Next() {
		h := &StoredHand{}
		if err := rows.Scan(&h.Position, &h.Left, &h.Palm.X, &h.Palm.Y, &h.Palm.Z, &h.Score); err != nil {
			return nil, err
		}
		f.Hands.Append(h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return f, nil
}

// List returns up to limit frames, newest first, without their hands.
// A limit <= 0 returns all frames.
func (r *FrameRepository) List(limit int) ([]*Frame, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(
		`SELECT id, captured_at, hand_count FROM frames
		 ORDER BY captured_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []*Frame
	for rows.Next() {
		f := &Frame{}
		if err := rows.Scan(&f.ID, &f.CapturedAt, &f.HandCount); err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return frames, nil
}

// Count returns the number of recorded frames.
func (r *FrameRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM frames`).Scan(&n)
	return n, err
}

// Delete removes a frame and its hands.
func (r *FrameRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM frames WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Prune deletes all but the newest keep frames and returns how many were removed.
func (r *FrameRepository) Prune(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	result, err := r.db.Exec(
		`DELETE FROM frames WHERE id NOT IN (
			SELECT id FROM frames ORDER BY captured_at DESC, rowid DESC LIMIT ?
		)`,
		keep,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
