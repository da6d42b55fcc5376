package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a Store backed by a database in a temp dir.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	_, err := os.Stat(dbPath)
	require.True(t, os.IsNotExist(err), "database file should not exist before creating store")

	s, err := New(dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should exist after creating store")
	assert.Equal(t, dbPath, s.Path())
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	for _, table := range []string{"frames", "frame_hands", "settings"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		assert.NoError(t, err, "table %q should exist after migrations", table)
	}

	for _, idx := range []string{"idx_frames_captured_at", "idx_frame_hands_frame_id"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='index' AND name=?",
			idx,
		).Scan(&name)
		assert.NoError(t, err, "index %q should exist after migrations", idx)
	}
}

func TestNewStore_ReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Settings().Set("k", "v"))
	require.NoError(t, s.Close())

	s, err = New(dbPath)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Settings().Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestStore_Close(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	require.NoError(t, s.Close())

	_, err = s.DB().Exec("SELECT 1")
	assert.Error(t, err, "DB operations should fail after close")
}

func TestStore_ForeignKeysEnabled(t *testing.T) {
	s := newTestStore(t)

	var fkEnabled int
	require.NoError(t, s.DB().QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled))
	assert.Equal(t, 1, fkEnabled)
}

func TestSettingsRepository(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	_, err := settings.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, settings.Set("recording", "true"))
	require.NoError(t, settings.Set("recording", "false"))
	require.NoError(t, settings.Set("keep_frames", "100"))

	v, err := settings.Get("recording")
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	all, err := settings.All()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"recording": "false", "keep_frames": "100"}, all)
}
