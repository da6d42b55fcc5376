package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per recorded frame
		`CREATE TABLE IF NOT EXISTS frames (
			id TEXT PRIMARY KEY,
			captured_at DATETIME NOT NULL,
			hand_count INTEGER NOT NULL DEFAULT 0
		)`,

		// Hands of a frame, in detection order
		`CREATE TABLE IF NOT EXISTS frame_hands (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			frame_id TEXT NOT NULL REFERENCES frames(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			is_left INTEGER NOT NULL,
			palm_x REAL NOT NULL,
			palm_y REAL NOT NULL,
			palm_z REAL NOT NULL,
			score REAL NOT NULL DEFAULT 0
		)`,

		// Application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_frames_captured_at ON frames(captured_at)`,
		`CREATE INDEX IF NOT EXISTS idx_frame_hands_frame_id ON frame_hands(frame_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
