package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Recordings - one row per captured landmark session
		`CREATE TABLE IF NOT EXISTS recordings (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			width INTEGER NOT NULL DEFAULT 0,
			height INTEGER NOT NULL DEFAULT 0,
			frames INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Recording frames - one row per admitted camera frame
		`CREATE TABLE IF NOT EXISTS recording_frames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recording_id TEXT NOT NULL REFERENCES recordings(id) ON DELETE CASCADE,
			sequence INTEGER NOT NULL,
			timestamp_ms INTEGER NOT NULL,
			hands INTEGER NOT NULL DEFAULT 0,
			UNIQUE(recording_id, sequence)
		)`,

		// Recording hands - hands detected in a frame
		`CREATE TABLE IF NOT EXISTS recording_hands (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			frame_id INTEGER NOT NULL REFERENCES recording_frames(id) ON DELETE CASCADE,
			hand_index INTEGER NOT NULL,
			handedness TEXT NOT NULL DEFAULT '',
			score REAL NOT NULL DEFAULT 0
		)`,

		// Recording landmarks - the 21 points of each hand
		`CREATE TABLE IF NOT EXISTS recording_landmarks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hand_id INTEGER NOT NULL REFERENCES recording_hands(id) ON DELETE CASCADE,
			landmark_index INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL
		)`,

		// Gesture events - wave detections, optionally tied to a recording
		`CREATE TABLE IF NOT EXISTS gesture_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recording_id TEXT REFERENCES recordings(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			shape TEXT NOT NULL,
			color TEXT NOT NULL,
			timestamp_ms INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_recording_frames_recording_id ON recording_frames(recording_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recording_hands_frame_id ON recording_hands(frame_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recording_landmarks_hand_id ON recording_landmarks(hand_id)`,
		`CREATE INDEX IF NOT EXISTS idx_gesture_events_recording_id ON gesture_events(recording_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
