package store

import "github.com/pkg/errors"

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Runs table - one tracked clip per row
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			fps REAL NOT NULL,
			width REAL NOT NULL,
			height REAL NOT NULL,
			frames INTEGER NOT NULL,
			tracks INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Records table - entry/exit rows of valid tracks
		`CREATE TABLE IF NOT EXISTS records (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			track_id INTEGER NOT NULL,
			x0 REAL NOT NULL,
			y0 REAL NOT NULL,
			t0 REAL NOT NULL,
			x1 REAL NOT NULL,
			y1 REAL NOT NULL,
			t1 REAL NOT NULL,
			number_warning INTEGER NOT NULL DEFAULT 0,
			broken_track INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, track_id)
		)`,

		// Segments table - periods when several ants shared one blob
		`CREATE TABLE IF NOT EXISTS segments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			track_id INTEGER NOT NULL,
			start_time REAL NOT NULL,
			end_time REAL NOT NULL
		)`,

		// Positions table - raw per-frame track positions
		`CREATE TABLE IF NOT EXISTS positions (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			track_id INTEGER NOT NULL,
			frame INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_records_t1 ON records(run_id, t1)`,
		`CREATE INDEX IF NOT EXISTS idx_positions_run ON positions(run_id, track_id, frame)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return errors.Wrap(err, "migration failed")
		}
	}
	return nil
}
