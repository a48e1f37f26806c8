package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/LdDl/anttrack/clip"
	"github.com/LdDl/anttrack/mot"
)

// Run is a stored tracking run of one clip.
type Run struct {
	ID        string
	Filename  string
	FPS       float64
	Width     float64
	Height    float64
	Frames    int
	Tracks    int
	CreatedAt time.Time
}

// SaveResult stores a clip result (run, records, segments and trace) in one transaction.
func (s *Store) SaveResult(result *clip.Result) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Filename:  result.Filename,
		FPS:       result.Info.FPS,
		Width:     result.Info.Bounds.Width,
		Height:    result.Info.Bounds.Height,
		Frames:    result.Frames,
		Tracks:    len(result.Histories),
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, filename, fps, width, height, frames, tracks, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Filename, run.FPS, run.Width, run.Height, run.Frames, run.Tracks, run.CreatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert run")
	}

	if err := insertRecords(tx, run.ID, result.Records); err != nil {
		return nil, err
	}
	if err := insertSegments(tx, run.ID, result.Segments); err != nil {
		return nil, err
	}
	if err := insertPositions(tx, run.ID, result.Trace); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}
	return run, nil
}

func insertRecords(tx *sql.Tx, runID string, records []mot.Record) error {
	stmt, err := tx.Prepare(
		`INSERT INTO records (run_id, track_id, x0, y0, t0, x1, y1, t1, number_warning, broken_track)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return errors.Wrap(err, "failed to prepare record statement")
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(runID, int64(r.ID), r.X0, r.Y0, r.T0, r.X1, r.Y1, r.T1, r.NumberWarning, r.BrokenTrack)
		if err != nil {
			return errors.Wrapf(err, "failed to insert record %d", r.ID)
		}
	}
	return nil
}

func insertSegments(tx *sql.Tx, runID string, segments []mot.Segment) error {
	stmt, err := tx.Prepare(
		`INSERT INTO segments (run_id, track_id, start_time, end_time) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return errors.Wrap(err, "failed to prepare segment statement")
	}
	defer stmt.Close()

	for _, segment := range segments {
		if _, err := stmt.Exec(runID, int64(segment.TrackID), segment.Start, segment.End); err != nil {
			return errors.Wrapf(err, "failed to insert segment of track %d", segment.TrackID)
		}
	}
	return nil
}

func insertPositions(tx *sql.Tx, runID string, trace []mot.TrackPosition) error {
	if len(trace) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(
		`INSERT INTO positions (run_id, track_id, frame, x, y) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return errors.Wrap(err, "failed to prepare position statement")
	}
	defer stmt.Close()

	for _, p := range trace {
		if _, err := stmt.Exec(runID, int64(p.ID), p.Frame, p.X, p.Y); err != nil {
			return errors.Wrapf(err, "failed to insert position of track %d", p.ID)
		}
	}
	return nil
}

// RunByID retrieves a run by its ID.
func (s *Store) RunByID(id string) (*Run, error) {
	run := &Run{}
	err := s.db.QueryRow(
		`SELECT id, filename, fps, width, height, frames, tracks, created_at
		 FROM runs WHERE id = ?`,
		id,
	).Scan(&run.ID, &run.Filename, &run.FPS, &run.Width, &run.Height, &run.Frames, &run.Tracks, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to query run")
	}
	return run, nil
}

// Runs retrieves all runs, oldest first.
func (s *Store) Runs() ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, filename, fps, width, height, frames, tracks, created_at
		 FROM runs ORDER BY created_at, filename`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query runs")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(&run.ID, &run.Filename, &run.FPS, &run.Width, &run.Height, &run.Frames, &run.Tracks, &run.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan run")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate runs")
	}
	return runs, nil
}

// DeleteRun removes a run with all of its rows.
func (s *Store) DeleteRun(id string) error {
	res, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete run")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Records retrieves output rows of a run ordered by exit time.
func (s *Store) Records(runID string) ([]mot.Record, error) {
	rows, err := s.db.Query(
		`SELECT runs.filename, records.track_id, x0, y0, t0, x1, y1, t1, number_warning, broken_track
		 FROM records JOIN runs ON runs.id = records.run_id
		 WHERE records.run_id = ? ORDER BY t1, track_id`,
		runID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query records")
	}
	defer rows.Close()

	records := make([]mot.Record, 0)
	for rows.Next() {
		var r mot.Record
		var id int64
		if err := rows.Scan(&r.Filename, &id, &r.X0, &r.Y0, &r.T0, &r.X1, &r.Y1, &r.T1, &r.NumberWarning, &r.BrokenTrack); err != nil {
			return nil, errors.Wrap(err, "failed to scan record")
		}
		r.ID = uint64(id)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate records")
	}
	return records, nil
}

// Segments retrieves multi-ant segments of a run in insertion order.
func (s *Store) Segments(runID string) ([]mot.Segment, error) {
	rows, err := s.db.Query(
		`SELECT track_id, start_time, end_time FROM segments WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query segments")
	}
	defer rows.Close()

	segments := make([]mot.Segment, 0)
	for rows.Next() {
		var segment mot.Segment
		var id int64
		if err := rows.Scan(&id, &segment.Start, &segment.End); err != nil {
			return nil, errors.Wrap(err, "failed to scan segment")
		}
		segment.TrackID = uint64(id)
		segments = append(segments, segment)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate segments")
	}
	return segments, nil
}

// Positions retrieves raw track positions of a run ordered by frame and track.
func (s *Store) Positions(runID string) ([]mot.TrackPosition, error) {
	rows, err := s.db.Query(
		`SELECT track_id, frame, x, y FROM positions WHERE run_id = ? ORDER BY frame, track_id`,
		runID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query positions")
	}
	defer rows.Close()

	positions := make([]mot.TrackPosition, 0)
	for rows.Next() {
		var p mot.TrackPosition
		var id int64
		if err := rows.Scan(&id, &p.Frame, &p.X, &p.Y); err != nil {
			return nil, errors.Wrap(err, "failed to scan position")
		}
		p.ID = uint64(id)
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate positions")
	}
	return positions, nil
}
