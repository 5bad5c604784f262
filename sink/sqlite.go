package sink

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const detectionSchema = `
CREATE TABLE IF NOT EXISTS detections (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	track_id      INTEGER NOT NULL,
	class_name    TEXT NOT NULL,
	confidence    REAL NOT NULL,
	x1            INTEGER NOT NULL,
	y1            INTEGER NOT NULL,
	x2            INTEGER NOT NULL,
	y2            INTEGER NOT NULL,
	frame_index   INTEGER NOT NULL,
	logged_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_detections_track ON detections(track_id);
CREATE INDEX IF NOT EXISTS idx_detections_frame ON detections(frame_index);
`

// SQLiteStore persists detection records to a local SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// ensures the detections schema exists
func NewSQLiteStore(path string) (*SQLiteStore, error) {

	db, err := sql.Open("sqlite", path)

	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if _, err := db.Exec(detectionSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Write inserts the batch of records in a single transaction
func (s *SQLiteStore) Write(ctx context.Context, records []Record) error {

	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)

	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO detections (
			track_id, class_name, confidence,
			x1, y1, x2, y2, frame_index, logged_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error preparing insert: %w", err)
	}

	defer stmt.Close()

	now := time.Now().UnixNano()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			r.TrackID, r.ClassName, r.Confidence,
			r.X1, r.Y1, r.X2, r.Y2, r.FrameIndex, now)

		if err != nil {
			tx.Rollback()
			return fmt.Errorf("error inserting record: %w", err)
		}
	}

	return tx.Commit()
}

// CountByTrack returns the number of records logged for a track ID
func (s *SQLiteStore) CountByTrack(ctx context.Context, trackID int64) (int, error) {

	var count int

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM detections WHERE track_id = ?`, trackID).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("error counting records: %w", err)
	}

	return count, nil
}

// RecordsByFrame returns the records logged for a frame index in insert
// order
func (s *SQLiteStore) RecordsByFrame(ctx context.Context, frameIndex int) ([]Record, error) {

	rows, err := s.db.QueryContext(ctx, `
		SELECT track_id, class_name, confidence, x1, y1, x2, y2, frame_index
		FROM detections WHERE frame_index = ? ORDER BY id`, frameIndex)

	if err != nil {
		return nil, fmt.Errorf("error querying records: %w", err)
	}

	defer rows.Close()

	var records []Record

	for rows.Next() {
		var r Record
		err := rows.Scan(&r.TrackID, &r.ClassName, &r.Confidence,
			&r.X1, &r.Y1, &r.X2, &r.Y2, &r.FrameIndex)

		if err != nil {
			return nil, fmt.Errorf("error scanning record: %w", err)
		}

		records = append(records, r)
	}

	return records, rows.Err()
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
