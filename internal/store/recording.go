package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Recording is a captured hand-tracking session.
type Recording struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Frames    int       `json:"frames"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Span is the range of frame timestamps in a recording, in milliseconds.
type Span struct {
	First, Last int64
}

// Duration returns the time covered by the span.
func (s Span) Duration() time.Duration {
	if s.Last <= s.First {
		return 0
	}
	return time.Duration(s.Last-s.First) * time.Millisecond
}

// RecordingRepository provides CRUD operations for recordings.
type RecordingRepository struct {
	db *sql.DB
}

// Recordings returns the recording repository for this store.
func (s *Store) Recordings() *RecordingRepository {
	return &RecordingRepository{db: s.db}
}

// Create inserts a new recording. An empty ID is replaced with a fresh UUID.
func (r *RecordingRepository) Create(rec *Recording) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Frames = 0

	_, err := r.db.Exec(
		`INSERT INTO recordings (id, name, width, height, frames, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, ?, ?)`,
		rec.ID, rec.Name, rec.Width, rec.Height, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert recording: %w", err)
	}
	return nil
}

// GetByID retrieves a recording by its ID.
func (r *RecordingRepository) GetByID(id string) (*Recording, error) {
	rec := &Recording{}
	err := r.db.QueryRow(
		`SELECT id, name, width, height, frames, created_at, updated_at
		 FROM recordings WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.Name, &rec.Width, &rec.Height, &rec.Frames, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// List retrieves all recordings, newest first.
func (r *RecordingRepository) List() ([]*Recording, error) {
	rows, err := r.db.Query(
		`SELECT id, name, width, height, frames, created_at, updated_at
		 FROM recordings ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recordings []*Recording
	for rows.Next() {
		rec := &Recording{}
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Width, &rec.Height, &rec.Frames, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		recordings = append(recordings, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recordings, nil
}

// Rename changes a recording's name.
func (r *RecordingRepository) Rename(id, name string) error {
	result, err := r.db.Exec(
		`UPDATE recordings SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now(), id,
	)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

// Delete removes a recording with its frames and events.
func (r *RecordingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM recordings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

// Span returns the first and last frame timestamps of a recording.
func (r *RecordingRepository) Span(id string) (Span, error) {
	var first, last sql.NullInt64
	err := r.db.QueryRow(
		`SELECT MIN(timestamp_ms), MAX(timestamp_ms) FROM recording_frames WHERE recording_id = ?`,
		id,
	).Scan(&first, &last)
	if err != nil {
		return Span{}, err
	}
	return Span{First: first.Int64, Last: last.Int64}, nil
}

func expectOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
