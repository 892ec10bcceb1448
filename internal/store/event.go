package store

import (
	"database/sql"
	"time"
)

// EventKindWave marks a debounced wave detection.
const EventKindWave = "wave"

// Event is a discrete gesture event and the selection it produced.
type Event struct {
	ID          int64     `json:"id"`
	RecordingID string    `json:"recording_id,omitempty"`
	Kind        string    `json:"kind"`
	Shape       string    `json:"shape"`
	Color       string    `json:"color"`
	TimestampMs int64     `json:"timestamp_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventRepository stores gesture events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Add inserts an event. An empty RecordingID stores a free-standing event.
func (r *EventRepository) Add(e *Event) error {
	e.CreatedAt = time.Now()

	var recordingID any
	if e.RecordingID != "" {
		recordingID = e.RecordingID
	}

	res, err := r.db.Exec(
		`INSERT INTO gesture_events (recording_id, kind, shape, color, timestamp_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		recordingID, e.Kind, e.Shape, e.Color, e.TimestampMs, e.CreatedAt,
	)
	if err != nil {
		return err
	}
	e.ID, err = res.LastInsertId()
	return err
}

// ByRecording returns a recording's events in time order.
func (r *EventRepository) ByRecording(recordingID string) ([]Event, error) {
	return r.query(
		`SELECT id, recording_id, kind, shape, color, timestamp_ms, created_at
		 FROM gesture_events WHERE recording_id = ? ORDER BY timestamp_ms, id`,
		recordingID,
	)
}

// Recent returns up to limit events, newest first.
func (r *EventRepository) Recent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.query(
		`SELECT id, recording_id, kind, shape, color, timestamp_ms, created_at
		 FROM gesture_events ORDER BY id DESC LIMIT ?`,
		limit,
	)
}

func (r *EventRepository) query(q string, args ...any) ([]Event, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var recordingID sql.NullString
		if err := rows.Scan(&e.ID, &recordingID, &e.Kind, &e.Shape, &e.Color, &e.TimestampMs, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.RecordingID = recordingID.String
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
