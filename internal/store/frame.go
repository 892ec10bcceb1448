package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Landmark is one hand landmark in normalized image coordinates.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand is a detected hand within a recorded frame.
type Hand struct {
	Handedness string     `json:"handedness"`
	Score      float64    `json:"score"`
	Landmarks  []Landmark `json:"landmarks"`
}

// Frame is one recorded detection.
type Frame struct {
	Sequence    int    `json:"sequence"`
	TimestampMs int64  `json:"timestamp_ms"`
	Hands       []Hand `json:"hands"`
}

// AppendFrame stores f as the next frame of the recording and returns its
// sequence number. The frame's own Sequence field is ignored.
func (r *RecordingRepository) AppendFrame(recordingID string, f *Frame) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var seq int
	err = tx.QueryRow(`SELECT frames FROM recordings WHERE id = ?`, recordingID).Scan(&seq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	res, err := tx.Exec(
		`INSERT INTO recording_frames (recording_id, sequence, timestamp_ms, hands) VALUES (?, ?, ?, ?)`,
		recordingID, seq, f.TimestampMs, len(f.Hands),
	)
	if err != nil {
		return 0, fmt.Errorf("insert frame: %w", err)
	}
	frameID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	landmarkStmt, err := tx.Prepare(
		`INSERT INTO recording_landmarks (hand_id, landmark_index, x, y, z) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, err
	}
	defer landmarkStmt.Close()

	for i, h := range f.Hands {
		res, err := tx.Exec(
			`INSERT INTO recording_hands (frame_id, hand_index, handedness, score) VALUES (?, ?, ?, ?)`,
			frameID, i, h.Handedness, h.Score,
		)
		if err != nil {
			return 0, fmt.Errorf("insert hand: %w", err)
		}
		handID, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		for j, lm := range h.Landmarks {
			if _, err := landmarkStmt.Exec(handID, j, lm.X, lm.Y, lm.Z); err != nil {
				return 0, fmt.Errorf("insert landmark: %w", err)
			}
		}
	}

	_, err = tx.Exec(
		`UPDATE recordings SET frames = frames + 1, updated_at = ? WHERE id = ?`,
		time.Now(), recordingID,
	)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	f.Sequence = seq
	return seq, nil
}

// Frames loads every frame of a recording in sequence order.
func (r *RecordingRepository) Frames(recordingID string) ([]Frame, error) {
	if _, err := r.GetByID(recordingID); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		`SELECT f.sequence, f.timestamp_ms, h.hand_index, h.handedness, h.score,
		        l.landmark_index, l.x, l.y, l.z
		 FROM recording_frames f
		 LEFT JOIN recording_hands h ON h.frame_id = f.id
		 LEFT JOIN recording_landmarks l ON l.hand_id = h.id
		 WHERE f.recording_id = ?
		 ORDER BY f.sequence, h.hand_index, l.landmark_index`,
		recordingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []Frame
	for rows.Next() {
		var (
			seq        int
			ts         int64
			handIndex  sql.NullInt64
			handedness sql.NullString
			score      sql.NullFloat64
			lmIndex    sql.NullInt64
			x, y, z    sql.NullFloat64
		)
		if err := rows.Scan(&seq, &ts, &handIndex, &handedness, &score, &lmIndex, &x, &y, &z); err != nil {
			return nil, err
		}

		if len(frames) == 0 || frames[len(frames)-1].Sequence != seq {
			frames = append(frames, Frame{Sequence: seq, TimestampMs: ts})
		}
		if !handIndex.Valid {
			continue
		}

		f := &frames[len(frames)-1]
		if int(handIndex.Int64) >= len(f.Hands) {
			f.Hands = append(f.Hands, Hand{Handedness: handedness.String, Score: score.Float64})
		}
		if lmIndex.Valid {
			h := &f.Hands[len(f.Hands)-1]
			h.Landmarks = append(h.Landmarks, Landmark{X: x.Float64, Y: y.Float64, Z: z.Float64})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}
