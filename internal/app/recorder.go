package app

import (
	"fmt"
	"log"
	"sync"

	"github.com/ayusman/particleflow/internal/detector"
	"github.com/ayusman/particleflow/internal/store"
)

// recorderBuffer is how many pending writes may queue before new ones are dropped.
const recorderBuffer = 256

type recordItem struct {
	frame *store.Frame
	event *store.Event
}

// Recorder writes detections and wave events into a store recording on a
// background goroutine so the tracker never waits on disk.
type Recorder struct {
	recordings *store.RecordingRepository
	events     *store.EventRepository
	rec        *store.Recording

	items chan recordItem
	done  chan struct{}

	mu      sync.Mutex
	closed  bool
	dropped int
	failed  int
}

// NewRecorder creates a recording called name and starts its writer.
func NewRecorder(s *store.Store, name string, width, height int) (*Recorder, error) {
	rec := &store.Recording{Name: name, Width: width, Height: height}
	if err := s.Recordings().Create(rec); err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}

	r := &Recorder{
		recordings: s.Recordings(),
		events:     s.Events(),
		rec:        rec,
		items:      make(chan recordItem, recorderBuffer),
		done:       make(chan struct{}),
	}
	go r.write()

	log.Printf("Recording to %s (%s)", rec.Name, rec.ID)
	return r, nil
}

// ID returns the recording ID.
func (r *Recorder) ID() string {
	return r.rec.ID
}

// Record queues a detection. It never blocks; when the queue is full the
// detection is dropped and counted.
func (r *Recorder) Record(det detector.Detection) {
	r.enqueue(recordItem{frame: &store.Frame{
		TimestampMs: det.FrameTime,
		Hands:       detectorHandsToStore(det.Hands),
	}})
}

// RecordWave queues a wave event.
func (r *Recorder) RecordWave(e WaveEvent) {
	r.enqueue(recordItem{event: &store.Event{
		RecordingID: r.rec.ID,
		Kind:        store.EventKindWave,
		Shape:       e.Shape.String(),
		Color:       e.Color,
		TimestampMs: e.Time.UnixMilli(),
	}})
}

func (r *Recorder) enqueue(item recordItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	select {
	case r.items <- item:
	default:
		r.dropped++
	}
}

func (r *Recorder) write() {
	defer close(r.done)
	for item := range r.items {
		var err error
		switch {
		case item.frame != nil:
			_, err = r.recordings.AppendFrame(r.rec.ID, item.frame)
		case item.event != nil:
			err = r.events.Add(item.event)
		}
		if err != nil {
			log.Printf("Error writing recording: %v", err)
			r.mu.Lock()
			r.failed++
			r.mu.Unlock()
		}
	}
}

// Stats returns how many items were dropped because the queue was full and
// how many failed to write.
func (r *Recorder) Stats() (dropped, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped, r.failed
}

// Close flushes pending writes and stops the writer.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.items)
	r.mu.Unlock()

	<-r.done

	dropped, failed := r.Stats()
	log.Printf("Recording %s closed (dropped %d, failed %d)", r.rec.ID, dropped, failed)
	if failed > 0 {
		return fmt.Errorf("recording %s: %d writes failed", r.rec.ID, failed)
	}
	return nil
}
