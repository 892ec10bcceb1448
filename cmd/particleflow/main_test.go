package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/particleflow/internal/app"
	"github.com/ayusman/particleflow/internal/detector"
	"github.com/ayusman/particleflow/internal/particle"
	"github.com/ayusman/particleflow/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSelectionSettings(t *testing.T) {
	st := newTestStore(t)

	t.Run("defaults when nothing saved", func(t *testing.T) {
		sel := loadSelection(st, false)
		if sel.Shape != particle.Heart || sel.Color != "#ff007f" || sel.Debug {
			t.Errorf("loadSelection() = %+v", sel)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		saveSelection(st, app.Selection{Shape: particle.Fireworks, Color: "#9d00ff", Debug: false})
		sel := loadSelection(st, true)
		if sel.Shape != particle.Fireworks || sel.Color != "#9d00ff" || !sel.Debug {
			t.Errorf("loadSelection() = %+v", sel)
		}
	})

	t.Run("invalid values fall back", func(t *testing.T) {
		st.Settings().Set(keyShape, "SPIRAL")
		st.Settings().Set(keyColor, "chartreuse")
		sel := loadSelection(st, true)
		if sel.Shape != particle.Heart || sel.Color != "#ff007f" {
			t.Errorf("loadSelection() = %+v", sel)
		}
	})

	t.Run("nil store", func(t *testing.T) {
		saveSelection(nil, app.DefaultSelection())
		if sel := loadSelection(nil, true); sel.Shape != particle.Heart {
			t.Errorf("loadSelection(nil) = %+v", sel)
		}
	})
}

func TestListRecordings(t *testing.T) {
	st := newTestStore(t)

	var buf bytes.Buffer
	if err := listRecordings(&buf, st); err != nil {
		t.Fatalf("listRecordings() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No recordings.") {
		t.Errorf("empty listing = %q", buf.String())
	}

	rec := &store.Recording{Name: "demo", Width: 640, Height: 480}
	if err := st.Recordings().Create(rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	buf.Reset()
	if err := listRecordings(&buf, st); err != nil {
		t.Fatalf("listRecordings() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, rec.ID) || !strings.Contains(out, "demo") {
		t.Errorf("listing missing recording:\n%s", out)
	}
	if !strings.Contains(recordingLabel(rec), "demo  (0 frames,") {
		t.Errorf("recordingLabel() = %q", recordingLabel(rec))
	}
}

func TestSyntheticTracker(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	tracker, release := syntheticTracker(app.DefaultTrackerConfig(), detector.NewReplayDetector(app.DemoFrames(5), true))
	if err := tracker.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := tracker.Poll(); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no detection published")
		}
		time.Sleep(10 * time.Millisecond)
	}

	tracker.Stop()
	release()
	release()
}
