package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/ayusman/particleflow/internal/app"
	"github.com/ayusman/particleflow/internal/particle"
)

func TestDispatcher_HandleWave(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	root := t.TempDir()
	writeManifest(t, root, "echo", Manifest{Name: "echo", Executable: "run.sh", Events: []string{EventWave}})
	script := "#!/bin/sh\nreq=$(cat)\necho \"{\\\"success\\\":true,\\\"data\\\":$req}\"\n"
	if err := os.WriteFile(filepath.Join(root, "echo", "run.sh"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	m := NewManager(root)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	d := NewDispatcher(m, NewExecutor(5*time.Second))
	defer d.Close()

	got := make(chan *Response, 1)
	d.OnResult(func(p *Plugin, resp *Response, err error) {
		if err != nil {
			t.Errorf("plugin %s: %v", p.Manifest.Name, err)
		}
		got <- resp
	})

	when := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	d.HandleWave(app.WaveEvent{Time: when, Shape: particle.Fireworks, Color: "#9d00ff"})

	select {
	case resp := <-got:
		if resp == nil {
			t.Fatal("nil response")
		}
		var req Request
		if err := json.Unmarshal(resp.Data, &req); err != nil {
			t.Fatalf("echoed request: %v", err)
		}
		if req.Event != EventWave || req.Shape != "FIREWORKS" || req.Color != "#9d00ff" || req.TimeMs != when.UnixMilli() {
			t.Errorf("request = %+v", req)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("plugin did not run")
	}
}

func TestDispatcher_CloseTwice(t *testing.T) {
	d := NewDispatcher(NewManager(t.TempDir()), NewExecutor(time.Second))
	d.Close()
	d.Close()
	d.HandleWave(app.WaveEvent{})
	if d.Dropped() != 0 {
		t.Errorf("Dropped() = %d after close", d.Dropped())
	}
}
