package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/particleflow/internal/app"
	"github.com/ayusman/particleflow/internal/particle"
	"github.com/ayusman/particleflow/internal/store"
)

type stubPreview struct{ jpeg []byte }

func (p stubPreview) Preview() ([]byte, error) { return p.jpeg, nil }

func TestAPI_RecordingWorkflow(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Create an empty recording
	resp, err := client.Post(ts.URL+"/api/recordings", "application/json", bytes.NewBufferString(`{"name":"session","width":640,"height":480}`))
	if err != nil {
		t.Fatalf("POST /api/recordings error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var created struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	if created.Name != "session" {
		t.Errorf("created name = %s, want session", created.Name)
	}

	// 2. List recordings
	resp, _ = client.Get(ts.URL + "/api/recordings")
	var listed struct {
		Recordings []struct {
			ID string `json:"id"`
		} `json:"recordings"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Recordings) != 1 || listed.Recordings[0].ID != created.ID {
		t.Fatalf("listed = %+v", listed.Recordings)
	}

	// 3. Delete it
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/recordings/"+created.ID, nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	// 4. Verify deleted
	resp, _ = client.Get(ts.URL + "/api/recordings/" + created.ID)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
}

func TestAPI_LandmarksWebSocket(t *testing.T) {
	a := newTestApp()
	srv := New(Config{App: a, StreamInterval: 10 * time.Millisecond})
	defer srv.Close()
	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/landmarks"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if msg.Type != "state" || msg.State == nil {
		t.Fatalf("first message = %+v, want state", msg)
	}
	if msg.State.Shape != particle.Heart {
		t.Errorf("shape = %v, want HEART", msg.State.Shape)
	}

	srv.NotifyWave(app.WaveEvent{Time: time.Now(), Shape: particle.Flower, Color: "#00f3ff"})

	// State messages may be interleaved; look for the wave.
	for i := 0; i < 50; i++ {
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		if msg.Type == "wave" {
			if msg.Wave == nil || msg.Wave.Shape != particle.Flower || msg.Wave.Color != "#00f3ff" {
				t.Errorf("wave = %+v", msg.Wave)
			}
			return
		}
	}
	t.Fatal("no wave message received")
}

func TestAPI_CameraStream(t *testing.T) {
	jpeg := []byte{0xff, 0xd8, 0xff, 0xd9}
	srv := New(Config{App: newTestApp(), Preview: stubPreview{jpeg: jpeg}, StreamInterval: 5 * time.Millisecond})
	defer srv.Close()
	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/stream?source=camera", nil)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("GET /api/stream error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "multipart/x-mixed-replace; boundary=frame" {
		t.Fatalf("Content-Type = %q", ct)
	}

	r := bufio.NewReader(resp.Body)
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read boundary: %v", err)
	}
	if line != "--frame\r\n" {
		t.Fatalf("boundary = %q", line)
	}

	// Skip the part headers.
	for {
		line, err = r.ReadString('\n')
		if err != nil {
			t.Fatalf("read header: %v", err)
		}
		if line == "\r\n" {
			break
		}
	}

	body := make([]byte, len(jpeg))
	if _, err := io.ReadFull(r, body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.Equal(body, jpeg) {
		t.Errorf("body = %x, want %x", body, jpeg)
	}
}

func TestAPI_CanvasStream(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping OpenCV encode in short mode")
	}

	a := newTestApp()
	a.Step(nil)

	data, err := encodeJPEG(a.Frame())
	if err != nil {
		t.Fatalf("encodeJPEG() error = %v", err)
	}
	if len(data) < 4 || data[0] != 0xff || data[1] != 0xd8 {
		t.Errorf("not a JPEG: % x", data[:min(4, len(data))])
	}

	if _, err := encodeJPEG(nil); err == nil {
		t.Error("expected error for nil frame")
	}
}
