package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeScript creates an executable shell script plugin in dir.
func writeScript(t *testing.T, dir, name, body string) *Plugin {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return &Plugin{
		Manifest:   Manifest{Name: name, Version: "1.0.0", Executable: name, Events: []string{EventWave}},
		Path:       dir,
		Executable: path,
	}
}

func TestExecutor_Execute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tests := []struct {
		name      string
		script    string
		timeout   time.Duration
		wantErr   string
		checkResp func(t *testing.T, resp *Response)
	}{
		{
			name:    "success response",
			script:  `echo '{"success":true,"data":{"message":"hello world"}}'`,
			timeout: 5 * time.Second,
			checkResp: func(t *testing.T, resp *Response) {
				if !resp.Success || resp.Error != "" {
					t.Errorf("response = %+v", resp)
				}
				var data map[string]string
				if err := json.Unmarshal(resp.Data, &data); err != nil {
					t.Fatalf("failed to unmarshal response data: %v", err)
				}
				if data["message"] != "hello world" {
					t.Errorf("message = %q", data["message"])
				}
			},
		},
		{
			name:    "reads the request on stdin",
			script:  "req=$(cat)\necho \"{\\\"success\\\":true,\\\"data\\\":$req}\"",
			timeout: 5 * time.Second,
			checkResp: func(t *testing.T, resp *Response) {
				var req Request
				if err := json.Unmarshal(resp.Data, &req); err != nil {
					t.Fatalf("echoed request is not JSON: %v (%s)", err, resp.Data)
				}
				if req.Event != EventWave || req.Shape != "FLOWER" || req.Color != "#00f3ff" || req.TimeMs != 1234 {
					t.Errorf("echoed request = %+v", req)
				}
				if string(req.Config) != `{"volume":3}` {
					t.Errorf("config = %s, want manifest config", req.Config)
				}
			},
		},
		{
			name:    "plugin error response",
			script:  `echo '{"success":false,"error":"no display"}'`,
			timeout: 5 * time.Second,
			checkResp: func(t *testing.T, resp *Response) {
				if resp.Success || resp.Error != "no display" {
					t.Errorf("response = %+v", resp)
				}
			},
		},
		{
			name:    "non-zero exit includes stderr",
			script:  "echo 'boom' >&2\nexit 3",
			timeout: 5 * time.Second,
			wantErr: "boom",
		},
		{
			name:    "invalid output",
			script:  `echo 'not json'`,
			timeout: 5 * time.Second,
			wantErr: "parse plugin response",
		},
		{
			name:    "timeout",
			script:  "exec sleep 5",
			timeout: 100 * time.Millisecond,
			wantErr: "timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeScript(t, t.TempDir(), "test-plugin.sh", tt.script)
			p.Manifest.Config = json.RawMessage(`{"volume":3}`)

			req := &Request{Event: EventWave, Shape: "FLOWER", Color: "#00f3ff", TimeMs: 1234}
			resp, err := NewExecutor(tt.timeout).Execute(context.Background(), p, req)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Execute() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			tt.checkResp(t, resp)
		})
	}
}

func TestExecutor_MissingExecutable(t *testing.T) {
	p := &Plugin{
		Manifest:   Manifest{Name: "ghost", Executable: "ghost"},
		Path:       t.TempDir(),
		Executable: filepath.Join(t.TempDir(), "ghost"),
	}
	if _, err := NewExecutor(time.Second).Execute(context.Background(), p, &Request{Event: EventWave}); err == nil {
		t.Error("expected error for missing executable")
	}
}
