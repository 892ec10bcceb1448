package server

import (
	"fmt"
	"image"
	"net/http"
	"time"

	"gocv.io/x/gocv"
)

// StreamHandler serves an MJPEG stream of the particle canvas, or of the
// annotated camera preview with ?source=camera.
type StreamHandler struct {
	app      Controller
	preview  PreviewSource
	interval time.Duration
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(a Controller, preview PreviewSource, interval time.Duration) *StreamHandler {
	return &StreamHandler{app: a, preview: preview, interval: interval}
}

// ServeHTTP streams MJPEG frames until the client disconnects.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	next := h.canvasJPEG
	if r.URL.Query().Get("source") == "camera" {
		if h.preview == nil {
			http.Error(w, "Camera preview not available", http.StatusNotFound)
			return
		}
		next = h.preview.Preview
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		data, err := next()
		if err != nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
		if _, err := w.Write(data); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(h.interval)
	}
}

func (h *StreamHandler) canvasJPEG() ([]byte, error) {
	return encodeJPEG(h.app.Frame())
}

// encodeJPEG converts an RGBA image to JPEG through OpenCV.
func encodeJPEG(img *image.RGBA) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	rgba, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, bgr)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
