// Package capture reads webcam frames through GoCV (OpenCV) and decides which
// of them are worth sending to the hand detector.
package capture

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480
)

// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Frame is a captured video frame tagged with its presentation time.
type Frame struct {
	Mat *gocv.Mat
	// Timestamp is the frame time in milliseconds. Two reads returning the same
	// timestamp carry the same picture.
	Timestamp int64
	Width     int
	Height    int
}

// Close releases the frame's pixel buffer.
func (f *Frame) Close() {
	if f == nil || f.Mat == nil {
		return
	}
	f.Mat.Close()
	f.Mat = nil
}

// Camera is a source of timestamped frames.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*Frame, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

type cameraImpl struct {
	deviceID int
	width    int
	height   int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
	fps      int
	now      func() time.Time
}

// NewCamera creates a Camera for the given device at the default resolution.
func NewCamera(deviceID int) Camera {
	return NewCameraWithSize(deviceID, DefaultWidth, DefaultHeight)
}

// NewCameraWithSize creates a Camera that requests the given resolution when opened.
// Drivers may pick the nearest supported mode.
func NewCameraWithSize(deviceID, width, height int) Camera {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &cameraImpl{
		deviceID: deviceID,
		width:    width,
		height:   height,
		fps:      DefaultFPS,
		now:      time.Now,
	}
}

func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", c.deviceID, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("open camera %d: device not available", c.deviceID)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.height))
	capture.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.capture = capture
	c.running = true

	return nil
}

func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame grabs the next frame. The caller owns the returned frame and must
// Close it. The timestamp comes from the driver's position clock when it
// reports one, otherwise from the wall clock.
func (c *cameraImpl) ReadFrame() (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	ts := int64(c.capture.Get(gocv.VideoCapturePosMsec))
	if ts <= 0 {
		ts = c.now().UnixMilli()
	}

	return &Frame{
		Mat:       &mat,
		Timestamp: ts,
		Width:     mat.Cols(),
		Height:    mat.Rows(),
	}, nil
}

// SetFPS sets the requested capture rate. Values <= 0 are ignored.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps

	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
