package app

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/particleflow/internal/capture"
	"github.com/ayusman/particleflow/internal/detector"
	"github.com/ayusman/particleflow/internal/render"
)

// TrackerConfig controls the acquisition loop.
type TrackerConfig struct {
	// IdleFPS is the polling rate while nothing moves in front of the camera.
	IdleFPS int
	// ActiveFPS is the polling rate while motion is seen.
	ActiveFPS int
	// IdleTimeout is how long without motion before dropping back to IdleFPS.
	IdleTimeout time.Duration
	// MotionThresh is the changed-pixel percentage that counts as motion.
	// Zero or less disables motion tracking and keeps polling at ActiveFPS.
	MotionThresh float64
	// Preview keeps an annotated JPEG of the latest frame for streaming.
	Preview bool
}

// DefaultTrackerConfig returns the standard acquisition settings.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		IdleFPS:      5,
		ActiveFPS:    30,
		IdleTimeout:  2 * time.Second,
		MotionThresh: 1.0,
	}
}

var (
	boneColor  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	jointColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// Tracker reads camera frames on its own goroutine, runs hand detection at
// most once per distinct frame timestamp and keeps the latest result for
// the tick loop to Poll.
type Tracker struct {
	config   TrackerConfig
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	gate     capture.FrameGate

	// Loop-owned state.
	active         bool
	lastMotionTime time.Time

	mu        sync.Mutex
	latest    detector.Detection
	published uint64
	polled    uint64
	preview   []byte
	hooks     []func(detector.Detection)
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewTracker creates a tracker over cam and det. Nothing is opened until Start.
func NewTracker(config TrackerConfig, cam capture.Camera, det detector.Detector) *Tracker {
	if config.IdleFPS <= 0 {
		config.IdleFPS = DefaultTrackerConfig().IdleFPS
	}
	if config.ActiveFPS <= 0 {
		config.ActiveFPS = DefaultTrackerConfig().ActiveFPS
	}
	return &Tracker{
		config:   config,
		camera:   cam,
		motion:   capture.NewMotionDetector(config.MotionThresh),
		detector: det,
		active:   config.MotionThresh <= 0,
	}
}

// OnDetection registers fn to receive every published detection. Hooks run
// on the tracker goroutine.
func (t *Tracker) OnDetection(fn func(detector.Detection)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hooks = append(t.hooks, fn)
}

// Start opens the camera and launches the acquisition loop. The loop stops
// when ctx is cancelled or Stop is called.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return nil
	}

	if err := t.camera.Open(); err != nil {
		return fmt.Errorf("start tracker: %w", err)
	}
	t.gate.Reset()

	fps := t.config.IdleFPS
	if t.active {
		fps = t.config.ActiveFPS
	}
	t.camera.SetFPS(fps)

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.run(ctx, fps)
	}()

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the loop, waits for it to exit and releases the camera and detector.
// No hook fires after Stop returns.
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	t.wg.Wait()

	if err := t.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	t.motion.Close()
	if t.detector != nil {
		if err := t.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// Running reports whether the loop is active.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

// Poll returns the latest detection if one was published since the last Poll.
func (t *Tracker) Poll() (detector.Detection, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.published == t.polled {
		return detector.Detection{}, false
	}
	t.polled = t.published
	return t.latest, true
}

// Preview returns the latest annotated camera frame as JPEG.
func (t *Tracker) Preview() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel == nil {
		return nil, ErrNotRunning
	}
	if t.preview == nil {
		return nil, fmt.Errorf("no preview frame yet")
	}
	return t.preview, nil
}

func (t *Tracker) run(ctx context.Context, fps int) {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame, err := t.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			wasActive := t.active
			t.process(frame, time.Now())
			frame.Close()

			if t.active != wasActive {
				fps := t.config.IdleFPS
				if t.active {
					fps = t.config.ActiveFPS
				}
				t.camera.SetFPS(fps)
				ticker.Reset(time.Second / time.Duration(fps))
			}
		}
	}
}

// process handles one frame: duplicate skip, motion tracking, detection and
// publication. Motion only picks the polling rate; idle frames are still
// detected so held hands and empty scenes keep feeding the gesture signals.
// It reports whether a detection was published.
func (t *Tracker) process(frame *capture.Frame, now time.Time) bool {
	if !t.gate.Admit(frame.Timestamp) {
		return false
	}

	if t.config.MotionThresh > 0 {
		moving, _ := t.motion.Detect(frame)
		switch {
		case moving:
			t.lastMotionTime = now
			if !t.active {
				t.active = true
				log.Println("Switched to active mode")
			}
		case t.active && now.Sub(t.lastMotionTime) > t.config.IdleTimeout:
			t.active = false
			log.Println("Switched to idle mode")
		}
	}

	if t.detector == nil {
		return false
	}

	hands, err := t.detector.Detect(frame.Mat)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return false
	}

	det := detector.Detection{Hands: hands, FrameTime: frame.Timestamp}

	var preview []byte
	if t.config.Preview {
		preview = annotate(frame, hands)
	}

	t.mu.Lock()
	t.latest = det
	t.published++
	if preview != nil {
		t.preview = preview
	}
	hooks := t.hooks
	t.mu.Unlock()

	for _, fn := range hooks {
		fn(det)
	}
	return true
}

// annotate draws the hand skeleton on a mirrored copy of the frame and
// encodes it as JPEG. It returns nil if encoding fails.
func annotate(frame *capture.Frame, hands []detector.HandLandmarks) []byte {
	if frame.Mat == nil || frame.Mat.Empty() {
		return nil
	}

	img := gocv.NewMat()
	defer img.Close()
	gocv.Flip(*frame.Mat, &img, 1)

	segments, joints := render.Skeleton(hands, img.Cols(), img.Rows(), true)
	for _, s := range segments {
		gocv.Line(&img,
			image.Pt(int(s.X1), int(s.Y1)),
			image.Pt(int(s.X2), int(s.Y2)),
			boneColor, 2)
	}
	for _, j := range joints {
		gocv.Circle(&img, image.Pt(int(j[0]), int(j[1])), 3, jointColor, -1)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		log.Printf("Error encoding preview: %v", err)
		return nil
	}
	defer buf.Close()

	data := buf.GetBytes()
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
