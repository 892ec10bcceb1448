package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// MotionDetector flags frames that differ from their predecessor. The tracker
// uses it to drop to a low frame rate while nobody is in front of the camera.
type MotionDetector struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

const (
	// GaussianBlurSize is the kernel size used to suppress sensor noise.
	GaussianBlurSize = 21
	// DiffThreshold is the per-pixel intensity change that counts as motion.
	DiffThreshold = 25
	// motionWidth is the width frames are shrunk to before differencing.
	motionWidth = 160
)

// NewMotionDetector creates a detector that reports motion when more than
// threshold percent of pixels change between frames.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect compares frame with the previous one and returns whether motion was
// seen along with the percentage of changed pixels. The first frame only
// establishes the baseline.
func (m *MotionDetector) Detect(frame *Frame) (bool, float64) {
	if frame == nil {
		return false, 0
	}
	return m.DetectMat(frame.Mat)
}

// DetectMat is Detect for a bare Mat.
func (m *MotionDetector) DetectMat(mat *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mat == nil || mat.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if mat.Channels() > 1 {
		gocv.CvtColor(*mat, &gray, gocv.ColorBGRToGray)
	} else {
		mat.CopyTo(&gray)
	}

	small := gocv.NewMat()
	defer small.Close()
	if gray.Cols() > motionWidth {
		h := gray.Rows() * motionWidth / gray.Cols()
		gocv.Resize(gray, &small, image.Point{X: motionWidth, Y: max(h, 1)}, 0, 0, gocv.InterpolationArea)
	} else {
		gray.CopyTo(&small)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(small, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !m.initialized || m.prevGray.Rows() != blurred.Rows() || m.prevGray.Cols() != blurred.Cols() {
		blurred.CopyTo(&m.prevGray)
		m.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	total := thresh.Rows() * thresh.Cols()
	changePercent := float64(nonZero) / float64(total) * 100.0

	blurred.CopyTo(&m.prevGray)

	return changePercent > m.threshold, changePercent
}

// Reset drops the baseline so the next frame starts a new comparison.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

// Close releases the baseline buffer. The detector may be reused afterwards.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

func (m *MotionDetector) release() {
	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}

// SetThreshold changes the changed-pixel percentage. Values <= 0 are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.threshold = threshold
}
