package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestNewMotionDetector(t *testing.T) {
	for _, threshold := range []float64{0.5, 1, 5} {
		md := NewMotionDetector(threshold)
		if md.threshold != threshold {
			t.Errorf("threshold = %f, want %f", md.threshold, threshold)
		}
		if md.initialized {
			t.Error("motion detector should start without a baseline")
		}
		md.Close()
	}
}

func TestMotionDetector_NoMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0) // 1% threshold
	defer md.Close()

	// Create two identical black frames
	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()

	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	// First frame initializes the detector
	detected, changePercent := md.DetectMat(&frame1)
	if detected {
		t.Error("first frame should not detect motion")
	}
	if changePercent != 0 {
		t.Errorf("first frame changePercent = %f, want 0", changePercent)
	}

	// Second identical frame should not detect motion
	detected, changePercent = md.DetectMat(&frame2)
	if detected {
		t.Errorf("identical frames should not detect motion, changePercent = %f", changePercent)
	}
}

func TestMotionDetector_WithMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0) // 1% threshold
	defer md.Close()

	// Create a black frame (all zeros)
	blackFrame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer blackFrame.Close()

	// Create a white frame (all 255s)
	whiteFrame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer whiteFrame.Close()

	// Fill white frame with white pixels
	whiteFrame.SetTo(gocv.NewScalar(255, 255, 255, 0))

	// First frame initializes the detector
	detected, _ := md.DetectMat(&blackFrame)
	if detected {
		t.Error("first frame should not detect motion")
	}

	// Second frame is completely different, should detect motion
	detected, changePercent := md.DetectMat(&whiteFrame)
	if !detected {
		t.Errorf("black to white should detect motion, changePercent = %f", changePercent)
	}

	// Change percent should be high (close to 100% since all pixels changed)
	if changePercent < 50.0 {
		t.Errorf("changePercent = %f, expected > 50%% for black to white transition", changePercent)
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	// Create a frame and initialize the detector
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	md.DetectMat(&frame)

	if !md.initialized {
		t.Error("detector should be initialized after first Detect")
	}

	// Reset should clear state
	md.Reset()

	if md.initialized {
		t.Error("detector should not be initialized after Reset")
	}

	if !md.prevGray.Empty() {
		t.Error("prevGray should be empty after Reset")
	}
}

func TestMotionDetector_SetThreshold(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	if md.threshold != 1.0 {
		t.Errorf("initial threshold = %f, want 1.0", md.threshold)
	}

	md.SetThreshold(5.0)
	if md.threshold != 5.0 {
		t.Errorf("threshold = %f, want 5.0 after SetThreshold", md.threshold)
	}

	md.SetThreshold(0.5)
	if md.threshold != 0.5 {
		t.Errorf("threshold = %f, want 0.5 after SetThreshold", md.threshold)
	}
}

func TestMotionDetector_SetThreshold_Negative(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	// Setting negative threshold should be ignored
	md.SetThreshold(-1.0)
	if md.threshold != 1.0 {
		t.Errorf("negative threshold should be ignored, got %f, want 1.0", md.threshold)
	}
}

func TestMotionDetector_Close_Multiple(t *testing.T) {
	md := NewMotionDetector(1.0)

	// Close multiple times should not panic
	md.Close()
	md.Close()
}

func TestMotionDetector_Detect_AfterClose(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	md.DetectMat(&frame)
	md.Close()

	// Detect after close should handle gracefully (re-initialize)
	detected, _ := md.DetectMat(&frame)
	if detected {
		t.Error("first frame after close should not detect motion")
	}
}

func TestMotionDetector_Frame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	if detected, _ := md.Detect(nil); detected {
		t.Error("nil frame should not detect motion")
	}

	black := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	md.Detect(&Frame{Mat: &black, Timestamp: 1})
	detected, changePercent := md.Detect(&Frame{Mat: &white, Timestamp: 2})
	if !detected {
		t.Errorf("black to white frame should detect motion, changePercent = %f", changePercent)
	}
}

func TestMotionDetector_SizeChangeRebaselines(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	small := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer small.Close()
	large := gocv.NewMatWithSize(240, 640, gocv.MatTypeCV8UC3)
	defer large.Close()
	large.SetTo(gocv.NewScalar(255, 255, 255, 0))

	md.DetectMat(&small)
	if detected, _ := md.DetectMat(&large); detected {
		t.Error("resolution change should reset the baseline instead of reporting motion")
	}
}
