package render

import "github.com/ayusman/particleflow/internal/detector"

// Segment is a line between two points in pixel coordinates.
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// Skeleton maps hands in normalized coordinates onto a width x height image,
// returning the bone segments and joint positions. When mirror is set the
// X axis is flipped to match a selfie-view preview.
func Skeleton(hands []detector.HandLandmarks, width, height int, mirror bool) ([]Segment, [][2]float64) {
	w, h := float64(width), float64(height)
	px := func(p detector.Point3D) (float64, float64) {
		x := p.X
		if mirror {
			x = 1 - x
		}
		return x * w, p.Y * h
	}

	segments := make([]Segment, 0, len(hands)*len(detector.HandConnections))
	joints := make([][2]float64, 0, len(hands)*detector.NumLandmarks)
	for i := range hands {
		pts := &hands[i].Points
		for _, c := range detector.HandConnections {
			x1, y1 := px(pts[c[0]])
			x2, y2 := px(pts[c[1]])
			segments = append(segments, Segment{X1: x1, Y1: y1, X2: x2, Y2: y2})
		}
		for _, p := range pts {
			x, y := px(p)
			joints = append(joints, [2]float64{x, y})
		}
	}
	return segments, joints
}
