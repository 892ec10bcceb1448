package app

import (
	"github.com/ayusman/particleflow/internal/detector"
	"github.com/ayusman/particleflow/internal/store"
)

// detectorHandsToStore converts detected hands to their stored form.
func detectorHandsToStore(hands []detector.HandLandmarks) []store.Hand {
	out := make([]store.Hand, len(hands))
	for i := range hands {
		h := &hands[i]
		landmarks := make([]store.Landmark, len(h.Points))
		for j, p := range h.Points {
			landmarks[j] = store.Landmark{X: p.X, Y: p.Y, Z: p.Z}
		}
		out[i] = store.Hand{Handedness: h.Handedness, Score: h.Score, Landmarks: landmarks}
	}
	return out
}

// storeFramesToDetector converts stored frames back to per-frame hand lists.
// Landmarks beyond the 21 known points are ignored.
func storeFramesToDetector(frames []store.Frame) [][]detector.HandLandmarks {
	out := make([][]detector.HandLandmarks, len(frames))
	for i, f := range frames {
		hands := make([]detector.HandLandmarks, len(f.Hands))
		for j, h := range f.Hands {
			hands[j].Handedness = h.Handedness
			hands[j].Score = h.Score
			for k, lm := range h.Landmarks {
				if k >= detector.NumLandmarks {
					break
				}
				hands[j].Points[k] = detector.Point3D{X: lm.X, Y: lm.Y, Z: lm.Z}
			}
		}
		out[i] = hands
	}
	return out
}
