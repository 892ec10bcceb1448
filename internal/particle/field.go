package particle

import (
	"math"
	"math/rand/v2"
)

// Vec3 is a 3D vector in viewport units.
type Vec3 struct {
	X, Y, Z float64
}

// Shell band and launch speed ranges.
const (
	shellMin       = 0.95
	shellWidth     = 0.05
	minLaunchSpeed = 2.0
	launchSpread   = 15.0
)

// Target draws a fresh local offset on the surface of shape. The boolean reports
// whether the point belongs to the outer shell band rather than the filled interior.
// Fireworks have no static field; Target returns a launch velocity for them instead.
func Target(shape Shape, shellProb float64, rnd *rand.Rand) (Vec3, bool) {
	if shape == Fireworks {
		return LaunchVelocity(rnd), false
	}

	shell := rnd.Float64() < shellProb
	var vol float64
	if shell {
		vol = shellMin + rnd.Float64()*shellWidth
	} else {
		vol = rnd.Float64()
	}

	switch shape {
	case Flower:
		theta := rnd.Float64() * 2 * math.Pi
		return FlowerPoint(theta, vol, rnd.Float64()), shell
	default:
		u := rnd.Float64() * 2 * math.Pi
		v := rnd.Float64() * math.Pi
		return HeartPoint(u, v, vol), shell
	}
}

// HeartPoint evaluates the heart surface at (u, v) scaled by vol.
// The silhouette is the classic 16 sin^3 / 13 cos curve swept around the vertical axis.
func HeartPoint(u, v, vol float64) Vec3 {
	sinU := math.Sin(u)
	cube := sinU * sinU * sinU
	hy := -(13*math.Cos(u) - 5*math.Cos(2*u) - 2*math.Cos(3*u) - math.Cos(4*u))
	return Vec3{
		X: 16 * cube * math.Sin(v) * vol,
		Y: hy * vol,
		Z: 12 * cube * math.Cos(v) * vol,
	}
}

// FlowerPoint evaluates the flower at angle theta scaled by vol. jitter in [0,1)
// spreads the point in depth; the spread grows with the petal radius so petal tips
// curl up into a cup.
func FlowerPoint(theta, vol, jitter float64) Vec3 {
	petal := math.Abs(math.Cos(2.5 * theta))
	radius := 10 + 15*petal*petal*petal
	cup := radius / 25 * 10
	r := radius * vol
	return Vec3{
		X: r * math.Cos(theta),
		Y: r * math.Sin(theta),
		Z: cup * (jitter - 0.5) * 5,
	}
}

// LaunchVelocity draws a velocity with direction uniform on the sphere and
// magnitude in [2, 17).
func LaunchVelocity(rnd *rand.Rand) Vec3 {
	theta := rnd.Float64() * 2 * math.Pi
	phi := math.Acos(2*rnd.Float64() - 1)
	speed := minLaunchSpeed + rnd.Float64()*launchSpread
	return Vec3{
		X: speed * math.Sin(phi) * math.Cos(theta),
		Y: speed * math.Sin(phi) * math.Sin(theta),
		Z: speed * math.Cos(phi),
	}
}
