package geom

import "math"

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// DistanceXZ returns the distance between two points projected onto the ground plane
func DistanceXZ(ax, az, bx, bz float64) float64 {
	dx := bx - ax
	dz := bz - az
	return math.Sqrt(dx*dx + dz*dz)
}
