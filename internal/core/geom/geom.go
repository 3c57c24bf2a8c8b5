// Package geom holds the small amount of vector math shared by the simulation.
// The world is Y-up: X and Z span the ground plane, Y is height.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Point is a position on the ground plane, used by the map views.
type Point struct {
	X, Y float64
}

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-9

// FallbackDir is used whenever a direction is undefined (zero-length vector).
var FallbackDir = mgl64.Vec3{1, 0, 0}

// ToPoint projects a world position onto the ground plane.
func ToPoint(v mgl64.Vec3) Point {
	return Point{X: v.X(), Y: v.Z()}
}

// Distance calculates the Euclidean distance between two ground-plane points
func Distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Planar drops the vertical component.
func Planar(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// PlanarDistance is the distance between a and b ignoring height.
func PlanarDistance(a, b mgl64.Vec3) float64 {
	dx := b.X() - a.X()
	dz := b.Z() - a.Z()
	return math.Sqrt(dx*dx + dz*dz)
}

// SafeNormalize returns v scaled to unit length, or fallback if v is degenerate.
func SafeNormalize(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < Epsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return fallback
	}
	return v.Mul(1 / l)
}

// Forward is the view direction for a yaw/pitch pair. Yaw 0 looks down -Z.
func Forward(yaw, pitch float64) mgl64.Vec3 {
	cp := math.Cos(pitch)
	return mgl64.Vec3{-math.Sin(yaw) * cp, math.Sin(pitch), -math.Cos(yaw) * cp}
}

// PlanarForward is the ground-plane heading for yaw.
func PlanarForward(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{-math.Sin(yaw), 0, -math.Cos(yaw)}
}

// PlanarRight is the strafe direction for yaw.
func PlanarRight(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(yaw), 0, -math.Sin(yaw)}
}

// YawToward returns the yaw that makes PlanarForward point from one position to another.
func YawToward(from, to mgl64.Vec3) float64 {
	dx := to.X() - from.X()
	dz := to.Z() - from.Z()
	if math.Abs(dx) < Epsilon && math.Abs(dz) < Epsilon {
		return 0
	}
	return math.Atan2(-dx, -dz)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
