// Package shadows casts the shadows of round occluders (tree trunks, the
// house) away from a point light on the ground plane.
package shadows

import (
	"math"

	"chosenoffset.com/pinewood/internal/core/geom"
)

// Circle is a round occluder
type Circle struct {
	Center geom.Point
	Radius float64
}

// Quad is a shadow region: the two tangent points on the occluder followed
// by their projections at the light's reach.
type Quad [4]geom.Point

// Indices triangulates a Quad as two triangles
var Indices = [6]uint16{0, 1, 2, 0, 2, 3}

// Cast returns the shadow quad behind c as seen from light, extended to reach.
// It reports false when the light is inside the occluder or the occluder is
// beyond reach.
func Cast(light geom.Point, c Circle, reach float64) (Quad, bool) {
	dx := c.Center.X - light.X
	dy := c.Center.Y - light.Y
	d := math.Hypot(dx, dy)
	if d <= c.Radius || d-c.Radius >= reach {
		return Quad{}, false
	}

	// Tangent lines from the light touch the circle at +-alpha around the center bearing
	theta := math.Atan2(dy, dx)
	alpha := math.Asin(c.Radius / d)
	tangent := math.Sqrt(d*d - c.Radius*c.Radius)
	if tangent >= reach {
		return Quad{}, false
	}

	at := func(angle, dist float64) geom.Point {
		return geom.Point{X: light.X + math.Cos(angle)*dist, Y: light.Y + math.Sin(angle)*dist}
	}
	return Quad{
		at(theta-alpha, tangent),
		at(theta-alpha, reach),
		at(theta+alpha, reach),
		at(theta+alpha, tangent),
	}, true
}

// CastAll returns the shadows of every occluder within reach of the light.
func CastAll(light geom.Point, occluders []Circle, reach float64) []Quad {
	var quads []Quad
	for _, c := range occluders {
		if q, ok := Cast(light, c, reach); ok {
			quads = append(quads, q)
		}
	}
	return quads
}

// InShadow reports whether p is hidden from light by any occluder. Points
// inside an occluder are not shadowed by that occluder.
func InShadow(light, p geom.Point, occluders []Circle) bool {
	for _, c := range occluders {
		if geom.Distance(p, c.Center) < c.Radius {
			continue
		}
		if segmentHitsCircle(light, p, c) {
			return true
		}
	}
	return false
}

// segmentHitsCircle checks whether the segment a-b passes through c.
func segmentHitsCircle(a, b geom.Point, c Circle) bool {
	// Segment: P = a + t*(b-a) for 0 <= t <= 1; find t closest to the center
	sx := b.X - a.X
	sy := b.Y - a.Y
	lenSq := sx*sx + sy*sy
	if lenSq < geom.Epsilon {
		return false
	}
	t := ((c.Center.X-a.X)*sx + (c.Center.Y-a.Y)*sy) / lenSq
	if t <= 0 || t >= 1 {
		return false
	}
	closest := geom.Point{X: a.X + t*sx, Y: a.Y + t*sy}
	return geom.Distance(closest, c.Center) < c.Radius
}
