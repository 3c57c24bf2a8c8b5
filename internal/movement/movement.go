// Package movement turns directional input into a collision-constrained
// player position.
package movement

import (
	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/pinewood/internal/core/geom"
	"chosenoffset.com/pinewood/internal/simulation"
	"chosenoffset.com/pinewood/internal/world"
)

// Directions are the held movement keys for one tick
type Directions struct {
	Forward, Backward, Left, Right bool
}

// Resolver applies movement and resolves collisions
type Resolver struct {
	config simulation.MovementConfig
}

// NewResolver creates a movement resolver
func NewResolver(config simulation.MovementConfig) *Resolver {
	return &Resolver{config: config}
}

// Velocity returns the planar displacement for one tick, relative to the
// player's facing. Opposite keys cancel.
func (r *Resolver) Velocity(yaw float64, dir Directions, dt float64) mgl64.Vec3 {
	var forward, strafe float64
	if dir.Forward {
		forward++
	}
	if dir.Backward {
		forward--
	}
	if dir.Right {
		strafe++
	}
	if dir.Left {
		strafe--
	}

	step := r.config.Speed * dt
	return geom.PlanarForward(yaw).Mul(forward * step).Add(geom.PlanarRight(yaw).Mul(strafe * step))
}

// Resolve moves pos by the tick's velocity, pushes it out of obstacles and
// clamps it to the playable square. Height is preserved.
func (r *Resolver) Resolve(pos mgl64.Vec3, yaw float64, dir Directions, dt float64, obstacles []world.Obstacle) mgl64.Vec3 {
	next := pos.Add(r.Velocity(yaw, dir, dt))
	next = PushOut(next, obstacles)

	h := r.config.BoundHalfExtent
	return mgl64.Vec3{geom.Clamp(next.X(), -h, h), pos.Y(), geom.Clamp(next.Z(), -h, h)}
}

// PushOut resolves circle overlaps one obstacle at a time, in slice order.
// Each push uses the position left by the previous one, so two overlapping
// obstacles can leave the player inside the first; this is accepted.
func PushOut(pos mgl64.Vec3, obstacles []world.Obstacle) mgl64.Vec3 {
	for _, o := range obstacles {
		delta := geom.Planar(pos.Sub(o.Position))
		dist := delta.Len()
		if dist >= o.Radius {
			continue
		}
		// Standing exactly on the center has no defined push direction.
		dir := geom.SafeNormalize(delta, geom.FallbackDir)
		pos = pos.Add(dir.Mul(o.Radius - dist))
	}
	return pos
}
