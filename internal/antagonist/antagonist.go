// Package antagonist owns the stalker: where it stands, when it teleports,
// how much tension its presence produces, and whether it has caught the player.
//
// The antagonist never walks. Its position only changes through teleports,
// and it always faces the player.
package antagonist

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/pinewood/internal/core/geom"
	"chosenoffset.com/pinewood/internal/simulation"
)

// State is the controller's lifecycle stage
type State int

const (
	// Dormant antagonists wait far outside the forest until their first teleport.
	Dormant State = iota
	Active
)

func (s State) String() string {
	switch s {
	case Dormant:
		return "dormant"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// Frame is what the controller reads about the player each tick
type Frame struct {
	Dt      float64
	Player  mgl64.Vec3 // eye position
	Forward mgl64.Vec3 // unit view direction
	Pages   int
}

// Result reports one tick of antagonist behavior
type Result struct {
	Threat     float64 // clamped tension signal for audio and visuals
	BaseThreat float64 // proximity + gaze before jitter and clamping
	Distance   float64
	Gaze       float64
	Caught     bool
	Teleported bool
}

// Controller runs the antagonist
type Controller struct {
	config simulation.AntagonistConfig
	bound  float64
	rng    *rand.Rand

	state         State
	position      mgl64.Vec3
	yaw           float64
	sinceTeleport float64
}

// NewController creates a dormant antagonist. bound is the playable half-extent
// teleports are kept inside.
func NewController(config simulation.AntagonistConfig, bound float64, rng *rand.Rand) *Controller {
	return &Controller{
		config:   config,
		bound:    bound,
		rng:      rng,
		state:    Dormant,
		position: mgl64.Vec3{0, config.SpawnHeight, config.DormantDistance},
	}
}

// State returns the lifecycle stage
func (c *Controller) State() State {
	return c.state
}

// Position returns where the antagonist stands
func (c *Controller) Position() mgl64.Vec3 {
	return c.position
}

// Yaw returns the facing of the antagonist
func (c *Controller) Yaw() float64 {
	return c.yaw
}

// SinceTeleport returns seconds since the last teleport
func (c *Controller) SinceTeleport() float64 {
	return c.sinceTeleport
}

// Interval returns the teleport interval for a page count
func (c *Controller) Interval(pages int) float64 {
	return c.config.TeleportInterval(pages)
}

// Place moves the antagonist directly and activates it. Used when a scene is
// set up by hand rather than by teleports.
func (c *Controller) Place(pos mgl64.Vec3) {
	c.position = pos
	c.state = Active
}

// Gaze is the dot product of the view direction and the unit vector toward
// target. When target sits on the eye the player is treated as looking at it.
func Gaze(eye, forward, target mgl64.Vec3) float64 {
	to := geom.SafeNormalize(target.Sub(eye), forward)
	return geom.SafeNormalize(forward, geom.FallbackDir).Dot(to)
}

// BaseThreat combines proximity and gaze. Proximity rises linearly from 0 at
// ProximityRange to 1 at contact. Gaze counts inside GazeRange once the dot
// product passes GazeCutoff, rising linearly to 1 when looking straight at it.
func (c *Controller) BaseThreat(distance, gaze float64) float64 {
	var proximity, look float64
	if r := c.config.ProximityRange; r > 0 && distance < r {
		proximity = 1 - distance/r
	}
	if distance < c.config.GazeRange && gaze > c.config.GazeCutoff {
		look = (gaze - c.config.GazeCutoff) / (1 - c.config.GazeCutoff)
	}
	return proximity + look
}

// ClampThreat bounds a signal to [0, MaxThreat]
func (c *Controller) ClampThreat(v float64) float64 {
	return geom.Clamp(v, 0, c.config.MaxThreat)
}

// IsCatch reports whether distance and gaze trigger the loss
func (c *Controller) IsCatch(distance, gaze float64) bool {
	return distance < c.config.CatchDistance && gaze > c.config.CatchGaze
}

// Update runs one tick. When the player is caught the tick stops there and
// no teleport happens.
func (c *Controller) Update(f Frame) Result {
	c.sinceTeleport += f.Dt
	c.yaw = geom.YawToward(c.position, f.Player)

	var res Result
	res.Distance = geom.PlanarDistance(f.Player, c.position)
	res.Gaze = Gaze(f.Player, f.Forward, c.position)

	if c.state == Active {
		res.BaseThreat = c.BaseThreat(res.Distance, res.Gaze)
		jitter := (c.rng.Float64()*2 - 1) * c.config.JitterAmplitude
		res.Threat = c.ClampThreat(res.BaseThreat + jitter)

		if c.IsCatch(res.Distance, res.Gaze) {
			res.Caught = true
			return res
		}
	}

	if c.sinceTeleport > c.Interval(f.Pages) {
		c.teleport(f)
		res.Teleported = true
	}
	return res
}

// teleport repositions the antagonist around the player. With a chance that
// grows with pages collected it lands in the player's line of sight;
// otherwise at a random bearing.
func (c *Controller) teleport(f Frame) {
	c.sinceTeleport = 0

	lo, hi := c.config.MinSpawnDistance, c.config.MaxSpawnDistance
	dist := lo + c.rng.Float64()*(hi-lo)

	var dir mgl64.Vec3
	if c.rng.Float64() < c.config.AheadChance(f.Pages) {
		dir = geom.SafeNormalize(geom.Planar(f.Forward), geom.FallbackDir)
	} else {
		angle := c.rng.Float64() * 2 * math.Pi
		dir = mgl64.Vec3{math.Cos(angle), 0, math.Sin(angle)}
	}

	// Early on, keep spawns at a fair distance.
	if f.Pages < c.config.EarlyGamePages && dist < c.config.SafeDistance {
		dist = c.config.SafeDistance
	}

	pos := c.spawnPoint(f.Player, dir, dist)
	c.position = mgl64.Vec3{
		geom.Clamp(pos.X(), -c.bound, c.bound),
		c.config.SpawnHeight,
		geom.Clamp(pos.Z(), -c.bound, c.bound),
	}
	c.yaw = geom.YawToward(c.position, f.Player)
	c.state = Active
}

// spawnPoint returns a point dist from the player that lies inside the play
// area. Bearings are tried in 45 degree steps away from dir, alternating
// sides; the last resort is the bearing toward the centre, which always fits
// while dist is at most the bound.
func (c *Controller) spawnPoint(player, dir mgl64.Vec3, dist float64) mgl64.Vec3 {
	for i := 0; i < 8; i++ {
		step := float64((i+1)/2) * math.Pi / 4
		if i%2 == 1 {
			step = -step
		}
		sin, cos := math.Sincos(step)
		d := mgl64.Vec3{dir.X()*cos - dir.Z()*sin, 0, dir.X()*sin + dir.Z()*cos}
		if p := player.Add(d.Mul(dist)); c.inBounds(p) {
			return p
		}
	}
	centre := geom.SafeNormalize(geom.Planar(player).Mul(-1), geom.FallbackDir)
	return player.Add(centre.Mul(dist))
}

func (c *Controller) inBounds(p mgl64.Vec3) bool {
	return math.Abs(p.X()) <= c.bound && math.Abs(p.Z()) <= c.bound
}
