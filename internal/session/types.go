package session

import (
	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/pinewood/internal/core/geom"
)

// Phase is the session lifecycle stage
type Phase int

const (
	Idle Phase = iota
	Running
	Over
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Over:
		return "over"
	default:
		return "unknown"
	}
}

// Outcome is how a session ended
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCaught
	OutcomeBatteryDepleted
	OutcomeWon
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeCaught:
		return "caught"
	case OutcomeBatteryDepleted:
		return "battery_depleted"
	case OutcomeWon:
		return "won"
	default:
		return "unknown"
	}
}

// Input is one tick's worth of player intent. Toggles are edge-triggered:
// the front end sets them only on the tick the key went down.
type Input struct {
	Forward, Backward, Left, Right bool
	ToggleFlashlight               bool
	ToggleMap                      bool
	Interact                       bool
	LookDX, LookDY                 float64
}

// SoundID names a sound the session asks the audio service for
type SoundID string

const (
	SoundAmbient     SoundID = "ambient"
	SoundStatic      SoundID = "static"
	SoundFire        SoundID = "fire"
	SoundPage        SoundID = "page"
	SoundClick       SoundID = "click"
	SoundTeleport    SoundID = "teleport"
	SoundCaught      SoundID = "caught"
	SoundBatteryDead SoundID = "battery_dead"
	SoundBurn        SoundID = "burn"
)

// AudioSink receives audio intents. Implementations must not block.
type AudioSink interface {
	PlayOnce(id SoundID)
	SetLoopVolume(id SoundID, volume float64)
	StopAll()
}

// Readiness gates the Idle to Running transition
type Readiness interface {
	Complete() bool
}

// Player is the first-person camera
type Player struct {
	Position mgl64.Vec3 // eye position
	Velocity mgl64.Vec3
	Yaw      float64
	Pitch    float64
}

// Forward returns the unit view direction.
func (p *Player) Forward() mgl64.Vec3 {
	return geom.Forward(p.Yaw, p.Pitch)
}

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}

// Alpha returns the message's remaining opacity in [0, 1].
func (m Message) Alpha() float64 {
	if m.MaxTime <= 0 {
		return 0
	}
	return geom.Clamp(m.TimeLeft/m.MaxTime, 0, 1)
}

// MarkerKind is a minimap marker type
type MarkerKind int

const (
	MarkerPlayer MarkerKind = iota
	MarkerCampfire
	MarkerHouse
	MarkerPage
)

// Marker is a point of interest on the ground plane
type Marker struct {
	Kind     MarkerKind
	Position geom.Point // X and Z of the world position
}
