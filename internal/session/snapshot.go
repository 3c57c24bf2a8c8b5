package session

import (
	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/pinewood/internal/antagonist"
	"chosenoffset.com/pinewood/internal/battery"
	"chosenoffset.com/pinewood/internal/core/geom"
	"chosenoffset.com/pinewood/internal/world"
)

// Snapshot is everything the views need to draw one frame. It is a copy;
// slices other than Obstacles are freshly allocated.
type Snapshot struct {
	ID      string
	Phase   Phase
	Outcome Outcome
	Elapsed float64

	Player  Player
	Forward mgl64.Vec3

	Battery             float64
	BatteryBand         battery.Band
	FlashlightOn        bool
	FlashlightIntensity float64

	Pages         int
	RequiredPages int
	PageCounter   string
	CanDeliver    bool
	InFireRange   bool

	Threat            float64
	Antagonist        mgl64.Vec3
	AntagonistYaw     float64
	AntagonistVisible bool

	Campfire    mgl64.Vec3
	House       mgl64.Vec3
	HouseRadius float64
	Obstacles   []world.Obstacle
	ActivePages []mgl64.Vec3
	Bound       float64

	MapVisible  bool
	Markers     []Marker
	Banner      string
	Messages    []Message
	InputLocked bool
}

// Banner text per outcome
const (
	BannerCaught  = "YOU WERE CAUGHT\nIt was right behind you."
	BannerBattery = "GAME OVER\nThe battery died... the darkness took you."
	BannerWon     = "YOU ESCAPED\nThe pages burn. The woods fall silent."
)

// BannerFor returns the end-of-game text for an outcome, or "" while playing.
func BannerFor(o Outcome) string {
	switch o {
	case OutcomeCaught:
		return BannerCaught
	case OutcomeBatteryDepleted:
		return BannerBattery
	case OutcomeWon:
		return BannerWon
	default:
		return ""
	}
}

// Snapshot captures the current frame.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:      s.ID,
		Phase:   s.phase,
		Outcome: s.outcome,
		Elapsed: s.elapsed,

		Player:  s.Player,
		Forward: s.Player.Forward(),

		Battery:             s.battery.Level(),
		BatteryBand:         s.battery.Band(),
		FlashlightOn:        s.battery.On(),
		FlashlightIntensity: s.battery.Intensity(),

		Pages:         s.objectives.Collected(),
		RequiredPages: s.objectives.Required(),
		PageCounter:   s.objectives.CounterText(),
		CanDeliver:    s.objectives.CanDeliver(),
		InFireRange:   s.objectives.InDeliveryRange(s.Player.Position),

		Threat: s.threat,

		Campfire:    s.World.Campfire,
		House:       s.World.House,
		HouseRadius: s.config.World.HouseRadius,
		Obstacles:   s.World.Obstacles,
		Bound:       s.config.Movement.BoundHalfExtent,

		MapVisible:  s.mapVisible,
		Banner:      BannerFor(s.outcome),
		Messages:    append([]Message(nil), s.messages...),
		InputLocked: s.inputLocked,
	}

	if s.antagonist != nil {
		snap.Antagonist = s.antagonist.Position()
		snap.AntagonistYaw = s.antagonist.Yaw()
		snap.AntagonistVisible = s.antagonist.State() == antagonist.Active
	}

	active := s.World.ActivePages()
	snap.ActivePages = make([]mgl64.Vec3, 0, len(active))
	snap.Markers = []Marker{
		{Kind: MarkerPlayer, Position: geom.ToPoint(s.Player.Position)},
		{Kind: MarkerCampfire, Position: geom.ToPoint(s.World.Campfire)},
		{Kind: MarkerHouse, Position: geom.ToPoint(s.World.House)},
	}
	for _, p := range active {
		snap.ActivePages = append(snap.ActivePages, p.Position)
		snap.Markers = append(snap.Markers, Marker{Kind: MarkerPage, Position: geom.ToPoint(p.Position)})
	}
	return snap
}
