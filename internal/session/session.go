// Package session is the single owner of a running game. It composes the
// world, player, battery, objectives and antagonist and advances them in a
// fixed order once per tick.
package session

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"chosenoffset.com/pinewood/internal/antagonist"
	"chosenoffset.com/pinewood/internal/battery"
	"chosenoffset.com/pinewood/internal/movement"
	"chosenoffset.com/pinewood/internal/objective"
	"chosenoffset.com/pinewood/internal/platform/logger"
	"chosenoffset.com/pinewood/internal/simulation"
	"chosenoffset.com/pinewood/internal/world"
)

var (
	ErrAssetsPending  = errors.New("session: assets are still loading")
	ErrAlreadyStarted = errors.New("session: already started")
	ErrSessionOver    = errors.New("session: game is over")
)

// MessageDuration is how long a message stays on screen, in seconds.
const MessageDuration = 3.0

// Options configures a session's collaborators. All fields are optional.
type Options struct {
	ID     string
	Audio  AudioSink
	Ready  Readiness
	Logger *logger.Logger

	// NoAntagonist runs the session without a stalker.
	NoAntagonist bool
}

// Session owns every piece of mutable game state.
type Session struct {
	ID     string
	World  *world.World
	Player Player

	config     *simulation.Config
	resolver   *movement.Resolver
	battery    *battery.Meter
	objectives *objective.Tracker
	antagonist *antagonist.Controller

	audio AudioSink
	ready Readiness
	log   *logger.Logger

	phase       Phase
	outcome     Outcome
	inputLocked bool
	mapVisible  bool
	elapsed     float64
	threat      float64
	intensity   float64
	messages    []Message

	// OnMessage is called for every message the session shows.
	OnMessage func(text string)
	// OnOutcome is called exactly once, when the session ends.
	OnOutcome func(o Outcome)
	// OnFlashlight is called when the beam intensity changes (0 when off).
	OnFlashlight func(intensity float64)
	// OnRelease is called when the session gives up input capture.
	OnRelease func()
}

// New builds an idle session over an already generated world.
func New(config *simulation.Config, w *world.World, rng *rand.Rand, opts Options) *Session {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Audio == nil {
		opts.Audio = nopAudio{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.New()
	}

	s := &Session{
		ID:         opts.ID,
		World:      w,
		Player:     Player{Position: w.Spawn},
		config:     config,
		resolver:   movement.NewResolver(config.Movement),
		battery:    battery.NewMeter(config.Battery),
		objectives: objective.NewTracker(config.Objective, w.Campfire),
		audio:      opts.Audio,
		ready:      opts.Ready,
		log:        opts.Logger,
	}
	if !opts.NoAntagonist {
		s.antagonist = antagonist.NewController(config.Antagonist, config.Movement.BoundHalfExtent, rng)
	}
	s.intensity = s.currentIntensity()
	return s
}

// NewFromSeed generates a forest from seed and builds an idle session in it.
func NewFromSeed(config *simulation.Config, seed int64, opts Options) *Session {
	rng := rand.New(rand.NewSource(seed))
	w := world.NewGenerator(config.World, rng).Generate()
	return New(config, w, rng, opts)
}

// Phase returns the lifecycle stage
func (s *Session) Phase() Phase {
	return s.phase
}

// Outcome returns how the session ended, or OutcomeNone
func (s *Session) Outcome() Outcome {
	return s.outcome
}

// InputLocked reports whether the session currently owns pointer input.
func (s *Session) InputLocked() bool {
	return s.inputLocked
}

// Battery exposes the flashlight meter
func (s *Session) Battery() *battery.Meter {
	return s.battery
}

// Objectives exposes the page tracker
func (s *Session) Objectives() *objective.Tracker {
	return s.objectives
}

// Antagonist exposes the stalker, nil when the session runs without one.
func (s *Session) Antagonist() *antagonist.Controller {
	return s.antagonist
}

// SetInputLocked grants or withdraws pointer capture while the session runs.
// A running session without capture is paused: Tick leaves it untouched.
func (s *Session) SetInputLocked(locked bool) {
	if s.phase != Running || s.inputLocked == locked {
		return
	}
	s.inputLocked = locked
	if locked {
		s.log.Event("RESUME", s.ID, fmt.Sprintf("elapsed=%.1fs", s.elapsed))
	} else {
		s.log.Event("PAUSE", s.ID, fmt.Sprintf("elapsed=%.1fs", s.elapsed))
	}
}

// Start moves an idle session to Running once assets are ready.
func (s *Session) Start() error {
	switch s.phase {
	case Running:
		return ErrAlreadyStarted
	case Over:
		return ErrSessionOver
	}
	if s.ready != nil && !s.ready.Complete() {
		return ErrAssetsPending
	}

	s.phase = Running
	s.inputLocked = true
	s.audio.SetLoopVolume(SoundAmbient, 0.6)
	s.audio.SetLoopVolume(SoundFire, 0)
	s.audio.SetLoopVolume(SoundStatic, 0)
	s.emitFlashlight(true)
	s.ShowMessage(fmt.Sprintf("Find %d pages and burn them at the campfire", s.objectives.Required()))
	s.log.Event("START", s.ID, fmt.Sprintf("spawn=(%.1f, %.1f) campfire=(%.1f, %.1f) pages=%d",
		s.Player.Position.X(), s.Player.Position.Z(), s.World.Campfire.X(), s.World.Campfire.Z(), len(s.World.Pages)))
	return nil
}

// Tick advances the session by dt seconds with one sampled input.
// While paused or over only message timers advance.
func (s *Session) Tick(dt float64, in Input) Snapshot {
	s.updateMessages(dt)
	if s.phase != Running || !s.inputLocked || dt <= 0 {
		return s.Snapshot()
	}
	s.elapsed += dt

	s.applyLook(in.LookDX, in.LookDY)
	if in.ToggleMap {
		s.mapVisible = !s.mapVisible
	}
	if in.ToggleFlashlight {
		s.toggleFlashlight()
	}

	// 1. movement and collision
	dir := movement.Directions{Forward: in.Forward, Backward: in.Backward, Left: in.Left, Right: in.Right}
	prev := s.Player.Position
	s.Player.Position = s.resolver.Resolve(prev, s.Player.Yaw, dir, dt, s.World.Obstacles)
	s.Player.Velocity = s.Player.Position.Sub(prev).Mul(1 / dt)

	// 2. battery
	if s.battery.Drain(dt, true) {
		s.emitFlashlight(false)
		s.finish(OutcomeBatteryDepleted)
		return s.Snapshot()
	}
	s.emitFlashlight(false)

	// 3. objectives
	if s.updateObjectives(in.Interact) {
		return s.Snapshot()
	}

	// 4. antagonist
	if s.antagonist != nil {
		s.updateAntagonist(dt)
	}

	s.updateFireVolume()
	return s.Snapshot()
}

func (s *Session) applyLook(dx, dy float64) {
	sens := s.config.Input.LookSensitivity
	s.Player.Yaw -= dx * sens
	s.Player.Pitch -= dy * sens
	s.Player.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, s.Player.Pitch))
}

func (s *Session) toggleFlashlight() {
	if s.battery.Exhausted() {
		return
	}
	s.battery.Toggle()
	s.audio.PlayOnce(SoundClick)
	s.emitFlashlight(false)
}

// updateObjectives collects pages and handles delivery. Returns true when the
// session ended.
func (s *Session) updateObjectives(interact bool) bool {
	picked := s.objectives.TryCollect(s.Player.Position, s.World.Pages)
	if len(picked) > 0 {
		s.World.RemoveCollected()
		for _, p := range picked {
			s.audio.PlayOnce(SoundPage)
			s.log.Event("PAGE", s.ID, fmt.Sprintf("page=%d %s", p.ID, s.objectives.CounterText()))
		}
		if s.objectives.CanDeliver() {
			s.ShowMessage("All pages found. Burn them at the campfire")
		} else {
			s.ShowMessage(fmt.Sprintf("Page found. %s", s.objectives.CounterText()))
		}
	}

	if s.objectives.TryDeliver(s.Player.Position, interact) {
		s.finish(OutcomeWon)
		return true
	}
	if interact && !s.objectives.CanDeliver() && s.objectives.InDeliveryRange(s.Player.Position) {
		s.ShowMessage(fmt.Sprintf("You need %d more pages", s.objectives.Remaining()))
	}
	return false
}

func (s *Session) updateAntagonist(dt float64) {
	res := s.antagonist.Update(antagonist.Frame{
		Dt:      dt,
		Player:  s.Player.Position,
		Forward: s.Player.Forward(),
		Pages:   s.objectives.Collected(),
	})
	s.threat = res.Threat
	s.audio.SetLoopVolume(SoundStatic, res.Threat)

	if res.Caught {
		s.finish(OutcomeCaught)
		return
	}
	if res.Teleported {
		s.audio.PlayOnce(SoundTeleport)
		pos := s.antagonist.Position()
		s.log.Event("TELEPORT", s.ID, fmt.Sprintf("pos=(%.1f, %.1f) pages=%d", pos.X(), pos.Z(), s.objectives.Collected()))
	}
}

// updateFireVolume fades the campfire crackle in as the player gets close.
func (s *Session) updateFireVolume() {
	d := s.Player.Position.Sub(s.World.Campfire)
	d[1] = 0
	v := 1 - d.Len()/40
	if v < 0 {
		v = 0
	}
	s.audio.SetLoopVolume(SoundFire, v*0.8)
}

// finish moves the session to Over. Later calls are ignored.
func (s *Session) finish(o Outcome) {
	if s.phase == Over {
		return
	}
	s.phase = Over
	s.outcome = o
	s.threat = 0

	s.inputLocked = false
	if s.OnRelease != nil {
		s.OnRelease()
	}
	s.audio.StopAll()
	switch o {
	case OutcomeCaught:
		s.audio.PlayOnce(SoundCaught)
	case OutcomeBatteryDepleted:
		s.audio.PlayOnce(SoundBatteryDead)
	case OutcomeWon:
		s.audio.PlayOnce(SoundBurn)
	}

	s.ShowMessage(BannerFor(o))
	s.log.Event("OVER", s.ID, fmt.Sprintf("outcome=%s elapsed=%.1fs %s battery=%.1f",
		o, s.elapsed, s.objectives.CounterText(), s.battery.Level()))
	if s.OnOutcome != nil {
		s.OnOutcome(o)
	}
}

// ShowMessage displays a message for MessageDuration seconds.
func (s *Session) ShowMessage(text string) {
	s.messages = append(s.messages, Message{Text: text, TimeLeft: MessageDuration, MaxTime: MessageDuration})
	if s.OnMessage != nil {
		s.OnMessage(text)
	}
}

func (s *Session) updateMessages(dt float64) {
	kept := s.messages[:0]
	for _, m := range s.messages {
		m.TimeLeft -= dt
		if m.TimeLeft > 0 {
			kept = append(kept, m)
		}
	}
	s.messages = kept
}

func (s *Session) currentIntensity() float64 {
	if !s.battery.On() {
		return 0
	}
	return s.battery.Intensity()
}

// emitFlashlight notifies OnFlashlight when the beam changed, or always when force is set.
func (s *Session) emitFlashlight(force bool) {
	v := s.currentIntensity()
	if !force && v == s.intensity {
		return
	}
	s.intensity = v
	if s.OnFlashlight != nil {
		s.OnFlashlight(v)
	}
}

type nopAudio struct{}

func (nopAudio) PlayOnce(SoundID)               {}
func (nopAudio) SetLoopVolume(SoundID, float64) {}
func (nopAudio) StopAll()                       {}
