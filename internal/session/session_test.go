package session

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/pinewood/internal/core/geom"
	"chosenoffset.com/pinewood/internal/platform/logger"
	"chosenoffset.com/pinewood/internal/simulation"
	"chosenoffset.com/pinewood/internal/world"
)

type fakeReady struct{ done bool }

func (f *fakeReady) Complete() bool { return f.done }

type audioCall struct {
	kind string
	id   SoundID
}

type fakeAudio struct {
	calls []audioCall
}

func (f *fakeAudio) PlayOnce(id SoundID)               { f.calls = append(f.calls, audioCall{"play", id}) }
func (f *fakeAudio) SetLoopVolume(id SoundID, _ float64) {}
func (f *fakeAudio) StopAll()                          { f.calls = append(f.calls, audioCall{kind: "stop"}) }

// testWorld is an open field with the campfire a few steps north of spawn.
func testWorld(pages ...mgl64.Vec3) *world.World {
	w := &world.World{
		Spawn:    mgl64.Vec3{0, 1.7, 5},
		Campfire: mgl64.Vec3{0, 0, 9},
		House:    mgl64.Vec3{50, 0, 50},
	}
	for i, p := range pages {
		w.Pages = append(w.Pages, &world.Page{ID: i, Position: p})
	}
	return w
}

func newTestSession(t *testing.T, w *world.World, opts Options) *Session {
	t.Helper()
	opts.Logger = logger.Discard()
	return New(simulation.DefaultConfig(), w, rand.New(rand.NewSource(1)), opts)
}

func started(t *testing.T, s *Session) *Session {
	t.Helper()
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

func TestStartWaitsForAssets(t *testing.T) {
	ready := &fakeReady{}
	s := newTestSession(t, testWorld(), Options{Ready: ready})

	if err := s.Start(); !errors.Is(err, ErrAssetsPending) {
		t.Fatalf("Start before load = %v, want ErrAssetsPending", err)
	}
	if s.Phase() != Idle {
		t.Fatalf("phase = %v, want idle", s.Phase())
	}

	ready.done = true
	if err := s.Start(); err != nil {
		t.Fatalf("Start after load: %v", err)
	}
	if !s.InputLocked() {
		t.Error("input should be captured once running")
	}
	if err := s.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}
}

func TestIdleTickDoesNothing(t *testing.T) {
	s := newTestSession(t, testWorld(), Options{NoAntagonist: true})
	before := s.Player.Position

	snap := s.Tick(1, Input{Forward: true, LookDX: 50})
	if snap.Player.Position != before || snap.Player.Yaw != 0 {
		t.Errorf("idle tick moved the player: %+v", snap.Player)
	}
	if snap.Battery != 100 {
		t.Errorf("idle tick drained battery to %v", snap.Battery)
	}
}

func TestWinScenario(t *testing.T) {
	w := testWorld(
		mgl64.Vec3{0, 1.5, 5},
		mgl64.Vec3{1, 1.5, 5},
		mgl64.Vec3{0, 1.5, 4},
	)
	s := started(t, newTestSession(t, w, Options{NoAntagonist: true}))

	outcomes := 0
	s.OnOutcome = func(o Outcome) {
		outcomes++
		if o != OutcomeWon {
			t.Errorf("outcome = %v, want won", o)
		}
	}

	// Pages are collected before delivery in the same tick
	snap := s.Tick(0.016, Input{Interact: true})
	if snap.Phase != Over || snap.Outcome != OutcomeWon {
		t.Fatalf("phase %v outcome %v, want over/won", snap.Phase, snap.Outcome)
	}
	if snap.Pages != 3 || snap.PageCounter != "Pages: 3 / 3" {
		t.Errorf("pages = %d %q", snap.Pages, snap.PageCounter)
	}
	if snap.Banner != BannerWon {
		t.Errorf("banner = %q", snap.Banner)
	}

	s.Tick(0.016, Input{Interact: true})
	if outcomes != 1 {
		t.Errorf("OnOutcome called %d times, want 1", outcomes)
	}
}

func TestInteractWithoutPagesIsNotAWin(t *testing.T) {
	s := started(t, newTestSession(t, testWorld(mgl64.Vec3{0, 1.5, 5}), Options{NoAntagonist: true}))

	var last string
	s.OnMessage = func(text string) { last = text }

	snap := s.Tick(0.016, Input{Interact: true})
	if snap.Phase != Running {
		t.Fatalf("phase = %v, want running", snap.Phase)
	}
	if last != "You need 2 more pages" {
		t.Errorf("message = %q", last)
	}
}

func TestBatteryDepletionEndsOnce(t *testing.T) {
	w := testWorld()
	w.Campfire = mgl64.Vec3{80, 0, 80}
	s := started(t, newTestSession(t, w, Options{NoAntagonist: true}))

	outcomes := 0
	s.OnOutcome = func(Outcome) { outcomes++ }

	for i := 0; i < 299; i++ {
		s.Tick(1, Input{})
	}
	if s.Phase() != Running {
		t.Fatalf("ended early after 299s with battery %v", s.Battery().Level())
	}

	snap := s.Tick(1, Input{})
	if snap.Outcome != OutcomeBatteryDepleted {
		t.Fatalf("outcome = %v, want battery depleted", snap.Outcome)
	}
	if snap.Battery != 0 || snap.FlashlightOn {
		t.Errorf("battery %v on=%v, want empty and off", snap.Battery, snap.FlashlightOn)
	}

	for i := 0; i < 5; i++ {
		s.Tick(1, Input{})
	}
	if outcomes != 1 {
		t.Errorf("OnOutcome called %d times, want 1", outcomes)
	}
}

func TestOverFreezesState(t *testing.T) {
	s := started(t, newTestSession(t, testWorld(), Options{}))
	s.Antagonist().Place(mgl64.Vec3{0, 1.7, 0})

	released := false
	s.OnRelease = func() { released = true }

	snap := s.Tick(0.016, Input{})
	if snap.Outcome != OutcomeCaught {
		t.Fatalf("outcome = %v, want caught", snap.Outcome)
	}
	if !released || snap.InputLocked {
		t.Error("input capture should be released on game over")
	}

	frozen := s.Snapshot()
	after := s.Tick(1, Input{Forward: true, ToggleFlashlight: true, LookDX: 300})
	if after.Player != frozen.Player {
		t.Errorf("player changed after game over: %+v -> %+v", frozen.Player, after.Player)
	}
	if after.Battery != frozen.Battery || after.FlashlightOn != frozen.FlashlightOn {
		t.Error("battery changed after game over")
	}
	if after.Antagonist != frozen.Antagonist || after.Pages != frozen.Pages {
		t.Error("antagonist or pages changed after game over")
	}
	if err := s.Start(); !errors.Is(err, ErrSessionOver) {
		t.Errorf("Start after over = %v, want ErrSessionOver", err)
	}
}

func TestGameOverAudio(t *testing.T) {
	audio := &fakeAudio{}
	s := started(t, newTestSession(t, testWorld(), Options{Audio: audio}))
	s.Antagonist().Place(mgl64.Vec3{0, 1.7, 0})
	audio.calls = nil

	s.Tick(0.016, Input{})

	want := []audioCall{{kind: "stop"}, {"play", SoundCaught}}
	if len(audio.calls) != len(want) {
		t.Fatalf("audio calls = %v, want %v", audio.calls, want)
	}
	for i := range want {
		if audio.calls[i] != want[i] {
			t.Errorf("call %d = %v, want %v", i, audio.calls[i], want[i])
		}
	}
}

func TestRunsWithoutAntagonist(t *testing.T) {
	s := started(t, newTestSession(t, testWorld(), Options{NoAntagonist: true}))
	if s.Antagonist() != nil {
		t.Fatal("expected no antagonist")
	}
	var snap Snapshot
	for i := 0; i < 100; i++ {
		snap = s.Tick(0.5, Input{Forward: i%2 == 0})
	}
	if snap.Phase != Running || snap.Threat != 0 || snap.AntagonistVisible {
		t.Errorf("unexpected snapshot without antagonist: phase %v threat %v", snap.Phase, snap.Threat)
	}
}

func TestLookInput(t *testing.T) {
	s := started(t, newTestSession(t, testWorld(), Options{NoAntagonist: true}))

	s.Tick(0.016, Input{LookDX: 100})
	if math.Abs(s.Player.Yaw-(-0.2)) > 1e-12 {
		t.Errorf("yaw = %v, want -0.2", s.Player.Yaw)
	}

	s.Tick(0.016, Input{LookDY: -100000})
	if s.Player.Pitch != math.Pi/2 {
		t.Errorf("pitch = %v, want clamped to pi/2", s.Player.Pitch)
	}
	s.Tick(0.016, Input{LookDY: 100000})
	if s.Player.Pitch != -math.Pi/2 {
		t.Errorf("pitch = %v, want clamped to -pi/2", s.Player.Pitch)
	}
}

func TestReleasedInputPausesSession(t *testing.T) {
	s := newTestSession(t, testWorld(), Options{})
	s.SetInputLocked(false)
	started(t, s)
	if !s.InputLocked() {
		t.Fatal("unlocking before Start should have no effect")
	}
	s.Tick(0.016, Input{})

	s.SetInputLocked(false)
	level := s.Battery().Level()
	pos, yaw := s.Player.Position, s.Player.Yaw
	since := s.Antagonist().SinceTeleport()

	var snap Snapshot
	for i := 0; i < 600; i++ {
		snap = s.Tick(1.0/60, Input{Forward: true, LookDX: 50})
	}
	if snap.InputLocked {
		t.Error("snapshot reports input locked while paused")
	}
	if s.Battery().Level() != level {
		t.Errorf("battery drained while paused: %v -> %v", level, s.Battery().Level())
	}
	if s.Player.Position != pos || s.Player.Yaw != yaw {
		t.Errorf("player moved while paused: %v yaw %v", s.Player.Position, s.Player.Yaw)
	}
	if got := s.Antagonist().SinceTeleport(); got != since {
		t.Errorf("teleport timer ran while paused: %v -> %v", since, got)
	}

	s.SetInputLocked(true)
	s.Tick(1.0/60, Input{})
	if s.Battery().Level() >= level {
		t.Error("battery should drain again once input is locked")
	}
}

func TestFlashlightToggle(t *testing.T) {
	s := started(t, newTestSession(t, testWorld(), Options{NoAntagonist: true}))

	var seen []float64
	s.OnFlashlight = func(v float64) { seen = append(seen, v) }

	snap := s.Tick(1, Input{ToggleFlashlight: true})
	if snap.FlashlightOn || snap.FlashlightIntensity != 0 {
		t.Fatalf("flashlight still on after toggle")
	}
	level := snap.Battery

	snap = s.Tick(10, Input{})
	if snap.Battery != level {
		t.Errorf("battery drained while off: %v -> %v", level, snap.Battery)
	}

	snap = s.Tick(1, Input{ToggleFlashlight: true})
	if !snap.FlashlightOn {
		t.Fatal("flashlight should be back on")
	}
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 1 {
		t.Errorf("OnFlashlight values = %v, want [0 1]", seen)
	}
}

func TestMovementRespectsTrees(t *testing.T) {
	w := testWorld()
	w.Campfire = mgl64.Vec3{80, 0, 80}
	w.Obstacles = []world.Obstacle{{Position: mgl64.Vec3{0, 0, 0}, Radius: 2, Kind: world.KindTree}}
	s := started(t, newTestSession(t, w, Options{NoAntagonist: true}))

	// Yaw 0 walks straight down -Z into the tree
	for i := 0; i < 120; i++ {
		s.Tick(1.0/60, Input{Forward: true})
		if d := geom.PlanarDistance(s.Player.Position, w.Obstacles[0].Position); d < 2-1e-9 {
			t.Fatalf("tick %d: player %v inside tree (d=%v)", i, s.Player.Position, d)
		}
	}
	if s.Player.Position.Y() != 1.7 {
		t.Errorf("height changed to %v", s.Player.Position.Y())
	}
}

func TestMapToggleAndMarkers(t *testing.T) {
	s := started(t, newTestSession(t, testWorld(mgl64.Vec3{30, 1.5, 30}), Options{NoAntagonist: true}))

	snap := s.Tick(0.016, Input{ToggleMap: true})
	if !snap.MapVisible {
		t.Error("map should be visible after toggle")
	}

	kinds := map[MarkerKind]int{}
	for _, m := range snap.Markers {
		kinds[m.Kind]++
	}
	if kinds[MarkerPlayer] != 1 || kinds[MarkerCampfire] != 1 || kinds[MarkerHouse] != 1 || kinds[MarkerPage] != 1 {
		t.Errorf("markers = %v", kinds)
	}

	snap = s.Tick(0.016, Input{ToggleMap: true})
	if snap.MapVisible {
		t.Error("map should be hidden after second toggle")
	}
}

func TestMessagesExpire(t *testing.T) {
	s := newTestSession(t, testWorld(), Options{NoAntagonist: true})
	s.ShowMessage("hello")

	snap := s.Tick(1, Input{})
	if len(snap.Messages) != 1 || snap.Messages[0].TimeLeft != 2 {
		t.Fatalf("messages = %+v", snap.Messages)
	}
	snap = s.Tick(2.5, Input{})
	if len(snap.Messages) != 0 {
		t.Errorf("message should have expired: %+v", snap.Messages)
	}
}

func TestNewFromSeedIsReproducible(t *testing.T) {
	cfg := simulation.DefaultConfig()
	a := NewFromSeed(cfg, 99, Options{Logger: logger.Discard()})
	b := NewFromSeed(cfg, 99, Options{Logger: logger.Discard()})

	if a.World.Campfire != b.World.Campfire || len(a.World.Obstacles) != len(b.World.Obstacles) {
		t.Error("same seed produced different forests")
	}
	if a.ID == b.ID {
		t.Error("sessions should get distinct IDs")
	}
}
