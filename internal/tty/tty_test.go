package tty

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/pinewood/internal/battery"
	"chosenoffset.com/pinewood/internal/session"
	"chosenoffset.com/pinewood/internal/simulation"
	"chosenoffset.com/pinewood/internal/world"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func rowText(screen tcell.Screen, row int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for col := 0; col < w; col++ {
		r, _, _, _ := screen.GetContent(col, row)
		b.WriteRune(r)
	}
	return b.String()
}

func TestKeysHoldThenRelease(t *testing.T) {
	k := NewKeys()
	k.Press(ActionForward)
	for i := 0; i < holdTicks; i++ {
		if !k.Sample().Forward {
			t.Fatalf("tick %d: forward released early", i)
		}
	}
	if k.Sample().Forward {
		t.Error("forward still held after the latch expired")
	}
}

func TestKeysRepeatExtendsHold(t *testing.T) {
	k := NewKeys()
	k.Press(ActionLeft)
	for i := 0; i < 3*holdTicks; i++ {
		if i%5 == 0 {
			k.Press(ActionLeft)
		}
		if !k.Sample().Left {
			t.Fatalf("tick %d: repeated key dropped", i)
		}
	}
}

func TestKeysTogglesFireOnce(t *testing.T) {
	k := NewKeys()
	k.Press(ActionFlashlight)
	k.Press(ActionInteract)
	in := k.Sample()
	if !in.ToggleFlashlight || !in.Interact {
		t.Fatalf("toggles missing from first sample: %+v", in)
	}
	if in := k.Sample(); in.ToggleFlashlight || in.Interact {
		t.Errorf("toggles repeated: %+v", in)
	}
}

func TestKeysTurn(t *testing.T) {
	k := NewKeys()
	k.Press(ActionTurnRight)
	if got := k.Sample().LookDX; got != turnCells {
		t.Errorf("LookDX = %v, want %v", got, turnCells)
	}
}

func TestBatteryBar(t *testing.T) {
	tests := []struct {
		fill float64
		want string
	}{
		{1, "[██████████]"},
		{0.5, "[█████░░░░░]"},
		{0, "[░░░░░░░░░░]"},
		{1.5, "[██████████]"},
	}
	for _, tt := range tests {
		if got := BatteryBar(tt.fill, 10); got != tt.want {
			t.Errorf("BatteryBar(%v) = %q, want %q", tt.fill, got, tt.want)
		}
	}
}

func testSnapshot() session.Snapshot {
	return session.Snapshot{
		Phase:               session.Running,
		Player:              session.Player{Position: mgl64.Vec3{0, 1.7, 0}},
		Forward:             mgl64.Vec3{0, 0, -1},
		Battery:             80,
		BatteryBand:         battery.BandNormal,
		FlashlightOn:        true,
		FlashlightIntensity: 1,
		PageCounter:         "Pages: 0 / 3",
		Campfire:            mgl64.Vec3{1000, 0, 1000},
		Bound:               98,
		Obstacles: []world.Obstacle{
			{Position: mgl64.Vec3{0, 0, -6}, Radius: 2, Kind: world.KindTree},
			{Position: mgl64.Vec3{0, 0, 6}, Radius: 2, Kind: world.KindTree},
		},
	}
}

func TestViewLightsOnlyTheBeam(t *testing.T) {
	screen := newScreen(t)
	NewView(screen).Draw(testSnapshot())

	cx, cy := 40, (24-statusRows)/2
	if r, _, _, _ := screen.GetContent(cx, cy); r != '↑' {
		t.Errorf("player glyph = %q, want ↑", r)
	}
	if r, _, _, _ := screen.GetContent(cx, cy-3); r != '♣' {
		t.Errorf("tree ahead = %q, want ♣", r)
	}
	if r, _, _, _ := screen.GetContent(cx, cy+3); r == '♣' {
		t.Error("tree behind the player should be dark")
	}
}

func TestViewFlashlightOff(t *testing.T) {
	screen := newScreen(t)
	snap := testSnapshot()
	snap.FlashlightOn = false
	snap.FlashlightIntensity = 0
	NewView(screen).Draw(snap)

	if r, _, _, _ := screen.GetContent(40, (24-statusRows)/2-3); r == '♣' {
		t.Error("tree should be dark with the flashlight off")
	}
}

func TestViewStatusLine(t *testing.T) {
	screen := newScreen(t)
	snap := testSnapshot()
	snap.Messages = []session.Message{{Text: "Page found", TimeLeft: 2, MaxTime: 3}}
	NewView(screen).Draw(snap)

	status := rowText(screen, 24-statusRows)
	if !strings.Contains(status, "Pages: 0 / 3") {
		t.Errorf("status line %q missing page counter", status)
	}
	if !strings.Contains(status, "80%") {
		t.Errorf("status line %q missing battery percent", status)
	}
	if msg := rowText(screen, 24-1); !strings.Contains(msg, "Page found") {
		t.Errorf("message line %q missing message", msg)
	}
}

func TestViewBanner(t *testing.T) {
	screen := newScreen(t)
	snap := testSnapshot()
	snap.Phase = session.Over
	snap.Outcome = session.OutcomeCaught
	snap.Banner = session.BannerCaught
	NewView(screen).Draw(snap)

	var found bool
	for row := 0; row < 24; row++ {
		if strings.Contains(rowText(screen, row), "YOU WERE CAUGHT") {
			found = true
		}
	}
	if !found {
		t.Error("banner title not drawn")
	}
}

func TestAppStartAndQuit(t *testing.T) {
	screen := newScreen(t)
	s := session.NewFromSeed(simulation.DefaultConfig(), 3, session.Options{})
	app := NewApp(screen, s, nil)

	app.Step()
	if s.Phase() != session.Idle {
		t.Fatal("ticking before start should not start the session")
	}

	if err := app.Apply(ActionStart); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !app.Started() || s.Phase() != session.Running {
		t.Fatalf("session phase = %v, want running", s.Phase())
	}
	// A second Enter while playing is ignored
	if err := app.Apply(ActionStart); err != nil {
		t.Errorf("second start: %v", err)
	}

	app.Apply(ActionForward)
	before := s.Player.Position
	for i := 0; i < 5; i++ {
		app.Step()
	}
	if s.Player.Position == before {
		t.Error("forward key should move the player")
	}

	app.Apply(ActionQuit)
	if !app.Quit() {
		t.Error("quit not recorded")
	}
}

func TestViewTreeCastsShadow(t *testing.T) {
	screen := newScreen(t)
	snap := testSnapshot()
	// A page directly behind the near tree stays dark
	snap.ActivePages = []mgl64.Vec3{{0, 0.5, -14}}
	NewView(screen).Draw(snap)

	cx, cy := 40, (24-statusRows)/2
	if r, _, _, _ := screen.GetContent(cx, cy-7); r == '?' {
		t.Error("page behind a tree should be in shadow")
	}

	// Without the tree the page is visible
	snap.Obstacles = snap.Obstacles[1:]
	NewView(screen).Draw(snap)
	if r, _, _, _ := screen.GetContent(cx, cy-7); r != '?' {
		t.Errorf("page glyph = %q, want ?", r)
	}
}

func TestEventPumpStopsWhenCancelled(t *testing.T) {
	screen := newScreen(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
		t.Fatalf("PostEvent: %v", err)
	}

	// Nobody reads events, so only the cancelled context can end the send.
	events := make(chan tcell.Event)
	done := make(chan struct{})
	go func() {
		pumpEvents(ctx, screen, events)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event pump blocked after cancellation")
	}
	if _, ok := <-events; ok {
		t.Error("events channel should be closed")
	}
}
