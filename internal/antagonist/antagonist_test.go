package antagonist

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/pinewood/internal/core/geom"
	"chosenoffset.com/pinewood/internal/simulation"
)

var (
	eye   = mgl64.Vec3{0, 1.7, 0}
	north = mgl64.Vec3{0, 0, -1}
)

func newController(seed int64) *Controller {
	cfg := simulation.DefaultConfig()
	return NewController(cfg.Antagonist, cfg.Movement.BoundHalfExtent, rand.New(rand.NewSource(seed)))
}

// atGaze returns a point dist away from eye whose gaze from a north-facing player equals dot.
func atGaze(dist, dot float64) mgl64.Vec3 {
	side := math.Sqrt(1 - dot*dot)
	return eye.Add(mgl64.Vec3{side, 0, -dot}.Mul(dist))
}

func TestDistantUnseenAntagonistIsHarmless(t *testing.T) {
	c := newController(1)
	c.Place(eye.Add(mgl64.Vec3{0, 0, 25})) // directly behind

	res := c.Update(Frame{Dt: 0.016, Player: eye, Forward: north})
	if res.BaseThreat != 0 {
		t.Errorf("base threat = %v, want 0", res.BaseThreat)
	}
	if res.Threat > simulation.DefaultConfig().Antagonist.JitterAmplitude {
		t.Errorf("threat %v exceeds jitter amplitude", res.Threat)
	}
	if res.Caught {
		t.Error("antagonist at 25 units behind should not catch the player")
	}
}

func TestCloseGazeCatches(t *testing.T) {
	c := newController(1)
	c.Place(atGaze(5, 0.9))

	res := c.Update(Frame{Dt: 0.016, Player: eye, Forward: north})
	if math.Abs(res.Distance-5) > 1e-9 || math.Abs(res.Gaze-0.9) > 1e-9 {
		t.Fatalf("scene setup wrong: distance %v gaze %v", res.Distance, res.Gaze)
	}
	if !res.Caught {
		t.Fatal("distance 5 with gaze 0.9 should catch the player")
	}
}

func TestCatchThresholds(t *testing.T) {
	c := newController(1)
	tests := []struct {
		name     string
		distance float64
		gaze     float64
		want     bool
	}{
		{"close and staring", 5, 0.9, true},
		{"close but looking away", 5, 0.6, false},
		{"staring but too far", 9, 0.95, false},
		{"at the catch distance", 8, 0.95, false},
		{"at the gaze threshold", 5, 0.7, false},
	}
	for _, tt := range tests {
		if got := c.IsCatch(tt.distance, tt.gaze); got != tt.want {
			t.Errorf("%s: IsCatch(%v, %v) = %v, want %v", tt.name, tt.distance, tt.gaze, got, tt.want)
		}
	}
}

func TestBaseThreatComponents(t *testing.T) {
	c := newController(1)
	tests := []struct {
		name     string
		distance float64
		gaze     float64
		want     float64
	}{
		{"beyond both ranges", 45, 1, 0},
		{"at proximity range, unseen", 20, 0, 0},
		{"halfway in, unseen", 10, 0, 0.5},
		{"gaze only, at cutoff", 30, 0.5, 0},
		{"gaze only, full stare", 30, 1, 1},
		{"gaze only, partial", 30, 0.75, 0.5},
		{"both", 10, 1, 1.5},
	}
	for _, tt := range tests {
		if got := c.BaseThreat(tt.distance, tt.gaze); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: BaseThreat(%v, %v) = %v, want %v", tt.name, tt.distance, tt.gaze, got, tt.want)
		}
	}
}

func TestThreatAlwaysBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	c := newController(2)
	for i := 0; i < 2000; i++ {
		pos := mgl64.Vec3{rng.Float64()*60 - 30, 1.7, rng.Float64()*60 - 30}
		c.Place(pos)
		yaw := rng.Float64() * 2 * math.Pi
		res := c.Update(Frame{Dt: 0.016, Player: eye, Forward: geom.Forward(yaw, 0)})
		if res.Threat < 0 || res.Threat > 0.8 {
			t.Fatalf("threat %v outside [0, 0.8]", res.Threat)
		}
	}
}

func TestDormantUntilFirstTeleport(t *testing.T) {
	c := newController(3)
	if c.State() != Dormant {
		t.Fatalf("new controller state = %v, want dormant", c.State())
	}
	start := c.Position()

	f := Frame{Dt: 1, Player: eye, Forward: north}
	for i := 0; i < 15; i++ {
		res := c.Update(f)
		if res.Teleported || res.Threat != 0 {
			t.Fatalf("tick %d: dormant antagonist teleported=%v threat=%v", i, res.Teleported, res.Threat)
		}
	}
	if c.Position() != start {
		t.Fatal("dormant antagonist moved without teleporting")
	}

	res := c.Update(f)
	if !res.Teleported {
		t.Fatal("expected first teleport once 15s had passed")
	}
	if c.State() != Active {
		t.Errorf("state after teleport = %v, want active", c.State())
	}
	if c.SinceTeleport() != 0 {
		t.Errorf("timer = %v after teleport, want 0", c.SinceTeleport())
	}
}

func TestTeleportIntervalShrinksWithPages(t *testing.T) {
	c := newController(4)
	want := map[int]float64{0: 15, 1: 10, 2: 5, 3: 2.5, 4: 2.5}
	for pages, interval := range want {
		if got := c.Interval(pages); got != interval {
			t.Errorf("Interval(%d) = %v, want %v", pages, got, interval)
		}
	}
}

func TestTeleportPlacement(t *testing.T) {
	cfg := simulation.DefaultConfig().Antagonist
	for pages := 0; pages <= 4; pages++ {
		c := newController(int64(10 + pages))
		player := mgl64.Vec3{12, 1.7, -30}
		f := Frame{Dt: 20, Player: player, Forward: north, Pages: pages}

		for i := 0; i < 200; i++ {
			res := c.Update(f)
			if res.Caught {
				// A teleport straight ahead can land inside the catch rule on the next tick.
				c.Place(player.Add(mgl64.Vec3{0, 0, 30}))
				continue
			}
			if !res.Teleported {
				t.Fatalf("pages %d: expected teleport with dt above the interval", pages)
			}

			pos := c.Position()
			d := geom.PlanarDistance(player, pos)
			min := cfg.MinSpawnDistance
			if pages < cfg.EarlyGamePages {
				min = cfg.SafeDistance
			}
			if d < min-1e-9 || d > cfg.MaxSpawnDistance+1e-9 {
				t.Fatalf("pages %d: spawn distance %v outside [%v, %v]", pages, d, min, cfg.MaxSpawnDistance)
			}
			if pos.Y() != cfg.SpawnHeight {
				t.Fatalf("spawn height %v, want %v", pos.Y(), cfg.SpawnHeight)
			}
		}
	}
}

func TestTeleportAheadLandsInView(t *testing.T) {
	cfg := simulation.DefaultConfig()
	cfg.Antagonist.AheadBase = 1
	cfg.Antagonist.AheadMax = 1
	c := NewController(cfg.Antagonist, cfg.Movement.BoundHalfExtent, rand.New(rand.NewSource(5)))

	forward := geom.Forward(0.4, 0)
	res := c.Update(Frame{Dt: 16, Player: eye, Forward: forward})
	if !res.Teleported {
		t.Fatal("expected a teleport")
	}
	if g := Gaze(eye, forward, c.Position()); g < 0.999 {
		t.Errorf("ahead spawn gaze = %v, want ~1", g)
	}
}

func TestTeleportStaysInBounds(t *testing.T) {
	c := newController(6)
	corner := mgl64.Vec3{97, 1.7, 97}
	for i := 0; i < 100; i++ {
		c.Update(Frame{Dt: 16, Player: corner, Forward: mgl64.Vec3{1, 0, 0}})
		p := c.Position()
		if math.Abs(p.X()) > 98 || math.Abs(p.Z()) > 98 {
			t.Fatalf("teleport left the playable area: %v", p)
		}
	}
}

func TestTeleportNearEdgeKeepsSpawnBand(t *testing.T) {
	cfg := simulation.DefaultConfig().Antagonist
	east := mgl64.Vec3{1, 0, 0}

	tests := []struct {
		name   string
		player mgl64.Vec3
		pages  int
		min    float64
	}{
		{"edge early game", mgl64.Vec3{95, 1.7, 0}, 0, cfg.SafeDistance},
		{"corner early game", mgl64.Vec3{97, 1.7, -97}, 1, cfg.SafeDistance},
		{"edge late game", mgl64.Vec3{95, 1.7, 0}, 3, cfg.MinSpawnDistance},
	}

	for _, tt := range tests {
		for seed := int64(0); seed < 200; seed++ {
			c := newController(seed)
			res := c.Update(Frame{Dt: 16, Player: tt.player, Forward: east, Pages: tt.pages})
			if !res.Teleported {
				t.Fatalf("%s seed %d: expected a teleport", tt.name, seed)
			}

			p := c.Position()
			if math.Abs(p.X()) > 98 || math.Abs(p.Z()) > 98 {
				t.Fatalf("%s seed %d: spawn %v outside the play area", tt.name, seed, p)
			}
			d := geom.PlanarDistance(tt.player, p)
			if d < tt.min-1e-9 || d > cfg.MaxSpawnDistance+1e-9 {
				t.Fatalf("%s seed %d: spawn distance %v outside [%v, %v]", tt.name, seed, d, tt.min, cfg.MaxSpawnDistance)
			}

			if tt.pages < cfg.EarlyGamePages {
				next := c.Update(Frame{Dt: 0.016, Player: tt.player, Forward: east, Pages: tt.pages})
				if next.Caught {
					t.Fatalf("%s seed %d: caught on the tick after spawning at %v", tt.name, seed, d)
				}
			}
		}
	}
}

func TestCatchSuppressesTeleport(t *testing.T) {
	c := newController(7)
	c.Place(atGaze(5, 0.95))
	before := c.Position()

	res := c.Update(Frame{Dt: 100, Player: eye, Forward: north})
	if !res.Caught {
		t.Fatal("expected catch")
	}
	if res.Teleported || c.Position() != before {
		t.Error("no teleport may happen on the tick the player is caught")
	}
}

func TestAlwaysFacesPlayer(t *testing.T) {
	c := newController(8)
	c.Place(mgl64.Vec3{30, 1.7, -10})
	player := mgl64.Vec3{-4, 1.7, 6}

	c.Update(Frame{Dt: 0.1, Player: player, Forward: north})
	got := geom.PlanarForward(c.Yaw())
	want := geom.SafeNormalize(geom.Planar(player.Sub(c.Position())), geom.FallbackDir)
	if !got.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("antagonist faces %v, want %v", got, want)
	}
}

func TestGazeDegenerate(t *testing.T) {
	if g := Gaze(eye, north, eye); g != 1 {
		t.Errorf("gaze at own position = %v, want 1", g)
	}
}
