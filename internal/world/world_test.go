package world

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/pinewood/internal/core/geom"
	"chosenoffset.com/pinewood/internal/simulation"
)

func generate(t *testing.T, cfg simulation.WorldConfig, seed int64) *World {
	t.Helper()
	return NewGenerator(cfg, rand.New(rand.NewSource(seed))).Generate()
}

func TestGenerateReachesPageCap(t *testing.T) {
	cfg := simulation.DefaultConfig().World
	for seed := int64(1); seed <= 20; seed++ {
		w := generate(t, cfg, seed)
		if len(w.Pages) != cfg.MaxPages {
			t.Fatalf("seed %d: got %d pages, want %d", seed, len(w.Pages), cfg.MaxPages)
		}
	}
}

func TestGenerateForcesPagesWithZeroChance(t *testing.T) {
	cfg := simulation.DefaultConfig().World
	cfg.PageSpawnChance = 0

	w := generate(t, cfg, 7)
	if len(w.Pages) != cfg.MaxPages {
		t.Fatalf("got %d pages, want forced %d", len(w.Pages), cfg.MaxPages)
	}

	// Forced placement uses the last candidates
	trees := w.Trees()
	last := trees[len(trees)-1]
	if d := geom.PlanarDistance(w.Pages[len(w.Pages)-1].Position, last.Position); math.Abs(d-cfg.PageOffset) > 1e-9 {
		t.Errorf("last page is %v from the last tree, want %v", d, cfg.PageOffset)
	}
}

func TestGenerateKeepsSpawnClear(t *testing.T) {
	cfg := simulation.DefaultConfig().World
	w := generate(t, cfg, 3)

	for _, tree := range w.Trees() {
		if math.Abs(tree.Position.X()) < cfg.SpawnClearing && math.Abs(tree.Position.Z()) < cfg.SpawnClearing {
			t.Fatalf("tree at %v inside spawn clearing", tree.Position)
		}
		if math.Abs(tree.Position.X()) > cfg.TreeSpread || math.Abs(tree.Position.Z()) > cfg.TreeSpread {
			t.Fatalf("tree at %v outside spread", tree.Position)
		}
		if geom.PlanarDistance(tree.Position, w.Campfire) < cfg.CampfireClearing+cfg.TreeRadius {
			t.Fatalf("tree at %v crowds the campfire", tree.Position)
		}
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	cfg := simulation.DefaultConfig().World
	a := generate(t, cfg, 42)
	b := generate(t, cfg, 42)

	if a.House != b.House || a.Campfire != b.Campfire {
		t.Fatal("same seed produced different landmarks")
	}
	if len(a.Obstacles) != len(b.Obstacles) {
		t.Fatal("same seed produced different tree counts")
	}
}

func TestCampfireFallsBackToLastAttempt(t *testing.T) {
	cfg := simulation.DefaultConfig().World
	// Impossible constraint: nothing in the forest is this far from the origin.
	cfg.CampfireMinDist = 1000
	cfg.PlacementAttempts = 3

	w := generate(t, cfg, 11)
	if w.Campfire == (mgl64.Vec3{}) {
		t.Fatal("campfire should still be placed after the attempt cap")
	}
}

func TestRemoveCollected(t *testing.T) {
	w := &World{Pages: []*Page{{ID: 0}, {ID: 1, Collected: true}, {ID: 2}}}
	w.RemoveCollected()

	if len(w.Pages) != 2 {
		t.Fatalf("expected 2 active pages, got %d", len(w.Pages))
	}
	for _, p := range w.Pages {
		if p.Collected {
			t.Errorf("page %d should have been removed", p.ID)
		}
	}
}
