// Package world generates the static forest a session is played in: trees and
// the house footprint as collision obstacles, the campfire delivery point, and
// the pages hidden beside trees.
package world

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/pinewood/internal/core/geom"
	"chosenoffset.com/pinewood/internal/simulation"
)

// ObstacleKind tells the views what an obstacle is. Collision ignores it.
type ObstacleKind int

const (
	KindTree ObstacleKind = iota
	KindHouse
)

// Obstacle is a circular collision footprint on the ground plane
type Obstacle struct {
	Position mgl64.Vec3
	Radius   float64
	Kind     ObstacleKind
}

// Page is a collectible
type Page struct {
	ID        int
	Position  mgl64.Vec3
	Collected bool
}

// World is the generated layout. Obstacles never change after generation.
type World struct {
	Obstacles []Obstacle
	Pages     []*Page
	House     mgl64.Vec3
	Campfire  mgl64.Vec3
	Spawn     mgl64.Vec3
}

// Generator places everything with a single seeded source so a seed reproduces a forest.
type Generator struct {
	config simulation.WorldConfig
	rng    *rand.Rand
}

// NewGenerator creates a forest generator
func NewGenerator(config simulation.WorldConfig, rng *rand.Rand) *Generator {
	return &Generator{config: config, rng: rng}
}

// Generate builds a new world
func (g *Generator) Generate() *World {
	spawn := mgl64.Vec3{g.config.PlayerSpawn[0], g.config.PlayerSpawn[1], g.config.PlayerSpawn[2]}

	w := &World{Spawn: spawn}
	w.House = g.placeHouse()
	w.Campfire = g.placeCampfire(w.House)

	w.Obstacles = append(w.Obstacles, Obstacle{Position: w.House, Radius: g.config.HouseRadius, Kind: KindHouse})
	trees := g.placeTrees(w.House, w.Campfire)
	w.Obstacles = append(w.Obstacles, trees...)

	w.Pages = g.placePages(trees)
	return w
}

// randomGround returns a uniform point in [-extent, extent] on X and Z.
func (g *Generator) randomGround(extent float64) mgl64.Vec3 {
	x := (g.rng.Float64()*2 - 1) * extent
	z := (g.rng.Float64()*2 - 1) * extent
	return mgl64.Vec3{x, 0, z}
}

// placeHouse samples until the house is far enough from the spawn.
// After the attempt cap the last sample is used.
func (g *Generator) placeHouse() mgl64.Vec3 {
	extent := g.config.TreeSpread - g.config.HouseRadius
	var pos mgl64.Vec3
	for attempt := 0; attempt < g.config.PlacementAttempts; attempt++ {
		pos = g.randomGround(extent)
		if geom.PlanarDistance(pos, mgl64.Vec3{}) >= g.config.HouseMinDistance {
			return pos
		}
	}
	return pos
}

// placeCampfire samples until the fire is far from the spawn and clear of the house.
// After the attempt cap the last sample is used.
func (g *Generator) placeCampfire(house mgl64.Vec3) mgl64.Vec3 {
	extent := g.config.TreeSpread - g.config.CampfireClearing
	minHouse := g.config.CampfireHouseDist + g.config.HouseRadius
	var pos mgl64.Vec3
	for attempt := 0; attempt < g.config.PlacementAttempts; attempt++ {
		pos = g.randomGround(extent)
		if geom.PlanarDistance(pos, mgl64.Vec3{}) >= g.config.CampfireMinDist &&
			geom.PlanarDistance(pos, house) >= minHouse {
			return pos
		}
	}
	return pos
}

// placeTrees scatters trees outside the spawn clearing, the house and the campfire.
// A tree that finds no valid spot within the attempt cap is dropped.
func (g *Generator) placeTrees(house, campfire mgl64.Vec3) []Obstacle {
	trees := make([]Obstacle, 0, g.config.TreeCount)
	clearing := g.config.SpawnClearing
	houseClear := g.config.HouseRadius + g.config.TreeRadius
	fireClear := g.config.CampfireClearing + g.config.TreeRadius

	for i := 0; i < g.config.TreeCount; i++ {
		for attempt := 0; attempt < g.config.PlacementAttempts; attempt++ {
			pos := g.randomGround(g.config.TreeSpread)
			if math.Abs(pos.X()) < clearing && math.Abs(pos.Z()) < clearing {
				continue
			}
			if geom.PlanarDistance(pos, house) < houseClear || geom.PlanarDistance(pos, campfire) < fireClear {
				continue
			}
			trees = append(trees, Obstacle{Position: pos, Radius: g.config.TreeRadius, Kind: KindTree})
			break
		}
	}
	return trees
}

// placePages pins pages to candidate trees. Each candidate has an independent
// chance; once the remaining candidates only just cover the pages still
// missing, every one of them gets a page so the cap is always reached.
func (g *Generator) placePages(trees []Obstacle) []*Page {
	want := g.config.MaxPages
	if want > len(trees) {
		want = len(trees)
	}

	pages := make([]*Page, 0, want)
	for i, tree := range trees {
		need := want - len(pages)
		if need <= 0 {
			break
		}
		remaining := len(trees) - i
		if remaining > need && g.rng.Float64() >= g.config.PageSpawnChance {
			continue
		}

		angle := g.rng.Float64() * 2 * math.Pi
		offset := mgl64.Vec3{math.Cos(angle), 0, math.Sin(angle)}.Mul(g.config.PageOffset)
		pos := tree.Position.Add(offset)
		pages = append(pages, &Page{
			ID:       len(pages),
			Position: mgl64.Vec3{pos.X(), g.config.PageHeight, pos.Z()},
		})
	}
	return pages
}

// ActivePages returns pages that have not been picked up
func (w *World) ActivePages() []*Page {
	active := make([]*Page, 0, len(w.Pages))
	for _, p := range w.Pages {
		if !p.Collected {
			active = append(active, p)
		}
	}
	return active
}

// RemoveCollected drops collected pages from the active set
func (w *World) RemoveCollected() {
	w.Pages = w.ActivePages()
}

// Trees returns the tree obstacles only
func (w *World) Trees() []Obstacle {
	var trees []Obstacle
	for _, o := range w.Obstacles {
		if o.Kind == KindTree {
			trees = append(trees, o)
		}
	}
	return trees
}
