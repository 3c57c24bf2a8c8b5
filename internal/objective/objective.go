// Package objective tracks collected pages and the campfire delivery that
// wins the game.
package objective

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/pinewood/internal/core/geom"
	"chosenoffset.com/pinewood/internal/simulation"
	"chosenoffset.com/pinewood/internal/world"
)

// Tracker counts pages and gates delivery at a single delivery point
type Tracker struct {
	config    simulation.ObjectiveConfig
	delivery  mgl64.Vec3
	collected int
	delivered bool
}

// NewTracker creates a tracker for the given delivery point
func NewTracker(config simulation.ObjectiveConfig, delivery mgl64.Vec3) *Tracker {
	return &Tracker{config: config, delivery: delivery}
}

// Collected returns the number of pages picked up
func (t *Tracker) Collected() int {
	return t.collected
}

// Required returns how many pages unlock delivery
func (t *Tracker) Required() int {
	return t.config.RequiredPages
}

// Remaining returns pages still needed before delivery
func (t *Tracker) Remaining() int {
	if r := t.config.RequiredPages - t.collected; r > 0 {
		return r
	}
	return 0
}

// CanDeliver reports whether enough pages have been collected
func (t *Tracker) CanDeliver() bool {
	return t.collected >= t.config.RequiredPages
}

// Delivered reports whether the pages have been burned
func (t *Tracker) Delivered() bool {
	return t.delivered
}

// CounterText is the page counter shown on the HUD
func (t *Tracker) CounterText() string {
	return fmt.Sprintf("Pages: %d / %d", t.collected, t.config.RequiredPages)
}

// TryCollect picks up every uncollected page within reach. Each page is
// tested on its own distance, so the result does not depend on slice order.
func (t *Tracker) TryCollect(player mgl64.Vec3, pages []*world.Page) []*world.Page {
	var picked []*world.Page
	for _, p := range pages {
		if p.Collected {
			continue
		}
		if geom.PlanarDistance(player, p.Position) < t.config.PickupRadius {
			p.Collected = true
			t.collected++
			picked = append(picked, p)
		}
	}
	return picked
}

// InDeliveryRange reports whether the player stands close enough to the campfire
func (t *Tracker) InDeliveryRange(player mgl64.Vec3) bool {
	return geom.PlanarDistance(player, t.delivery) <= t.config.DeliveryRadius
}

// TryDeliver burns the pages when the threshold is met, the player is at the
// campfire, and interact was pressed. It succeeds at most once.
func (t *Tracker) TryDeliver(player mgl64.Vec3, interact bool) bool {
	if t.delivered || !interact || !t.CanDeliver() || !t.InDeliveryRange(player) {
		return false
	}
	t.delivered = true
	return true
}
