package game

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrQuit is returned from Update when the player leaves the game.
var ErrQuit = errors.New("game: quit")

// State is the front end's screen
type State int

const (
	StateLoading State = iota // assets are being generated
	StateReady                // waiting for the player to start
	StatePlaying
	StateOver
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StateOver:
		return "over"
	default:
		return "unknown"
	}
}

// Camera is a top-down view centered on a ground position.
type Camera struct {
	X, Z  float64 // World position at the center of the screen
	Scale float64 // Pixels per world unit
}

// ToScreen projects a world position onto a screen of the given size.
// World X maps to screen X and world Z to screen Y.
func (c Camera) ToScreen(p mgl64.Vec3, width, height int) (float64, float64) {
	return (p.X()-c.X)*c.Scale + float64(width)/2, (p.Z()-c.Z)*c.Scale + float64(height)/2
}

// Visible reports whether a circle of world radius r around p is on screen.
func (c Camera) Visible(p mgl64.Vec3, r float64, width, height int) bool {
	x, y := c.ToScreen(p, width, height)
	m := r * c.Scale
	return x+m >= 0 && y+m >= 0 && x-m <= float64(width) && y-m <= float64(height)
}
