package game

import (
	"chosenoffset.com/pinewood/internal/render"
	"chosenoffset.com/pinewood/internal/session"
)

// keyTurnPixels is how far the arrow keys turn per tick, in pointer pixels.
const keyTurnPixels = 8

// InputSampler turns the device state into one session.Input per tick.
// Look input is the pointer delta since the previous sample and only counts
// while the pointer is captured.
type InputSampler struct {
	input  render.InputManager
	lastX  int
	lastY  int
	primed bool
}

// NewInputSampler creates a sampler over an input manager
func NewInputSampler(input render.InputManager) *InputSampler {
	return &InputSampler{input: input}
}

// Sample reads the devices once
func (s *InputSampler) Sample() session.Input {
	im := s.input
	in := session.Input{
		Forward:          im.IsKeyPressed(render.KeyW) || im.IsKeyPressed(render.KeyUp),
		Backward:         im.IsKeyPressed(render.KeyS) || im.IsKeyPressed(render.KeyDown),
		Left:             im.IsKeyPressed(render.KeyA),
		Right:            im.IsKeyPressed(render.KeyD),
		ToggleFlashlight: im.IsKeyJustPressed(render.KeyF),
		ToggleMap:        im.IsKeyJustPressed(render.KeyM),
		Interact:         im.IsKeyJustPressed(render.KeyE),
	}

	if im.IsCursorCaptured() {
		x, y := im.GetCursorPosition()
		// The first sample after capture only establishes the origin.
		if s.primed {
			in.LookDX = float64(x - s.lastX)
			in.LookDY = float64(y - s.lastY)
		}
		s.lastX, s.lastY, s.primed = x, y, true
	} else {
		s.primed = false
	}

	if im.IsKeyPressed(render.KeyLeft) {
		in.LookDX -= keyTurnPixels
	}
	if im.IsKeyPressed(render.KeyRight) {
		in.LookDX += keyTurnPixels
	}
	return in
}
