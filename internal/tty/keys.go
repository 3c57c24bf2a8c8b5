package tty

import (
	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/pinewood/internal/session"
)

// holdTicks is how long a movement key counts as held after its last press.
// Terminals only report presses, so key repeat has to bridge the gaps.
const holdTicks = 9

// turnCells is the look delta per held turn key per tick, in pointer pixels.
const turnCells = 12

// Action is what a key does in the game
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBackward
	ActionLeft
	ActionRight
	ActionTurnLeft
	ActionTurnRight
	ActionFlashlight
	ActionMap
	ActionInteract
	ActionStart
	ActionQuit
)

// ActionFor maps a key event to a game action
func ActionFor(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyUp:
		return ActionForward
	case tcell.KeyDown:
		return ActionBackward
	case tcell.KeyLeft:
		return ActionTurnLeft
	case tcell.KeyRight:
		return ActionTurnRight
	case tcell.KeyEnter:
		return ActionStart
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return ActionForward
		case 's', 'S':
			return ActionBackward
		case 'a', 'A':
			return ActionLeft
		case 'd', 'D':
			return ActionRight
		case 'q', 'Q', ',':
			return ActionTurnLeft
		case 'r', 'R', '.':
			return ActionTurnRight
		case 'f', 'F':
			return ActionFlashlight
		case 'm', 'M':
			return ActionMap
		case 'e', 'E', ' ':
			return ActionInteract
		}
	}
	return ActionNone
}

// Keys latches key presses into per-tick input
type Keys struct {
	held    map[Action]int
	toggles map[Action]bool
}

// NewKeys creates an empty latch
func NewKeys() *Keys {
	return &Keys{held: make(map[Action]int), toggles: make(map[Action]bool)}
}

// Press records a key press
func (k *Keys) Press(a Action) {
	switch a {
	case ActionFlashlight, ActionMap, ActionInteract:
		k.toggles[a] = true
	case ActionNone, ActionStart, ActionQuit:
	default:
		k.held[a] = holdTicks
	}
}

// Sample builds the input for one tick and ages the latched keys.
func (k *Keys) Sample() session.Input {
	in := session.Input{
		Forward:          k.held[ActionForward] > 0,
		Backward:         k.held[ActionBackward] > 0,
		Left:             k.held[ActionLeft] > 0,
		Right:            k.held[ActionRight] > 0,
		ToggleFlashlight: k.toggles[ActionFlashlight],
		ToggleMap:        k.toggles[ActionMap],
		Interact:         k.toggles[ActionInteract],
	}
	if k.held[ActionTurnLeft] > 0 {
		in.LookDX -= turnCells
	}
	if k.held[ActionTurnRight] > 0 {
		in.LookDX += turnCells
	}

	for a, n := range k.held {
		if n <= 1 {
			delete(k.held, a)
		} else {
			k.held[a] = n - 1
		}
	}
	clear(k.toggles)
	return in
}
