// Package tty plays a session in a terminal. It shares the session, lighting
// and HUD derivation with the graphical front end and draws with tcell.
package tty

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/pinewood/internal/platform/logger"
	"chosenoffset.com/pinewood/internal/session"
)

// tickRate is the fixed simulation step
const tickRate = time.Second / 60

// App runs one session in a terminal
type App struct {
	screen  tcell.Screen
	session *session.Session
	view    *View
	keys    *Keys
	log     *logger.Logger
	started bool
	quit    bool
}

// NewApp creates an app over an initialized screen
func NewApp(screen tcell.Screen, s *session.Session, log *logger.Logger) *App {
	if log == nil {
		log = logger.Discard()
	}
	return &App{
		screen:  screen,
		session: s,
		view:    NewView(screen),
		keys:    NewKeys(),
		log:     log,
	}
}

// pumpEvents forwards screen events until the screen is finalized or ctx is
// cancelled, then closes events.
func pumpEvents(ctx context.Context, screen tcell.Screen, events chan<- tcell.Event) {
	defer close(events)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Run drives the session until the player quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go pumpEvents(ctx, a.screen, events)

	a.view.DrawTitle(a.session.Objectives().Required())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := a.HandleEvent(ev); err != nil {
				return err
			}
			if a.quit {
				return nil
			}
		case <-ticker.C:
			a.Step()
		}
	}
}

// HandleEvent applies one terminal event
func (a *App) HandleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.Apply(ActionFor(ev))
	case *tcell.EventResize:
		a.screen.Sync()
		if !a.started {
			a.view.DrawTitle(a.session.Objectives().Required())
		}
	}
	return nil
}

// Apply performs a key action
func (a *App) Apply(action Action) error {
	switch {
	case action == ActionQuit:
		a.quit = true
	case action == ActionStart && !a.started:
		return a.start()
	default:
		a.keys.Press(action)
	}
	return nil
}

func (a *App) start() error {
	if err := a.session.Start(); err != nil {
		if errors.Is(err, session.ErrAssetsPending) {
			return nil
		}
		return err
	}
	a.started = true
	a.log.Infof("Session %s started in terminal", a.session.ID)
	return nil
}

// Step advances one tick and redraws. Nothing moves before the player starts.
func (a *App) Step() {
	if !a.started {
		return
	}
	snap := a.session.Tick(tickRate.Seconds(), a.keys.Sample())
	a.view.Draw(snap)
}

// Started reports whether the player has started the session
func (a *App) Started() bool {
	return a.started
}

// Quit reports whether the player asked to leave
func (a *App) Quit() bool {
	return a.quit
}
