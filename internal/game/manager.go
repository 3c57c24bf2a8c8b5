package game

import (
	"errors"
	"fmt"
	"image/color"

	"chosenoffset.com/pinewood/internal/assets"
	"chosenoffset.com/pinewood/internal/platform/logger"
	"chosenoffset.com/pinewood/internal/render"
	"chosenoffset.com/pinewood/internal/session"
	"chosenoffset.com/pinewood/internal/simulation"
)

// Manager handles the overall game state: loading, the start prompt,
// gameplay and the end screen.
type Manager struct {
	ScreenWidth  int
	ScreenHeight int
	State        State
	Game         *Game
	Renderer     render.Renderer
	InputMgr     render.InputManager

	Config  *simulation.Config
	Seed    int64
	Library *assets.Library
	Barrier *assets.Barrier
	Audio   session.AudioSink
	Log     *logger.Logger

	// Shader sources (passed in from main)
	LightingShaderSrc []byte

	loadErr error
}

// NewManager creates a new game manager.
func NewManager(r render.Renderer, input render.InputManager, width, height int) *Manager {
	return &Manager{
		ScreenWidth:  width,
		ScreenHeight: height,
		State:        StateLoading,
		Renderer:     r,
		InputMgr:     input,
		Config:       simulation.DefaultConfig(),
		Log:          logger.New(),
	}
}

// SetConfig sets the tuning and world seed for the session.
func (m *Manager) SetConfig(config *simulation.Config, seed int64) {
	m.Config = config
	m.Seed = seed
}

// SetAssets sets the sprite library and the barrier that gates starting.
func (m *Manager) SetAssets(lib *assets.Library, barrier *assets.Barrier) {
	m.Library = lib
	m.Barrier = barrier
}

// SetAudio sets the audio sink the session plays through.
func (m *Manager) SetAudio(audio session.AudioSink) {
	m.Audio = audio
}

// SetShaderSources sets the shader source code.
func (m *Manager) SetShaderSources(lightingSrc []byte) {
	m.LightingShaderSrc = lightingSrc
}

// Update updates the game state.
func (m *Manager) Update() error {
	switch m.State {
	case StateLoading:
		if m.Barrier == nil || m.Barrier.Err() != nil || m.loadErr != nil {
			return nil
		}
		if m.Barrier.Complete() {
			if err := m.LoadGame(); err != nil {
				m.loadErr = err
				m.Log.Errorf("Failed to load game: %v", err)
				return nil
			}
			m.State = StateReady
		}
	case StateReady:
		if m.InputMgr.IsKeyJustPressed(render.KeyEnter) || m.InputMgr.IsMouseButtonJustPressed(render.MouseButtonLeft) {
			return m.start()
		}
		if m.InputMgr.IsKeyJustPressed(render.KeyEscape) {
			return ErrQuit
		}
	case StatePlaying:
		m.handleCapture()
		if !m.InputMgr.IsCursorCaptured() {
			m.Game.Refresh()
			return nil
		}
		return m.Game.Update()
	case StateOver:
		if m.InputMgr.IsKeyJustPressed(render.KeyEscape) {
			return ErrQuit
		}
		return m.Game.Update()
	}
	return nil
}

// start begins the session. Clicking before the assets are ready is ignored.
func (m *Manager) start() error {
	err := m.Game.Session.Start()
	switch {
	case errors.Is(err, session.ErrAssetsPending):
		return nil
	case err != nil:
		return fmt.Errorf("failed to start session: %w", err)
	}
	m.InputMgr.SetCursorCaptured(true)
	m.State = StatePlaying
	return nil
}

// handleCapture lets Escape free the pointer and a click take it back. The
// session is paused while the pointer is free.
func (m *Manager) handleCapture() {
	captured := m.InputMgr.IsCursorCaptured()
	if captured && m.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		m.InputMgr.SetCursorCaptured(false)
	} else if !captured && m.InputMgr.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		m.InputMgr.SetCursorCaptured(true)
	}
	m.Game.Session.SetInputLocked(m.InputMgr.IsCursorCaptured())
}

// Draw draws the current state.
func (m *Manager) Draw(screen render.Image) {
	switch m.State {
	case StateLoading:
		m.drawLoading(screen)
	case StateReady:
		m.Game.Draw(screen)
		m.drawStartPrompt(screen, "Click or press Enter to start")
	case StatePlaying:
		m.Game.Draw(screen)
		if !m.InputMgr.IsCursorCaptured() {
			m.drawStartPrompt(screen, "Paused. Click to resume")
		}
	case StateOver:
		m.Game.Draw(screen)
	}
}

// Layout handles window resize.
func (m *Manager) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != m.ScreenWidth || outsideHeight != m.ScreenHeight {
		m.ScreenWidth = outsideWidth
		m.ScreenHeight = outsideHeight
		if m.Game != nil {
			m.Game.Resize(outsideWidth, outsideHeight)
		}
	}
	return outsideWidth, outsideHeight
}

// LoadGame builds the session and its presentation once assets are ready.
func (m *Manager) LoadGame() error {
	if err := m.Config.Validate(); err != nil {
		return fmt.Errorf("invalid tuning: %w", err)
	}

	s := session.NewFromSeed(m.Config, m.Seed, session.Options{
		Audio:  m.Audio,
		Ready:  m.Barrier,
		Logger: m.Log,
	})
	m.Log.Infof("Generated forest: seed=%d trees=%d pages=%d", m.Seed, len(s.World.Trees()), len(s.World.Pages))

	g := NewGame(s, m.Renderer, m.InputMgr, m.Library, m.ScreenWidth, m.ScreenHeight)

	if m.LightingShaderSrc != nil {
		shader, err := m.Renderer.CompileShader(m.LightingShaderSrc)
		if err != nil {
			// Fall back to block shading rather than refusing to play
			m.Log.Warnf("Failed to compile lighting shader: %v", err)
		} else {
			g.LightingShader = shader
		}
	}

	s.OnRelease = func() {
		m.InputMgr.SetCursorCaptured(false)
	}
	s.OnOutcome = func(o session.Outcome) {
		m.State = StateOver
	}

	m.Game = g
	m.Log.Info("Game loaded successfully")
	return nil
}

func (m *Manager) drawLoading(screen render.Image) {
	screen.Fill(color.RGBA{5, 8, 5, 255})
	w, h := screen.Size()

	err := m.loadErr
	if err == nil && m.Barrier != nil {
		err = m.Barrier.Err()
	}
	if err != nil {
		msg := fmt.Sprintf("Failed to load: %v", err)
		tw, _ := m.Renderer.MeasureText(msg, 1.2)
		m.Renderer.DrawText(screen, msg, (w-tw)/2, h/2, color.RGBA{230, 70, 60, 255}, 1.2)
		return
	}

	title := "Generating the forest..."
	tw, _ := m.Renderer.MeasureText(title, 1.5)
	m.Renderer.DrawText(screen, title, (w-tw)/2, h/2-40, color.RGBA{200, 200, 200, 255}, 1.5)

	var frac float64
	if m.Barrier != nil {
		frac = m.Barrier.Fraction()
	}
	barW := float32(w) * 0.4
	x := (float32(w) - barW) / 2
	y := float32(h / 2)
	m.Renderer.StrokeRect(screen, x, y, barW, 12, 1, color.RGBA{120, 120, 120, 255})
	m.Renderer.FillRect(screen, x+2, y+2, (barW-4)*float32(frac), 8, color.RGBA{180, 180, 160, 255})
}

func (m *Manager) drawStartPrompt(screen render.Image, action string) {
	w, h := screen.Size()
	m.Renderer.FillRect(screen, 0, 0, float32(w), float32(h), color.RGBA{0, 0, 0, 180})

	lines := []struct {
		text  string
		scale float64
		clr   color.RGBA
	}{
		{"PINEWOOD", 3, color.RGBA{220, 220, 200, 255}},
		{fmt.Sprintf("Find %d pages and burn them at the campfire.", m.Config.Objective.RequiredPages), 1.2, color.RGBA{200, 200, 200, 255}},
		{"Don't look at it for too long.", 1.2, color.RGBA{200, 90, 80, 255}},
		{"WASD move   Mouse/arrows look   F flashlight   M map   E burn", 1, color.RGBA{160, 160, 160, 255}},
		{action, 1.3, color.RGBA{255, 255, 255, 255}},
	}

	y := h/2 - 120
	for _, l := range lines {
		tw, th := m.Renderer.MeasureText(l.text, l.scale)
		m.Renderer.DrawText(screen, l.text, (w-tw)/2, y, l.clr, l.scale)
		y += th + 20
	}
}
