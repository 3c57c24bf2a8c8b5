package game

import (
	"image/color"
	"math"

	"chosenoffset.com/pinewood/internal/assets"
	"chosenoffset.com/pinewood/internal/render"
	"chosenoffset.com/pinewood/internal/render/lighting"
	"chosenoffset.com/pinewood/internal/session"
	"chosenoffset.com/pinewood/internal/ui/hud"
)

const (
	// PixelsPerUnit is the default camera zoom
	PixelsPerUnit = 8.0

	flashlightRange = 40.0        // world units
	flashlightAngle = math.Pi / 4 // half angle
	campfireRange   = 14.0
)

var (
	flashlightColor = color.NRGBA{255, 244, 214, 255}
	campfireColor   = color.NRGBA{255, 140, 50, 255}
)

// Game holds the session and everything needed to present it.
type Game struct {
	ScreenWidth  int
	ScreenHeight int
	Session      *session.Session
	Snapshot     session.Snapshot
	Camera       Camera
	Renderer     render.Renderer
	InputMgr     render.InputManager
	Input        *InputSampler
	Library      *assets.Library

	LightingShader  render.Shader
	LightingManager *lighting.Manager
	SceneTexture    render.Image
	WhiteImg        render.Image

	// HUD
	GameHUD *hud.HUD

	sprites  map[string]render.Image
	emissive map[string]bool
	clock    float64

	// Debug
	FrameCount int
}

// NewGame wraps a session for presentation
func NewGame(s *session.Session, r render.Renderer, input render.InputManager, lib *assets.Library, width, height int) *Game {
	lm := lighting.NewManager()
	lm.SetPlayerLight(flashlightRange*PixelsPerUnit, flashlightAngle, flashlightColor)

	g := &Game{
		ScreenWidth:     width,
		ScreenHeight:    height,
		Session:         s,
		Camera:          Camera{Scale: PixelsPerUnit},
		Renderer:        r,
		InputMgr:        input,
		Input:           NewInputSampler(input),
		Library:         lib,
		LightingManager: lm,
		GameHUD:         hud.New(hud.DefaultConfig(), r, width, height),
		sprites:         make(map[string]render.Image),
		emissive:        make(map[string]bool),
	}
	g.Refresh()
	return g
}

// Update samples input once and advances the session one tick.
func (g *Game) Update() error {
	// Delta time for timers (assuming 60 FPS)
	dt := 1.0 / 60.0

	in := g.Input.Sample()
	g.Snapshot = g.Session.Tick(dt, in)
	g.clock += dt

	g.UpdateCamera()
	g.updateLights()
	return nil
}

// Refresh takes a snapshot without advancing the session.
func (g *Game) Refresh() {
	g.Snapshot = g.Session.Snapshot()
	g.UpdateCamera()
	g.updateLights()
}

// Layout returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenWidth, g.ScreenHeight
}

// Resize updates the screen dimensions
func (g *Game) Resize(width, height int) {
	g.ScreenWidth = width
	g.ScreenHeight = height
	g.GameHUD.SetScreenSize(width, height)
	g.updateLights()
}

// UpdateCamera centers the camera on the player.
func (g *Game) UpdateCamera() {
	p := g.Snapshot.Player.Position
	g.Camera.X = p.X()
	g.Camera.Z = p.Z()
}

// updateLights moves the flashlight and campfire into screen space.
func (g *Game) updateLights() {
	if g.LightingManager == nil {
		return
	}
	snap := g.Snapshot

	px, py := g.Camera.ToScreen(snap.Player.Position, g.ScreenWidth, g.ScreenHeight)
	g.LightingManager.SetPlayerIntensity(snap.FlashlightIntensity)
	g.LightingManager.UpdatePlayerLight(px, py, snap.Forward.X(), snap.Forward.Z())

	fx, fy := g.Camera.ToScreen(snap.Campfire, g.ScreenWidth, g.ScreenHeight)
	flicker := 0.85 + 0.1*math.Sin(g.clock*9) + 0.05*math.Sin(g.clock*23)
	g.LightingManager.SetLight("campfire", lighting.LightSource{
		X:         fx,
		Y:         fy,
		Radius:    campfireRange * g.Camera.Scale,
		Intensity: flicker,
		Color:     campfireColor,
	})
}

// sprite returns the GPU image for a generated sprite, uploading it on first use.
func (g *Game) sprite(name string) render.Image {
	if img, ok := g.sprites[name]; ok {
		return img
	}
	if g.Library == nil || g.Renderer == nil {
		return nil
	}
	sp, ok := g.Library.Sprite(name)
	if !ok {
		return nil
	}
	img := g.Renderer.NewImageFromImage(sp.Image)
	g.sprites[name] = img
	g.emissive[name] = sp.Emissive()
	return img
}
