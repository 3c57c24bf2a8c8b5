package game

import (
	"image/color"
	"log"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/pinewood/internal/assets"
	"chosenoffset.com/pinewood/internal/core/geom"
	"chosenoffset.com/pinewood/internal/core/shadows"
	"chosenoffset.com/pinewood/internal/render"
	"chosenoffset.com/pinewood/internal/ui/hud"
	"chosenoffset.com/pinewood/internal/world"
)

// shadeCell is the block size of the fallback lighting pass
const shadeCell = 16

var (
	groundColor  = color.RGBA{18, 32, 18, 255}
	treeColor    = color.RGBA{20, 60, 30, 255}
	houseColor   = color.RGBA{90, 75, 60, 255}
	pageColor    = color.RGBA{235, 235, 225, 255}
	stalkerColor = color.RGBA{10, 10, 10, 255}
	playerColor  = color.RGBA{200, 200, 120, 255}
	fireColor    = color.RGBA{255, 120, 30, 255}
)

// Draw renders the game to the screen.
func (g *Game) Draw(screen render.Image) {
	w, h := screen.Size()
	g.FrameCount++

	// Ensure the scene texture exists and is the right size
	if g.SceneTexture == nil || needsResize(g.SceneTexture, w, h) {
		if g.SceneTexture != nil {
			g.SceneTexture.Dispose()
		}
		g.SceneTexture = g.Renderer.NewImage(w, h)
	}

	// Step 1: render the unlit scene offscreen
	g.SceneTexture.Clear()
	g.drawGround(g.SceneTexture)
	g.drawPages(g.SceneTexture)
	g.drawObstacles(g.SceneTexture)
	g.drawCampfire(g.SceneTexture, false)
	g.drawStalker(g.SceneTexture)
	g.drawPlayer(g.SceneTexture)

	// Step 2: light it, then cut tree shadows out of the beam
	g.applyLighting(screen)
	g.drawShadows(screen)

	// Step 3: light sources stay bright
	g.drawCampfire(screen, true)

	// Step 4: UI on top (unaffected by lighting)
	g.drawThreat(screen)
	g.GameHUD.Draw(screen, hud.FromSnapshot(g.Snapshot))
}

func needsResize(img render.Image, w, h int) bool {
	bounds := img.Bounds()
	return bounds.Dx() != w || bounds.Dy() != h
}

// drawSprite draws a generated sprite centered on a world position, scaled
// to the given world diameter and turned to yaw.
func (g *Game) drawSprite(dst render.Image, name string, pos mgl64.Vec3, diameter, yaw float64, fallback color.RGBA) {
	w, h := dst.Size()
	if !g.Camera.Visible(pos, diameter/2, w, h) {
		return
	}
	sx, sy := g.Camera.ToScreen(pos, w, h)

	img := g.sprite(name)
	if img == nil {
		g.Renderer.FillCircle(dst, float32(sx), float32(sy), float32(diameter/2*g.Camera.Scale), fallback)
		return
	}

	half := float64(assets.SpriteSize) / 2
	k := diameter * g.Camera.Scale / float64(assets.SpriteSize)
	opts := &render.DrawImageOptions{}
	opts.GeoM = render.NewGeoM()
	opts.GeoM.Translate(-half, -half)
	opts.GeoM.Scale(k, k)
	if yaw != 0 {
		// Sprites face up the screen, which is yaw 0
		opts.GeoM.Rotate(-yaw)
	}
	opts.GeoM.Translate(sx, sy)
	dst.DrawImage(img, opts)
}

func (g *Game) drawGround(dst render.Image) {
	dst.Fill(groundColor)
	tile := g.sprite(assets.SpriteGround)
	if tile == nil {
		return
	}

	w, h := dst.Size()
	size := float64(assets.SpriteSize)
	// Anchor the tiles to the world so they scroll with the camera
	ox := -math.Mod(g.Camera.X*g.Camera.Scale, size)
	oy := -math.Mod(g.Camera.Z*g.Camera.Scale, size)
	if ox > 0 {
		ox -= size
	}
	if oy > 0 {
		oy -= size
	}
	for y := oy; y < float64(h); y += size {
		for x := ox; x < float64(w); x += size {
			opts := &render.DrawImageOptions{}
			opts.GeoM = render.NewGeoM()
			opts.GeoM.Translate(x, y)
			dst.DrawImage(tile, opts)
		}
	}
}

func (g *Game) drawPages(dst render.Image) {
	for _, p := range g.Snapshot.ActivePages {
		g.drawSprite(dst, assets.SpritePage, p, 1.5, 0, pageColor)
	}
}

func (g *Game) drawObstacles(dst render.Image) {
	for _, o := range g.Snapshot.Obstacles {
		switch o.Kind {
		case world.KindHouse:
			g.drawSprite(dst, assets.SpriteHouse, o.Position, o.Radius*2, 0, houseColor)
		default:
			// Canopies are wider than the trunk footprint
			g.drawSprite(dst, assets.SpriteTree, o.Position, o.Radius*3, 0, treeColor)
		}
	}
}

func (g *Game) drawStalker(dst render.Image) {
	if !g.Snapshot.AntagonistVisible {
		return
	}
	g.drawSprite(dst, assets.SpriteStalker, g.Snapshot.Antagonist, 2, g.Snapshot.AntagonistYaw, stalkerColor)
}

func (g *Game) drawPlayer(dst render.Image) {
	g.drawSprite(dst, assets.SpritePlayer, g.Snapshot.Player.Position, 1.6, g.Snapshot.Player.Yaw, playerColor)
}

// drawCampfire draws the fire either into the scene or over the lit result.
// Emissive sprites go on top so darkness never covers them.
func (g *Game) drawCampfire(dst render.Image, afterLighting bool) {
	g.sprite(assets.SpriteCampfire)
	if g.emissive[assets.SpriteCampfire] != afterLighting {
		return
	}
	g.drawSprite(dst, assets.SpriteCampfire, g.Snapshot.Campfire, 3, 0, fireColor)
}

func (g *Game) applyLighting(screen render.Image) {
	if g.LightingShader == nil || g.LightingManager == nil {
		screen.DrawImage(g.SceneTexture, &render.DrawImageOptions{})
		g.shadeCells(screen)
		return
	}

	if g.FrameCount == 1 {
		log.Printf("Rendering with %d lights", len(g.LightingManager.GetAllLights()))
	}

	w, h := screen.Size()
	opts := &render.DrawRectShaderOptions{
		Uniforms: g.LightingManager.Uniforms(),
	}
	opts.Images[0] = g.SceneTexture
	screen.DrawRectShader(w, h, g.LightingShader, opts)
}

// Occluders returns the obstacles near the player as screen-space circles.
func (g *Game) Occluders(width, height int) []shadows.Circle {
	var out []shadows.Circle
	for _, o := range g.Snapshot.Obstacles {
		if !g.Camera.Visible(o.Position, flashlightRange, width, height) {
			continue
		}
		x, y := g.Camera.ToScreen(o.Position, width, height)
		out = append(out, shadows.Circle{Center: geom.Point{X: x, Y: y}, Radius: o.Radius * g.Camera.Scale})
	}
	return out
}

// drawShadows darkens the area behind each occluder inside the flashlight's reach.
func (g *Game) drawShadows(screen render.Image) {
	intensity := g.Snapshot.FlashlightIntensity
	if intensity <= 0 {
		return
	}
	w, h := screen.Size()
	light := g.Camera.Scale * flashlightRange
	px, py := g.Camera.ToScreen(g.Snapshot.Player.Position, w, h)
	quads := shadows.CastAll(geom.Point{X: px, Y: py}, g.Occluders(w, h), light)
	if len(quads) == 0 {
		return
	}

	if g.WhiteImg == nil {
		g.WhiteImg = g.Renderer.NewImage(1, 1)
		g.WhiteImg.Fill(color.White)
	}

	alpha := float32(0.85 * intensity)
	vertices := make([]render.Vertex, 0, len(quads)*4)
	indices := make([]uint16, 0, len(quads)*6)
	for _, q := range quads {
		base := uint16(len(vertices))
		for _, p := range q {
			vertices = append(vertices, render.Vertex{
				DstX:   float32(p.X),
				DstY:   float32(p.Y),
				ColorA: alpha,
			})
		}
		for _, i := range shadows.Indices {
			indices = append(indices, base+i)
		}
	}
	screen.DrawTriangles(vertices, indices, g.WhiteImg, &render.DrawTrianglesOptions{AntiAlias: false})
}

// shadeCells darkens the screen in blocks when no shader is available.
func (g *Game) shadeCells(screen render.Image) {
	if g.LightingManager == nil {
		return
	}
	w, h := screen.Size()
	for y := 0; y < h; y += shadeCell {
		for x := 0; x < w; x += shadeCell {
			light := g.LightingManager.Illumination(float64(x+shadeCell/2), float64(y+shadeCell/2))
			a := uint8((1 - light) * 255)
			if a == 0 {
				continue
			}
			g.Renderer.FillRect(screen, float32(x), float32(y), shadeCell, shadeCell, color.RGBA{0, 0, 0, a})
		}
	}
}

// drawThreat tints the screen red and adds static as the stalker closes in.
func (g *Game) drawThreat(screen render.Image) {
	threat := g.Snapshot.Threat
	if threat <= 0 {
		return
	}
	w, h := screen.Size()
	g.Renderer.FillRect(screen, 0, 0, float32(w), float32(h), color.RGBA{90, 0, 0, uint8(threat * 100)})

	rng := rand.New(rand.NewSource(int64(g.FrameCount) + int64(g.clock*1000)))
	n := int(threat * 600)
	for i := 0; i < n; i++ {
		v := uint8(rng.Intn(200) + 55)
		g.Renderer.FillRect(screen, float32(rng.Intn(w)), float32(rng.Intn(h)), 2, 2, color.RGBA{v, v, v, uint8(threat * 200)})
	}
}
