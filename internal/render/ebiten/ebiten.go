// Package ebiten implements the render interfaces on top of Ebitengine.
package ebiten

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"chosenoffset.com/pinewood/internal/render"
)

// baseFontSize is the text size at scale 1.
const baseFontSize = 14

// EbitenRenderer implements the Renderer interface using Ebiten.
type EbitenRenderer struct {
	fontSource *text.GoTextFaceSource
	faces      map[float64]*text.GoTextFace
}

// init sets up the global functions for the ebiten render.
func init() {
	render.NewGeoM = func() render.GeoM {
		return NewGeoM()
	}
}

// NewRenderer creates a new Ebiten-based renderer with the embedded Go Regular font.
func NewRenderer() (render.Renderer, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	return &EbitenRenderer{fontSource: src, faces: make(map[float64]*text.GoTextFace)}, nil
}

// NewImage creates a new image with the given dimensions.
func (r *EbitenRenderer) NewImage(width, height int) render.Image {
	return &EbitenImage{img: ebiten.NewImage(width, height)}
}

// NewImageFromImage uploads a CPU-side image.
func (r *EbitenRenderer) NewImageFromImage(src image.Image) render.Image {
	return &EbitenImage{img: ebiten.NewImageFromImage(src)}
}

// FillCircle draws a filled circle on the destination image.
func (r *EbitenRenderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	ebitenImg := dst.(*EbitenImage).img
	vector.DrawFilledCircle(ebitenImg, x, y, radius, clr, true)
}

// FillRect draws a filled rectangle on the destination image.
func (r *EbitenRenderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	vector.DrawFilledRect(dst.(*EbitenImage).img, x, y, width, height, clr, false)
}

// StrokeRect draws a rectangle outline on the destination image.
func (r *EbitenRenderer) StrokeRect(dst render.Image, x, y, width, height float32, strokeWidth float32, clr color.Color) {
	vector.StrokeRect(dst.(*EbitenImage).img, x, y, width, height, strokeWidth, clr, false)
}

// face returns a cached font face for a scale.
func (r *EbitenRenderer) face(scale float64) *text.GoTextFace {
	if scale <= 0 {
		scale = 1
	}
	f, ok := r.faces[scale]
	if !ok {
		f = &text.GoTextFace{Source: r.fontSource, Size: baseFontSize * scale}
		r.faces[scale] = f
	}
	return f
}

// DrawText draws text with its top-left corner at (x, y). Newlines start new lines.
func (r *EbitenRenderer) DrawText(dst render.Image, str string, x, y int, clr color.Color, scale float64) {
	f := r.face(scale)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = f.Size * 1.4
	text.Draw(dst.(*EbitenImage).img, str, f, op)
}

// MeasureText measures the width and height of text with the given scale.
func (r *EbitenRenderer) MeasureText(str string, scale float64) (width, height int) {
	f := r.face(scale)
	w, h := text.Measure(str, f, f.Size*1.4)
	return int(w), int(h)
}

// CompileShader compiles shader source code into a Shader.
func (r *EbitenRenderer) CompileShader(src []byte) (render.Shader, error) {
	shader, err := ebiten.NewShader(src)
	if err != nil {
		return nil, err
	}
	return &EbitenShader{shader: shader}, nil
}

// EbitenShader wraps an ebiten.Shader to implement the render.Shader interface.
type EbitenShader struct {
	shader *ebiten.Shader
}

// Dispose releases shader resources.
func (s *EbitenShader) Dispose() {
	if s.shader != nil {
		s.shader.Dispose()
	}
}

// GetEbitenShader returns the underlying ebiten.Shader.
func (s *EbitenShader) GetEbitenShader() *ebiten.Shader {
	return s.shader
}

// EbitenImage wraps an ebiten.Image to implement the render.Image interface.
type EbitenImage struct {
	img *ebiten.Image
}

// Bounds returns the bounds of the image.
func (i *EbitenImage) Bounds() image.Rectangle {
	return i.img.Bounds()
}

// Size returns the width and height of the image.
func (i *EbitenImage) Size() (width, height int) {
	return i.img.Bounds().Dx(), i.img.Bounds().Dy()
}

// Fill fills the entire image with the given color.
func (i *EbitenImage) Fill(clr color.Color) {
	i.img.Fill(clr)
}

// Clear clears the image to transparent.
func (i *EbitenImage) Clear() {
	i.img.Clear()
}

// Dispose releases the image resources.
func (i *EbitenImage) Dispose() {
	if i.img != nil {
		i.img.Dispose()
	}
}

// DrawImage draws the source image onto this image.
func (i *EbitenImage) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	srcImg := src.(*EbitenImage).img

	if opts == nil {
		i.img.DrawImage(srcImg, nil)
		return
	}

	ebitenOpts := &ebiten.DrawImageOptions{}
	if opts.GeoM != nil {
		ebitenGeoM := opts.GeoM.(*EbitenGeoM)
		ebitenOpts.GeoM = ebitenGeoM.geoM
	}
	if opts.Alpha > 0 {
		ebitenOpts.ColorScale.ScaleAlpha(opts.Alpha)
	}

	i.img.DrawImage(srcImg, ebitenOpts)
}

// DrawTriangles draws triangles on this image using the provided vertices.
func (i *EbitenImage) DrawTriangles(vertices []render.Vertex, indices []uint16, img render.Image, opts *render.DrawTrianglesOptions) {
	// Convert render.Vertex to ebiten.Vertex
	ebitenVertices := make([]ebiten.Vertex, len(vertices))
	for j, v := range vertices {
		ebitenVertices[j] = ebiten.Vertex{
			DstX:   v.DstX,
			DstY:   v.DstY,
			SrcX:   v.SrcX,
			SrcY:   v.SrcY,
			ColorR: v.ColorR,
			ColorG: v.ColorG,
			ColorB: v.ColorB,
			ColorA: v.ColorA,
		}
	}

	ebitenImg := img.(*EbitenImage).img

	if opts == nil {
		i.img.DrawTriangles(ebitenVertices, indices, ebitenImg, nil)
		return
	}

	ebitenOpts := &ebiten.DrawTrianglesOptions{
		AntiAlias: opts.AntiAlias,
	}

	i.img.DrawTriangles(ebitenVertices, indices, ebitenImg, ebitenOpts)
}

// DrawRectShader draws a rectangle using the specified shader.
func (i *EbitenImage) DrawRectShader(width, height int, shader render.Shader, opts *render.DrawRectShaderOptions) {
	ebitenShader := shader.(*EbitenShader).shader

	ebitenOpts := &ebiten.DrawRectShaderOptions{}
	if opts != nil {
		// Convert images
		for idx, img := range opts.Images {
			if img != nil {
				ebitenOpts.Images[idx] = img.(*EbitenImage).img
			}
		}
		// Copy uniforms
		ebitenOpts.Uniforms = opts.Uniforms
	}

	i.img.DrawRectShader(width, height, ebitenShader, ebitenOpts)
}

// GetEbitenImage returns the underlying ebiten.Image.
// This is useful for interop with ebiten-specific code.
func (i *EbitenImage) GetEbitenImage() *ebiten.Image {
	return i.img
}

// WrapEbitenImage wraps an existing ebiten.Image as a render.Image.
func WrapEbitenImage(img *ebiten.Image) render.Image {
	return &EbitenImage{img: img}
}

// EbitenGeoM wraps ebiten's GeoM to implement the render.GeoM interface.
type EbitenGeoM struct {
	geoM ebiten.GeoM
}

// NewGeoM creates a new geometric transformation matrix.
func NewGeoM() render.GeoM {
	return &EbitenGeoM{geoM: ebiten.GeoM{}}
}

// Translate shifts the image by (tx, ty).
func (g *EbitenGeoM) Translate(tx, ty float64) {
	g.geoM.Translate(tx, ty)
}

// Scale scales the image by (sx, sy).
func (g *EbitenGeoM) Scale(sx, sy float64) {
	g.geoM.Scale(sx, sy)
}

// Rotate rotates the image by the given angle in radians.
func (g *EbitenGeoM) Rotate(angle float64) {
	g.geoM.Rotate(angle)
}

// Reset resets the matrix to identity.
func (g *EbitenGeoM) Reset() {
	g.geoM.Reset()
}

// EbitenInputManager implements the InputManager interface using Ebiten.
type EbitenInputManager struct {
	captured bool
}

// NewInputManager creates a new Ebiten-based input manager.
func NewInputManager() render.InputManager {
	return &EbitenInputManager{}
}

// IsKeyPressed returns whether the specified key is currently pressed.
func (m *EbitenInputManager) IsKeyPressed(key render.Key) bool {
	return ebiten.IsKeyPressed(keyToEbitenKey(key))
}

// IsKeyJustPressed returns whether the specified key was just pressed this frame.
func (m *EbitenInputManager) IsKeyJustPressed(key render.Key) bool {
	return inpututil.IsKeyJustPressed(keyToEbitenKey(key))
}

// GetCursorPosition returns the current cursor position.
func (m *EbitenInputManager) GetCursorPosition() (x, y int) {
	return ebiten.CursorPosition()
}

// IsMouseButtonJustPressed returns whether the specified mouse button was just pressed this frame.
func (m *EbitenInputManager) IsMouseButtonJustPressed(button render.MouseButton) bool {
	return inpututil.IsMouseButtonJustPressed(mouseButtonToEbiten(button))
}

// SetCursorCaptured switches between a captured, hidden cursor and a visible one.
func (m *EbitenInputManager) SetCursorCaptured(captured bool) {
	m.captured = captured
	if captured {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
}

// IsCursorCaptured reports whether the pointer is locked to the window.
func (m *EbitenInputManager) IsCursorCaptured() bool {
	// The browser or OS may release the pointer on its own
	return m.captured && ebiten.CursorMode() == ebiten.CursorModeCaptured
}

// keyToEbitenKey converts a render.Key to an ebiten.Key.
func keyToEbitenKey(key render.Key) ebiten.Key {
	switch key {
	case render.KeyW:
		return ebiten.KeyW
	case render.KeyA:
		return ebiten.KeyA
	case render.KeyS:
		return ebiten.KeyS
	case render.KeyD:
		return ebiten.KeyD
	case render.KeyE:
		return ebiten.KeyE
	case render.KeyF:
		return ebiten.KeyF
	case render.KeyM:
		return ebiten.KeyM
	case render.KeyUp:
		return ebiten.KeyArrowUp
	case render.KeyDown:
		return ebiten.KeyArrowDown
	case render.KeyLeft:
		return ebiten.KeyArrowLeft
	case render.KeyRight:
		return ebiten.KeyArrowRight
	case render.KeySpace:
		return ebiten.KeySpace
	case render.KeyEnter:
		return ebiten.KeyEnter
	case render.KeyEscape:
		return ebiten.KeyEscape
	default:
		return 0
	}
}

// mouseButtonToEbiten converts a render.MouseButton to an ebiten.MouseButton.
func mouseButtonToEbiten(button render.MouseButton) ebiten.MouseButton {
	switch button {
	case render.MouseButtonLeft:
		return ebiten.MouseButtonLeft
	case render.MouseButtonRight:
		return ebiten.MouseButtonRight
	case render.MouseButtonMiddle:
		return ebiten.MouseButtonMiddle
	default:
		return ebiten.MouseButtonLeft
	}
}

// EbitenEngine implements the Engine interface using Ebiten.
type EbitenEngine struct{}

// NewEngine creates a new Ebiten-based game engine.
func NewEngine() render.Engine {
	return &EbitenEngine{}
}

// SetWindowSize sets the window size in pixels.
func (e *EbitenEngine) SetWindowSize(width, height int) {
	ebiten.SetWindowSize(width, height)
}

// SetWindowTitle sets the window title.
func (e *EbitenEngine) SetWindowTitle(title string) {
	ebiten.SetWindowTitle(title)
}

// SetWindowResizable enables or disables window resizing.
func (e *EbitenEngine) SetWindowResizable(resizable bool) {
	if resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
}

// SetFullscreen switches between windowed and fullscreen mode.
func (e *EbitenEngine) SetFullscreen(fullscreen bool) {
	ebiten.SetFullscreen(fullscreen)
}

// RunGame runs the game loop with the provided game.
func (e *EbitenEngine) RunGame(game render.Game) error {
	return ebiten.RunGame(&gameAdapter{game: game})
}

// gameAdapter adapts a render.Game to ebiten.Game interface.
type gameAdapter struct {
	game render.Game
}

// Update implements ebiten.Game.
func (a *gameAdapter) Update() error {
	return a.game.Update()
}

// Draw implements ebiten.Game.
func (a *gameAdapter) Draw(screen *ebiten.Image) {
	a.game.Draw(WrapEbitenImage(screen))
}

// Layout implements ebiten.Game.
func (a *gameAdapter) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.game.Layout(outsideWidth, outsideHeight)
}
