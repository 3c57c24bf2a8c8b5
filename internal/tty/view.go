package tty

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/pinewood/internal/core/geom"
	"chosenoffset.com/pinewood/internal/core/shadows"
	"chosenoffset.com/pinewood/internal/render/lighting"
	"chosenoffset.com/pinewood/internal/session"
	"chosenoffset.com/pinewood/internal/ui/hud"
	"chosenoffset.com/pinewood/internal/world"
)

const (
	// cellUnits is the world width of one terminal column
	cellUnits = 1.0
	// aspect is how many columns tall a row is
	aspect = 2.0
	// statusRows are reserved at the bottom for the status lines
	statusRows = 2
	// visible is the light level below which a cell is drawn dark
	visible = 0.1

	flashlightRange = 40.0
	campfireRange   = 14.0
)

var (
	treeRGB    = [3]int32{40, 160, 60}
	houseRGB   = [3]int32{170, 130, 90}
	pageRGB    = [3]int32{240, 240, 230}
	groundRGB  = [3]int32{60, 80, 50}
	stalkerRGB = [3]int32{220, 30, 30}
	fireRGB    = [3]int32{255, 140, 40}

	// Player arrows indexed by screen angle in eighths, starting east
	arrows = []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}
)

type glyph struct {
	r        rune
	rgb      [3]int32
	emissive bool
}

// View draws a session snapshot as a lit top-down map.
type View struct {
	screen tcell.Screen
	lights *lighting.Manager
	rng    *rand.Rand
}

// NewView creates a view over a screen
func NewView(screen tcell.Screen) *View {
	lm := lighting.NewManager()
	lm.SetPlayerLight(flashlightRange, math.Pi/4, color.NRGBA{255, 244, 214, 255})
	return &View{screen: screen, lights: lm, rng: rand.New(rand.NewSource(1))}
}

// Draw renders one frame and shows it
func (v *View) Draw(snap session.Snapshot) {
	v.screen.Clear()
	w, h := v.screen.Size()
	mapH := h - statusRows
	if w <= 0 || mapH <= 0 {
		v.screen.Show()
		return
	}

	v.updateLights(snap)
	grid := v.layout(snap, w, mapH)
	occluders := nearbyOccluders(snap)
	cx, cy := w/2, mapH/2

	for row := 0; row < mapH; row++ {
		for col := 0; col < w; col++ {
			g := grid[row*w+col]
			wx := float64(col-cx) * cellUnits
			wz := float64(row-cy) * cellUnits * aspect
			light := v.lights.Illumination(wx, wz)
			if light >= visible && shadows.InShadow(geom.Point{}, geom.Point{X: wx, Y: wz}, occluders) {
				light = v.lights.FixedIllumination(wx, wz)
			}
			if !g.emissive && light < visible {
				continue
			}
			if g.r == 0 {
				g = glyph{r: '.', rgb: groundRGB}
			}
			if g.emissive {
				light = 1
			}
			v.screen.SetContent(col, row, g.r, nil, tcell.StyleDefault.Foreground(shade(g.rgb, light)))
		}
	}

	v.drawPlayer(snap, cx, cy)
	v.drawStatic(snap.Threat, w, mapH)

	st := hud.FromSnapshot(snap)
	if st.MapVisible {
		v.drawMinimap(st.Markers, w)
	}
	v.drawStatus(st, w, h)
	if st.BannerTitle != "" {
		v.drawBanner(st, w, mapH)
	}
	v.screen.Show()
}

func (v *View) updateLights(snap session.Snapshot) {
	p := snap.Player.Position
	v.lights.SetPlayerIntensity(snap.FlashlightIntensity)
	v.lights.UpdatePlayerLight(0, 0, snap.Forward.X(), snap.Forward.Z())
	v.lights.SetLight("campfire", lighting.LightSource{
		X:         snap.Campfire.X() - p.X(),
		Y:         snap.Campfire.Z() - p.Z(),
		Radius:    campfireRange,
		Intensity: 0.9,
		Color:     color.NRGBA{255, 140, 50, 255},
	})
}

// nearbyOccluders returns the obstacles the flashlight can reach, relative
// to the player.
func nearbyOccluders(snap session.Snapshot) []shadows.Circle {
	p := snap.Player.Position
	var out []shadows.Circle
	for _, o := range snap.Obstacles {
		dx, dz := o.Position.X()-p.X(), o.Position.Z()-p.Z()
		if math.Hypot(dx, dz)-o.Radius > flashlightRange {
			continue
		}
		out = append(out, shadows.Circle{Center: geom.Point{X: dx, Y: dz}, Radius: o.Radius})
	}
	return out
}

// layout stamps every object into a cell grid centered on the player.
func (v *View) layout(snap session.Snapshot, w, h int) []glyph {
	grid := make([]glyph, w*h)
	p := snap.Player.Position
	cx, cy := w/2, h/2

	toCell := func(pos mgl64.Vec3) (int, int) {
		col := cx + int(math.Round((pos.X()-p.X())/cellUnits))
		row := cy + int(math.Round((pos.Z()-p.Z())/(cellUnits*aspect)))
		return col, row
	}
	set := func(col, row int, g glyph) {
		if col >= 0 && col < w && row >= 0 && row < h {
			grid[row*w+col] = g
		}
	}
	stamp := func(pos mgl64.Vec3, radius float64, g glyph) {
		c0, r0 := toCell(pos)
		rc := int(math.Ceil(radius / cellUnits))
		rr := int(math.Ceil(radius / (cellUnits * aspect)))
		for row := r0 - rr; row <= r0+rr; row++ {
			for col := c0 - rc; col <= c0+rc; col++ {
				dx := float64(col-c0) * cellUnits
				dz := float64(row-r0) * cellUnits * aspect
				if math.Hypot(dx, dz) < radius {
					set(col, row, g)
				}
			}
		}
		set(c0, r0, g)
	}

	for _, o := range snap.Obstacles {
		if o.Kind == world.KindHouse {
			stamp(o.Position, o.Radius, glyph{r: '#', rgb: houseRGB})
		} else {
			stamp(o.Position, o.Radius, glyph{r: '♣', rgb: treeRGB})
		}
	}
	for _, pg := range snap.ActivePages {
		col, row := toCell(pg)
		set(col, row, glyph{r: '?', rgb: pageRGB})
	}
	col, row := toCell(snap.Campfire)
	set(col, row, glyph{r: '*', rgb: fireRGB, emissive: true})
	if snap.AntagonistVisible {
		col, row := toCell(snap.Antagonist)
		set(col, row, glyph{r: 'S', rgb: stalkerRGB})
	}
	return grid
}

func (v *View) drawPlayer(snap session.Snapshot, cx, cy int) {
	angle := math.Atan2(snap.Forward.Z(), snap.Forward.X())
	idx := int(math.Round(angle/(math.Pi/4))) % len(arrows)
	if idx < 0 {
		idx += len(arrows)
	}
	v.screen.SetContent(cx, cy, arrows[idx], nil, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
}

// drawStatic sprinkles noise over the map as the threat rises.
func (v *View) drawStatic(threat float64, w, h int) {
	n := int(threat * float64(w*h) * 0.08)
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for i := 0; i < n; i++ {
		v.screen.SetContent(v.rng.Intn(w), v.rng.Intn(h), '░', nil, style)
	}
}

func (v *View) drawMinimap(markers []hud.Marker, w int) {
	const mw, mh = 24, 12
	x0 := w - mw - 1
	if x0 < 0 {
		return
	}
	frame := tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	for row := 0; row < mh; row++ {
		for col := 0; col < mw; col++ {
			r := ' '
			switch {
			case row == 0 || row == mh-1:
				r = '-'
			case col == 0 || col == mw-1:
				r = '|'
			}
			v.screen.SetContent(x0+col, row, r, nil, frame)
		}
	}
	for _, m := range markers {
		col := 1 + int(math.Round(m.X*float64(mw-3)))
		row := 1 + int(math.Round(m.Y*float64(mh-3)))
		c := hud.MarkerColor(m.Kind)
		v.screen.SetContent(x0+col, row, markerRune(m.Kind), nil,
			tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))))
	}
}

func markerRune(k session.MarkerKind) rune {
	switch k {
	case session.MarkerPlayer:
		return '@'
	case session.MarkerCampfire:
		return '*'
	case session.MarkerHouse:
		return '#'
	default:
		return '?'
	}
}

// BatteryBar renders the battery as a fixed-width text bar
func BatteryBar(fill float64, width int) string {
	n := int(math.Round(fill * float64(width)))
	n = max(0, min(width, n))
	return "[" + strings.Repeat("█", n) + strings.Repeat("░", width-n) + "]"
}

func (v *View) drawStatus(st hud.State, w, h int) {
	row := h - statusRows
	c := st.BatteryColor
	x := v.drawText(0, row, "Battery ", tcell.StyleDefault)
	x = v.drawText(x, row, BatteryBar(st.BatteryFill, 10), tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))))
	x = v.drawText(x, row, fmt.Sprintf(" %3d%%  ", st.BatteryPercent), tcell.StyleDefault)
	x = v.drawText(x, row, st.PageCounter, tcell.StyleDefault.Foreground(tcell.ColorLightYellow))
	if st.Prompt != "" {
		v.drawText(x+2, row, st.Prompt, tcell.StyleDefault.Foreground(tcell.ColorOrange))
	}

	if n := len(st.Messages); n > 0 {
		msg := st.Messages[n-1]
		g := int32(80 + 175*msg.Alpha)
		v.drawText(0, row+1, msg.Text, tcell.StyleDefault.Foreground(tcell.NewRGBColor(g, g, g)))
	}
}

func (v *View) drawBanner(st hud.State, w, h int) {
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	if st.Won {
		titleStyle = tcell.StyleDefault.Foreground(tcell.ColorGold).Bold(true)
	}
	y := h/2 - 1
	v.drawText((w-len([]rune(st.BannerTitle)))/2, y, st.BannerTitle, titleStyle)
	v.drawText((w-len([]rune(st.BannerBody)))/2, y+2, st.BannerBody, tcell.StyleDefault)
	hint := "Press Esc to quit"
	v.drawText((w-len(hint))/2, y+4, hint, tcell.StyleDefault.Foreground(tcell.ColorGray))
}

// DrawTitle renders the start screen
func (v *View) DrawTitle(required int) {
	v.screen.Clear()
	w, h := v.screen.Size()
	lines := []struct {
		text  string
		style tcell.Style
	}{
		{"P I N E W O O D", tcell.StyleDefault.Bold(true)},
		{"", tcell.StyleDefault},
		{fmt.Sprintf("Find %d pages and burn them at the campfire.", required), tcell.StyleDefault},
		{"Don't look at it for too long.", tcell.StyleDefault.Foreground(tcell.ColorRed)},
		{"", tcell.StyleDefault},
		{"WASD move  q/r or arrows turn  f flashlight  m map  e burn", tcell.StyleDefault.Foreground(tcell.ColorGray)},
		{"Press Enter to start, Esc to quit", tcell.StyleDefault},
	}
	y := h/2 - len(lines)/2
	for i, l := range lines {
		v.drawText((w-len([]rune(l.text)))/2, y+i, l.text, l.style)
	}
	v.screen.Show()
}

// drawText writes a string and returns the column after it
func (v *View) drawText(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

// shade scales a base color by a light level
func shade(rgb [3]int32, light float64) tcell.Color {
	k := math.Max(0.25, math.Min(1, light))
	return tcell.NewRGBColor(int32(float64(rgb[0])*k), int32(float64(rgb[1])*k), int32(float64(rgb[2])*k))
}
