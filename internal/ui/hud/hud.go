// Package hud draws the heads-up display: battery, page counter, minimap,
// messages and the end-of-game banner.
package hud

import (
	"image/color"

	"chosenoffset.com/pinewood/internal/render"
	"chosenoffset.com/pinewood/internal/session"
)

// HUDConfig defines what to display in the HUD
type HUDConfig struct {
	ShowBattery bool    `json:"show_battery"` // Show battery bar
	ShowPages   bool    `json:"show_pages"`   // Show page counter
	MinimapSize int     `json:"minimap_size"` // Minimap edge in pixels
	Position    string  `json:"position"`     // "top-left", "top-right", "bottom-left", "bottom-right"
	Opacity     float64 `json:"opacity"`      // Background opacity (0-1)
}

// DefaultConfig returns a sensible default HUD configuration
func DefaultConfig() *HUDConfig {
	return &HUDConfig{
		ShowBattery: true,
		ShowPages:   true,
		MinimapSize: 180,
		Position:    "top-left",
		Opacity:     0.7,
	}
}

// HUD manages the heads-up display
type HUD struct {
	config       *HUDConfig
	renderer     render.Renderer
	screenWidth  int
	screenHeight int
	panelWidth   int
	panelHeight  int
}

// New creates a new HUD with the given configuration
func New(config *HUDConfig, r render.Renderer, screenWidth, screenHeight int) *HUD {
	if config == nil {
		config = DefaultConfig()
	}
	return &HUD{
		config:       config,
		renderer:     r,
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
		panelWidth:   200,
	}
}

// SetScreenSize updates the screen dimensions
func (h *HUD) SetScreenSize(width, height int) {
	h.screenWidth = width
	h.screenHeight = height
}

// Draw renders the HUD to the screen
func (h *HUD) Draw(screen render.Image, st State) {
	h.drawPanel(screen, st)
	if st.MapVisible {
		h.drawMinimap(screen, st.Markers)
	}
	h.drawMessages(screen, st.Messages)
	if st.Prompt != "" {
		w, _ := h.renderer.MeasureText(st.Prompt, 1.2)
		h.drawText(screen, st.Prompt, (h.screenWidth-w)/2, h.screenHeight-80, color.RGBA{255, 220, 160, 255}, 1.2)
	}
	if st.BannerTitle != "" {
		h.drawBanner(screen, st)
	}
}

// calculatePosition returns the top-left corner of the stats panel
func (h *HUD) calculatePosition() (int, int) {
	padding := 10
	switch h.config.Position {
	case "top-right":
		return h.screenWidth - h.panelWidth - padding, padding
	case "bottom-left":
		return padding, h.screenHeight - h.panelHeight - padding
	case "bottom-right":
		return h.screenWidth - h.panelWidth - padding, h.screenHeight - h.panelHeight - padding
	default: // "top-left"
		return padding, padding
	}
}

// calculatePanelHeight calculates the height needed for all HUD elements
func (h *HUD) calculatePanelHeight() int {
	height := 8 // Padding
	if h.config.ShowBattery {
		height += 34
	}
	if h.config.ShowPages {
		height += 20
	}
	return height + 8 // Bottom padding
}

// drawPanel draws the semi-transparent stats panel
func (h *HUD) drawPanel(screen render.Image, st State) {
	if !h.config.ShowBattery && !h.config.ShowPages {
		return
	}
	h.panelHeight = h.calculatePanelHeight()
	x, y := h.calculatePosition()

	alpha := uint8(h.config.Opacity * 255)
	h.renderer.FillRect(screen, float32(x), float32(y), float32(h.panelWidth), float32(h.panelHeight), color.RGBA{20, 20, 30, alpha})
	h.renderer.StrokeRect(screen, float32(x), float32(y), float32(h.panelWidth), float32(h.panelHeight), 1, color.RGBA{60, 60, 80, alpha})

	currentY := y + 8
	if h.config.ShowBattery {
		currentY = h.drawBatteryBar(screen, x+8, currentY, st)
	}
	if h.config.ShowPages {
		h.drawText(screen, st.PageCounter, x+8, currentY, color.RGBA{255, 255, 200, 255}, 1)
	}
}

// drawBatteryBar draws the flashlight battery bar and returns the next line's Y
func (h *HUD) drawBatteryBar(screen render.Image, x, y int, st State) int {
	label := "Flashlight"
	if !st.FlashlightOn {
		label = "Flashlight (off)"
	}
	h.drawText(screen, label, x, y, color.RGBA{200, 200, 200, 255}, 0.9)
	y += 16

	barWidth := float32(h.panelWidth - 16)
	barHeight := float32(10)
	h.renderer.FillRect(screen, float32(x), float32(y), barWidth, barHeight, color.RGBA{40, 40, 40, 255})
	if st.BatteryFill > 0 {
		fill := barWidth * float32(st.BatteryFill)
		if fill < 1 {
			fill = 1
		}
		h.renderer.FillRect(screen, float32(x), float32(y), fill, barHeight, st.BatteryColor)
	}
	return y + int(barHeight) + 8
}

// MarkerColor returns the minimap color for a marker kind
func MarkerColor(k session.MarkerKind) color.RGBA {
	switch k {
	case session.MarkerPlayer:
		return color.RGBA{0, 255, 100, 255}
	case session.MarkerCampfire:
		return color.RGBA{255, 130, 30, 255}
	case session.MarkerHouse:
		return color.RGBA{150, 130, 110, 255}
	default:
		return color.RGBA{240, 240, 230, 255}
	}
}

func (h *HUD) drawMinimap(screen render.Image, markers []Marker) {
	size := float32(h.config.MinimapSize)
	x := float32(h.screenWidth) - size - 10
	y := float32(10)

	h.renderer.FillRect(screen, x, y, size, size, color.RGBA{10, 20, 10, 200})
	h.renderer.StrokeRect(screen, x, y, size, size, 1, color.RGBA{80, 100, 80, 255})

	for _, m := range markers {
		radius := float32(3)
		if m.Kind == session.MarkerPlayer || m.Kind == session.MarkerCampfire {
			radius = 4
		}
		h.renderer.FillCircle(screen, x+float32(m.X)*size, y+float32(m.Y)*size, radius, MarkerColor(m.Kind))
	}
}

func (h *HUD) drawMessages(screen render.Image, lines []Line) {
	y := h.screenHeight - 40 - 20*len(lines)
	for _, l := range lines {
		a := uint8(255 * l.Alpha)
		h.drawText(screen, l.Text, 20, y, color.RGBA{255, 255, 255, a}, 1)
		y += 20
	}
}

func (h *HUD) drawBanner(screen render.Image, st State) {
	h.renderer.FillRect(screen, 0, 0, float32(h.screenWidth), float32(h.screenHeight), color.RGBA{0, 0, 0, 170})

	titleColor := color.RGBA{220, 40, 40, 255}
	if st.Won {
		titleColor = color.RGBA{255, 200, 80, 255}
	}
	tw, th := h.renderer.MeasureText(st.BannerTitle, 3)
	ty := h.screenHeight/2 - th
	h.drawText(screen, st.BannerTitle, (h.screenWidth-tw)/2, ty, titleColor, 3)

	bw, _ := h.renderer.MeasureText(st.BannerBody, 1.3)
	h.drawText(screen, st.BannerBody, (h.screenWidth-bw)/2, ty+th+16, color.RGBA{230, 230, 230, 255}, 1.3)
}

// drawText draws text with a shadow for readability
func (h *HUD) drawText(screen render.Image, text string, x, y int, clr color.RGBA, scale float64) {
	h.renderer.DrawText(screen, text, x+1, y+1, color.RGBA{0, 0, 0, clr.A}, scale)
	h.renderer.DrawText(screen, text, x, y, clr, scale)
}
