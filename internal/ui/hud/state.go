package hud

import (
	"image/color"
	"math"
	"strings"

	"chosenoffset.com/pinewood/internal/battery"
	"chosenoffset.com/pinewood/internal/session"
)

// Band colors for the battery bar
var (
	ColorNormal   = color.RGBA{76, 175, 80, 255}  // Green
	ColorWarn     = color.RGBA{255, 235, 59, 255} // Yellow
	ColorCritical = color.RGBA{244, 67, 54, 255}  // Red
)

// BandColor returns the bar color for a battery band
func BandColor(b battery.Band) color.RGBA {
	switch b {
	case battery.BandWarn:
		return ColorWarn
	case battery.BandCritical:
		return ColorCritical
	default:
		return ColorNormal
	}
}

// Marker is a minimap point with coordinates normalized to [0, 1].
type Marker struct {
	Kind session.MarkerKind
	X, Y float64
}

// Line is a message with its current opacity
type Line struct {
	Text  string
	Alpha float64
}

// State is what the HUD shows for one frame. It is derived from a session
// snapshot and holds no references into the session.
type State struct {
	BatteryPercent int
	BatteryFill    float64
	BatteryColor   color.RGBA
	FlashlightOn   bool

	PageCounter string
	Prompt      string
	Threat      float64

	MapVisible bool
	Markers    []Marker

	BannerTitle string
	BannerBody  string
	Won         bool

	Messages []Line
}

// FromSnapshot derives the HUD state
func FromSnapshot(s session.Snapshot) State {
	st := State{
		BatteryPercent: int(math.Ceil(s.Battery)),
		BatteryFill:    math.Max(0, math.Min(1, s.Battery/100)),
		BatteryColor:   BandColor(s.BatteryBand),
		FlashlightOn:   s.FlashlightOn,
		PageCounter:    s.PageCounter,
		Threat:         s.Threat,
		MapVisible:     s.MapVisible,
		Won:            s.Outcome == session.OutcomeWon,
	}

	if s.Phase == session.Running && s.InFireRange {
		if s.CanDeliver {
			st.Prompt = "Press E to burn the pages"
		} else {
			st.Prompt = "The campfire. Bring the pages here"
		}
	}

	if s.MapVisible {
		st.Markers = make([]Marker, 0, len(s.Markers))
		for _, m := range s.Markers {
			st.Markers = append(st.Markers, Marker{
				Kind: m.Kind,
				X:    normalize(m.Position.X, s.Bound),
				Y:    normalize(m.Position.Y, s.Bound),
			})
		}
	}

	if s.Banner != "" {
		title, body, _ := strings.Cut(s.Banner, "\n")
		st.BannerTitle = title
		st.BannerBody = body
	}

	// The banner already shows the outcome text
	for _, m := range s.Messages {
		if m.Text == s.Banner {
			continue
		}
		st.Messages = append(st.Messages, Line{Text: m.Text, Alpha: m.Alpha()})
	}
	return st
}

// normalize maps [-bound, bound] to [0, 1]
func normalize(v, bound float64) float64 {
	if bound <= 0 {
		return 0.5
	}
	return math.Max(0, math.Min(1, (v+bound)/(2*bound)))
}
