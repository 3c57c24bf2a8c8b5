package assets

import "image/color"

// Palette defines colors for the forest at night
var Palette = struct {
	// Materials
	Trunk   color.RGBA
	Foliage color.RGBA
	Fire    color.RGBA
	Wood    color.RGBA

	// Ground
	Ground     color.RGBA
	GroundDark color.RGBA

	// Objects
	Paper     color.RGBA
	Ink       color.RGBA
	HouseWall color.RGBA
	HouseRoof color.RGBA
	Ember     color.RGBA

	// Entities
	Player  color.RGBA
	Stalker color.RGBA
	Face    color.RGBA
	Outline color.RGBA
	Clear   color.RGBA
}{
	// Materials - bark, needles, flame, split logs
	Trunk:   color.RGBA{74, 52, 36, 255},
	Foliage: color.RGBA{24, 58, 34, 255},
	Fire:    color.RGBA{255, 130, 30, 255},
	Wood:    color.RGBA{110, 78, 50, 255},

	Ground:     color.RGBA{30, 38, 26, 255},
	GroundDark: color.RGBA{22, 28, 20, 255},

	Paper:     color.RGBA{230, 225, 210, 255},
	Ink:       color.RGBA{40, 30, 30, 255},
	HouseWall: color.RGBA{90, 84, 76, 255},
	HouseRoof: color.RGBA{60, 44, 36, 255},
	Ember:     color.RGBA{255, 200, 80, 255},

	Player:  color.RGBA{0, 255, 100, 255}, // Bright green
	Stalker: color.RGBA{10, 10, 12, 255},
	Face:    color.RGBA{240, 240, 235, 255},
	Outline: color.RGBA{200, 200, 200, 255},
	Clear:   color.RGBA{0, 0, 0, 0},
}

// MaterialColor returns the palette color for a material
func MaterialColor(m Material) color.RGBA {
	switch m {
	case Trunk:
		return Palette.Trunk
	case Foliage:
		return Palette.Foliage
	case Fire:
		return Palette.Fire
	default:
		return Palette.Wood
	}
}

// Darken returns a darker version of a color
func Darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}
