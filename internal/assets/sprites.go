package assets

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
)

// SpriteSize is the standard size for generated sprites
const SpriteSize = 32

// Shape is how a part is rasterized
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeRing
	ShapeRect
	ShapeSpeckle
)

// Part is one named piece of a sprite. Its color comes from the material its
// name classifies as, unless Color is set.
type Part struct {
	Name   string
	Shape  Shape
	Center image.Point // circle, ring
	Radius int         // circle, ring
	Rect   image.Rectangle
	Color  color.RGBA

	// Density is the fraction of pixels a speckle part touches.
	Density float64
}

// Recipe describes how to build one sprite
type Recipe struct {
	Name  string
	Size  int
	Fill  color.RGBA
	Parts []Part
}

// Sprite is a generated image plus the material of each of its parts.
type Sprite struct {
	Name      string
	Image     *image.RGBA
	Materials []Material
}

// Emissive reports whether any part of the sprite gives off its own light.
func (s *Sprite) Emissive() bool {
	for _, m := range s.Materials {
		if m == Fire {
			return true
		}
	}
	return false
}

// Sprite names used by the views
const (
	SpriteTree     = "tree"
	SpriteCampfire = "campfire"
	SpriteHouse    = "house"
	SpritePage     = "page"
	SpriteStalker  = "stalker"
	SpritePlayer   = "player"
	SpriteGround   = "ground"
)

// DefaultRecipes returns the sprites every session needs.
func DefaultRecipes() []Recipe {
	mid := SpriteSize / 2
	c := image.Pt(mid, mid)
	return []Recipe{
		{Name: SpriteTree, Size: SpriteSize, Fill: Palette.Clear, Parts: []Part{
			{Name: "pine_foliage", Shape: ShapeCircle, Center: c, Radius: mid - 2},
			{Name: "needle_shadow", Shape: ShapeRing, Center: c, Radius: mid - 6, Color: Darken(Palette.Foliage, 0.6)},
			{Name: "trunk", Shape: ShapeCircle, Center: c, Radius: 3},
		}},
		{Name: SpriteCampfire, Size: SpriteSize, Fill: Palette.Clear, Parts: []Part{
			{Name: "log_horizontal", Shape: ShapeRect, Rect: image.Rect(4, mid-2, SpriteSize-4, mid+2)},
			{Name: "log_vertical", Shape: ShapeRect, Rect: image.Rect(mid-2, 4, mid+2, SpriteSize-4)},
			{Name: "fire_core", Shape: ShapeCircle, Center: c, Radius: 6},
			{Name: "ember_glow", Shape: ShapeRing, Center: c, Radius: 8, Color: Palette.Ember},
		}},
		{Name: SpriteHouse, Size: SpriteSize, Fill: Palette.Clear, Parts: []Part{
			{Name: "walls", Shape: ShapeRect, Rect: image.Rect(2, 2, SpriteSize-2, SpriteSize-2), Color: Palette.HouseWall},
			{Name: "roof_planks", Shape: ShapeRect, Rect: image.Rect(5, 5, SpriteSize-5, SpriteSize-5), Color: Palette.HouseRoof},
			{Name: "roof_beam", Shape: ShapeRect, Rect: image.Rect(5, mid-1, SpriteSize-5, mid+1)},
		}},
		{Name: SpritePage, Size: SpriteSize, Fill: Palette.Clear, Parts: []Part{
			{Name: "paper", Shape: ShapeRect, Rect: image.Rect(8, 4, SpriteSize-8, SpriteSize-4), Color: Palette.Paper},
			{Name: "scrawl", Shape: ShapeSpeckle, Rect: image.Rect(10, 7, SpriteSize-10, SpriteSize-7), Color: Palette.Ink, Density: 0.3},
		}},
		{Name: SpriteStalker, Size: SpriteSize, Fill: Palette.Clear, Parts: []Part{
			{Name: "suit", Shape: ShapeCircle, Center: c, Radius: mid - 4, Color: Palette.Stalker},
			{Name: "face", Shape: ShapeCircle, Center: image.Pt(mid, mid-5), Radius: 5, Color: Palette.Face},
		}},
		{Name: SpritePlayer, Size: SpriteSize, Fill: Palette.Clear, Parts: []Part{
			{Name: "body", Shape: ShapeCircle, Center: c, Radius: mid - 2, Color: Palette.Player},
			{Name: "outline", Shape: ShapeRing, Center: c, Radius: mid - 2, Color: Palette.Outline},
		}},
		{Name: SpriteGround, Size: SpriteSize, Fill: Palette.Ground, Parts: []Part{
			{Name: "grass_shade", Shape: ShapeSpeckle, Rect: image.Rect(0, 0, SpriteSize, SpriteSize), Color: Palette.GroundDark, Density: 0.25},
		}},
	}
}

// Build rasterizes a recipe
func Build(r Recipe) (*Sprite, error) {
	if r.Size <= 0 {
		return nil, fmt.Errorf("sprite %q: invalid size %d", r.Name, r.Size)
	}
	img := image.NewRGBA(image.Rect(0, 0, r.Size, r.Size))
	draw.Draw(img, img.Bounds(), &image.Uniform{r.Fill}, image.Point{}, draw.Src)

	s := &Sprite{Name: r.Name, Image: img, Materials: make([]Material, len(r.Parts))}
	for i, p := range r.Parts {
		s.Materials[i] = Classify(p.Name)
		col := p.Color
		if col.A == 0 {
			col = MaterialColor(s.Materials[i])
		}
		switch p.Shape {
		case ShapeCircle:
			fillCircle(img, p.Center, p.Radius, col)
		case ShapeRing:
			ring(img, p.Center, p.Radius, col)
		case ShapeRect:
			draw.Draw(img, p.Rect.Intersect(img.Bounds()), &image.Uniform{col}, image.Point{}, draw.Src)
		case ShapeSpeckle:
			speckle(img, p.Rect.Intersect(img.Bounds()), p.Density, col)
		default:
			return nil, fmt.Errorf("sprite %q: part %q has unknown shape %d", r.Name, p.Name, p.Shape)
		}
	}
	return s, nil
}

func fillCircle(img *image.RGBA, center image.Point, radius int, col color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := x - center.X
			dy := y - center.Y
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

func ring(img *image.RGBA, center image.Point, radius int, col color.RGBA) {
	b := img.Bounds()
	inner, outer := radius*radius, (radius+1)*(radius+1)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := x - center.X
			dy := y - center.Y
			if d := dx*dx + dy*dy; d > inner && d <= outer {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// speckle sets a fixed, hash-chosen subset of pixels so output does not
// depend on goroutine scheduling.
func speckle(img *image.RGBA, r image.Rectangle, density float64, col color.RGBA) {
	threshold := uint32(density * 1024)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			h := uint32(x)*73856093 ^ uint32(y)*19349663
			h ^= h >> 13
			h *= 0x5bd1e995
			if h%1024 < threshold {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// Sheet lays sprites out in a grid, for inspection
func Sheet(sprites []*Sprite, columns int) *image.RGBA {
	if columns < 1 {
		columns = 1
	}
	rows := (len(sprites) + columns - 1) / columns
	sheet := image.NewRGBA(image.Rect(0, 0, columns*SpriteSize, rows*SpriteSize))

	for i, s := range sprites {
		if s == nil {
			continue
		}
		x := (i % columns) * SpriteSize
		y := (i / columns) * SpriteSize
		draw.Draw(sheet, image.Rect(x, y, x+SpriteSize, y+SpriteSize), s.Image, image.Point{}, draw.Src)
	}
	return sheet
}

// SavePNG saves an image to a PNG file
func SavePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
