package assets

import "strings"

// Material is the surface class of a sprite part. It is decided once when a
// sprite is generated; gameplay code never looks at it.
type Material int

const (
	Wood Material = iota
	Trunk
	Foliage
	Fire
)

func (m Material) String() string {
	switch m {
	case Trunk:
		return "trunk"
	case Foliage:
		return "foliage"
	case Fire:
		return "fire"
	default:
		return "wood"
	}
}

var materialKeywords = []struct {
	material Material
	words    []string
}{
	// Fire first so "burning_branch" reads as fire
	{Fire, []string{"fire", "flame", "ember"}},
	{Trunk, []string{"trunk", "bark", "stem"}},
	{Foliage, []string{"foliage", "leaf", "leaves", "branch", "needle", "pine"}},
}

// Classify maps a part name to its material. Names that match nothing are Wood.
func Classify(name string) Material {
	lower := strings.ToLower(name)
	for _, k := range materialKeywords {
		for _, w := range k.words {
			if strings.Contains(lower, w) {
				return k.material
			}
		}
	}
	return Wood
}
