// Package lighting tracks the light sources of a top-down view and packs them
// into shader uniforms.
package lighting

import (
	"image/color"
	"math"
	"sort"
)

// MaxLights is the number of lights the lighting shader accepts.
const MaxLights = 8

// LightSource represents a single light source in screen space
type LightSource struct {
	X         float64     // Screen X position (in pixels)
	Y         float64     // Screen Y position (in pixels)
	Radius    float64     // Light radius (in pixels)
	Intensity float64     // Light intensity (0.0 to 1.0)
	Color     color.NRGBA // Light color

	// Directional lights shine along (DirX, DirY) within a cone whose half
	// angle has cosine ConeCos. ConeCos <= -1 means omnidirectional.
	DirX, DirY float64
	ConeCos    float64
}

// Manager handles all light sources in the game
type Manager struct {
	ambientLight  float64 // Global ambient light level (0.0 = pitch black, 1.0 = fully lit)
	playerLight   *LightSource
	playerLightOn bool
	fixedLights   map[string]*LightSource // Keyed by light ID
}

// NewManager creates a new lighting manager
func NewManager() *Manager {
	return &Manager{
		ambientLight: 0.06,
		fixedLights:  make(map[string]*LightSource),
	}
}

// SetAmbientLight sets the global ambient light level
func (m *Manager) SetAmbientLight(level float64) {
	m.ambientLight = level
}

// GetAmbientLight returns the current ambient light level
func (m *Manager) GetAmbientLight() float64 {
	return m.ambientLight
}

// SetPlayerLight configures the flashlight beam. halfAngle is in radians.
func (m *Manager) SetPlayerLight(radius, halfAngle float64, col color.NRGBA) {
	if m.playerLight == nil {
		m.playerLight = &LightSource{DirX: 1}
	}
	m.playerLight.Radius = radius
	m.playerLight.ConeCos = math.Cos(halfAngle)
	m.playerLight.Color = col
}

// IsPlayerLightOn returns whether the player's light is currently on
func (m *Manager) IsPlayerLightOn() bool {
	return m.playerLightOn
}

// SetPlayerIntensity sets the beam strength. Zero switches the beam off.
func (m *Manager) SetPlayerIntensity(intensity float64) {
	if m.playerLight == nil {
		return
	}
	m.playerLight.Intensity = intensity
	m.playerLightOn = intensity > 0
}

// UpdatePlayerLight moves and aims the beam (called each frame)
func (m *Manager) UpdatePlayerLight(x, y, dirX, dirY float64) {
	if m.playerLight == nil {
		return
	}
	m.playerLight.X = x
	m.playerLight.Y = y
	if l := math.Hypot(dirX, dirY); l > 1e-9 {
		m.playerLight.DirX = dirX / l
		m.playerLight.DirY = dirY / l
	}
}

// SetLight adds or replaces a fixed light such as the campfire
func (m *Manager) SetLight(id string, light LightSource) {
	if light.ConeCos == 0 {
		light.ConeCos = -1
	}
	m.fixedLights[id] = &light
}

// RemoveLight removes a fixed light
func (m *Manager) RemoveLight(id string) {
	delete(m.fixedLights, id)
}

// GetAllLights returns all active light sources, player light first and
// fixed lights in ID order.
func (m *Manager) GetAllLights() []LightSource {
	lights := make([]LightSource, 0, len(m.fixedLights)+1)

	if m.playerLightOn && m.playerLight != nil && m.playerLight.Intensity > 0 {
		lights = append(lights, *m.playerLight)
	}

	ids := make([]string, 0, len(m.fixedLights))
	for id := range m.fixedLights {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		lights = append(lights, *m.fixedLights[id])
	}

	return lights
}

// Uniforms packs the active lights for the lighting shader. Lights beyond
// MaxLights are dropped.
func (m *Manager) Uniforms() map[string]any {
	lights := m.GetAllLights()
	n := len(lights)
	if n > MaxLights {
		n = MaxLights
	}

	var positions [MaxLights * 2]float32
	var properties [MaxLights * 4]float32
	var colors [MaxLights * 3]float32

	for i := 0; i < n; i++ {
		l := lights[i]
		positions[i*2] = float32(l.X)
		positions[i*2+1] = float32(l.Y)
		properties[i*4] = float32(l.Radius)
		properties[i*4+1] = float32(l.Intensity)
		properties[i*4+2] = float32(l.ConeCos)
		properties[i*4+3] = float32(math.Atan2(l.DirY, l.DirX))
		colors[i*3] = float32(l.Color.R) / 255.0
		colors[i*3+1] = float32(l.Color.G) / 255.0
		colors[i*3+2] = float32(l.Color.B) / 255.0
	}

	return map[string]any{
		"NumLights":       float32(n),
		"AmbientLight":    float32(m.ambientLight),
		"LightPositions":  positions[:],
		"LightProperties": properties[:],
		"LightColors":     colors[:],
	}
}

// Illumination returns the light level at a screen point in [0, 1]. It
// mirrors the shader so views without shader support can shade sprites.
func (m *Manager) Illumination(x, y float64) float64 {
	total := m.ambientLight
	for _, l := range m.GetAllLights() {
		total += l.contribution(x, y)
	}
	return math.Min(total, 1)
}

// FixedIllumination is Illumination without the player's light, for points
// the beam cannot reach.
func (m *Manager) FixedIllumination(x, y float64) float64 {
	total := m.ambientLight
	for _, l := range m.fixedLights {
		total += l.contribution(x, y)
	}
	return math.Min(total, 1)
}

func (l LightSource) contribution(x, y float64) float64 {
	dx, dy := x-l.X, y-l.Y
	d := math.Hypot(dx, dy)
	if d >= l.Radius || l.Radius <= 0 {
		return 0
	}
	falloff := 1 - d/l.Radius
	falloff *= falloff

	if l.ConeCos > -1 && d > 1e-9 {
		cos := (dx*l.DirX + dy*l.DirY) / d
		if cos < l.ConeCos {
			return 0
		}
		// Soft edge across the outer part of the cone
		edge := (cos - l.ConeCos) / (1 - l.ConeCos + 1e-9)
		falloff *= math.Min(1, edge*4)
	}
	return falloff * l.Intensity
}
