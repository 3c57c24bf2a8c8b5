// Package battery models the flashlight battery: it drains while the light is
// on and the session is active, and reports exhaustion exactly once.
package battery

import (
	"chosenoffset.com/pinewood/internal/simulation"
)

// Band is the display color band for a battery level
type Band int

const (
	BandNormal Band = iota
	BandWarn
	BandCritical
)

func (b Band) String() string {
	switch b {
	case BandNormal:
		return "normal"
	case BandWarn:
		return "warn"
	case BandCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// BandFor maps a level to its band: >=60 normal, 30-60 warn, <30 critical.
func BandFor(level float64) Band {
	switch {
	case level >= 60:
		return BandNormal
	case level >= 30:
		return BandWarn
	default:
		return BandCritical
	}
}

// snap treats residue from repeated float subtraction as empty.
const snap = 1e-9

// Meter tracks battery level and flashlight state
type Meter struct {
	config    simulation.BatteryConfig
	level     float64
	on        bool
	exhausted bool
}

// NewMeter creates a full battery
func NewMeter(config simulation.BatteryConfig) *Meter {
	level := config.Capacity
	if level > 100 {
		level = 100
	}
	return &Meter{
		config: config,
		level:  level,
		on:     config.StartOn && level > 0,
	}
}

// Level returns the current charge in [0, 100]
func (m *Meter) Level() float64 {
	return m.level
}

// On returns whether the flashlight is lit
func (m *Meter) On() bool {
	return m.on
}

// Exhausted returns whether the battery has run out
func (m *Meter) Exhausted() bool {
	return m.exhausted
}

// Band returns the display band for the current level
func (m *Meter) Band() Band {
	return BandFor(m.level)
}

// Toggle flips the flashlight and returns the new state. An empty battery
// cannot be switched on.
func (m *Meter) Toggle() bool {
	m.SetOn(!m.on)
	return m.on
}

// SetOn switches the flashlight
func (m *Meter) SetOn(on bool) {
	if on && m.exhausted {
		return
	}
	m.on = on
}

// Drain consumes charge for dt seconds. It returns true only on the tick the
// battery first empties; the flashlight is forced off at that point.
func (m *Meter) Drain(dt float64, active bool) bool {
	if !active || !m.on || m.exhausted || dt <= 0 {
		return false
	}

	m.level -= m.config.DrainPerSecond * dt
	if m.level <= snap {
		m.level = 0
		m.exhausted = true
		m.on = false
		return true
	}
	return false
}

// Intensity is the beam strength to render: zero when off, full above the low
// threshold, and fading toward MinIntensity as the battery empties.
func (m *Meter) Intensity() float64 {
	if !m.on {
		return 0
	}
	low := m.config.LowThreshold
	if low <= 0 || m.level >= low {
		return 1
	}
	frac := m.level / low
	return m.config.MinIntensity + (1-m.config.MinIntensity)*frac
}
