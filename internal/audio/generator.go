package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// noise is a small LCG so generators stay deterministic and lock-free.
type noise struct {
	seed uint32
}

func (n *noise) next() float64 {
	n.seed = n.seed*1103515245 + 12345
	return float64(n.seed>>1)/float64(math.MaxUint32>>1)*2 - 1
}

// oscillator generates raw audio waves. A zero duration runs forever.
type oscillator struct {
	freq     float64
	sweep    float64 // Hz per second
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	noise    noise
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{freq: freq, duration: rate.N(duration), wave: wave, rate: rate, noise: noise{seed: 0x2545f491}}
}

// NewSweep creates an oscillator whose frequency changes linearly over time
func NewSweep(from, to float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     from,
		sweep:    (to - from) / duration.Seconds(),
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		noise:    noise{seed: 0x9e3779b9},
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.duration > 0 && o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.noise.next()
		}

		samples[i][0] = val
		samples[i][1] = val

		freq := o.freq + o.sweep*float64(o.position)/float64(o.rate)
		o.phase += freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope creates an attack/sustain/release envelope
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = float64(e.totalSamples-e.position) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s with a linear gain. math.Log2(0) is -Inf, so zero is silent.
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	v := &effects.Volume{Streamer: s, Base: 2}
	setGain(v, vol)
	return v
}

func setGain(v *effects.Volume, vol float64) {
	if vol <= 0 {
		v.Volume = 0
		v.Silent = true
		return
	}
	v.Volume = math.Log2(vol)
	v.Silent = false
}

// WindGenerator is the forest ambience: smoothed noise under a slow swell.
type WindGenerator struct {
	sr    beep.SampleRate
	pos   int
	noise noise
	low   float64
}

// NewWindGenerator creates an endless wind generator
func NewWindGenerator(sr beep.SampleRate) *WindGenerator {
	return &WindGenerator{sr: sr, noise: noise{seed: 7}}
}

func (g *WindGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// One-pole low-pass turns white noise into a rush
		g.low += 0.02 * (g.noise.next() - g.low)
		swell := 0.6 + 0.4*math.Sin(2*math.Pi*0.08*t)
		drone := 0.05 * math.Sin(2*math.Pi*55*t)

		sample := 0.5*g.low*swell + drone
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *WindGenerator) Err() error {
	return nil
}

// StaticGenerator is the tension hiss: harsh noise with random dropouts.
type StaticGenerator struct {
	sr    beep.SampleRate
	noise noise
	hold  int
	level float64
}

// NewStaticGenerator creates an endless static generator
func NewStaticGenerator(sr beep.SampleRate) *StaticGenerator {
	return &StaticGenerator{sr: sr, noise: noise{seed: 13}, level: 1}
}

func (g *StaticGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.hold <= 0 {
			// Re-roll the grain every 5-25 ms
			g.hold = g.sr.N(5*time.Millisecond) + int((g.noise.next()+1)*float64(g.sr.N(10*time.Millisecond)))
			g.level = 0.5 + 0.5*math.Abs(g.noise.next())
		}
		g.hold--

		sample := 0.4 * g.noise.next() * g.level
		samples[i][0] = sample
		samples[i][1] = sample
	}
	return len(samples), true
}

func (g *StaticGenerator) Err() error {
	return nil
}

// CrackleGenerator is the campfire: a low roar with sparse pops.
type CrackleGenerator struct {
	sr    beep.SampleRate
	noise noise
	low   float64
	pop   float64
}

// NewCrackleGenerator creates an endless fire generator
func NewCrackleGenerator(sr beep.SampleRate) *CrackleGenerator {
	return &CrackleGenerator{sr: sr, noise: noise{seed: 29}}
}

func (g *CrackleGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	decay := math.Exp(-1 / (0.004 * float64(g.sr)))
	for i := range samples {
		g.low += 0.05 * (g.noise.next() - g.low)
		if g.noise.next() > 0.9995 {
			g.pop = 1
		}
		g.pop *= decay

		sample := 0.3*g.low + 0.5*g.pop*g.noise.next()
		samples[i][0] = sample
		samples[i][1] = sample
	}
	return len(samples), true
}

func (g *CrackleGenerator) Err() error {
	return nil
}
