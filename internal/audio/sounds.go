package audio

import (
	"time"

	"github.com/gopxl/beep"

	"chosenoffset.com/pinewood/internal/session"
)

// Sound effect generators. Every one-shot is finite.

// CreatePageSound is a soft two-note chime for picking up a page
func CreatePageSound(rate beep.SampleRate) beep.Streamer {
	d := 250 * time.Millisecond
	n1 := NewEnvelope(NewOscillator(659.25, d, WaveSine, rate), d, 5*time.Millisecond, 200*time.Millisecond, rate)
	n2 := NewEnvelope(NewOscillator(987.77, d, WaveSine, rate), d, 5*time.Millisecond, 200*time.Millisecond, rate)
	return newVolume(beep.Seq(n1, n2), 0.5)
}

// CreateClickSound is the flashlight switch
func CreateClickSound(rate beep.SampleRate) beep.Streamer {
	d := 30 * time.Millisecond
	osc := NewOscillator(2200, d, WaveSquare, rate)
	return newVolume(NewEnvelope(osc, d, time.Millisecond, 25*time.Millisecond, rate), 0.25)
}

// CreateTeleportSound is a low noise swell when the stalker moves
func CreateTeleportSound(rate beep.SampleRate) beep.Streamer {
	d := 600 * time.Millisecond
	rumble := NewEnvelope(NewSweep(90, 40, d, WaveSaw, rate), d, 200*time.Millisecond, 300*time.Millisecond, rate)
	hiss := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 250*time.Millisecond, 300*time.Millisecond, rate)
	return newVolume(beep.Mix(newVolume(rumble, 0.6), newVolume(hiss, 0.3)), 0.7)
}

// CreateCaughtSound is the scream sting on a loss
func CreateCaughtSound(rate beep.SampleRate) beep.Streamer {
	d := 1500 * time.Millisecond
	screech := NewEnvelope(NewSweep(400, 1400, d, WaveSaw, rate), d, 10*time.Millisecond, 600*time.Millisecond, rate)
	burst := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 5*time.Millisecond, 1200*time.Millisecond, rate)
	return newVolume(beep.Mix(newVolume(screech, 0.5), newVolume(burst, 0.6)), 0.9)
}

// CreateBatteryDeadSound is a falling tone as the beam dies
func CreateBatteryDeadSound(rate beep.SampleRate) beep.Streamer {
	d := 900 * time.Millisecond
	osc := NewSweep(440, 110, d, WaveSine, rate)
	return newVolume(NewEnvelope(osc, d, 10*time.Millisecond, 400*time.Millisecond, rate), 0.5)
}

// CreateBurnSound is a whoosh as the pages catch fire
func CreateBurnSound(rate beep.SampleRate) beep.Streamer {
	d := 1200 * time.Millisecond
	whoosh := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 300*time.Millisecond, 700*time.Millisecond, rate)
	body := NewEnvelope(NewSweep(60, 120, d, WaveSine, rate), d, 300*time.Millisecond, 700*time.Millisecond, rate)
	return newVolume(beep.Mix(newVolume(whoosh, 0.5), newVolume(body, 0.4)), 0.8)
}

// oneShot returns the streamer for a one-shot sound, or nil for loops and unknown IDs.
func oneShot(id session.SoundID, rate beep.SampleRate) beep.Streamer {
	switch id {
	case session.SoundPage:
		return CreatePageSound(rate)
	case session.SoundClick:
		return CreateClickSound(rate)
	case session.SoundTeleport:
		return CreateTeleportSound(rate)
	case session.SoundCaught:
		return CreateCaughtSound(rate)
	case session.SoundBatteryDead:
		return CreateBatteryDeadSound(rate)
	case session.SoundBurn:
		return CreateBurnSound(rate)
	default:
		return nil
	}
}

// loopStreamer returns the endless generator for a loop ID, or nil.
func loopStreamer(id session.SoundID, rate beep.SampleRate) beep.Streamer {
	switch id {
	case session.SoundAmbient:
		return NewWindGenerator(rate)
	case session.SoundStatic:
		return NewStaticGenerator(rate)
	case session.SoundFire:
		return NewCrackleGenerator(rate)
	default:
		return nil
	}
}
