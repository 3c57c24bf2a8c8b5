package audio

import (
	"math"
	"testing"

	"github.com/gopxl/beep"

	"chosenoffset.com/pinewood/internal/platform/logger"
	"chosenoffset.com/pinewood/internal/session"
)

// drain streams s to the end and returns the sample count and peak level.
func drain(t *testing.T, s beep.Streamer, limit int) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for total < limit {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
			if math.IsNaN(buf[i][0]) {
				t.Fatal("NaN sample")
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	return total, peak
}

func TestOneShotsAreFiniteAndBounded(t *testing.T) {
	ids := []session.SoundID{
		session.SoundPage, session.SoundClick, session.SoundTeleport,
		session.SoundCaught, session.SoundBatteryDead, session.SoundBurn,
	}
	limit := sampleRate.N(10e9) // 10 s

	for _, id := range ids {
		s := oneShot(id, sampleRate)
		if s == nil {
			t.Fatalf("%s: no streamer", id)
		}
		n, peak := drain(t, s, limit)
		if n >= limit {
			t.Errorf("%s: did not finish within 10s", id)
		}
		if n == 0 || peak == 0 {
			t.Errorf("%s: silent (%d samples)", id, n)
		}
		if peak > 2 {
			t.Errorf("%s: peak %v clips badly", id, peak)
		}
	}
}

func TestLoopsAreEndless(t *testing.T) {
	for _, id := range loopIDs {
		s := loopStreamer(id, sampleRate)
		limit := sampleRate.N(2e9)
		n, peak := drain(t, s, limit)
		if n < limit {
			t.Errorf("%s: loop ended after %d samples", id, n)
		}
		if peak == 0 || peak > 1.5 {
			t.Errorf("%s: peak %v", id, peak)
		}
	}
	if oneShot(session.SoundAmbient, sampleRate) != nil {
		t.Error("ambient should not be a one-shot")
	}
}

func TestEnvelopeLength(t *testing.T) {
	osc := NewOscillator(440, 0, WaveSine, sampleRate) // endless
	env := NewEnvelope(osc, 1e8, 1e7, 1e7, sampleRate) // 100 ms

	n, _ := drain(t, env, sampleRate.N(1e9))
	if want := sampleRate.N(1e8); n != want {
		t.Errorf("envelope streamed %d samples, want %d", n, want)
	}
}

func TestNewVolumeSilentAtZero(t *testing.T) {
	v := newVolume(NewOscillator(440, 1e8, WaveSquare, sampleRate), 0)
	if !v.Silent {
		t.Error("zero volume should be silent")
	}
	setGain(v, 0.5)
	if v.Silent || v.Volume != -1 {
		t.Errorf("gain 0.5 -> volume %v silent %v, want -1 false", v.Volume, v.Silent)
	}
}

func TestServiceWithoutDevice(t *testing.T) {
	s := NewService(logger.Discard(), true)
	if err := s.Start(); err != nil {
		t.Fatalf("muted Start: %v", err)
	}
	if s.Enabled() {
		t.Fatal("muted service should not be enabled")
	}

	// Calls must be safe without a device
	s.PlayOnce(session.SoundPage)
	s.SetLoopVolume(session.SoundStatic, 0.7)
	s.SetLoopVolume(session.SoundAmbient, 3)
	s.SetLoopVolume("unknown", 1)

	if got := s.LoopVolume(session.SoundStatic); got != 0.7 {
		t.Errorf("static volume = %v, want 0.7", got)
	}
	if got := s.LoopVolume(session.SoundAmbient); got != 1 {
		t.Errorf("ambient volume = %v, want clamped to 1", got)
	}

	s.StopAll()
	for _, id := range loopIDs {
		if got := s.LoopVolume(id); got != 0 {
			t.Errorf("%s volume %v after StopAll", id, got)
		}
	}
	s.Close()
}

func TestServiceMixesLoops(t *testing.T) {
	s := NewService(logger.Discard(), true)

	buf := make([][2]float64, 1024)
	s.mixer.Stream(buf)
	for _, smp := range buf {
		if smp[0] != 0 {
			t.Fatal("paused loops should be silent")
		}
	}

	s.SetLoopVolume(session.SoundAmbient, 1)
	s.mixer.Stream(buf)
	peak := 0.0
	for _, smp := range buf {
		peak = math.Max(peak, math.Abs(smp[0]))
	}
	if peak == 0 {
		t.Error("ambient loop should be audible")
	}
}

var _ session.AudioSink = (*Service)(nil)
