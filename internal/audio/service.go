// Package audio synthesizes every sound the game plays. Nothing is loaded
// from disk: loops and effects are generated on the speaker goroutine.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"chosenoffset.com/pinewood/internal/platform/logger"
	"chosenoffset.com/pinewood/internal/session"
)

const sampleRate = beep.SampleRate(44100)

// loopIDs are the sounds that play continuously at a variable volume
var loopIDs = []session.SoundID{session.SoundAmbient, session.SoundStatic, session.SoundFire}

type loop struct {
	ctrl   *beep.Ctrl
	volume *effects.Volume
	level  float64
}

// Service plays game audio. It implements session.AudioSink and degrades to
// silence when no audio device is available.
type Service struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	loops   map[session.SoundID]*loop
	running bool
	muted   bool
	log     *logger.Logger
}

// NewService creates a stopped audio service
func NewService(log *logger.Logger, muted bool) *Service {
	s := &Service{
		mixer: &beep.Mixer{},
		loops: make(map[session.SoundID]*loop),
		muted: muted,
		log:   log,
	}
	for _, id := range loopIDs {
		vol := newVolume(loopStreamer(id, sampleRate), 0)
		l := &loop{volume: vol, ctrl: &beep.Ctrl{Streamer: vol, Paused: true}}
		s.loops[id] = l
		s.mixer.Add(l.ctrl)
	}
	return s
}

// Start opens the audio device. On failure the service stays silent and the
// error is only logged.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || s.muted {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		s.log.Warnf("Audio disabled: %v", err)
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	speaker.Play(s.mixer)
	s.running = true
	s.log.Info("Audio started")
	return nil
}

// Enabled reports whether sound is reaching a device
func (s *Service) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// PlayOnce starts a one-shot effect.
func (s *Service) PlayOnce(id session.SoundID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	st := oneShot(id, sampleRate)
	if st == nil {
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// SetLoopVolume sets a loop's gain in [0, 1]. Zero pauses it.
func (s *Service) SetLoopVolume(id session.SoundID, volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.loops[id]
	if !ok {
		return
	}
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	l.level = volume

	if s.running {
		speaker.Lock()
		defer speaker.Unlock()
	}
	setGain(l.volume, volume)
	l.ctrl.Paused = volume == 0
}

// LoopVolume returns the last volume set for a loop
func (s *Service) LoopVolume(id session.SoundID) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.loops[id]; ok {
		return l.level
	}
	return 0
}

// StopAll silences every loop and drops queued one-shots.
func (s *Service) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		speaker.Lock()
		defer speaker.Unlock()
	}
	s.mixer.Clear()
	for _, l := range s.loops {
		l.level = 0
		setGain(l.volume, 0)
		l.ctrl.Paused = true
		s.mixer.Add(l.ctrl)
	}
}

// Close stops playback and releases the device
func (s *Service) Close() {
	s.StopAll()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.running = false
}
