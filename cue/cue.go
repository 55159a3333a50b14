// Package cue plays short tones when the active effect or the countdown
// changes.
package cue

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/gekko3d/particleart/particles"
	"github.com/gekko3d/particleart/sim"
)

const (
	SampleRate = beep.SampleRate(44100)

	toneLength  = 150 * time.Millisecond
	finalLength = 600 * time.Millisecond
	// gain is added to unity, so -0.7 plays at 30% volume.
	gain = -0.7
)

var effectPitch = map[particles.EffectKind]float64{
	particles.EffectNone:      220,
	particles.EffectSnow:      880,
	particles.EffectFlow:      440,
	particles.EffectExplosion: 110,
	particles.EffectInk:       330,
}

// Player mixes cues into the system speaker. A Player that was never
// initialized ignores every Play call.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Init opens the speaker. Failing to open it is not fatal to the caller;
// the player simply stays silent.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to open speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
	return nil
}

func (p *Player) PlayEffect(e particles.EffectKind) {
	s, err := EffectCue(SampleRate, e)
	if err != nil {
		return
	}
	p.add(s)
}

func (p *Player) PlayCountdown(state sim.CountdownState) {
	s, err := CountdownCue(SampleRate, state)
	if err != nil || s == nil {
		return
	}
	p.add(s)
}

func (p *Player) add(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

func tone(sr beep.SampleRate, freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, err
	}
	return &effects.Gain{Streamer: beep.Take(sr.N(d), sine), Gain: gain}, nil
}

// EffectCue is a short tone whose pitch identifies the effect.
func EffectCue(sr beep.SampleRate, e particles.EffectKind) (beep.Streamer, error) {
	freq, ok := effectPitch[e]
	if !ok {
		return nil, fmt.Errorf("no cue for effect %s", e)
	}
	return tone(sr, freq, toneLength)
}

// CountdownCue is a tick that rises as the digit falls, or a chord for the
// final message. Waiting has no cue.
func CountdownCue(sr beep.SampleRate, state sim.CountdownState) (beep.Streamer, error) {
	switch state.Phase {
	case sim.ShowingDigit:
		return tone(sr, 440+float64(5-state.Digit)*110, toneLength)
	case sim.ShowingFinalMessage:
		var chord []beep.Streamer
		for _, f := range []float64{523.25, 659.25, 783.99} {
			s, err := tone(sr, f, finalLength)
			if err != nil {
				return nil, err
			}
			chord = append(chord, &effects.Gain{Streamer: s, Gain: -0.66})
		}
		return beep.Mix(chord...), nil
	}
	return nil, nil
}
