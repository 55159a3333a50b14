package sim

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/gekko3d/particleart/gesture"
	"github.com/gekko3d/particleart/particles"
)

// Mode selects how the hand is interpreted.
type Mode int

const (
	ModeStandard Mode = iota
	ModeCountdown
)

func (m Mode) String() string {
	if m == ModeCountdown {
		return "countdown"
	}
	return "standard"
}

func ModeFor(model particles.ShapeKind) Mode {
	if model == particles.Countdown {
		return ModeCountdown
	}
	return ModeStandard
}

// Profile is the gesture table the tracker should classify with in this mode.
func (m Mode) Profile() gesture.Profile {
	if m == ModeCountdown {
		return gesture.CountdownProfile{}
	}
	return gesture.StandardProfile{}
}

// ResolveEffect picks the effect for one frame. A detected fist, one or two
// overrides the configured effect for exactly as long as it is held.
// Countdown mode runs no effect.
func ResolveEffect(base particles.EffectKind, hand gesture.HandFrame, mode Mode) particles.EffectKind {
	if mode == ModeCountdown {
		return particles.EffectNone
	}
	if !hand.Detected {
		return base
	}
	switch hand.Gesture {
	case gesture.ClosedFist:
		return particles.EffectExplosion
	case gesture.One:
		return particles.EffectSnow
	case gesture.Two:
		return particles.EffectFlow
	}
	return base
}

type Options struct {
	Smoothing Smoothing
	Rand      particles.Rand
	// Text renders countdown glyphs; the shared default rasterizer when nil.
	Text *particles.TextRasterizer
}

// Simulation owns the current and target particle buffers and advances
// them once per rendered frame. It is not safe for concurrent use.
type Simulation struct {
	cfg       Config
	smoothing Smoothing
	rng       particles.Rand
	text      *particles.TextRasterizer

	current particles.Buffer
	target  particles.Buffer

	orient    Orientation
	time      float32
	effect    particles.EffectKind
	countdown Countdown
	frames    uint64
}

func New(cfg Config, opts Options) (*Simulation, error) {
	text := opts.Text
	if text == nil {
		var err error
		if text, err = particles.DefaultTextRasterizer(); err != nil {
			return nil, fmt.Errorf("failed to create text rasterizer: %w", err)
		}
	}
	s := &Simulation{
		smoothing: opts.Smoothing,
		rng:       opts.Rand,
		text:      text,
	}
	if s.rng == nil {
		s.rng = particles.DefaultRand()
	}
	s.Reset(cfg)
	return s, nil
}

// Reset regenerates both buffers for cfg and returns orientation, time and
// the countdown to their initial values.
func (s *Simulation) Reset(cfg Config) {
	cfg = cfg.Sanitize()
	s.orient = neutralOrientation()
	s.time = 0
	s.effect = cfg.Effect
	s.countdown.Reset()
	s.regenerate(cfg)
}

// regenerate replaces current and target together. The old buffers are
// never written, so a renderer still holding them sees a consistent frame.
func (s *Simulation) regenerate(cfg Config) {
	target := particles.Generate(cfg.Model, cfg.ParticleCount, s.rng)
	current := target.Clone()
	s.cfg = cfg
	s.current, s.target = current, target
	if ModeFor(cfg.Model) == ModeCountdown {
		s.countdown.Reset()
	}
}

func (s *Simulation) retargetCountdown() error {
	text := s.countdown.State().Text(s.cfg.CountdownMessage)
	if text == "" {
		s.target = particles.Generate(particles.Countdown, s.cfg.ParticleCount, s.rng)
		return nil
	}
	target, err := s.text.Rasterize(text, s.cfg.ParticleCount, s.rng)
	if err != nil {
		return fmt.Errorf("failed to rasterize %q: %w", text, err)
	}
	s.target = target
	return nil
}

// Advance runs one frame of delta seconds with the given config and hand.
// A model or count change regenerates both buffers before stepping.
func (s *Simulation) Advance(cfg Config, hand gesture.HandFrame, delta float32) error {
	cfg = cfg.Sanitize()
	if math32.IsNaN(delta) || math32.IsInf(delta, 0) || delta < 0 {
		delta = 0
	}

	if cfg.Model != s.cfg.Model || cfg.ParticleCount != s.cfg.ParticleCount {
		s.regenerate(cfg)
	}
	messageChanged := cfg.CountdownMessage != s.cfg.CountdownMessage
	s.cfg = cfg

	mode := ModeFor(cfg.Model)
	if !hand.Detected {
		hand = gesture.HandFrame{}
	}
	s.effect = ResolveEffect(cfg.Effect, hand, mode)
	s.orient.update(hand, cfg, delta, s.smoothing)
	s.time += delta * cfg.Speed
	s.frames++

	if mode == ModeCountdown {
		changed := s.countdown.Update(hand, delta)
		if messageChanged && s.countdown.State().Phase == ShowingFinalMessage {
			changed = true
		}
		if changed {
			if err := s.retargetCountdown(); err != nil {
				return err
			}
		}
		particles.StepToward(s.current, s.target, particles.CountdownPull)
		return nil
	}

	particles.Step(s.current, s.target, s.effect, particles.StepParams{
		Delta: delta,
		Speed: cfg.Speed,
		Noise: cfg.Noise,
		Time:  s.time,
	}, s.rng)
	return nil
}

func (s *Simulation) Config() Config { return s.cfg }
func (s *Simulation) Mode() Mode { return ModeFor(s.cfg.Model) }
func (s *Simulation) Profile() gesture.Profile { return s.Mode().Profile() }
func (s *Simulation) ActiveEffect() particles.EffectKind { return s.effect }
func (s *Simulation) Orientation() Orientation { return s.orient }
func (s *Simulation) Time() float32 { return s.time }
func (s *Simulation) Frames() uint64 { return s.frames }
func (s *Simulation) Countdown() CountdownState { return s.countdown.State() }

// Current and Target expose the live buffers; callers must not retain them
// across a call to Advance or Reset.
func (s *Simulation) Current() particles.Buffer { return s.current }
func (s *Simulation) Target() particles.Buffer { return s.target }

// Frame returns the render contract for the state after the last Advance.
func (s *Simulation) Frame() Frame {
	return Frame{
		Positions:    s.current,
		Yaw:          s.orient.Yaw,
		Pitch:        s.orient.Pitch,
		Scale:        s.orient.Scale,
		ParticleSize: s.cfg.ParticleSize,
		Color:        s.cfg.RGB(),
		Opacity:      s.cfg.Opacity,
		Model:        s.cfg.Model,
		Effect:       s.effect,
		Countdown:    s.countdown.State(),
		Dirty:        true,
	}
}
