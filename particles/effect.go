package particles

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// EffectKind is a scene-wide motion rule applied to every particle for one tick.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectSnow
	EffectFlow
	EffectExplosion
	EffectInk
)

var effectNames = [...]string{
	EffectNone:      "None",
	EffectSnow:      "Snow",
	EffectFlow:      "Flow",
	EffectExplosion: "Explosion",
	EffectInk:       "Ink",
}

func EffectKinds() []EffectKind {
	kinds := make([]EffectKind, len(effectNames))
	for i := range effectNames {
		kinds[i] = EffectKind(i)
	}
	return kinds
}

func (e EffectKind) Valid() bool { return e >= EffectNone && e <= EffectInk }

func (e EffectKind) String() string {
	if !e.Valid() {
		return fmt.Sprintf("EffectKind(%d)", int(e))
	}
	return effectNames[e]
}

func (e EffectKind) Next(step int) EffectKind {
	n := len(effectNames)
	return EffectKind(((int(e)+step)%n + n) % n)
}

func ParseEffectKind(s string) (EffectKind, error) {
	for i, name := range effectNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return EffectKind(i), nil
		}
	}
	return EffectNone, fmt.Errorf("unknown effect %q", s)
}

func (e EffectKind) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("invalid effect %d", int(e))
	}
	return []byte(e.String()), nil
}

func (e *EffectKind) UnmarshalText(b []byte) error {
	v, err := ParseEffectKind(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Per-frame factors. They are applied once per tick regardless of the frame
// duration, so convergence speed follows the frame rate.
const (
	ShapePull     = 0.1
	FlowPull      = 0.01
	InkPull       = 0.02
	CountdownPull = 0.1

	SnowFloor        = -4
	SnowCeiling      = 4
	ExplosionRadius  = 10
	explosionEpsilon = 0.001
)

// StepParams carries the per-frame inputs of the effect laws.
type StepParams struct {
	Delta float32 // seconds since the previous frame
	Speed float32 // config speed multiplier
	Noise float32 // config noise amount
	Time  float32 // accumulated simulation time (delta * speed)
}

// Step advances cur in place by one frame of effect, using target as the
// resting shape. Buffers of different lengths are processed up to the shorter
// one. A coordinate that turns non-finite is replaced by its target value.
func Step(cur, target Buffer, effect EffectKind, p StepParams, rng Rand) {
	rng = orDefault(rng)
	n := min(len(cur), len(target)) / 3
	move := p.Speed * p.Delta
	noiseAmt := p.Noise * 0.01

	for i := 0; i < n; i++ {
		idx := i * 3
		x, y, z := cur[idx], cur[idx+1], cur[idx+2]
		tx, ty, tz := target[idx], target[idx+1], target[idx+2]

		switch effect {
		case EffectSnow:
			y -= move * 2
			x += math32.Sin(p.Time+y) * 0.01
			if y < SnowFloor {
				y = SnowCeiling
				x = tx + (rng.Float32()-0.5)*2
				z = tz + (rng.Float32()-0.5)*2
			}

		case EffectFlow:
			angle := move * 2
			c, s := math32.Cos(angle), math32.Sin(angle)
			x, z = x*c-z*s, x*s+z*c
			y = ty + math32.Sin(p.Time*2+x)*0.5
			x += (tx - x) * FlowPull
			z += (tz - z) * FlowPull

		case EffectExplosion:
			dist := math32.Sqrt(x*x+y*y+z*z) + explosionEpsilon
			push := move * 8 / dist
			x += x * push
			y += y * push
			z += z * push
			// Pulse: anything pushed past the radius restarts from the shape.
			if x*x+y*y+z*z > ExplosionRadius*ExplosionRadius {
				x, y, z = tx, ty, tz
			}

		case EffectInk:
			amt := 0.05 * p.Speed
			x += (rng.Float32() - 0.5) * amt
			y += (rng.Float32() - 0.5) * amt
			z += (rng.Float32() - 0.5) * amt
			x += (tx - x) * InkPull
			y += (ty - y) * InkPull
			z += (tz - z) * InkPull

		default:
			x += (tx - x) * ShapePull
			y += (ty - y) * ShapePull
			z += (tz - z) * ShapePull
			if p.Noise > 0 {
				x += (rng.Float32() - 0.5) * noiseAmt
				y += (rng.Float32() - 0.5) * noiseAmt
				z += (rng.Float32() - 0.5) * noiseAmt
			}
		}

		cur[idx] = finiteOr(x, tx)
		cur[idx+1] = finiteOr(y, ty)
		cur[idx+2] = finiteOr(z, tz)
	}
}

// StepToward lerps cur toward target by factor without any effect law.
func StepToward(cur, target Buffer, factor float32) {
	n := min(len(cur), len(target))
	for i := 0; i < n; i++ {
		cur[i] = finiteOr(cur[i]+(target[i]-cur[i])*factor, target[i])
	}
}

func finiteOr(v, fallback float32) float32 {
	if finite(v) {
		return v
	}
	return fallback
}
