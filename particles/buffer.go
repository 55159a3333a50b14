package particles

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Buffer is a flat list of xyz triples. Particle i occupies floats 3i..3i+2
// and keeps that slot for the lifetime of a shape selection.
type Buffer []float32

// Rand is the random source used by generators and effects.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float32() float32
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float32() float32 { return rand.Float32() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// DefaultRand draws from the process-wide math/rand/v2 source.
func DefaultRand() Rand { return globalRand{} }

// NewRand returns a seeded source, useful for reproducible runs.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func orDefault(rng Rand) Rand {
	if rng == nil {
		return DefaultRand()
	}
	return rng
}

func NewBuffer(count int) Buffer {
	if count < 0 {
		count = 0
	}
	return make(Buffer, count*3)
}

func (b Buffer) Count() int { return len(b) / 3 }

func (b Buffer) At(i int) mgl32.Vec3 {
	idx := i * 3
	return mgl32.Vec3{b[idx], b[idx+1], b[idx+2]}
}

func (b Buffer) Set(i int, v mgl32.Vec3) {
	idx := i * 3
	b[idx], b[idx+1], b[idx+2] = v[0], v[1], v[2]
}

func (b Buffer) Clone() Buffer {
	out := make(Buffer, len(b))
	copy(out, b)
	return out
}

// Finite reports whether no coordinate is NaN or infinite.
func (b Buffer) Finite() bool {
	for _, v := range b {
		if !finite(v) {
			return false
		}
	}
	return true
}

// MaxDistance returns the largest per-particle distance between b and o.
func (b Buffer) MaxDistance(o Buffer) float32 {
	n := min(len(b), len(o)) / 3
	var worst float32
	for i := 0; i < n; i++ {
		d := b.At(i).Sub(o.At(i)).Len()
		if d > worst {
			worst = d
		}
	}
	return worst
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
