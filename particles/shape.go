package particles

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

type ShapeKind int

const (
	Heart ShapeKind = iota
	Flower
	Saturn
	Galaxy
	Sphere
	DNA
	Fireworks
	Pyramid
	Skull
	Countdown
	WorldMap
)

var shapeNames = [...]string{
	Heart:     "Heart",
	Flower:    "Flower",
	Saturn:    "Saturn",
	Galaxy:    "Galaxy",
	Sphere:    "Sphere",
	DNA:       "DNA",
	Fireworks: "Fireworks",
	Pyramid:   "Pyramid",
	Skull:     "Skull",
	Countdown: "Countdown",
	WorldMap:  "WorldMap",
}

// ShapeKinds lists every shape in declaration order.
func ShapeKinds() []ShapeKind {
	kinds := make([]ShapeKind, len(shapeNames))
	for i := range shapeNames {
		kinds[i] = ShapeKind(i)
	}
	return kinds
}

func (k ShapeKind) Valid() bool { return k >= Heart && k <= WorldMap }

func (k ShapeKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
	return shapeNames[k]
}

// Next cycles through the shapes, wrapping in both directions.
func (k ShapeKind) Next(step int) ShapeKind {
	n := len(shapeNames)
	return ShapeKind(((int(k)+step)%n + n) % n)
}

func ParseShapeKind(s string) (ShapeKind, error) {
	for i, name := range shapeNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return ShapeKind(i), nil
		}
	}
	return Heart, fmt.Errorf("unknown shape %q", s)
}

func (k ShapeKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid shape %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *ShapeKind) UnmarshalText(b []byte) error {
	v, err := ParseShapeKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

const (
	sphereRadius = 2.5
	globeRadius  = 3.2
	twoPi        = 2 * math32.Pi
)

// Generate samples count particles from the resting distribution of kind.
// Every particle is an independent draw, so raising count only adds samples;
// Galaxy and DNA additionally use the particle index to pick arm and strand.
func Generate(kind ShapeKind, count int, rng Rand) Buffer {
	rng = orDefault(rng)
	buf := NewBuffer(count)
	for i := 0; i < count; i++ {
		x, y, z := samplePoint(kind, i, count, rng)
		idx := i * 3
		buf[idx], buf[idx+1], buf[idx+2] = x, y, z
	}
	return buf
}

func samplePoint(kind ShapeKind, i, count int, rng Rand) (x, y, z float32) {
	switch kind {
	case Heart:
		t := rng.Float32() * twoPi
		s := math32.Sin(t)
		hx := 16 * s * s * s
		hy := 13*math32.Cos(t) - 5*math32.Cos(2*t) - 2*math32.Cos(3*t) - math32.Cos(4*t)
		hz := (rng.Float32() - 0.5) * 10
		return hx * 0.15, hy * 0.15, hz * 0.2

	case Flower:
		theta := rng.Float32() * twoPi
		phi := rng.Float32() * math32.Pi
		r := 2 + math32.Sin(5*theta)*math32.Sin(5*phi)
		return spherical(r, theta, phi)

	case Saturn:
		if rng.Float32() < 0.6 {
			return onSphere(1.5, rng)
		}
		r := 2.5 + rng.Float32()*1.5
		theta := rng.Float32() * twoPi
		return r * math32.Cos(theta), (rng.Float32() - 0.5) * 0.1, r * math32.Sin(theta)

	case Galaxy:
		const arms = 3
		r := rng.Float32() * 4
		angle := r*2 + float32(i%arms)*(twoPi/arms)
		return math32.Cos(angle) * r, (rng.Float32() - 0.5) * (4 - r) * 0.5, math32.Sin(angle) * r

	case DNA:
		frac := float32(i) / float32(max(count, 1))
		t := frac * math32.Pi * 10
		phase := float32(0)
		if i%2 == 1 {
			phase = math32.Pi
		}
		x = 1.5*math32.Cos(t+phase) + (rng.Float32()-0.5)*0.2
		z = 1.5*math32.Sin(t+phase) + (rng.Float32()-0.5)*0.2
		return x, frac*8 - 4, z

	case Fireworks:
		shell := float32(rng.IntN(5) + 1)
		r := shell*0.8 + (rng.Float32()-0.5)*0.2
		return onSphere(r, rng)

	case Pyramid:
		h := rng.Float32() * 4
		half := (4 - h) * 0.5
		return (rng.Float32() - 0.5) * 2 * half, h - 2, (rng.Float32() - 0.5) * 2 * half

	case Skull:
		return skullPoint(rng)

	case Countdown:
		return (rng.Float32() - 0.5) * 10, (rng.Float32() - 0.5) * 10, (rng.Float32() - 0.5) * 5

	case WorldMap:
		return onSphere(globeRadius, rng)

	default:
		return onSphere(sphereRadius, rng)
	}
}

func skullPoint(rng Rand) (x, y, z float32) {
	theta := rng.Float32() * twoPi
	phi := math32.Acos(2*rng.Float32() - 1)
	r := float32(2)
	// jaw
	if phi > 2 {
		r *= 1.2
	}
	// cranium
	if phi < 1.5 {
		r *= 1.1
	}
	x, y, z = spherical(r, theta, phi)
	// face
	if z > 1 {
		z *= 0.6
	}
	// eye sockets
	if z > 0.5 && y > 0 && y < 1 && math32.Abs(x) < 0.8 && math32.Abs(x) > 0.2 {
		z -= 0.5
	}
	return x, y, z
}

// onSphere samples the sphere surface uniformly; acos keeps the poles from clustering.
func onSphere(r float32, rng Rand) (x, y, z float32) {
	theta := rng.Float32() * twoPi
	phi := math32.Acos(2*rng.Float32() - 1)
	return spherical(r, theta, phi)
}

func spherical(r, theta, phi float32) (x, y, z float32) {
	sp := math32.Sin(phi)
	return r * sp * math32.Cos(theta), r * sp * math32.Sin(theta), r * math32.Cos(phi)
}
