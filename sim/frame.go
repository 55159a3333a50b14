package sim

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/particleart/particles"
)

// Frame is what a renderer consumes each frame. Positions aliases the live
// simulation buffer and is only valid until the next Advance.
type Frame struct {
	Positions particles.Buffer

	Yaw   float32
	Pitch float32
	Scale float32

	// Material
	ParticleSize float32
	Color        mgl32.Vec3 // RGB, 0..1
	Opacity      float32

	Model     particles.ShapeKind
	Effect    particles.EffectKind
	Countdown CountdownState

	// Dirty is always set: positions change every frame and must be uploaded.
	Dirty bool
}

// Transform is the model matrix of the cloud: pitch about X, then yaw about
// Y, then uniform scale.
func (f Frame) Transform() mgl32.Mat4 {
	s := f.Scale
	return mgl32.HomogRotate3DX(f.Pitch).
		Mul4(mgl32.HomogRotate3DY(f.Yaw)).
		Mul4(mgl32.Scale3D(s, s, s))
}

// Count is the number of particles in the frame.
func (f Frame) Count() int { return f.Positions.Count() }

// Instance is one particle in the layout renderers upload.
type Instance struct {
	Pos   [3]float32
	Size  float32
	Color [4]float32
}

// Instances appends the frame's particles in world space to dst.
func (f Frame) Instances(dst []Instance) []Instance {
	m := f.Transform()
	color := [4]float32{f.Color[0], f.Color[1], f.Color[2], f.Opacity}
	for i := 0; i < f.Positions.Count(); i++ {
		p := m.Mul4x1(f.Positions.At(i).Vec4(1)).Vec3()
		dst = append(dst, Instance{Pos: p, Size: f.ParticleSize, Color: color})
	}
	return dst
}
