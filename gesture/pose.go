package gesture

// Pose describes a hand shape to synthesize.
type Pose struct {
	Fingers Fingers
	Pinch   bool // thumb tip touches the index tip
	Absent  bool // no hand in view
}

var (
	PoseOpen  = Pose{Fingers: 0x1f}
	PoseFist  = Pose{}
	PoseOne   = Pose{Fingers: Fingers(0).With(Index)}
	PoseTwo   = Pose{Fingers: Fingers(0).With(Index).With(Middle)}
	PoseThree = Pose{Fingers: Fingers(0).With(Thumb).With(Index).With(Middle)}
	PosePinch = Pose{Fingers: Fingers(0).With(Middle).With(Ring).With(Pinky), Pinch: true}
	PoseAway  = Pose{Absent: true}
)

type offset struct{ dx, dy float32 }

var (
	fingerBase = [...]offset{
		Index:  {-0.04, -0.12},
		Middle: {-0.01, -0.13},
		Ring:   {0.02, -0.12},
		Pinky:  {0.05, -0.10},
	}
	// PIP, DIP, tip relative to the finger's MCP.
	fingerExtended = [3]offset{{0, -0.04}, {0, -0.08}, {0, -0.12}}
	fingerCurled   = [3]offset{{0, -0.04}, {0, -0.02}, {0, 0.01}}

	thumbCMC      = offset{-0.05, -0.03}
	thumbMCP      = offset{-0.08, -0.06}
	thumbExtended = [2]offset{{-0.12, -0.08}, {-0.16, -0.10}}
	thumbCurled   = [2]offset{{-0.05, -0.08}, {0.0, -0.08}}
)

// Synthesize builds an upright hand in image space with the wrist at (x, y).
// It returns nil for an absent pose.
func Synthesize(p Pose, x, y float32) []Landmark {
	if p.Absent {
		return nil
	}
	lm := make([]Landmark, LandmarkCount)
	at := func(o offset) Landmark { return Landmark{X: x + o.dx, Y: y + o.dy} }

	lm[Wrist] = Landmark{X: x, Y: y}
	lm[ThumbCMC] = at(thumbCMC)
	lm[ThumbMCP] = at(thumbMCP)
	thumb := thumbCurled
	if p.Fingers.Has(Thumb) {
		thumb = thumbExtended
	}
	lm[ThumbIP] = at(thumb[0])
	lm[ThumbTip] = at(thumb[1])

	for f := Index; f <= Pinky; f++ {
		mcp := IndexMCP + int(f-Index)*4
		base := fingerBase[f]
		lm[mcp] = at(base)
		joints := fingerCurled
		if p.Fingers.Has(f) {
			joints = fingerExtended
		}
		for j, o := range joints {
			lm[mcp+1+j] = at(offset{base.dx + o.dx, base.dy + o.dy})
		}
	}

	if p.Pinch {
		tip := lm[IndexTip]
		lm[ThumbTip] = Landmark{X: tip.X + 0.005, Y: tip.Y}
	}
	return lm
}
