package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePinch(t *testing.T) {
	assert.Equal(t, float32(0), NormalizePinch(0.02))
	assert.Equal(t, float32(0), NormalizePinch(0))
	assert.Equal(t, float32(1), NormalizePinch(0.17))
	assert.Equal(t, float32(1), NormalizePinch(0.5))
	assert.InDelta(t, 0.5, NormalizePinch(0.095), 1e-5)
}

func TestClassify_PinchBounds(t *testing.T) {
	lm := Synthesize(PoseOpen, 0.5, 0.6)

	// Thumb on top of the index tip.
	lm[ThumbTip] = lm[IndexTip]
	f := Classify(lm, StandardProfile{})
	assert.Equal(t, float32(0), f.PinchDistance)
	assert.Equal(t, Pinch, f.Gesture)

	lm[ThumbTip] = Landmark{X: lm[IndexTip].X + 0.2, Y: lm[IndexTip].Y}
	f = Classify(lm, StandardProfile{})
	assert.Equal(t, float32(1), f.PinchDistance)
	assert.NotEqual(t, Pinch, f.Gesture)
}

func TestClassify_Profiles(t *testing.T) {
	tests := []struct {
		name      string
		pose      Pose
		standard  Kind
		countdown Kind
	}{
		{"fist", PoseFist, ClosedFist, ClosedFist},
		{"index", PoseOne, One, One},
		{"victory", PoseTwo, Two, Two},
		{"thumb index middle", PoseThree, Two, Three},
		{"open hand", PoseOpen, Five, Five},
		{"four fingers", Pose{Fingers: 0x1e}, Five, Four},
		{"thumb only", Pose{Fingers: Fingers(0).With(Thumb)}, ClosedFist, One},
		{"pinky only", Pose{Fingers: Fingers(0).With(Pinky)}, None, One},
		{"pinch", PosePinch, Pinch, Pinch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lm := Synthesize(tt.pose, 0.5, 0.6)
			require.Len(t, lm, LandmarkCount)

			std := Classify(lm, StandardProfile{})
			assert.True(t, std.Detected)
			assert.Equal(t, tt.standard, std.Gesture, "standard: fingers %s", std.Fingers)

			cd := Classify(lm, CountdownProfile{})
			assert.Equal(t, tt.countdown, cd.Gesture, "countdown: fingers %s", cd.Fingers)
		})
	}
}

func TestClassify_ExtendedFingersMatchPose(t *testing.T) {
	for fs := Fingers(0); fs < 32; fs++ {
		lm := Synthesize(Pose{Fingers: fs}, 0.4, 0.7)
		assert.Equal(t, fs, ExtendedFingers(lm), "pose %s", fs)
	}
}

func TestClassify_ZeroFingersWithoutPinchIsFist(t *testing.T) {
	lm := Synthesize(PoseFist, 0.5, 0.5)
	f := Classify(lm, StandardProfile{})
	require.GreaterOrEqual(t, f.PinchDistance, float32(PinchThreshold))
	assert.Equal(t, ClosedFist, f.Gesture)
}

func TestClassify_CenterIsMirroredWrist(t *testing.T) {
	f := Classify(Synthesize(PoseOpen, 0.25, 0.75), nil)
	assert.InDelta(t, 0.5, f.CenterX, 1e-6)
	assert.InDelta(t, -0.5, f.CenterY, 1e-6)
}

func TestClassify_MissingLandmarks(t *testing.T) {
	assert.Equal(t, HandFrame{}, Classify(nil, StandardProfile{}))
	assert.Equal(t, HandFrame{}, Classify(make([]Landmark, 20), CountdownProfile{}))

	f := ClassifyDetection(Detection{Timestamp: 42}, StandardProfile{})
	assert.False(t, f.Detected)
	assert.Equal(t, None, f.Gesture)
	assert.Equal(t, int64(42), f.Timestamp)
}

func TestKind_Digit(t *testing.T) {
	for n := 1; n <= 5; n++ {
		d, ok := DigitKind(n).Digit()
		assert.True(t, ok)
		assert.Equal(t, n, d)
	}
	_, ok := ClosedFist.Digit()
	assert.False(t, ok)
	assert.Equal(t, None, DigitKind(6))
	assert.Equal(t, "ClosedFist", ClosedFist.String())
	assert.Equal(t, "thumb+index", Fingers(0).With(Index).With(Thumb).String())
}
