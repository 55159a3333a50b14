package gesture

import (
	"context"
	"sync"
	"time"

	"github.com/aquilax/go-perlin"
)

// DefaultSyntheticPoses cycles through every gesture of both profiles with a
// short absence in between.
var DefaultSyntheticPoses = []Pose{PoseOpen, PoseOne, PoseTwo, PoseFist, PosePinch, PoseThree, PoseAway}

// SyntheticSource is a demo detector: a hand that drifts along a perlin noise
// path and holds each pose for PoseDuration.
type SyntheticSource struct {
	Interval     time.Duration
	PoseDuration time.Duration
	Poses        []Pose
	Seed         int64

	mu     sync.Mutex
	noise  *perlin.Perlin
	start  time.Time
	ticker *time.Ticker
	closed chan struct{}
}

func NewSyntheticSource(seed int64) *SyntheticSource {
	return &SyntheticSource{
		Interval:     time.Second / 30,
		PoseDuration: 3 * time.Second,
		Poses:        DefaultSyntheticPoses,
		Seed:         seed,
	}
}

func (s *SyntheticSource) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Interval <= 0 {
		s.Interval = time.Second / 30
	}
	if s.PoseDuration <= 0 {
		s.PoseDuration = 3 * time.Second
	}
	if len(s.Poses) == 0 {
		s.Poses = DefaultSyntheticPoses
	}
	s.noise = perlin.NewPerlin(2, 2, 3, s.Seed)
	s.start = time.Now()
	s.ticker = time.NewTicker(s.Interval)
	s.closed = make(chan struct{})
	return nil
}

func (s *SyntheticSource) Next(ctx context.Context) (Detection, error) {
	s.mu.Lock()
	ticker, closed := s.ticker, s.closed
	s.mu.Unlock()
	if ticker == nil {
		return Detection{}, ErrSourceClosed
	}

	select {
	case <-ctx.Done():
		return Detection{}, ctx.Err()
	case <-closed:
		return Detection{}, ErrSourceClosed
	case now := <-ticker.C:
		return s.At(now.Sub(s.start)), nil
	}
}

// At returns the detection at elapsed time since Open.
func (s *SyntheticSource) At(elapsed time.Duration) Detection {
	d := Detection{Timestamp: elapsed.Milliseconds()}
	pose := s.Poses[int(elapsed/s.PoseDuration)%len(s.Poses)]
	if pose.Absent {
		return d
	}
	t := elapsed.Seconds() * 0.3
	x := clamp32(0.5+float32(s.noise.Noise1D(t))*0.5, 0.25, 0.75)
	y := clamp32(0.6+float32(s.noise.Noise1D(t+17.3))*0.4, 0.4, 0.8)
	d.Hands = [][]Landmark{Synthesize(pose, x, y)}
	return d
}

func (s *SyntheticSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker == nil {
		return nil
	}
	s.ticker.Stop()
	s.ticker = nil
	close(s.closed)
	return nil
}

func clamp32(v, lo, hi float32) float32 {
	return min(hi, max(lo, v))
}
