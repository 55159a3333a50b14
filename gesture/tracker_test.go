package gesture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chanSource replays detections pushed into it.
type chanSource struct {
	openErr error
	in      chan Detection

	mu     sync.Mutex
	opened int
	closed int
	done   chan struct{}
}

func newChanSource() *chanSource {
	return &chanSource{in: make(chan Detection)}
}

func (s *chanSource) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openErr != nil {
		return s.openErr
	}
	s.opened++
	s.done = make(chan struct{})
	return nil
}

func (s *chanSource) Next(ctx context.Context) (Detection, error) {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	select {
	case <-ctx.Done():
		return Detection{}, ctx.Err()
	case <-done:
		return Detection{}, ErrSourceClosed
	case d, ok := <-s.in:
		if !ok {
			return Detection{}, errors.New("camera unplugged")
		}
		return d, nil
	}
}

func (s *chanSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		close(s.done)
		s.done = nil
		s.closed++
	}
	return nil
}

func (s *chanSource) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened, s.closed
}

func TestLatest_LastValueWins(t *testing.T) {
	var l Latest
	assert.Equal(t, HandFrame{}, l.Load())

	l.Store(HandFrame{Detected: true, Gesture: One})
	l.Store(HandFrame{Detected: true, Gesture: Two})
	assert.Equal(t, Two, l.Load().Gesture)

	l.Clear()
	assert.False(t, l.Load().Detected)
}

func TestTracker_PublishesClassifiedFrames(t *testing.T) {
	src := newChanSource()
	var out Latest
	tr := NewTracker(src, &out, nil)
	tr.Start(context.Background())
	defer tr.Stop()

	src.in <- Detection{Timestamp: 1, Hands: [][]Landmark{Synthesize(PoseTwo, 0.5, 0.6)}}
	require.Eventually(t, func() bool { return out.Load().Timestamp == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, Two, out.Load().Gesture)

	tr.SetProfile(CountdownProfile{})
	src.in <- Detection{Timestamp: 2, Hands: [][]Landmark{Synthesize(PoseThree, 0.5, 0.6)}}
	require.Eventually(t, func() bool { return out.Load().Timestamp == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, Three, out.Load().Gesture)

	src.in <- Detection{Timestamp: 3}
	require.Eventually(t, func() bool { return out.Load().Timestamp == 3 }, time.Second, 5*time.Millisecond)
	assert.False(t, out.Load().Detected)
}

func TestTracker_StopReleasesSourceAndClearsHand(t *testing.T) {
	src := newChanSource()
	var out Latest
	tr := NewTracker(src, &out, nil)
	tr.Start(context.Background())

	src.in <- Detection{Timestamp: 7, Hands: [][]Landmark{Synthesize(PoseOpen, 0.5, 0.6)}}
	require.Eventually(t, func() bool { return out.Load().Detected }, time.Second, 5*time.Millisecond)

	tr.Stop()
	assert.False(t, tr.Running())
	assert.False(t, out.Load().Detected)
	opened, closed := src.counts()
	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, closed)

	// Restarting reopens the source.
	tr.Start(context.Background())
	require.Eventually(t, func() bool { o, _ := src.counts(); return o == 2 }, time.Second, 5*time.Millisecond)
	tr.Stop()
}

func TestTracker_OpenFailureDegrades(t *testing.T) {
	src := newChanSource()
	src.openErr = errors.New("permission denied")
	var out Latest
	out.Store(HandFrame{Detected: true})

	tr := NewTracker(src, &out, nil)
	tr.Start(context.Background())
	require.Eventually(t, func() bool { return !tr.Running() }, time.Second, 5*time.Millisecond)
	assert.False(t, out.Load().Detected)
	tr.Stop()
}

func TestTracker_SourceErrorDegrades(t *testing.T) {
	src := newChanSource()
	var out Latest
	tr := NewTracker(src, &out, nil)
	tr.Start(context.Background())

	src.in <- Detection{Timestamp: 1, Hands: [][]Landmark{Synthesize(PoseOne, 0.5, 0.6)}}
	require.Eventually(t, func() bool { return out.Load().Detected }, time.Second, 5*time.Millisecond)

	close(src.in)
	require.Eventually(t, func() bool { return !tr.Running() }, time.Second, 5*time.Millisecond)
	assert.False(t, out.Load().Detected)
	_, closed := src.counts()
	assert.Equal(t, 1, closed)
	tr.Stop()
}
