package gesture

import (
	"context"
	"errors"
)

// ErrSourceClosed is returned by Next once the source has been closed.
var ErrSourceClosed = errors.New("gesture: source closed")

// Detection is one detector callback: zero or one hands of LandmarkCount
// landmarks each.
type Detection struct {
	Timestamp int64        `json:"timestamp"`
	Hands     [][]Landmark `json:"hands"`
}

// Source is a hand-landmark detector. Open acquires the device, Next blocks
// until the next detection and Close releases the device. A closed source
// may be opened again.
type Source interface {
	Open(ctx context.Context) error
	Next(ctx context.Context) (Detection, error)
	Close() error
}

// Logger is the subset of the application logger used by trackers and sources.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

func orNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}
