package particleart

import (
	"time"
)

// fallbackDt is used when a frame reports no elapsed time, e.g. the first one.
const fallbackDt = time.Second / 60

type Time struct {
	Time  time.Time
	Dt    time.Duration
	Frame uint64
}

// DeltaSeconds is Dt in seconds, never zero.
func (t *Time) DeltaSeconds() float32 {
	if t.Dt <= 0 {
		return float32(fallbackDt.Seconds())
	}
	return float32(t.Dt.Seconds())
}

// TimeModule advances the Time resource at the start of every frame.
//
// With FixedStep set, every frame lasts exactly FixedStep regardless of the
// wall clock. With MaxFrames set, the app quits after that many frames.
type TimeModule struct {
	FixedStep time.Duration
	MaxFrames uint64
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
		Dt:   0,
	})
	cmd.UseSystem(System(mod.timeSystem).InStage(Prelude).RunAlways())
}

func (mod TimeModule) timeSystem(timeResource *Time, cmd *Commands) {
	if mod.FixedStep > 0 {
		timeResource.Dt = mod.FixedStep
		timeResource.Time = timeResource.Time.Add(mod.FixedStep)
	} else {
		now := time.Now()
		if timeResource.Frame > 0 {
			timeResource.Dt = now.Sub(timeResource.Time)
		}
		timeResource.Time = now
	}
	timeResource.Frame++

	if mod.MaxFrames > 0 && timeResource.Frame >= mod.MaxFrames {
		cmd.Quit()
	}
}
