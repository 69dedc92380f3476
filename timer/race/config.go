package race

import (
	"fmt"
	"time"
)

// Mode selects how a race ends.
type Mode uint8

const (
	// ModeLap ends after a number of gate crossings.
	ModeLap Mode = iota
	// ModeTimeTrial ends when a wall-clock budget runs out.
	ModeTimeTrial
)

func (m Mode) String() string {
	switch m {
	case ModeLap:
		return "lap"
	case ModeTimeTrial:
		return "time-trial"
	default:
		return "unknown"
	}
}

// ParseMode accepts the names produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "lap", "Lap":
		return ModeLap, nil
	case "time-trial", "time", "Time", "TimeTrial":
		return ModeTimeTrial, nil
	}
	return ModeLap, fmt.Errorf("race: unknown mode %q", s)
}

// Bounds of the tunable race parameters.
const (
	MinLapGoal = 1
	MaxLapGoal = 10

	MinTimeTrialSeconds  = 30
	MaxTimeTrialSeconds  = 150
	TimeTrialStepSeconds = 30
)

// Config is the race setup snapshotted when a race starts.
type Config struct {
	Mode             Mode
	LapGoal          uint
	TimeTrialSeconds uint
}

// DefaultConfig matches the device's power-on settings.
func DefaultConfig() Config {
	return Config{Mode: ModeLap, LapGoal: 3, TimeTrialSeconds: 60}
}

// TimeLimit returns the time-trial budget.
func (c Config) TimeLimit() time.Duration {
	return time.Duration(c.TimeTrialSeconds) * time.Second
}

// Timing holds the fixed durations of the race flow.
type Timing struct {
	CountdownSteps int
	CountdownStep  time.Duration
	GoHold         time.Duration

	Beep time.Duration

	// LapHold and TrialLapHold are how long a lap banner stays up. The
	// beep runs before the banner, so gate edges are ignored for Beep plus
	// the banner hold.
	LapHold      time.Duration
	TrialLapHold time.Duration

	CompleteHold time.Duration
	TimeUpHold   time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		CountdownSteps: 10,
		CountdownStep:  time.Second,
		GoHold:         time.Second,
		Beep:           200 * time.Millisecond,
		LapHold:        2 * time.Second,
		TrialLapHold:   1500 * time.Millisecond,
		CompleteHold:   2 * time.Second,
		TimeUpHold:     3 * time.Second,
	}
}

func (t Timing) lapHold(m Mode) time.Duration {
	if m == ModeTimeTrial {
		return t.TrialLapHold
	}
	return t.LapHold
}

// gateHold is the window after a lap in which gate edges are ignored.
func (t Timing) gateHold(m Mode) time.Duration {
	return t.Beep + t.lapHold(m)
}

func (t Timing) countdownTotal() time.Duration {
	return time.Duration(t.CountdownSteps) * t.CountdownStep
}

// Normalize clamps the parameters into their bounds and rounds the
// time-trial budget down to a whole step.
func (c Config) Normalize() Config {
	if c.Mode != ModeLap && c.Mode != ModeTimeTrial {
		c.Mode = ModeLap
	}
	c.LapGoal = clampUint(c.LapGoal, MinLapGoal, MaxLapGoal)
	c.TimeTrialSeconds = clampUint(c.TimeTrialSeconds, MinTimeTrialSeconds, MaxTimeTrialSeconds)
	c.TimeTrialSeconds -= c.TimeTrialSeconds % TimeTrialStepSeconds
	return c
}

func clampUint(v, lo, hi uint) uint {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
