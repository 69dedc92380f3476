// Package app is the timer's poll loop. It samples the input lines once per
// tick and routes what it sees to whichever screen has focus.
package app

import (
	"time"

	"gatetimer/hal"
	"gatetimer/timer/race"
)

// Config tunes the poll loop and the timed screens.
type Config struct {
	// PollInterval is the tick length. It is also the shortest beam break
	// the gate can detect; a faster transit may be missed.
	PollInterval time.Duration
	// RaceRefresh is how often the live race rows are redrawn.
	RaceRefresh time.Duration

	Timing  race.Timing
	Initial race.Config

	// SkipSplash starts on the main menu instead of the splash screen.
	SkipSplash bool

	SelectedHold  time.Duration
	NoResultsHold time.Duration
	ResetHold     time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval:  10 * time.Millisecond,
		RaceRefresh:   50 * time.Millisecond,
		Timing:        race.DefaultTiming(),
		Initial:       race.DefaultConfig(),
		SelectedHold:  800 * time.Millisecond,
		NoResultsHold: 2 * time.Second,
		ResetHold:     1500 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.RaceRefresh <= 0 {
		c.RaceRefresh = d.RaceRefresh
	}
	if c.Timing == (race.Timing{}) {
		c.Timing = d.Timing
	}
	if c.Initial == (race.Config{}) {
		c.Initial = d.Initial
	}
	if c.SelectedHold <= 0 {
		c.SelectedHold = d.SelectedHold
	}
	if c.NoResultsHold <= 0 {
		c.NoResultsHold = d.NoResultsHold
	}
	if c.ResetHold <= 0 {
		c.ResetHold = d.ResetHold
	}
	return c
}

// New builds the timer with the default config and returns its stepper.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, DefaultConfig())
}

// NewWithConfig returns a function that advances the timer by one tick
// using the HAL clock. A panic inside a tick is shown on the display and
// returned as an error.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	c, err := NewController(h, cfg)
	if err != nil {
		return func() error { return err }
	}
	clock := h.Clock()
	return guard(h, func() error {
		return c.Step(clock.Now())
	})
}

// Run drives the timer forever (TinyGo/native entrypoint).
func Run(h hal.HAL) {
	RunWithConfig(h, DefaultConfig())
}

func RunWithConfig(h hal.HAL, cfg Config) {
	cfg = cfg.withDefaults()
	step := NewWithConfig(h, cfg)
	for {
		if err := step(); err != nil {
			if l := h.Logger(); l != nil {
				l.WriteLineString("timer halted: " + err.Error())
			}
			select {}
		}
		time.Sleep(cfg.PollInterval)
	}
}
