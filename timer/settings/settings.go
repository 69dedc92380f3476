// Package settings owns the tunable race parameters and the sub-screens that
// edit them.
package settings

import "gatetimer/timer/race"

const (
	lapGoalSpan   = race.MaxLapGoal - race.MinLapGoal + 1
	timeTrialSpan = (race.MaxTimeTrialSeconds-race.MinTimeTrialSeconds)/race.TimeTrialStepSeconds + 1
)

// Store holds the race configuration between races.
type Store struct {
	cfg race.Config
}

// New returns a store with the power-on defaults.
func New() *Store { return &Store{cfg: race.DefaultConfig()} }

// NewFrom returns a store seeded with cfg, clamped into bounds.
func NewFrom(cfg race.Config) *Store { return &Store{cfg: cfg.Normalize()} }

// Config returns a snapshot of the current parameters.
func (s *Store) Config() race.Config { return s.cfg }

func (s *Store) Mode() race.Mode        { return s.cfg.Mode }
func (s *Store) SetMode(m race.Mode)    { s.cfg.Mode = race.Config{Mode: m}.Normalize().Mode }
func (s *Store) LapGoal() uint          { return s.cfg.LapGoal }
func (s *Store) TimeTrialSeconds() uint { return s.cfg.TimeTrialSeconds }

// AdjustLapGoal moves the lap goal by delta, wrapping between 1 and 10.
func (s *Store) AdjustLapGoal(delta int) {
	idx := int(s.cfg.LapGoal) - race.MinLapGoal
	s.cfg.LapGoal = uint(wrap(idx+delta, lapGoalSpan) + race.MinLapGoal)
}

// AdjustTimeTrial moves the time-trial budget by deltaSeconds in whole
// 30 second steps, wrapping between 30 and 150. A non-zero delta shorter
// than a step moves one step in its direction.
func (s *Store) AdjustTimeTrial(deltaSeconds int) {
	steps := deltaSeconds / race.TimeTrialStepSeconds
	switch {
	case steps == 0 && deltaSeconds > 0:
		steps = 1
	case steps == 0 && deltaSeconds < 0:
		steps = -1
	}
	idx := (int(s.cfg.TimeTrialSeconds) - race.MinTimeTrialSeconds) / race.TimeTrialStepSeconds
	idx = wrap(idx+steps, timeTrialSpan)
	s.cfg.TimeTrialSeconds = uint(race.MinTimeTrialSeconds + idx*race.TimeTrialStepSeconds)
}

func wrap(v, n int) int { return (v%n + n) % n }
