// Package race implements the race state machine: countdown, lap and
// time-trial timing, gate edge detection and result recording.
//
// The engine is advanced by Tick once per poll period. Because the gate is
// sampled rather than interrupt driven, a beam break shorter than one poll
// period can be missed entirely; size the poll period against the fastest
// expected transit through the gate.
package race

import (
	"errors"
	"slices"
	"time"

	"github.com/aarondl/opt/omit"
)

// ErrBusy is returned when an operation needs an idle engine.
var ErrBusy = errors.New("race: engine busy")

// State is the engine's position in the race flow.
type State uint8

const (
	StateIdle State = iota
	StateCountdown
	StateRunning
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCountdown:
		return "countdown"
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Beeper gives audible feedback on a lap.
type Beeper interface {
	Pulse(d time.Duration)
}

// Finish says why a race completed.
type Finish uint8

const (
	FinishNone Finish = iota
	FinishLapGoal
	FinishTimeUp
)

// EventKind identifies what a Tick observed.
type EventKind uint8

const (
	EventNone EventKind = iota
	EventCountdown
	EventGo
	EventStart
	EventLap
	EventComplete
	EventIdle
)

// Lap describes one recorded crossing.
type Lap struct {
	Number uint
	Time   time.Duration
	Best   time.Duration
}

// Event is the outcome of one Tick.
type Event struct {
	Kind EventKind
	// Count is the remaining countdown step for EventCountdown.
	Count int
	// Lap is set for EventLap and for EventComplete with FinishLapGoal.
	Lap    Lap
	Finish Finish
}

// Session is the record of the current or most recent race.
type Session struct {
	StartTick     time.Time
	LapTimes      []time.Duration
	BestLap       omit.Val[time.Duration]
	LapsCompleted uint
}

func (s *Session) record(d time.Duration) Lap {
	s.LapTimes = append(s.LapTimes, d)
	best, ok := s.BestLap.Get()
	if !ok || d < best {
		best = d
		s.BestLap.Set(d)
	}
	s.LapsCompleted++
	return Lap{Number: s.LapsCompleted, Time: d, Best: best}
}

// GateSensor detects beam breaks on an active-low gate line.
type GateSensor struct {
	last bool
}

// Reset re-primes the sensor without reporting an edge.
func (g *GateSensor) Reset(level bool) { g.last = level }

// Update consumes one level sample and reports a high-to-low transition.
func (g *GateSensor) Update(level bool) bool {
	broken := g.last && !level
	g.last = level
	return broken
}

// Engine is the race state machine.
type Engine struct {
	beep   Beeper
	timing Timing

	state   State
	cfg     Config
	session Session
	gate    GateSensor
	finish  Finish

	countdownStart time.Time
	shownCount     int
	goShown        bool

	lastLap       time.Time
	lapHoldUntil  time.Time
	deadline      time.Time
	completeUntil time.Time
}

// NewEngine returns an idle engine. beep may be nil.
func NewEngine(beep Beeper, timing Timing) *Engine {
	return &Engine{beep: beep, timing: timing, gate: GateSensor{last: true}}
}

func (e *Engine) State() State     { return e.state }
func (e *Engine) Config() Config   { return e.cfg }
func (e *Engine) Timing() Timing   { return e.timing }
func (e *Engine) Finish() Finish   { return e.finish }
func (e *Engine) HasResults() bool { return len(e.session.LapTimes) > 0 }

// Session returns a copy of the current session.
func (e *Engine) Session() Session {
	s := e.session
	s.LapTimes = slices.Clone(e.session.LapTimes)
	return s
}

// Start clears the session and enters the countdown with a snapshot of cfg.
func (e *Engine) Start(now time.Time, cfg Config) error {
	if e.state != StateIdle {
		return ErrBusy
	}
	e.cfg = cfg.Normalize()
	e.session = Session{}
	e.finish = FinishNone
	e.state = StateCountdown
	e.countdownStart = now
	e.shownCount = 0
	e.goShown = false
	return nil
}

// Reset discards the recorded session.
func (e *Engine) Reset() error {
	if e.state != StateIdle {
		return ErrBusy
	}
	e.session = Session{}
	e.finish = FinishNone
	return nil
}

// Countdown returns the countdown step to show; zero means the countdown has
// elapsed and "GO" is due.
func (e *Engine) Countdown(now time.Time) int {
	if e.state != StateCountdown || e.timing.CountdownStep <= 0 {
		return 0
	}
	elapsed := now.Sub(e.countdownStart)
	if elapsed < 0 {
		elapsed = 0
	}
	n := e.timing.CountdownSteps - int(elapsed/e.timing.CountdownStep)
	if n < 0 {
		return 0
	}
	return n
}

// LapElapsed returns the time since the last lap (or the start).
func (e *Engine) LapElapsed(now time.Time) time.Duration {
	if e.state != StateRunning {
		return 0
	}
	return now.Sub(e.lastLap)
}

// Remaining returns what is left of the time-trial budget.
func (e *Engine) Remaining(now time.Time) time.Duration {
	switch e.state {
	case StateCountdown:
		return e.cfg.TimeLimit()
	case StateRunning:
		if d := e.deadline.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// Tick advances the engine by one poll. gate is the raw gate level (low = beam broken).
//
// While running, the time-trial deadline is checked before the gate, so a
// crossing on the deadline tick ends the race instead of adding a lap.
func (e *Engine) Tick(now time.Time, gate bool) Event {
	switch e.state {
	case StateCountdown:
		return e.tickCountdown(now, gate)
	case StateRunning:
		return e.tickRunning(now, gate)
	case StateComplete:
		e.gate.Update(gate)
		if now.Before(e.completeUntil) {
			return Event{}
		}
		e.state = StateIdle
		return Event{Kind: EventIdle, Finish: e.finish}
	default:
		e.gate.Reset(gate)
		return Event{}
	}
}

func (e *Engine) tickCountdown(now time.Time, gate bool) Event {
	e.gate.Reset(gate)

	if n := e.Countdown(now); n > 0 {
		if n == e.shownCount {
			return Event{}
		}
		e.shownCount = n
		return Event{Kind: EventCountdown, Count: n}
	}

	if now.Sub(e.countdownStart) < e.timing.countdownTotal()+e.timing.GoHold {
		if e.goShown {
			return Event{}
		}
		e.goShown = true
		return Event{Kind: EventGo}
	}

	e.state = StateRunning
	e.session.StartTick = now
	e.lastLap = now
	e.lapHoldUntil = now
	e.deadline = now.Add(e.cfg.TimeLimit())
	return Event{Kind: EventStart}
}

func (e *Engine) tickRunning(now time.Time, gate bool) Event {
	if e.cfg.Mode == ModeTimeTrial && !now.Before(e.deadline) {
		e.gate.Update(gate)
		return e.complete(now, FinishTimeUp, e.timing.TimeUpHold, Lap{})
	}

	if !e.gate.Update(gate) || now.Before(e.lapHoldUntil) {
		return Event{}
	}

	if e.beep != nil {
		e.beep.Pulse(e.timing.Beep)
	}
	lap := e.session.record(e.lapTime(now))
	e.lastLap = now
	e.lapHoldUntil = now.Add(e.timing.gateHold(e.cfg.Mode))

	if e.cfg.Mode == ModeLap && e.session.LapsCompleted >= e.cfg.LapGoal {
		return e.complete(now, FinishLapGoal, e.timing.LapHold+e.timing.CompleteHold, lap)
	}
	return Event{Kind: EventLap, Lap: lap}
}

// lapTime is the time since the previous lap in lap mode. Time-trial laps
// are splits measured from the start.
func (e *Engine) lapTime(now time.Time) time.Duration {
	if e.cfg.Mode == ModeTimeTrial {
		return now.Sub(e.session.StartTick)
	}
	return now.Sub(e.lastLap)
}

func (e *Engine) complete(now time.Time, f Finish, hold time.Duration, lap Lap) Event {
	e.state = StateComplete
	e.finish = f
	e.completeUntil = now.Add(hold)
	return Event{Kind: EventComplete, Finish: f, Lap: lap}
}
