//go:build !tinygo

package hal

import (
	"fmt"
	"strings"
	"sync"
)

// Stimulus is one user action injected into the emulated input lines.
type Stimulus uint8

const (
	StimulusNone Stimulus = iota
	StimulusNext
	StimulusPrevious
	StimulusSelect
	StimulusGate
)

func (s Stimulus) String() string {
	switch s {
	case StimulusNext:
		return "next"
	case StimulusPrevious:
		return "prev"
	case StimulusSelect:
		return "select"
	case StimulusGate:
		return "gate"
	default:
		return "none"
	}
}

// ParseStimulus accepts the command words of the headless runner.
func ParseStimulus(s string) (Stimulus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "next", "n", "right", "cw":
		return StimulusNext, nil
	case "prev", "p", "previous", "left", "ccw":
		return StimulusPrevious, nil
	case "select", "s", "click", "press":
		return StimulusSelect, nil
	case "gate", "g", "lap":
		return StimulusGate, nil
	}
	return StimulusNone, fmt.Errorf("input: unknown command %q", s)
}

// frame is the level of every simulated line for one tick.
type frame Levels

// Quadrature sequences as seen by a polling decoder: data settles first,
// then the clock falls, then both return to the detent.
var stimulusFrames = map[Stimulus][]frame{
	StimulusNext: {
		{Clock: true, Data: false, Button: true, Gate: true},
		{Clock: false, Data: false, Button: true, Gate: true},
		{Clock: true, Data: true, Button: true, Gate: true},
	},
	StimulusPrevious: {
		{Clock: true, Data: true, Button: true, Gate: true},
		{Clock: false, Data: true, Button: true, Gate: true},
		{Clock: true, Data: true, Button: true, Gate: true},
	},
	StimulusSelect: {
		{Clock: true, Data: true, Button: false, Gate: true},
		{Clock: true, Data: true, Button: false, Gate: true},
		{Clock: true, Data: true, Button: true, Gate: true},
	},
	StimulusGate: {
		{Clock: true, Data: true, Button: true, Gate: false},
		{Clock: true, Data: true, Button: true, Gate: false},
		{Clock: true, Data: true, Button: true, Gate: true},
	},
}

// inputSim plays queued stimuli onto the virtual input pins, one frame per
// tick. The gate pin is nil when a beam signal drives it instead.
type inputSim struct {
	mu     sync.Mutex
	clk    *virtualPin
	dt     *virtualPin
	sw     *virtualPin
	gate   *virtualPin
	frames []frame
}

func newInputSim(clk, dt, sw, gate *virtualPin) *inputSim {
	return &inputSim{clk: clk, dt: dt, sw: sw, gate: gate}
}

// push queues a stimulus behind those already waiting.
func (s *inputSim) push(st Stimulus) {
	fr, ok := stimulusFrames[st]
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, fr...)
}

// pending returns the number of frames not yet applied.
func (s *inputSim) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// apply drives the next frame, or the idle levels when the queue is empty.
func (s *inputSim) apply() {
	s.mu.Lock()
	f := frame(Idle)
	if len(s.frames) > 0 {
		f = s.frames[0]
		s.frames = s.frames[1:]
	}
	s.mu.Unlock()

	s.clk.drive(f.Clock)
	s.dt.drive(f.Data)
	s.sw.drive(f.Button)
	if s.gate != nil {
		s.gate.drive(f.Gate)
	}
}
