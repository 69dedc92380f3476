//go:build !tinygo

package hal

import (
	"testing"

	"gatetimer/timer/encoder"
)

func newTestSim() (*inputSim, Lines) {
	const caps = GPIOCapInput | GPIOCapPullUp
	clk := newVirtualPin(PinEncoderClock, caps, true)
	dt := newVirtualPin(PinEncoderData, caps, true)
	sw := newVirtualPin(PinButton, caps, true)
	gate := newVirtualPin(PinGate, caps, true)
	lines, err := OpenLines(newVirtualGPIO([]GPIOPin{clk, dt, sw, gate}))
	if err != nil {
		panic(err)
	}
	return newInputSim(clk, dt, sw, gate), lines
}

// play applies ticks until the queue is drained plus one idle tick and
// feeds every sample through a knob.
func play(t *testing.T, sim *inputSim, lines Lines) (nav []encoder.Event, gateBreaks int) {
	t.Helper()
	knob := encoder.NewKnob(true, true)
	lastGate := true
	for i := 0; i < 64 && (sim.pending() > 0 || i == 0); i++ {
		sim.apply()
		lv, err := lines.Read()
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if ev := knob.Sample(lv.Clock, lv.Data, lv.Button).Nav(); ev != encoder.None {
			nav = append(nav, ev)
		}
		if lastGate && !lv.Gate {
			gateBreaks++
		}
		lastGate = lv.Gate
	}
	return nav, gateBreaks
}

func TestInputSimDrivesKnob(t *testing.T) {
	sim, lines := newTestSim()
	for _, s := range []Stimulus{StimulusNext, StimulusNext, StimulusPrevious, StimulusSelect, StimulusGate} {
		sim.push(s)
	}
	nav, breaks := play(t, sim, lines)

	want := []encoder.Event{encoder.Next, encoder.Next, encoder.Previous, encoder.Select}
	if len(nav) != len(want) {
		t.Fatalf("nav = %v, want %v", nav, want)
	}
	for i := range want {
		if nav[i] != want[i] {
			t.Fatalf("nav[%d] = %v, want %v", i, nav[i], want[i])
		}
	}
	if breaks != 1 {
		t.Fatalf("gate breaks = %d, want 1", breaks)
	}

	lv, _ := lines.Read()
	if lv != Idle {
		t.Fatalf("levels after queue = %+v, want idle", lv)
	}
}

func TestParseStimulus(t *testing.T) {
	for in, want := range map[string]Stimulus{
		"next": StimulusNext, "PREV": StimulusPrevious, " select ": StimulusSelect, "g": StimulusGate,
	} {
		got, err := ParseStimulus(in)
		if err != nil || got != want {
			t.Fatalf("ParseStimulus(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseStimulus("abort"); err == nil {
		t.Fatal("expected error")
	}
}
