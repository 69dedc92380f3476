package encoder

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct{ clock, data bool }

func decodeAll(d *Decoder, samples []sample) []Event {
	var out []Event
	for _, s := range samples {
		if ev := d.Decode(s.clock, s.data); ev != None {
			out = append(out, ev)
		}
	}
	return out
}

func TestDecodeFallingEdgeDirection(t *testing.T) {
	tests := []struct {
		name string
		data bool
		want Event
	}{
		{name: "data equals clock", data: false, want: Next},
		{name: "data differs", data: true, want: Previous},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(true)
			assert.Equal(t, tt.want, d.Decode(false, tt.data))
			assert.Equal(t, int8(0), d.Accumulated())
		})
	}
}

func TestDecodeIgnoresRisingAndSteadyClock(t *testing.T) {
	d := NewDecoder(false)
	assert.Equal(t, None, d.Decode(false, true), "steady low")
	assert.Equal(t, None, d.Decode(true, true), "rising")
	assert.Equal(t, None, d.Decode(true, false), "steady high, data moving")
	assert.Equal(t, int8(0), d.Accumulated())
}

func TestDecodeDetentSequence(t *testing.T) {
	d := NewDecoder(true)
	next := []sample{{true, false}, {false, false}, {true, true}}
	prev := []sample{{true, true}, {false, true}, {true, true}}

	got := decodeAll(d, append(append(append([]sample{}, next...), next...), prev...))
	assert.Equal(t, []Event{Next, Next, Previous}, got)
}

func TestDecodeOneEventPerFallingEdge(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := NewDecoder(true)
	last := true
	for i := 0; i < 5000; i++ {
		s := sample{clock: rng.Intn(2) == 0, data: rng.Intn(2) == 0}
		ev := d.Decode(s.clock, s.data)
		falling := last && !s.clock
		if falling {
			require.NotEqual(t, None, ev, "falling edge %d must cross the threshold", i)
		} else {
			require.Equal(t, None, ev, "sample %d is not a falling edge", i)
		}
		require.LessOrEqual(t, d.Accumulated(), int8(Threshold))
		require.GreaterOrEqual(t, d.Accumulated(), int8(-Threshold))
		last = s.clock
	}
}

func TestDecodeRecoversFromMissedEdge(t *testing.T) {
	d := NewDecoder(true)
	// Two falls with no visible rise in between: the second looks like a steady level.
	assert.Equal(t, Next, d.Decode(false, false))
	assert.Equal(t, None, d.Decode(false, false))
	// Decoding picks up cleanly on the next real detent.
	assert.Equal(t, None, d.Decode(true, true))
	assert.Equal(t, Previous, d.Decode(false, true))
}

func TestButtonEdges(t *testing.T) {
	b := NewButton(true)

	p, r := b.Update(true)
	assert.False(t, p)
	assert.False(t, r)

	p, r = b.Update(false)
	assert.True(t, p)
	assert.False(t, r)
	assert.True(t, b.Pressed())

	p, r = b.Update(false)
	assert.False(t, p, "held button is not a new press")

	p, r = b.Update(true)
	assert.False(t, p)
	assert.True(t, r)
	assert.False(t, b.Pressed())
}

func TestButtonPrimedWhileHeld(t *testing.T) {
	b := NewButton(false)
	assert.True(t, b.Pressed())
	_, r := b.Update(true)
	assert.True(t, r)
}

func TestKnobNavPrefersRotation(t *testing.T) {
	k := NewKnob(true, true)
	in := k.Sample(false, false, false)
	assert.Equal(t, Next, in.Rotation)
	assert.True(t, in.Pressed)
	assert.Equal(t, Next, in.Nav())

	in = k.Sample(true, true, false)
	assert.Equal(t, None, in.Nav())
	assert.True(t, k.Held())

	in = k.Sample(true, true, true)
	assert.True(t, in.Released)

	in = k.Sample(true, true, false)
	assert.Equal(t, Select, in.Nav())
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "next", Next.String())
	assert.Equal(t, "select", Select.String())
	assert.Equal(t, "unknown", Event(42).String())
}
