// Package encoder turns raw rotary-encoder and push-button levels into
// navigation events.
//
// Decoding is purely level driven: callers sample the lines once per poll
// tick and pass them in. There are no timers; noise is absorbed by requiring
// the accumulated phase count to cross Threshold before an event fires.
package encoder

// Event is a discrete navigation event.
type Event uint8

const (
	None Event = iota
	Next
	Previous
	Select
)

func (e Event) String() string {
	switch e {
	case None:
		return "none"
	case Next:
		return "next"
	case Previous:
		return "previous"
	case Select:
		return "select"
	default:
		return "unknown"
	}
}

// Threshold is the accumulator magnitude at which a rotation event fires.
const Threshold = 1

// Decoder is a quadrature decoder using debounce-by-accumulation.
type Decoder struct {
	lastClock bool
	acc       int8
}

// NewDecoder returns a decoder primed with the current clock level.
func NewDecoder(clock bool) *Decoder {
	return &Decoder{lastClock: clock}
}

// Decode consumes one sample of the clock and data lines.
//
// On a falling clock edge the data line is compared with the new clock
// level: equal counts up, different counts down. Reaching Threshold in
// either direction emits Next or Previous and resets the accumulator.
func (d *Decoder) Decode(clock, data bool) Event {
	if clock == d.lastClock {
		return None
	}
	d.lastClock = clock
	if clock {
		return None
	}

	if data == clock {
		d.acc++
	} else {
		d.acc--
	}

	switch {
	case d.acc >= Threshold:
		d.acc = 0
		return Next
	case d.acc <= -Threshold:
		d.acc = 0
		return Previous
	}
	return None
}

// Accumulated returns the pending phase count.
func (d *Decoder) Accumulated() int8 { return d.acc }

// Reset clears the accumulator and re-primes the clock level.
func (d *Decoder) Reset(clock bool) {
	d.lastClock = clock
	d.acc = 0
}

// Button tracks an active-low push button.
type Button struct {
	lastLevel bool
	down      bool
}

// NewButton returns a tracker primed with the current level (true = released).
func NewButton(level bool) *Button {
	return &Button{lastLevel: level, down: !level}
}

// Pressed reports whether the button is currently held.
func (b *Button) Pressed() bool { return b.down }

// Update consumes one level sample. A press is a high-to-low transition; a
// release is reported only after a press was observed.
func (b *Button) Update(level bool) (pressed, released bool) {
	if level == b.lastLevel {
		return false, false
	}
	b.lastLevel = level
	if !level {
		b.down = true
		return true, false
	}
	if b.down {
		b.down = false
		return false, true
	}
	return false, false
}

// Input is everything the knob produced during one tick.
type Input struct {
	Rotation Event
	Pressed  bool
	Released bool
}

// Nav returns the single navigation event for the tick, preferring rotation.
func (in Input) Nav() Event {
	if in.Rotation != None {
		return in.Rotation
	}
	if in.Pressed {
		return Select
	}
	return None
}

// Knob is a rotary encoder with an integrated push button.
type Knob struct {
	dec *Decoder
	btn *Button
}

// NewKnob primes a knob with the current line levels.
func NewKnob(clock, button bool) *Knob {
	return &Knob{dec: NewDecoder(clock), btn: NewButton(button)}
}

// Sample decodes one tick of clock, data and button levels.
func (k *Knob) Sample(clock, data, button bool) Input {
	var in Input
	in.Rotation = k.dec.Decode(clock, data)
	in.Pressed, in.Released = k.btn.Update(button)
	return in
}

// Held reports whether the button is currently down.
func (k *Knob) Held() bool { return k.btn.Pressed() }
