package hal

import "fmt"

// Lines are the timer's four input pins.
type Lines struct {
	Clock  GPIOPin
	Data   GPIOPin
	Button GPIOPin
	Gate   GPIOPin
}

// Levels is one sample of every input line.
type Levels struct {
	Clock  bool
	Data   bool
	Button bool
	Gate   bool
}

// Idle is the resting level of every line: encoder detent, button up,
// beam unbroken.
var Idle = Levels{Clock: true, Data: true, Button: true, Gate: true}

// OpenLines resolves the input pins by name and configures them. The
// button is active-low and gets the pull-up.
func OpenLines(g GPIO) (Lines, error) {
	var l Lines
	for _, want := range []struct {
		name string
		pull GPIOPull
		dst  *GPIOPin
	}{
		{PinEncoderClock, GPIOPullNone, &l.Clock},
		{PinEncoderData, GPIOPullNone, &l.Data},
		{PinButton, GPIOPullUp, &l.Button},
		{PinGate, GPIOPullNone, &l.Gate},
	} {
		p := FindPin(g, want.name)
		if p == nil {
			return Lines{}, fmt.Errorf("gpio: pin %s: not found", want.name)
		}
		if err := p.Configure(GPIOModeInput, want.pull); err != nil {
			return Lines{}, err
		}
		*want.dst = p
	}
	return l, nil
}

// Read samples all four lines.
func (l Lines) Read() (Levels, error) {
	var lv Levels
	var err error
	if lv.Clock, err = l.Clock.Read(); err != nil {
		return Idle, err
	}
	if lv.Data, err = l.Data.Read(); err != nil {
		return Idle, err
	}
	if lv.Button, err = l.Button.Read(); err != nil {
		return Idle, err
	}
	if lv.Gate, err = l.Gate.Read(); err != nil {
		return Idle, err
	}
	return lv, nil
}
