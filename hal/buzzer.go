package hal

import (
	"fmt"
	"sync"
	"time"
)

// Buzzer drives an output pin high for the length of a pulse.
type Buzzer struct {
	mu    sync.Mutex
	pin   GPIOPin
	clock Clock
	on    bool
	offAt time.Time
	err   error
}

// NewBuzzer configures pin as an output and leaves it low.
func NewBuzzer(pin GPIOPin, clock Clock) (*Buzzer, error) {
	if pin == nil {
		return nil, fmt.Errorf("gpio: pin %s: not found", PinBuzzer)
	}
	if err := pin.Configure(GPIOModeOutput, GPIOPullNone); err != nil {
		return nil, err
	}
	if err := pin.Write(false); err != nil {
		return nil, err
	}
	return &Buzzer{pin: pin, clock: clock}, nil
}

// Pulse starts a beep of length d. A pulse that is already sounding is
// extended if d ends later.
func (b *Buzzer) Pulse(d time.Duration) {
	if d <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	end := b.clock.Now().Add(d)
	if b.on && end.Before(b.offAt) {
		return
	}
	b.offAt = end
	if b.on {
		return
	}
	if err := b.pin.Write(true); err != nil {
		b.keep(err)
		return
	}
	b.on = true
}

// Poll silences the buzzer once the pulse has run out. It returns the first
// pin error seen since the previous Poll.
func (b *Buzzer) Poll() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.on && !b.clock.Now().Before(b.offAt) {
		if err := b.pin.Write(false); err != nil {
			b.keep(err)
		}
		b.on = false
	}
	err := b.err
	b.err = nil
	return err
}

func (b *Buzzer) keep(err error) {
	if b.err == nil {
		b.err = fmt.Errorf("buzzer: %w", err)
	}
}

// Sounding reports whether a pulse is in progress.
func (b *Buzzer) Sounding() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.on
}
