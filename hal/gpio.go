package hal

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps declares what operations a pin supports.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// GPIO provides access to general-purpose IO pins.
type GPIO interface {
	PinCount() int
	Pin(id int) GPIOPin
}

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

// FindPin returns the pin called name, or nil.
func FindPin(g GPIO, name string) GPIOPin {
	if g == nil {
		return nil
	}
	for i := 0; i < g.PinCount(); i++ {
		if p := g.Pin(i); p != nil && p.Name() == name {
			return p
		}
	}
	return nil
}

type nullGPIO struct{}

func (nullGPIO) PinCount() int      { return 0 }
func (nullGPIO) Pin(id int) GPIOPin { return nil }

type virtualGPIO struct {
	pins []GPIOPin
}

func newVirtualGPIO(pins []GPIOPin) GPIO {
	var kept []GPIOPin
	for _, p := range pins {
		if p != nil {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return nullGPIO{}
	}
	return &virtualGPIO{pins: kept}
}

func (g *virtualGPIO) PinCount() int {
	if g == nil {
		return 0
	}
	return len(g.pins)
}

func (g *virtualGPIO) Pin(id int) GPIOPin {
	if g == nil || id < 0 || id >= len(g.pins) {
		return nil
	}
	return g.pins[id]
}

// virtualPin is an input whose level is set from outside the timer, the
// way a switch or sensor would drive a real pin.
type virtualPin struct {
	mu    sync.Mutex
	name  string
	caps  GPIOCaps
	mode  GPIOMode
	pull  GPIOPull
	level bool
}

func newVirtualPin(name string, caps GPIOCaps, idle bool) *virtualPin {
	return &virtualPin{
		name:  name,
		caps:  caps,
		mode:  GPIOModeInput,
		pull:  GPIOPullNone,
		level: idle,
	}
}

func (p *virtualPin) Name() string   { return p.name }
func (p *virtualPin) Caps() GPIOCaps { return p.caps }

func (p *virtualPin) Configure(mode GPIOMode, pull GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch mode {
	case GPIOModeInput:
		if p.caps&GPIOCapInput == 0 {
			return fmt.Errorf("gpio: pin %s: input unsupported", p.name)
		}
	case GPIOModeOutput:
		if p.caps&GPIOCapOutput == 0 {
			return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", p.name)
	}

	switch pull {
	case GPIOPullNone:
	case GPIOPullUp:
		if p.caps&GPIOCapPullUp == 0 {
			return fmt.Errorf("gpio: pin %s: pull-up unsupported", p.name)
		}
	case GPIOPullDown:
		if p.caps&GPIOCapPullDown == 0 {
			return fmt.Errorf("gpio: pin %s: pull-down unsupported", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid pull", p.name)
	}

	p.mode = mode
	p.pull = pull
	return nil
}

func (p *virtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != GPIOModeInput && p.mode != GPIOModeOutput {
		return false, fmt.Errorf("gpio: pin %s: not configured", p.name)
	}
	return p.level, nil
}

func (p *virtualPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.level = level
	return nil
}

// drive sets the level seen by Read regardless of mode.
func (p *virtualPin) drive(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

// signalPin is a periodic input: high for the first part of every period,
// low for the rest.
type signalPin struct {
	mu   sync.Mutex
	name string

	mode GPIOMode
	pull GPIOPull

	t0     time.Time
	now    func() time.Time
	period time.Duration
	high   time.Duration
}

func newSignalPin(name string, period, high time.Duration) GPIOPin {
	return newSignalPinWithClock(name, period, high, time.Now)
}

func newSignalPinWithClock(name string, period, high time.Duration, now func() time.Time) GPIOPin {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	if now == nil {
		now = time.Now
	}
	if period <= 0 {
		period = 1 * time.Second
	}
	if high < 0 {
		high = 0
	}
	if high > period {
		high = period
	}
	return &signalPin{
		name:   name,
		mode:   GPIOModeInput,
		pull:   GPIOPullNone,
		t0:     now(),
		now:    now,
		period: period,
		high:   high,
	}
}

// newBeamPin simulates a gate beam that a drone breaks for pulse once
// every period.
func newBeamPin(name string, period, pulse time.Duration, now func() time.Time) GPIOPin {
	if pulse <= 0 || pulse >= period {
		pulse = 50 * time.Millisecond
	}
	return newSignalPinWithClock(name, period, period-pulse, now)
}

func (p *signalPin) Name() string   { return p.name }
func (p *signalPin) Caps() GPIOCaps { return GPIOCapInput | GPIOCapPullUp }

func (p *signalPin) Configure(mode GPIOMode, pull GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if mode != GPIOModeInput {
		return fmt.Errorf("gpio: pin %s: only input supported", p.name)
	}
	if pull == GPIOPullDown {
		return fmt.Errorf("gpio: pin %s: pull-down unsupported", p.name)
	}
	p.mode = mode
	p.pull = pull
	return nil
}

func (p *signalPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mode != GPIOModeInput {
		return false, fmt.Errorf("gpio: pin %s: not configured for input", p.name)
	}
	if p.now == nil {
		return false, fmt.Errorf("gpio: pin %s: no clock", p.name)
	}
	if p.period <= 0 {
		return false, fmt.Errorf("gpio: pin %s: invalid period", p.name)
	}

	elapsed := p.now().Sub(p.t0)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	phase := elapsed % p.period
	return phase < p.high, nil
}

func (p *signalPin) Write(level bool) error {
	_ = level
	return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
}

// outputPin exposes an Output as a write-only GPIO pin.
type outputPin struct {
	mu    sync.Mutex
	out   Output
	name  string
	level bool
}

func newOutputPin(name string, out Output) GPIOPin {
	if out == nil {
		return nil
	}
	return &outputPin{out: out, name: name}
}

func (p *outputPin) Name() string   { return p.name }
func (p *outputPin) Caps() GPIOCaps { return GPIOCapOutput }

func (p *outputPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: only output supported", p.name)
	}
	if pull != GPIOPullNone {
		return fmt.Errorf("gpio: pin %s: pull unsupported", p.name)
	}
	return nil
}

func (p *outputPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *outputPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if level == p.level {
		return nil
	}
	p.level = level
	if level {
		p.out.High()
	} else {
		p.out.Low()
	}
	return nil
}
