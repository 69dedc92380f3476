//go:build !tinygo

package hal

import (
	"time"

	"go.uber.org/zap"

	"gatetimer/timer/lcd"
)

// HostConfig selects how the emulated device behaves.
type HostConfig struct {
	// Poll is the tick length used to advance the simulated clock.
	Poll time.Duration
	// Realtime uses the wall clock instead of the simulated one.
	Realtime bool
	// Start is the simulated clock's initial time; zero means now.
	Start time.Time
	// GatePeriod, when set, replaces the gate input with a beam that is
	// broken for GatePulse once per period.
	GatePeriod time.Duration
	GatePulse  time.Duration
	// Logger receives HAL log lines; nil discards them.
	Logger *zap.Logger
	// Console keeps log lines for the window's console pane.
	Console bool
}

type hostHAL struct {
	cfg    HostConfig
	logger *hostLogger
	clock  *hostClock
	lcd    *lcd.DDRAM
	gpio   GPIO
	input  *inputSim
	tone   *hostTone
	beeper *Buzzer
}

func newHostHAL(cfg HostConfig) (*hostHAL, error) {
	if cfg.Poll <= 0 {
		cfg.Poll = 10 * time.Millisecond
	}
	logger := newHostLogger(cfg.Logger, cfg.Console)
	clock := newHostClock(cfg.Realtime, cfg.Start)

	const inCaps = GPIOCapInput | GPIOCapPullUp
	clk := newVirtualPin(PinEncoderClock, inCaps, true)
	dt := newVirtualPin(PinEncoderData, inCaps, true)
	sw := newVirtualPin(PinButton, inCaps, true)

	var gatePin GPIOPin
	var gateIn *virtualPin
	if cfg.GatePeriod > 0 {
		gatePin = newBeamPin(PinGate, cfg.GatePeriod, cfg.GatePulse, clock.Now)
	} else {
		gateIn = newVirtualPin(PinGate, inCaps, true)
		gatePin = gateIn
	}

	tone := newHostTone(logger)
	buzzerPin := newOutputPin(PinBuzzer, tone)
	beeper, err := NewBuzzer(buzzerPin, clock)
	if err != nil {
		return nil, err
	}

	return &hostHAL{
		cfg:    cfg,
		logger: logger,
		clock:  clock,
		lcd:    lcd.NewDDRAM(lcd.Cols, lcd.Rows),
		gpio:   newVirtualGPIO([]GPIOPin{clk, dt, sw, gatePin, buzzerPin}),
		input:  newInputSim(clk, dt, sw, gateIn),
		tone:   tone,
		beeper: beeper,
	}, nil
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return h.lcd }
func (h *hostHAL) Beeper() Beeper   { return h.beeper }
func (h *hostHAL) GPIO() GPIO       { return h.gpio }
func (h *hostHAL) Clock() Clock     { return h.clock }

// tick advances the clock and puts the next input frame on the pins. It
// runs before every step of the timer.
func (h *hostHAL) tick() {
	h.clock.step(1, h.cfg.Poll)
	h.input.apply()
}

// Inject queues a stimulus for the next ticks.
func (h *hostHAL) Inject(s Stimulus) {
	h.input.push(s)
}
