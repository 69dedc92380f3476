//go:build tinygo && baremetal

package hal

import (
	"machine"

	"gatetimer/timer/lcd"
)

// boardPins is the wiring of one board.
type boardPins struct {
	lcdData [8]machine.Pin
	lcdE    machine.Pin
	lcdRS   machine.Pin
	lcdRW   machine.Pin

	buzzer machine.Pin

	encClock machine.Pin
	encData  machine.Pin
	button   machine.Pin
	gate     machine.Pin

	// inputCaps are the capabilities of the encoder and gate pins; some
	// boards have input-only pins without pull resistors there.
	inputCaps GPIOCaps
}

type tinyGoHAL struct {
	logger *uartLogger
	lcd    Display
	gpio   GPIO
	beeper *Buzzer
	clock  machineClock
}

// New returns the HAL for the board selected at build time.
func New() HAL {
	logger := &uartLogger{uart: openSerial()}
	b := board

	var display Display
	d, err := newHD44780Display(b.lcdData, b.lcdE, b.lcdRS, b.lcdRW, lcd.Cols, lcd.Rows)
	if err != nil {
		logger.WriteLineString(err.Error())
	} else {
		display = d
	}

	buzzerPin := newOutputPin(PinBuzzer, newBuzzerOutput(b.buzzer))
	gpio := newVirtualGPIO([]GPIOPin{
		newMachinePin(PinEncoderClock, b.encClock, b.inputCaps),
		newMachinePin(PinEncoderData, b.encData, b.inputCaps),
		newMachinePin(PinButton, b.button, GPIOCapInput|GPIOCapPullUp),
		newMachinePin(PinGate, b.gate, b.inputCaps),
		buzzerPin,
	})

	h := &tinyGoHAL{logger: logger, lcd: display, gpio: gpio}
	beeper, err := NewBuzzer(buzzerPin, h.clock)
	if err != nil {
		logger.WriteLineString(err.Error())
	} else {
		h.beeper = beeper
	}
	return h
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) Display() Display { return h.lcd }
func (h *tinyGoHAL) GPIO() GPIO       { return h.gpio }
func (h *tinyGoHAL) Clock() Clock     { return h.clock }

func (h *tinyGoHAL) Beeper() Beeper {
	if h.beeper == nil {
		return nil
	}
	return h.beeper
}
