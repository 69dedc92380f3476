//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
	"time"

	"tinygo.org/x/drivers/buzzer"
	"tinygo.org/x/drivers/hd44780"

	"gatetimer/timer/lcd"
)

type byteWriter interface {
	WriteByte(c byte) error
}

type uartLogger struct {
	uart byteWriter
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type machineClock struct{}

func (machineClock) Now() time.Time { return time.Now() }

// machinePin is a board pin behind the GPIOPin interface.
type machinePin struct {
	name string
	pin  machine.Pin
	caps GPIOCaps
	mode GPIOMode
}

func newMachinePin(name string, pin machine.Pin, caps GPIOCaps) *machinePin {
	return &machinePin{name: name, pin: pin, caps: caps}
}

func (p *machinePin) Name() string   { return p.name }
func (p *machinePin) Caps() GPIOCaps { return p.caps }

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	cfg := machine.PinConfig{}
	switch mode {
	case GPIOModeInput:
		if p.caps&GPIOCapInput == 0 {
			return fmt.Errorf("gpio: pin %s: input unsupported", p.name)
		}
		switch pull {
		case GPIOPullNone:
			cfg.Mode = machine.PinInput
		case GPIOPullUp:
			if p.caps&GPIOCapPullUp == 0 {
				return fmt.Errorf("gpio: pin %s: pull-up unsupported", p.name)
			}
			cfg.Mode = machine.PinInputPullup
		case GPIOPullDown:
			if p.caps&GPIOCapPullDown == 0 {
				return fmt.Errorf("gpio: pin %s: pull-down unsupported", p.name)
			}
			cfg.Mode = machine.PinInputPulldown
		default:
			return fmt.Errorf("gpio: pin %s: invalid pull", p.name)
		}
	case GPIOModeOutput:
		if p.caps&GPIOCapOutput == 0 {
			return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
		}
		cfg.Mode = machine.PinOutput
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", p.name)
	}
	p.pin.Configure(cfg)
	p.mode = mode
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *machinePin) Write(level bool) error {
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.pin.Set(level)
	return nil
}

// buzzerOutput switches an active buzzer through the drivers package.
type buzzerOutput struct {
	dev buzzer.Device
}

func newBuzzerOutput(pin machine.Pin) *buzzerOutput {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &buzzerOutput{dev: buzzer.New(pin)}
}

func (b *buzzerOutput) High() { _ = b.dev.On() }
func (b *buzzerOutput) Low()  { _ = b.dev.Off() }

// hd44780Display drives a 20x4 module in 8-bit parallel mode.
//
// The driver's four-row cursor math does not match 20x4 modules, so the
// controller is configured as the 40x2 it really is and rows 2 and 3 are
// addressed as the right halves of lines 0 and 1.
type hd44780Display struct {
	dev  hd44780.Device
	cols int
	rows int
}

func newHD44780Display(data [8]machine.Pin, e, rs, rw machine.Pin, cols, rows int) (*hd44780Display, error) {
	dev, err := hd44780.NewGPIO8Bit(data[:], e, rs, rw)
	if err != nil {
		return nil, fmt.Errorf("lcd: %w", err)
	}
	if err := dev.Configure(hd44780.Config{Width: 40, Height: 2}); err != nil {
		return nil, fmt.Errorf("lcd: %w", err)
	}
	d := &hd44780Display{dev: dev, cols: cols, rows: rows}
	d.Clear()
	return d, nil
}

func (d *hd44780Display) Size() (cols, rows int) { return d.cols, d.rows }

func (d *hd44780Display) Clear() {
	d.dev.ClearDisplay()
	d.dev.SetCursor(0, 0)
}

func (d *hd44780Display) SetCursor(col, row int) {
	addr := lcd.Address(col, row, d.rows)
	d.dev.SetCursor(addr&0x3f, addr>>6)
}

func (d *hd44780Display) Write(text string) {
	if text == "" {
		return
	}
	_, _ = d.dev.Write([]byte(text))
	_ = d.dev.Display()
}
