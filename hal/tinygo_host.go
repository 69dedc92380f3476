//go:build tinygo && !baremetal

package hal

import (
	"fmt"
	"runtime"
	"time"

	"gatetimer/timer/lcd"
)

type tinyGoHostHAL struct {
	logger *tinyGoHostLogger
	lcd    *tinyGoHostLCD
	gpio   GPIO
	beeper *Buzzer
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` targets like linux/wasm where there is no MCU
// pin mapping: the inputs rest at their idle levels and every display change
// is printed.
func New() HAL {
	l := &tinyGoHostLogger{}
	const inCaps = GPIOCapInput | GPIOCapPullUp
	buzzerPin := newOutputPin(PinBuzzer, &tinyGoHostBuzzer{logger: l})
	h := &tinyGoHostHAL{
		logger: l,
		lcd:    &tinyGoHostLCD{DDRAM: lcd.NewDDRAM(lcd.Cols, lcd.Rows), logger: l},
		gpio: newVirtualGPIO([]GPIOPin{
			newVirtualPin(PinEncoderClock, inCaps, true),
			newVirtualPin(PinEncoderData, inCaps, true),
			newVirtualPin(PinButton, inCaps, true),
			newVirtualPin(PinGate, inCaps, true),
			buzzerPin,
		}),
	}
	h.beeper, _ = NewBuzzer(buzzerPin, tinyGoHostClock{})
	return h
}

func (h *tinyGoHostHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHostHAL) Display() Display { return h.lcd }
func (h *tinyGoHostHAL) GPIO() GPIO       { return h.gpio }
func (h *tinyGoHostHAL) Clock() Clock     { return tinyGoHostClock{} }

func (h *tinyGoHostHAL) Beeper() Beeper {
	if h.beeper == nil {
		return nil
	}
	return h.beeper
}

type tinyGoHostClock struct{}

func (tinyGoHostClock) Now() time.Time { return time.Now() }

type tinyGoHostLogger struct{}

func (l *tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (l *tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

// tinyGoHostLCD prints the whole screen after every write.
type tinyGoHostLCD struct {
	*lcd.DDRAM
	logger *tinyGoHostLogger
}

func (d *tinyGoHostLCD) Write(text string) {
	d.DDRAM.Write(text)
	rows, _ := d.Snapshot()
	for i, r := range rows {
		d.logger.WriteLineString(fmt.Sprintf("lcd %d |%s|", i, r))
	}
}

type tinyGoHostBuzzer struct {
	logger *tinyGoHostLogger
}

func (b *tinyGoHostBuzzer) High() {
	b.logger.WriteLineString(fmt.Sprintf("buzzer: on (tinygo/%s)", runtime.GOOS))
}

func (b *tinyGoHostBuzzer) Low() {
	b.logger.WriteLineString(fmt.Sprintf("buzzer: off (tinygo/%s)", runtime.GOOS))
}
