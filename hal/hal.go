package hal

import (
	"errors"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// Output is a minimal output line, such as a buzzer transistor.
type Output interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// Display is a character display addressed by column and row.
type Display interface {
	Clear()
	SetCursor(col, row int)
	Write(text string)
	Size() (cols, rows int)
}

// Beeper produces timed beeps without blocking the caller.
//
// Poll must be called regularly; it ends a pulse once its duration passed
// and reports pin errors from the pulses since the last call.
type Beeper interface {
	Pulse(d time.Duration)
	Poll() error
}

// Clock is the time base of the poll loop.
type Clock interface {
	Now() time.Time
}

// Pin names every HAL exposes through GPIO.
const (
	PinEncoderClock = "ENC_CLK"
	PinEncoderData  = "ENC_DT"
	PinButton       = "ENC_SW"
	PinGate         = "GATE"
	PinBuzzer       = "BUZZER"
)

// HAL provides the only contact point between the timer and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Beeper() Beeper
	GPIO() GPIO
	Clock() Clock
}
