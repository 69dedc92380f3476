//go:build !tinygo

package hal

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// hostLogger forwards HAL log lines to zap. Lines of the form
// "subsystem: message" are logged with a subsystem field. When a console
// is attached the raw lines are also kept for the emulator window.
type hostLogger struct {
	z *zap.Logger

	mu      sync.Mutex
	console bool
	pending []string
	max     int
}

func newHostLogger(z *zap.Logger, console bool) *hostLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &hostLogger{z: z, console: console, max: 256}
}

func (l *hostLogger) WriteLineString(s string) {
	if sub, msg, ok := splitSubsystem(s); ok {
		l.z.Info(msg, zap.String("subsystem", sub))
	} else {
		l.z.Info(s)
	}

	if !l.console {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, s)
	if over := len(l.pending) - l.max; over > 0 {
		l.pending = append(l.pending[:0], l.pending[over:]...)
	}
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(string(b))
}

// drain returns the lines logged since the last call.
func (l *hostLogger) drain() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.pending
	l.pending = nil
	return out
}

func splitSubsystem(s string) (sub, msg string, ok bool) {
	sub, msg, ok = strings.Cut(s, ": ")
	if !ok || sub == "" || strings.ContainsAny(sub, " \t") {
		return "", s, false
	}
	return sub, msg, true
}
