//go:build !tinygo && !cgo

package hal

import "sync"

// hostTone logs buzzer transitions; there is no audio output without cgo.
type hostTone struct {
	mu     sync.Mutex
	logger Logger
	on     bool
}

func newHostTone(logger Logger) *hostTone {
	return &hostTone{logger: logger}
}

func (t *hostTone) enable() error { return nil }

func (t *hostTone) High() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.on = true
	t.logger.WriteLineString("buzzer: on")
}

func (t *hostTone) Low() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.on = false
	t.logger.WriteLineString("buzzer: off")
}
