//go:build !tinygo && cgo

package hal

import (
	"bytes"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	toneSampleRate = 44100
	toneHz         = 2000
	toneVolume     = 0.25
)

// hostTone is the buzzer of the emulator: a square wave played through
// Ebiten's audio package while the buzzer pin is high.
type hostTone struct {
	mu      sync.Mutex
	logger  Logger
	enabled bool
	ctx     *audio.Context
	player  *audio.Player
	on      bool
}

func newHostTone(logger Logger) *hostTone {
	return &hostTone{logger: logger}
}

// enable opens the audio device. It must be called at most once per
// process; Ebiten allows a single audio context.
func (t *hostTone) enable() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.enabled {
		return nil
	}
	t.ctx = audio.NewContext(toneSampleRate)
	pcm := squareWave(toneSampleRate, toneHz)
	p, err := t.ctx.NewPlayer(audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm))))
	if err != nil {
		return err
	}
	p.SetVolume(toneVolume)
	t.player = p
	t.enabled = true
	return nil
}

func (t *hostTone) High() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.on = true
	t.logger.WriteLineString("buzzer: on")
	if t.player != nil {
		_ = t.player.Rewind()
		t.player.Play()
	}
}

func (t *hostTone) Low() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.on = false
	t.logger.WriteLineString("buzzer: off")
	if t.player != nil {
		t.player.Pause()
	}
}

// squareWave returns one second of 16-bit little-endian stereo PCM.
func squareWave(rate, hz int) []byte {
	const amp = 0x2000
	half := rate / hz / 2
	if half <= 0 {
		half = 1
	}
	buf := make([]byte, rate*4)
	for i := 0; i < rate; i++ {
		s := int16(amp)
		if (i/half)%2 == 1 {
			s = -amp
		}
		j := i * 4
		buf[j+0] = byte(s)
		buf[j+1] = byte(s >> 8)
		buf[j+2] = byte(s)
		buf[j+3] = byte(s >> 8)
	}
	return buf
}
