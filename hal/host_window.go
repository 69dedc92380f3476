//go:build !tinygo && cgo

package hal

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"gatetimer/internal/buildinfo"
)

// WindowConfig controls the desktop emulator.
type WindowConfig struct {
	Host  HostConfig
	Scale int
	// ConsoleLines is the height of the log pane in text lines.
	ConsoleLines int
	Audio        bool
}

// RunWindow starts a desktop window that shows the LCD and forwards the
// keyboard to the emulated encoder and gate. It blocks until the window closes.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	cfg.Host.Realtime = true
	cfg.Host.Console = cfg.ConsoleLines > 0
	if cfg.Host.Poll <= 0 {
		cfg.Host.Poll = 10 * time.Millisecond
	}
	h, err := newHostHAL(cfg.Host)
	if err != nil {
		return err
	}
	if cfg.Audio {
		if err := h.tone.enable(); err != nil {
			h.logger.WriteLineString("audio: " + err.Error())
		}
	}
	step := newApp(h)

	cols, rows := h.lcd.Size()
	g := &hostGame{h: h, step: step, panel: newPanel(cols, rows, cfg.Scale, cfg.ConsoleLines)}
	ebiten.SetWindowTitle("Gate Timer (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(g.panel.fb.width*2, g.panel.fb.height*2)
	ebiten.SetTPS(int(time.Second / cfg.Host.Poll))
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	panel   *panel
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
}

func (g *hostGame) Update() error {
	pollKeyboard(g.h.input)
	g.h.tick()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	g.panel.drawLCD(g.h.lcd)
	g.panel.printConsole(g.h.logger.drain())

	fb := g.panel.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.panel.fb.width, g.panel.fb.height
}
