//go:build !tinygo

package hal

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"

	"gatetimer/timer/lcd"
)

var (
	panelFont       = &proggy.TinySZ8pt7b
	panelFontHeight = int16(10)
	panelFontOffset = int16(6)

	lcdBackground = color.RGBA{R: 0x7a, G: 0xb8, B: 0x3c, A: 0xff}
	lcdInk        = color.RGBA{R: 0x10, G: 0x28, B: 0x10, A: 0xff}
	bezel         = color.RGBA{R: 0x20, G: 0x20, B: 0x24, A: 0xff}
)

// fbRegion is a horizontal band of the framebuffer seen as a TinyGo
// display, so tinyfont and tinyterm can draw into it.
type fbRegion struct {
	fb *hostFramebuffer
	y0 int
	h  int
}

var _ tinyterm.Displayer = fbRegion{}

func (d fbRegion) Size() (x, y int16) { return int16(d.fb.width), int16(d.h) }

func (d fbRegion) SetPixel(x, y int16, c color.RGBA) {
	if int(y) < 0 || int(y) >= d.h {
		return
	}
	d.fb.setPixel(int(x), d.y0+int(y), rgb565(c.R, c.G, c.B))
}

func (d fbRegion) Display() error { return nil }

func (d fbRegion) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	y0 := clampInt(int(y), 0, d.h)
	y1 := clampInt(int(y)+int(height), 0, d.h)
	d.fb.fill(int(x), d.y0+y0, int(x)+int(width), d.y0+y1, rgb565(c.R, c.G, c.B))
	return nil
}

func (d fbRegion) ScrollUp(lines int16, bg color.RGBA) error {
	d.fb.scrollUp(d.y0, d.y0+d.h, int(lines), rgb565(bg.R, bg.G, bg.B))
	return nil
}

func (d fbRegion) SetScroll(line int16) { _ = line }

func (d fbRegion) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

// scaled magnifies every pixel into a square block.
type scaled struct {
	base  fbRegion
	x0    int16
	y0    int16
	scale int16
}

var _ drivers.Displayer = scaled{}

func (d scaled) Size() (x, y int16) {
	w, h := d.base.Size()
	return (w - d.x0) / d.scale, (h - d.y0) / d.scale
}

func (d scaled) SetPixel(x, y int16, c color.RGBA) {
	_ = d.base.FillRectangle(d.x0+x*d.scale, d.y0+y*d.scale, d.scale, d.scale, c)
}

func (d scaled) Display() error { return nil }

// panel lays out the emulator window: the character LCD on top and a
// console of recent log lines below.
type panel struct {
	fb    *hostFramebuffer
	lcd   scaled
	term  *tinyterm.Terminal
	cols  int
	rows  int
	cellW int16
	pad   int16

	lastGen uint64
}

func newPanel(cols, rows, scale, consoleLines int) *panel {
	if scale <= 0 {
		scale = 2
	}
	_, fw := tinyfont.LineWidth(panelFont, "0")
	cellW := int16(fw) + 1
	pad := int16(8)

	lcdW := int(pad)*2 + cols*int(cellW)*scale
	lcdH := int(pad)*2 + rows*int(panelFontHeight)*scale
	consoleH := consoleLines * int(panelFontHeight)
	fb := newHostFramebuffer(lcdW, lcdH+consoleH)

	p := &panel{
		fb:    fb,
		lcd:   scaled{base: fbRegion{fb: fb, y0: 0, h: lcdH}, x0: pad, y0: pad, scale: int16(scale)},
		cols:  cols,
		rows:  rows,
		cellW: cellW,
		pad:   pad,
	}
	fb.ClearRGB(bezel.R, bezel.G, bezel.B)

	if consoleLines > 0 {
		p.term = tinyterm.NewTerminal(fbRegion{fb: fb, y0: lcdH, h: consoleH})
		p.term.Configure(&tinyterm.Config{
			Font:              panelFont,
			FontHeight:        panelFontHeight,
			FontOffset:        panelFontOffset,
			UseSoftwareScroll: true,
		})
	}
	return p
}

// drawLCD repaints the character cells when the display memory changed.
func (p *panel) drawLCD(d *lcd.DDRAM) {
	rows, gen := d.Snapshot()
	if gen == p.lastGen {
		return
	}
	p.lastGen = gen

	w := int16(p.cols) * p.cellW
	h := int16(p.rows) * panelFontHeight
	_ = p.lcd.base.FillRectangle(p.pad, p.pad, w*p.lcd.scale, h*p.lcd.scale, lcdBackground)
	for r, text := range rows {
		y := int16(r)*panelFontHeight + panelFontOffset
		for c, ch := range text {
			if ch == ' ' {
				continue
			}
			tinyfont.DrawChar(p.lcd, panelFont, int16(c)*p.cellW, y, ch, lcdInk)
		}
	}
}

// printConsole appends log lines to the console pane.
func (p *panel) printConsole(lines []string) {
	if p.term == nil {
		return
	}
	for _, l := range lines {
		_, _ = p.term.Write([]byte("\n" + l))
	}
}
