//go:build !tinygo

package hal

import "sync"

// hostFramebuffer is the RGB565 surface the emulator window shows.
type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := width * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Width() int  { return f.width }
func (f *hostFramebuffer) Height() int { return f.height }

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.fill(0, 0, f.width, f.height, rgb565(r, g, b))
}

// fill paints the rectangle [x0,x1)x[y0,y1), clipped to the buffer.
func (f *hostFramebuffer) fill(x0, y0, x1, y1 int, pixel uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()

	x0, x1 = clampInt(x0, 0, f.width), clampInt(x1, 0, f.width)
	y0, y1 = clampInt(y0, 0, f.height), clampInt(y1, 0, f.height)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for y := y0; y < y1; y++ {
		row := y * f.stride
		for x := x0; x < x1; x++ {
			f.buf[row+x*2] = lo
			f.buf[row+x*2+1] = hi
		}
	}
}

func (f *hostFramebuffer) setPixel(x, y int, pixel uint16) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	off := y*f.stride + x*2
	f.buf[off] = byte(pixel)
	f.buf[off+1] = byte(pixel >> 8)
}

// scrollUp moves rows [y0,y1) up by n pixels and paints the exposed band.
func (f *hostFramebuffer) scrollUp(y0, y1, n int, bg uint16) {
	y0, y1 = clampInt(y0, 0, f.height), clampInt(y1, 0, f.height)
	if n <= 0 || y0 >= y1 {
		return
	}
	if n >= y1-y0 {
		f.fill(0, y0, f.width, y1, bg)
		return
	}
	f.mu.Lock()
	copy(f.buf[y0*f.stride:(y1-n)*f.stride], f.buf[(y0+n)*f.stride:y1*f.stride])
	f.mu.Unlock()
	f.fill(0, y1-n, f.width, y1, bg)
}

func (f *hostFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
