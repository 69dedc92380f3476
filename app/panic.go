package app

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gatetimer/hal"
)

// guard wraps step so a panic is reported on the display and the log and
// returned as an error instead of unwinding the poll loop.
func guard(h hal.HAL, step func() error) func() error {
	return func() (err error) {
		defer func() {
			if v := recover(); v != nil {
				showPanic(h, v)
				err = fmt.Errorf("app: panic: %v", v)
			}
		}()
		return step()
	}
}

func showPanic(h hal.HAL, v any) {
	msg := fmt.Sprintf("%v", v)
	if l := h.Logger(); l != nil {
		l.WriteLineString("Timer Panic: " + msg)
	}

	d := h.Display()
	if d == nil {
		return
	}
	cols, rows := d.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	d.Clear()
	d.SetCursor(0, 0)
	d.Write("Timer Panic:")

	row := 1
	for line := msg; line != "" && row < rows; row++ {
		chunk, rest := takeRunes(line, cols)
		d.SetCursor(0, row)
		d.Write(chunk)
		line = strings.TrimLeft(rest, " ")
	}
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	var i, count int
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
