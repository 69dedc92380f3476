// Package lcd models the character display the timer renders to.
//
// The row-to-address map follows the HD44780 controller used by 20x4 modules,
// so the DDRAM emulator here places text exactly where the hardware would.
package lcd

import "strings"

const (
	// Cols and Rows describe the default 20x4 module.
	Cols = 20
	Rows = 4

	// CmdSetDDRAM is the controller command bit for "set DDRAM address".
	CmdSetDDRAM = 0x80

	// lineLen is the DDRAM length of one physical controller line.
	lineLen = 0x28
)

// RowOffsets maps a display row to its DDRAM start address.
var RowOffsets = [4]byte{0x00, 0x40, 0x14, 0x54}

// Display is the character display capability.
type Display interface {
	Clear()
	SetCursor(col, row int)
	Write(text string)
}

// ClampRow limits row to [0, rows-1].
func ClampRow(row, rows int) int {
	if rows > len(RowOffsets) {
		rows = len(RowOffsets)
	}
	if rows <= 0 {
		return 0
	}
	if row < 0 {
		return 0
	}
	if row >= rows {
		return rows - 1
	}
	return row
}

// Address returns the DDRAM address of (col, row) on a display with rows lines.
func Address(col, row, rows int) byte {
	row = ClampRow(row, rows)
	if col < 0 {
		col = 0
	}
	if col >= lineLen {
		col = lineLen - 1
	}
	return RowOffsets[row] + byte(col)
}

// CursorCommand returns the controller command byte that moves the cursor to (col, row).
func CursorCommand(col, row, rows int) byte {
	return CmdSetDDRAM | Address(col, row, rows)
}

// Screen wraps a Display with bounds-aware helpers.
type Screen struct {
	d    Display
	cols int
	rows int
}

func NewScreen(d Display, cols, rows int) *Screen {
	if cols <= 0 {
		cols = Cols
	}
	if rows <= 0 {
		rows = Rows
	}
	return &Screen{d: d, cols: cols, rows: rows}
}

func (s *Screen) Size() (cols, rows int) { return s.cols, s.rows }

func (s *Screen) Clear() {
	if s.d == nil {
		return
	}
	s.d.Clear()
}

// Print writes text at (col, row), truncated at the right edge.
func (s *Screen) Print(col, row int, text string) {
	if s.d == nil {
		return
	}
	row = ClampRow(row, s.rows)
	if col < 0 {
		col = 0
	}
	if col >= s.cols {
		return
	}
	s.d.SetCursor(col, row)
	s.d.Write(fit(text, s.cols-col))
}

// Line overwrites a full row, padding with spaces.
func (s *Screen) Line(row int, text string) {
	s.Print(0, row, Pad(text, s.cols))
}

// Blank clears a single row.
func (s *Screen) Blank(row int) {
	s.Line(row, "")
}

// Pad truncates or space-pads text to exactly n characters.
func Pad(text string, n int) string {
	text = fit(text, n)
	if len(text) < n {
		text += strings.Repeat(" ", n-len(text))
	}
	return text
}

func fit(text string, n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, len(text))
	for _, r := range text {
		if len(b) == n {
			break
		}
		b = append(b, romByte(r))
	}
	return string(b)
}

// romByte maps a rune onto the ASCII half of the controller's character ROM.
func romByte(r rune) byte {
	if r >= 0x20 && r <= 0x7e {
		return byte(r)
	}
	return '?'
}
