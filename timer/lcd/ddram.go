package lcd

import "sync"

// DDRAM emulates the display data RAM of an HD44780 in two-line mode.
//
// Rows 0 and 2 share the first controller line and rows 1 and 3 the second,
// so text that runs off row 0 continues on row 2, as on real modules.
type DDRAM struct {
	mu   sync.Mutex
	cols int
	rows int
	mem  [0x80]byte
	addr byte
	gen  uint64
}

func NewDDRAM(cols, rows int) *DDRAM {
	if cols <= 0 || cols > lineLen {
		cols = Cols
	}
	if rows <= 0 || rows > len(RowOffsets) {
		rows = Rows
	}
	m := &DDRAM{cols: cols, rows: rows}
	m.fill()
	return m
}

func (m *DDRAM) fill() {
	for i := range m.mem {
		m.mem[i] = ' '
	}
	m.addr = 0
	m.gen++
}

func (m *DDRAM) Size() (cols, rows int) { return m.cols, m.rows }

func (m *DDRAM) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fill()
}

func (m *DDRAM) SetCursor(col, row int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addr = Address(col, row, m.rows)
}

func (m *DDRAM) Write(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range text {
		m.mem[m.addr] = romByte(r)
		m.addr = nextAddr(m.addr)
	}
	m.gen++
}

// Cursor returns the current DDRAM address.
func (m *DDRAM) Cursor() byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addr
}

// Row returns the visible text of one row.
func (m *DDRAM) Row(row int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.row(row)
}

func (m *DDRAM) row(row int) string {
	row = ClampRow(row, m.rows)
	off := int(RowOffsets[row])
	return string(m.mem[off : off+m.cols])
}

// Snapshot returns all visible rows and a generation counter that changes on every write.
func (m *DDRAM) Snapshot() (rows []string, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows = make([]string, m.rows)
	for i := range rows {
		rows[i] = m.row(i)
	}
	return rows, m.gen
}

func nextAddr(a byte) byte {
	switch a {
	case lineLen - 1:
		return 0x40
	case 0x40 + lineLen - 1:
		return 0x00
	}
	return a + 1
}
