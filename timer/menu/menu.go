// Package menu holds a wrapping list of selectable items shown a page at a time.
package menu

import "github.com/samber/lo"

// PageSize is the number of items the main menu shows at once.
const PageSize = 4

// Entry is one visible item of the current page.
type Entry struct {
	Index  int
	Label  string
	Active bool
}

// Model is an ordered item list with a wrapping selection.
type Model struct {
	items    []string
	selected int
	pageSize int
}

// New returns a model over items. It panics if items is empty, since the
// selection invariant cannot hold.
func New(pageSize int, items ...string) *Model {
	if len(items) == 0 {
		panic("menu: no items")
	}
	if pageSize <= 0 {
		pageSize = PageSize
	}
	return &Model{items: append([]string(nil), items...), pageSize: pageSize}
}

func (m *Model) Len() int      { return len(m.items) }
func (m *Model) Selected() int { return m.selected }
func (m *Model) PageSize() int { return m.pageSize }

// Page returns the index of the page holding the selection.
func (m *Model) Page() int { return m.selected / m.pageSize }

// SelectedItem returns the label under the cursor.
func (m *Model) SelectedItem() string { return m.items[m.selected] }

// Advance moves the selection by delta, wrapping in both directions.
func (m *Model) Advance(delta int) {
	n := len(m.items)
	m.selected = ((m.selected+delta)%n + n) % n
}

// Reset moves the selection back to the first item.
func (m *Model) Reset() { m.selected = 0 }

// CurrentPage returns the visible window with the selected item flagged.
func (m *Model) CurrentPage() []Entry {
	page := m.Page()
	chunk := lo.Chunk(m.items, m.pageSize)[page]
	start := page * m.pageSize
	return lo.Map(chunk, func(label string, i int) Entry {
		return Entry{Index: start + i, Label: label, Active: start+i == m.selected}
	})
}
