// Package results pages through the lap times of the last race.
package results

import (
	"slices"
	"time"

	"github.com/samber/lo"
)

// PageSize is the number of lap rows below the total line.
const PageSize = 3

// Entry is one lap row.
type Entry struct {
	Rank int
	Time time.Duration
}

// Page is what one results screen shows.
type Page struct {
	Total   time.Duration
	Index   int
	Entries []Entry
	// Last marks the page that offers the way back to the menu.
	Last bool
}

// Browser walks a fixed list of lap times a page at a time.
type Browser struct {
	laps     []time.Duration
	pageSize int
	index    int
}

// New returns a browser positioned on the first page.
func New(laps []time.Duration, pageSize int) *Browser {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	return &Browser{laps: slices.Clone(laps), pageSize: pageSize}
}

func (b *Browser) Len() int   { return len(b.laps) }
func (b *Browser) Index() int { return b.index }

// Total is the sum of all lap times.
func (b *Browser) Total() time.Duration { return lo.Sum(b.laps) }

// OnLastPage reports whether the current page reaches the end of the list.
func (b *Browser) OnLastPage() bool { return b.index+b.pageSize >= len(b.laps) }

// Page returns the current screen.
func (b *Browser) Page() Page {
	end := min(b.index+b.pageSize, len(b.laps))
	entries := lo.Map(b.laps[b.index:end], func(d time.Duration, i int) Entry {
		return Entry{Rank: b.index + i + 1, Time: d}
	})
	return Page{Total: b.Total(), Index: b.index, Entries: entries, Last: b.OnLastPage()}
}

// Next advances one page, wrapping to the start after the last page.
func (b *Browser) Next() {
	b.index += b.pageSize
	if b.index >= len(b.laps) {
		b.index = 0
	}
}

// Prev goes back one page, wrapping from the first page to the last.
func (b *Browser) Prev() {
	if b.index == 0 {
		if n := len(b.laps); n > 0 {
			b.index = (n - 1) / b.pageSize * b.pageSize
		}
		return
	}
	b.index = max(b.index-b.pageSize, 0)
}

// Select leaves the browser from the last page and advances otherwise.
func (b *Browser) Select() (exit bool) {
	if b.OnLastPage() {
		return true
	}
	b.Next()
	return false
}
