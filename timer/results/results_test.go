package results

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func laps(ms ...int) []time.Duration {
	out := make([]time.Duration, len(ms))
	for i, v := range ms {
		out[i] = time.Duration(v) * time.Millisecond
	}
	return out
}

func TestSevenLapsPaging(t *testing.T) {
	b := New(laps(1000, 2000, 3000, 4000, 5000, 6000, 7000), PageSize)

	var seen []int
	var last []bool
	for i := 0; i < 4; i++ {
		p := b.Page()
		seen = append(seen, p.Index)
		last = append(last, p.Last)
		b.Next()
	}
	assert.Equal(t, []int{0, 3, 6, 0}, seen)
	assert.Equal(t, []bool{false, false, true, false}, last)
}

func TestPageContents(t *testing.T) {
	b := New(laps(1234, 900, 1500, 2000), 0)
	b.Next()
	want := Page{
		Total:   5634 * time.Millisecond,
		Index:   3,
		Entries: []Entry{{Rank: 4, Time: 2 * time.Second}},
		Last:    true,
	}
	if diff := cmp.Diff(want, b.Page()); diff != "" {
		t.Fatalf("Page() mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectExitsOnlyFromLastPage(t *testing.T) {
	b := New(laps(1, 2, 3, 4, 5, 6, 7), PageSize)
	require.False(t, b.Select())
	assert.Equal(t, 3, b.Index())
	require.False(t, b.Select())
	assert.Equal(t, 6, b.Index())
	assert.True(t, b.Select())
	assert.Equal(t, 6, b.Index())
}

func TestSinglePageIsLast(t *testing.T) {
	b := New(laps(10, 20, 30), PageSize)
	assert.True(t, b.Page().Last)
	b.Next()
	assert.Equal(t, 0, b.Index())
	assert.True(t, b.Select())
}

func TestPrevWraps(t *testing.T) {
	b := New(laps(1, 2, 3, 4, 5, 6, 7), PageSize)
	b.Prev()
	assert.Equal(t, 6, b.Index())
	b.Prev()
	assert.Equal(t, 3, b.Index())
	b.Prev()
	assert.Equal(t, 0, b.Index())

	b = New(laps(1, 2, 3, 4, 5, 6), PageSize)
	b.Prev()
	assert.Equal(t, 3, b.Index())
}

func TestBrowserCopiesLaps(t *testing.T) {
	src := laps(100, 200)
	b := New(src, PageSize)
	src[0] = time.Hour
	assert.Equal(t, 300*time.Millisecond, b.Total())
	assert.Equal(t, 2, b.Len())
}
