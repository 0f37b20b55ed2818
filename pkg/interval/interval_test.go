package interval

import (
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // a Monday

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func iv(t *testing.T, start, end time.Time) Interval {
	t.Helper()
	out, err := New(start, end)
	require.NoError(t, err)
	return out
}

func TestNewRejectsEmptyAndInverted(t *testing.T) {
	_, err := New(at(9, 0), at(9, 0))
	assert.ErrorIs(t, err, ErrBadInterval)

	_, err = New(at(10, 0), at(9, 0))
	assert.ErrorIs(t, err, ErrBadInterval)
}

func TestNewSetSortsAndMerges(t *testing.T) {
	s := NewSet(
		Interval{Start: at(14, 0), End: at(17, 0)},
		Interval{Start: at(9, 0), End: at(11, 0)},
		Interval{Start: at(11, 0), End: at(12, 30)}, // adjacent, must merge
		Interval{Start: at(10, 0), End: at(10, 30)}, // contained
	)
	require.Len(t, s, 2)
	assert.Equal(t, at(9, 0), s[0].Start)
	assert.Equal(t, at(12, 30), s[0].End)
	assert.Equal(t, at(14, 0), s[1].Start)
}

func TestSubSplitsStraddlingBlocks(t *testing.T) {
	free := NewSet(Interval{Start: at(9, 0), End: at(17, 0)})
	blocks := NewSet(Interval{Start: at(12, 0), End: at(13, 0)})

	got := free.Sub(blocks)
	require.Len(t, got, 2)
	assert.Equal(t, Interval{Start: at(9, 0), End: at(12, 0)}, got[0])
	assert.Equal(t, Interval{Start: at(13, 0), End: at(17, 0)}, got[1])
}

func TestSubDropsFullyCoveredIntervals(t *testing.T) {
	free := NewSet(
		Interval{Start: at(9, 0), End: at(10, 0)},
		Interval{Start: at(14, 0), End: at(15, 0)},
	)
	blocks := NewSet(Interval{Start: at(8, 0), End: at(11, 0)})

	got := free.Sub(blocks)
	require.Len(t, got, 1)
	assert.Equal(t, at(14, 0), got[0].Start)
}

func TestSubBlockTouchingEdgeIsNoop(t *testing.T) {
	free := NewSet(Interval{Start: at(9, 0), End: at(12, 0)})
	blocks := NewSet(Interval{Start: at(12, 0), End: at(13, 0)})

	got := free.Sub(blocks)
	require.Len(t, got, 1)
	assert.Equal(t, Interval{Start: at(9, 0), End: at(12, 0)}, got[0])
}

func TestSubNeverEmitsZeroLength(t *testing.T) {
	free := NewSet(Interval{Start: at(9, 0), End: at(12, 0)})
	blocks := NewSet(
		Interval{Start: at(9, 0), End: at(10, 0)},
		Interval{Start: at(10, 0), End: at(12, 0)},
	)
	assert.Empty(t, free.Sub(blocks))
}

func TestClipToDay(t *testing.T) {
	s := NewSet(
		Interval{Start: at(-2, 0), End: at(1, 0)},  // from the previous day
		Interval{Start: at(23, 0), End: at(26, 0)}, // into the next day
	)
	got := s.ClipToDay(day)
	require.Len(t, got, 2)
	assert.Equal(t, Interval{Start: at(0, 0), End: at(1, 0)}, got[0])
	assert.Equal(t, Interval{Start: at(23, 0), End: at(24, 0)}, got[1])
}

func TestTotal(t *testing.T) {
	s := NewSet(
		Interval{Start: at(9, 0), End: at(12, 30)},
		Interval{Start: at(14, 0), End: at(17, 0)},
	)
	assert.Equal(t, 6*time.Hour+30*time.Minute, s.Total())
}

func seqOf(ivs ...Interval) iter.Seq[Interval] {
	return func(yield func(Interval) bool) {
		for _, iv := range ivs {
			if !yield(iv) {
				return
			}
		}
	}
}

func TestTakeConsumesPrefixAcrossGaps(t *testing.T) {
	seq := seqOf(
		iv(t, at(9, 0), at(10, 0)),
		iv(t, at(14, 0), at(17, 0)),
	)
	taken, left := Take(seq, 2*time.Hour)
	assert.Zero(t, left)
	require.Len(t, taken, 2)
	assert.Equal(t, Interval{Start: at(9, 0), End: at(10, 0)}, taken[0])
	assert.Equal(t, Interval{Start: at(14, 0), End: at(15, 0)}, taken[1])
}

func TestTakeReportsShortfall(t *testing.T) {
	seq := seqOf(iv(t, at(9, 0), at(10, 0)))
	taken, left := Take(seq, 3*time.Hour)
	require.Len(t, taken, 1)
	assert.Equal(t, 2*time.Hour, left)
}

func TestTakeZeroWant(t *testing.T) {
	seq := seqOf(iv(t, at(9, 0), at(10, 0)))
	taken, left := Take(seq, 0)
	assert.Empty(t, taken)
	assert.Zero(t, left)
}
