package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcheck/pkg/interval"
	"taskcheck/pkg/timemap"
)

var monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func workWeek(t *testing.T) timemap.TimeMap {
	t.Helper()
	tm, err := timemap.New(map[string][]timemap.Window{
		"monday":    {{Start: 9, End: 12.5}, {Start: 14, End: 17}},
		"tuesday":   {{Start: 9, End: 12.5}, {Start: 14, End: 17}},
		"wednesday": {{Start: 9, End: 12.5}, {Start: 14, End: 17}},
		"thursday":  {{Start: 9, End: 12.5}, {Start: 14, End: 17}},
		"friday":    {{Start: 9, End: 12.5}, {Start: 14, End: 17}},
	})
	require.NoError(t, err)
	return tm
}

func collect(r *Resolver, from time.Time, days int) []interval.Interval {
	var out []interval.Interval
	for iv := range r.Intervals(from, days) {
		out = append(out, iv)
	}
	return out
}

func TestIntervalsAreChronologicalAndBounded(t *testing.T) {
	r := New([]timemap.TimeMap{workWeek(t)}, nil)

	got := collect(r, monday, 7) // Mon..Sun, weekend contributes nothing
	require.Len(t, got, 10)      // 2 windows x 5 workdays
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].End.Before(got[i].Start) || got[i-1].End.Equal(got[i].Start))
	}
	assert.Equal(t, monday.Add(9*time.Hour), got[0].Start)
}

func TestFirstDayClippedToFrom(t *testing.T) {
	r := New([]timemap.TimeMap{workWeek(t)}, nil)

	from := monday.Add(10 * time.Hour) // mid-morning
	got := collect(r, from, 1)
	require.Len(t, got, 2)
	assert.Equal(t, from, got[0].Start)
	assert.Equal(t, monday.Add(12*time.Hour+30*time.Minute), got[0].End)
}

func TestFromAfterAllWindowsSkipsFirstDay(t *testing.T) {
	r := New([]timemap.TimeMap{workWeek(t)}, nil)

	from := monday.Add(18 * time.Hour)
	got := collect(r, from, 2)
	require.Len(t, got, 2) // Tuesday only
	assert.Equal(t, monday.AddDate(0, 0, 1).Add(9*time.Hour), got[0].Start)
}

func TestBlocksSubtracted(t *testing.T) {
	blocks := interval.NewSet(interval.Interval{
		Start: monday.Add(10 * time.Hour),
		End:   monday.Add(11 * time.Hour),
	})
	r := New([]timemap.TimeMap{workWeek(t)}, blocks)

	got := collect(r, monday, 1)
	require.Len(t, got, 3)
	assert.Equal(t, monday.Add(9*time.Hour), got[0].Start)
	assert.Equal(t, monday.Add(10*time.Hour), got[0].End)
	assert.Equal(t, monday.Add(11*time.Hour), got[1].Start)
}

func TestDayFullyConsumedByBlockContributesNothing(t *testing.T) {
	blocks := interval.NewSet(interval.Interval{
		Start: monday,
		End:   monday.AddDate(0, 0, 1),
	})
	r := New([]timemap.TimeMap{workWeek(t)}, blocks)

	got := collect(r, monday, 2)
	require.Len(t, got, 2) // Tuesday's two windows
	assert.Equal(t, monday.AddDate(0, 0, 1).Add(9*time.Hour), got[0].Start)
}

func TestUnionOfMultipleMaps(t *testing.T) {
	evenings, err := timemap.New(map[string][]timemap.Window{
		"monday": {{Start: 18, End: 20}},
	})
	require.NoError(t, err)
	r := New([]timemap.TimeMap{workWeek(t), evenings}, nil)

	got := collect(r, monday, 1)
	require.Len(t, got, 3)
	assert.Equal(t, monday.Add(18*time.Hour), got[2].Start)
}

func TestSequenceIsRestartable(t *testing.T) {
	r := New([]timemap.TimeMap{workWeek(t)}, nil)
	first := collect(r, monday, 3)
	second := collect(r, monday, 3)
	assert.Equal(t, first, second)
}
