// Package availability resolves a task's concrete working time: the windows
// of its time maps, day by day, minus externally imposed calendar blocks.
package availability

import (
	"iter"
	"time"

	"taskcheck/pkg/interval"
	"taskcheck/pkg/timemap"
)

// Resolver produces free intervals for a fixed combination of time maps and
// blocking intervals. It is read-only and safe to share within a run.
type Resolver struct {
	maps   []timemap.TimeMap
	blocks interval.Set
}

func New(maps []timemap.TimeMap, blocks interval.Set) *Resolver {
	return &Resolver{maps: maps, blocks: blocks}
}

// Intervals returns the free intervals from `from` onwards, chronologically
// ordered, covering horizonDays calendar days starting at from's day. The
// sequence is finite, restartable and generated lazily one day at a time.
// The first day's windows are clipped to begin no earlier than `from`.
func (r *Resolver) Intervals(from time.Time, horizonDays int) iter.Seq[interval.Interval] {
	return func(yield func(interval.Interval) bool) {
		y, m, d := from.Date()
		for offset := 0; offset < horizonDays; offset++ {
			day := time.Date(y, m, d+offset, 0, 0, 0, 0, from.Location())

			var free interval.Set
			for _, tm := range r.maps {
				free = free.Union(tm.WindowsOn(day))
			}
			if len(free) == 0 {
				continue
			}
			if offset == 0 {
				dayEnd := time.Date(y, m, d+1, 0, 0, 0, 0, from.Location())
				free = free.Clip(interval.Interval{Start: from, End: dayEnd})
			}
			free = free.Sub(r.blocks.ClipToDay(day))

			for _, iv := range free {
				if !yield(iv) {
					return
				}
			}
		}
	}
}
