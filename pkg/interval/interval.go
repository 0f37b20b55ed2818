// Package interval implements the half-open time interval algebra the
// scheduler is built on: normalized sets, subtraction, day clipping and
// chronological consumption.
package interval

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"time"
)

// ErrBadInterval is returned when an interval with a non-positive length
// would be constructed. The scheduler treats it as an internal logic defect.
var ErrBadInterval = errors.New("interval: start must be before end")

// Interval is a half-open time range [Start, End). Start < End always holds
// for intervals built through New; the zero Interval is invalid.
type Interval struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: [%s, %s)", ErrBadInterval, start, end)
	}
	return Interval{Start: start, End: end}, nil
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps reports whether the two half-open intervals share any instant.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start.Before(o.End) && o.Start.Before(iv.End)
}

// Intersect returns the overlap of the two intervals, if any.
func (iv Interval) Intersect(o Interval) (Interval, bool) {
	start := iv.Start
	if o.Start.After(start) {
		start = o.Start
	}
	end := iv.End
	if o.End.Before(end) {
		end = o.End
	}
	if !start.Before(end) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s)", iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
}

// Set is a normalized collection of intervals: sorted by start,
// non-overlapping, with adjacent intervals merged.
type Set []Interval

// NewSet normalizes an arbitrary collection of intervals into a Set.
// Zero-length inputs are dropped.
func NewSet(ivs ...Interval) Set {
	var s Set
	for _, iv := range ivs {
		if iv.Start.Before(iv.End) {
			s = append(s, iv)
		}
	}
	sort.Slice(s, func(i, j int) bool { return s[i].Start.Before(s[j].Start) })
	merged := s[:0]
	for _, iv := range s {
		n := len(merged)
		if n > 0 && !merged[n-1].End.Before(iv.Start) {
			if iv.End.After(merged[n-1].End) {
				merged[n-1].End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Union merges another set into this one, returning a new normalized Set.
func (s Set) Union(o Set) Set {
	return NewSet(append(append(Set{}, s...), o...)...)
}

// Sub removes every blocking interval's overlap from the set. Free intervals
// straddling a block are split; fully covered ones are dropped.
func (s Set) Sub(blocks Set) Set {
	if len(blocks) == 0 {
		return s
	}
	var out Set
	for _, free := range s {
		pieces := []Interval{free}
		for _, b := range blocks {
			if b.End.Before(free.Start) || !b.Start.Before(free.End) {
				continue
			}
			var next []Interval
			for _, p := range pieces {
				if !p.Overlaps(b) {
					next = append(next, p)
					continue
				}
				if p.Start.Before(b.Start) {
					next = append(next, Interval{Start: p.Start, End: b.Start})
				}
				if b.End.Before(p.End) {
					next = append(next, Interval{Start: b.End, End: p.End})
				}
			}
			pieces = next
		}
		out = append(out, pieces...)
	}
	return NewSet(out...)
}

// Clip restricts the set to the given window.
func (s Set) Clip(win Interval) Set {
	var out Set
	for _, iv := range s {
		if cut, ok := iv.Intersect(win); ok {
			out = append(out, cut)
		}
	}
	return out
}

// ClipToDay restricts the set to [day 00:00, next day 00:00) in day's location.
func (s Set) ClipToDay(day time.Time) Set {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	end := time.Date(y, m, d+1, 0, 0, 0, 0, day.Location())
	return s.Clip(Interval{Start: start, End: end})
}

// Total is the summed duration of all intervals in the set.
func (s Set) Total() time.Duration {
	var total time.Duration
	for _, iv := range s {
		total += iv.Duration()
	}
	return total
}

// Take walks a chronological sequence of intervals, consuming prefixes until
// want is exhausted or the sequence ends. It returns the exact intervals
// consumed (each one a valid Interval, never split across a gap) and the
// duration left unfilled.
func Take(seq iter.Seq[Interval], want time.Duration) ([]Interval, time.Duration) {
	var taken []Interval
	for iv := range seq {
		if want <= 0 {
			break
		}
		d := iv.Duration()
		if d > want {
			iv.End = iv.Start.Add(want)
			d = want
		}
		taken = append(taken, iv)
		want -= d
	}
	if want < 0 {
		want = 0
	}
	return taken, want
}
