// Package timemap models named recurring weekly availability patterns
// ("time maps"): per-weekday working windows expressed in fractional hours.
package timemap

import (
	"fmt"
	"math"
	"sort"
	"time"

	"taskcheck/pkg/interval"
)

// Window is an intraday range in fractional hours, e.g. 9.0–12.5 for
// 09:00–12:30. Valid windows satisfy 0 <= Start < End < 24.
type Window struct {
	Start float64
	End   float64
}

func (w Window) validate() error {
	if w.Start < 0 || w.Start >= 24 || w.End < 0 || w.End >= 24 {
		return fmt.Errorf("window [%v, %v] out of bounds", w.Start, w.End)
	}
	if w.Start >= w.End {
		return fmt.Errorf("window [%v, %v] has start >= end", w.Start, w.End)
	}
	return nil
}

// TimeMap maps weekdays to ordered, non-overlapping working windows. It is
// immutable once built.
type TimeMap struct {
	days map[time.Weekday][]Window
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// New builds a TimeMap from lowercase weekday names. Windows are sorted per
// day; malformed or overlapping windows are rejected.
func New(days map[string][]Window) (TimeMap, error) {
	tm := TimeMap{days: make(map[time.Weekday][]Window, len(days))}
	for name, windows := range days {
		wd, ok := weekdayNames[name]
		if !ok {
			return TimeMap{}, fmt.Errorf("unknown weekday %q", name)
		}
		ws := append([]Window(nil), windows...)
		sort.Slice(ws, func(i, j int) bool { return ws[i].Start < ws[j].Start })
		for i, w := range ws {
			if err := w.validate(); err != nil {
				return TimeMap{}, fmt.Errorf("%s: %w", name, err)
			}
			if i > 0 && ws[i-1].End > w.Start {
				return TimeMap{}, fmt.Errorf("%s: windows [%v, %v] and [%v, %v] overlap",
					name, ws[i-1].Start, ws[i-1].End, w.Start, w.End)
			}
		}
		tm.days[wd] = ws
	}
	return tm, nil
}

// WindowsOn materializes the map's windows for one calendar date as absolute
// intervals in the date's location. Days without an entry yield nothing.
func (tm TimeMap) WindowsOn(date time.Time) interval.Set {
	windows := tm.days[date.Weekday()]
	if len(windows) == 0 {
		return nil
	}
	y, m, d := date.Date()
	var ivs []interval.Interval
	for _, w := range windows {
		start := time.Date(y, m, d, 0, 0, hourSeconds(w.Start), 0, date.Location())
		end := time.Date(y, m, d, 0, 0, hourSeconds(w.End), 0, date.Location())
		iv, err := interval.New(start, end)
		if err != nil {
			continue // cannot happen for validated windows
		}
		ivs = append(ivs, iv)
	}
	return interval.NewSet(ivs...)
}

// hourSeconds converts fractional hours to whole seconds past midnight.
// Going through time.Date keeps the result on the wall clock across DST
// transitions.
func hourSeconds(h float64) int {
	return int(math.Round(h * 3600))
}
