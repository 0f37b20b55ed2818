// Package gcal turns Google Calendar events into the normalized blocking
// intervals the scheduler subtracts from availability. It is strictly
// read-only: taskcheck never writes to a calendar.
package gcal

import (
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"taskcheck/pkg/interval"
)

// Source reads blocking events from one Google Calendar.
type Source struct {
	srv            *calendar.Service
	calendarID     string
	allDayBlocking bool
}

func NewSource(srv *calendar.Service, calendarID string, allDayBlocking bool) *Source {
	return &Source{srv: srv, calendarID: calendarID, allDayBlocking: allDayBlocking}
}

// Blocks fetches the calendar's events over the horizon and merges them into
// one normalized set. Recurring events arrive already expanded
// (SingleEvents); cancelled and transparent ("free") events do not block.
func (s *Source) Blocks(from time.Time, horizonDays int) (interval.Set, error) {
	to := from.AddDate(0, 0, horizonDays)

	var ivs []interval.Interval
	pageToken := ""
	for {
		call := s.srv.Events.List(s.calendarID).
			TimeMin(from.Format(time.RFC3339)).
			TimeMax(to.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime")
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve events from calendar %s: %w", s.calendarID, err)
		}
		for _, e := range events.Items {
			iv, ok, err := EventInterval(e, s.allDayBlocking, from.Location())
			if err != nil {
				return nil, err
			}
			if ok {
				ivs = append(ivs, iv)
			}
		}
		pageToken = events.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return interval.NewSet(ivs...), nil
}

// EventInterval converts one event to a blocking interval. All-day events
// block their full days only when allDayBlocking is set; they carry dates
// without times and are anchored in loc.
func EventInterval(e *calendar.Event, allDayBlocking bool, loc *time.Location) (interval.Interval, bool, error) {
	if e.Status == "cancelled" || e.Transparency == "transparent" {
		return interval.Interval{}, false, nil
	}
	if e.Start == nil || e.End == nil {
		return interval.Interval{}, false, nil
	}

	if e.Start.DateTime == "" { // all-day event
		if !allDayBlocking {
			return interval.Interval{}, false, nil
		}
		start, err := time.ParseInLocation("2006-01-02", e.Start.Date, loc)
		if err != nil {
			return interval.Interval{}, false, fmt.Errorf("event %s: bad all-day start: %w", e.Id, err)
		}
		end, err := time.ParseInLocation("2006-01-02", e.End.Date, loc)
		if err != nil {
			return interval.Interval{}, false, fmt.Errorf("event %s: bad all-day end: %w", e.Id, err)
		}
		iv, err := interval.New(start, end)
		if err != nil {
			return interval.Interval{}, false, nil // zero-length, ignore
		}
		return iv, true, nil
	}

	start, err := time.Parse(time.RFC3339, e.Start.DateTime)
	if err != nil {
		return interval.Interval{}, false, fmt.Errorf("event %s: bad start: %w", e.Id, err)
	}
	end, err := time.Parse(time.RFC3339, e.End.DateTime)
	if err != nil {
		return interval.Interval{}, false, fmt.Errorf("event %s: bad end: %w", e.Id, err)
	}
	iv, err := interval.New(start, end)
	if err != nil {
		return interval.Interval{}, false, nil // zero-length, ignore
	}
	return iv, true, nil
}
