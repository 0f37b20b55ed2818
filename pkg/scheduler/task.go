package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"taskcheck/pkg/availability"
	"taskcheck/pkg/interval"
	"taskcheck/pkg/model"
	"taskcheck/pkg/timemap"
)

// Task is the engine-side state of one schedulable unit. It is constructed
// from a model.Task at run start and mutated in place by an allocator:
// Remaining decreases and Scheduled grows until the task is complete or the
// horizon runs out. Nothing else writes to it during a run.
type Task struct {
	UUID        string
	Description string

	// Rank orders allocation; lower goes first. It is supplied externally
	// and, for the parallel algorithm, refreshed once per round via
	// Options.Rerank.
	Rank int

	Estimate  time.Duration
	Remaining time.Duration
	MinBlock  time.Duration
	Due       time.Time
	Wait      time.Time
	TimeMaps  []string

	// Scheduled accumulates the concrete work intervals in chronological
	// order. Chunks are appended as allocated and never coalesced, so the
	// parallel algorithm's per-round chunk sizes stay observable.
	Scheduled []interval.Interval

	resolver *availability.Resolver
}

// allocFrom is the earliest instant this task may receive time.
func (t *Task) allocFrom(now time.Time) time.Time {
	if t.Wait.After(now) {
		return t.Wait
	}
	return now
}

// Allocated is the total duration committed to the task so far.
func (t *Task) Allocated() time.Duration {
	var total time.Duration
	for _, iv := range t.Scheduled {
		total += iv.Duration()
	}
	return total
}

// SchedulingNote renders the per-day allocation breakdown written back into
// the task source, one "YYYY-MM-DD: H.HH hours" line per day worked.
func (t *Task) SchedulingNote() string {
	perDay := make(map[string]time.Duration)
	for _, iv := range t.Scheduled {
		day := iv.Start.Format("2006-01-02")
		perDay[day] += iv.Duration()
	}
	days := make([]string, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Strings(days)

	var b strings.Builder
	for i, day := range days {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %.2f hours", day, perDay[day].Hours())
	}
	return b.String()
}

// RecordError ties a validation failure to the record that caused it. Bad
// records are reported as a batch and skipped; they never abort the run.
type RecordError struct {
	UUID string
	Err  error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("task %s: %v", e.UUID, e.Err)
}

func (e RecordError) Unwrap() error { return e.Err }

// prepare validates the input records and builds the engine tasks. Records
// with no estimate or no time maps opt out silently; malformed records
// produce a RecordError each. Tasks come back ranked by descending urgency.
func prepare(records []model.Task, templates map[string]timemap.TimeMap, defaultMinBlock time.Duration, blocks interval.Set) ([]*Task, []RecordError) {
	ordered := append([]model.Task(nil), records...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Urgency > ordered[j].Urgency })

	var tasks []*Task
	var recErrs []RecordError
	for _, rec := range ordered {
		if rec.Estimate == 0 || len(rec.TimeMaps) == 0 {
			continue // deliberate opt-out, not an error
		}
		if rec.Estimate < 0 {
			recErrs = append(recErrs, RecordError{UUID: rec.UUID, Err: fmt.Errorf("negative estimate %s", rec.Estimate)})
			continue
		}
		if rec.MinBlock < 0 {
			recErrs = append(recErrs, RecordError{UUID: rec.UUID, Err: fmt.Errorf("negative min block %s", rec.MinBlock)})
			continue
		}

		maps := make([]timemap.TimeMap, 0, len(rec.TimeMaps))
		unknown := ""
		for _, name := range rec.TimeMaps {
			tm, ok := templates[name]
			if !ok {
				unknown = name
				break
			}
			maps = append(maps, tm)
		}
		if unknown != "" {
			recErrs = append(recErrs, RecordError{UUID: rec.UUID, Err: fmt.Errorf("time map %q does not exist", unknown)})
			continue
		}

		minBlock := rec.MinBlock
		if minBlock == 0 {
			minBlock = defaultMinBlock
		}
		tasks = append(tasks, &Task{
			UUID:        rec.UUID,
			Description: rec.Description,
			Rank:        len(tasks),
			Estimate:    rec.Estimate,
			Remaining:   rec.Estimate,
			MinBlock:    minBlock,
			Due:         rec.Due,
			Wait:        rec.Wait,
			TimeMaps:    append([]string(nil), rec.TimeMaps...),
			resolver:    availability.New(maps, blocks),
		})
	}
	return tasks, recErrs
}
