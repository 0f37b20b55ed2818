// Package scheduler computes a feasible future schedule for a prioritized
// list of effort-estimated tasks against per-task recurring availability and
// calendar blocks. Two allocation algorithms are provided: sequential
// (fill each task completely in fixed priority order) and parallel
// (round-robin in min-block chunks with per-round re-prioritization).
package scheduler

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"taskcheck/pkg/interval"
	"taskcheck/pkg/model"
	"taskcheck/pkg/timemap"
)

type Algorithm string

const (
	Sequential Algorithm = "sequential"
	Parallel   Algorithm = "parallel"
)

// DefaultMinBlock is the chunk size the parallel algorithm allocates per
// round when neither the options nor the task override it.
const DefaultMinBlock = 2 * time.Hour

// Options configures a single scheduling run. Templates and Blocks are
// read-only for the duration of the run; the engine never fetches anything.
type Options struct {
	Templates map[string]timemap.TimeMap

	// Blocks is the already-merged set of externally imposed unavailability
	// (meetings, holidays), applied to every time map.
	Blocks interval.Set

	Algorithm   Algorithm
	HorizonDays int

	// Now anchors the schedule; the first day's availability starts here.
	Now time.Time

	// MinBlock is the default per-round chunk for the parallel algorithm.
	// Zero means DefaultMinBlock.
	MinBlock time.Duration

	// Rerank, when set, is called by the parallel algorithm once per round
	// with the not-yet-complete tasks so the caller can refresh Rank from
	// remaining effort. The engine never computes urgency itself.
	Rerank func(active []*Task)

	Logger zerolog.Logger
}

func (o *Options) normalize() error {
	if o.HorizonDays <= 0 {
		return fmt.Errorf("scheduler: horizon must be positive, got %d", o.HorizonDays)
	}
	if o.Now.IsZero() {
		return errors.New("scheduler: options need an explicit now")
	}
	switch o.Algorithm {
	case Sequential, Parallel:
	case "":
		o.Algorithm = Parallel
	default:
		return fmt.Errorf("scheduler: unknown algorithm %q", o.Algorithm)
	}
	if o.MinBlock < 0 {
		return fmt.Errorf("scheduler: min block must be positive, got %s", o.MinBlock)
	}
	if o.MinBlock == 0 {
		o.MinBlock = DefaultMinBlock
	}
	return nil
}

// Run schedules the given records and projects their results. It returns the
// mutated engine tasks (with filled schedules), one Result per scheduled
// task, and the batch of per-record validation errors. A non-nil error means
// an engine invariant was violated and the schedule must be discarded.
func Run(records []model.Task, opts Options) ([]*Task, map[string]Result, []RecordError, error) {
	if err := opts.normalize(); err != nil {
		return nil, nil, nil, err
	}
	tasks, recErrs := prepare(records, opts.Templates, opts.MinBlock, opts.Blocks)

	r := &run{
		ledger:      newLedger(),
		now:         opts.Now,
		horizonDays: opts.HorizonDays,
		log:         opts.Logger,
	}

	var err error
	switch opts.Algorithm {
	case Sequential:
		err = r.sequential(tasks)
	case Parallel:
		err = r.parallel(tasks, opts.Rerank)
	}
	if err != nil {
		return nil, nil, recErrs, err
	}
	return tasks, Project(tasks), recErrs, nil
}

// run holds the state shared by one allocation pass.
type run struct {
	ledger      *ledger
	now         time.Time
	horizonDays int
	log         zerolog.Logger
}

// allocate hands the task up to want of its earliest free time, consulting
// the ledger so time already committed on any of the task's maps is skipped.
// It returns how much was actually allocated; less than want means the
// horizon is exhausted for this task.
func (r *run) allocate(t *Task, want time.Duration) (time.Duration, error) {
	if want <= 0 {
		return 0, nil
	}
	// A wait date defers the start but never extends the search window: the
	// horizon is always anchored at now, so waited tasks search the fewer
	// days that remain of it.
	from := t.allocFrom(r.now)
	days := r.horizonDays - daysBetween(r.now, from)
	if days <= 0 {
		return 0, nil
	}
	busy := r.ledger.busy(t.TimeMaps)
	free := subtractSeq(t.resolver.Intervals(from, days), busy)

	chunks, left := interval.Take(free, want)
	got := want - left
	if len(chunks) == 0 {
		return 0, nil
	}
	if err := r.ledger.commit(t.TimeMaps, chunks); err != nil {
		return 0, err
	}
	t.Scheduled = append(t.Scheduled, chunks...)
	t.Remaining -= got

	r.log.Debug().
		Str("task", t.UUID).
		Dur("allocated", got).
		Dur("remaining", t.Remaining).
		Time("from", chunks[0].Start).
		Time("to", chunks[len(chunks)-1].End).
		Msg("allocated work intervals")
	return got, nil
}

// subtractSeq lazily removes the busy set from a chronological interval
// sequence, preserving order and laziness.
func subtractSeq(seq iter.Seq[interval.Interval], busy interval.Set) iter.Seq[interval.Interval] {
	if len(busy) == 0 {
		return seq
	}
	return func(yield func(interval.Interval) bool) {
		for iv := range seq {
			for _, piece := range (interval.Set{iv}).Sub(busy) {
				if !yield(piece) {
					return
				}
			}
		}
	}
}

// daysBetween counts the calendar days between the dates of from and to.
func daysBetween(from, to time.Time) int {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

func sortByRank(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Rank < tasks[j].Rank })
}
