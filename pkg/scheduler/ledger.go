package scheduler

import (
	"errors"
	"fmt"

	"taskcheck/pkg/interval"
)

// ErrDoubleBooked signals that an allocation overlapped time already
// committed on the same time map. The ledger is consulted before every
// allocation, so hitting this is a logic defect and aborts the run.
var ErrDoubleBooked = errors.New("scheduler: interval already committed on time map")

// ledger tracks the committed intervals of every time map. Tasks sharing a
// map must never be handed overlapping time; time committed on one map does
// not block a different map covering the same wall-clock hours.
type ledger struct {
	committed map[string]interval.Set
}

func newLedger() *ledger {
	return &ledger{committed: make(map[string]interval.Set)}
}

// busy is the union of everything already committed on the named maps.
func (l *ledger) busy(names []string) interval.Set {
	var out interval.Set
	for _, name := range names {
		out = out.Union(l.committed[name])
	}
	return out
}

// commit records chunks against every named map, verifying the non-overlap
// invariant first.
func (l *ledger) commit(names []string, chunks []interval.Interval) error {
	for _, name := range names {
		cur := l.committed[name]
		for _, c := range chunks {
			if len(cur.Clip(c)) > 0 {
				return fmt.Errorf("%w: %s on %q", ErrDoubleBooked, c, name)
			}
		}
	}
	add := interval.NewSet(chunks...)
	for _, name := range names {
		l.committed[name] = l.committed[name].Union(add)
	}
	return nil
}
