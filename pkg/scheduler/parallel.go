package scheduler

// parallel interleaves tasks in min-block chunks. Each round re-sorts the
// active set by rank (after letting the caller refresh ranks), allocates one
// chunk to the single highest-priority task, and retires tasks that are
// complete or whose availability is exhausted. Because the ledger only
// grows, a task that once failed to fill a chunk can never fill one later,
// so it leaves the active set immediately with its partial schedule intact.
func (r *run) parallel(tasks []*Task, rerank func([]*Task)) error {
	active := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Remaining > 0 {
			active = append(active, t)
		}
	}

	for len(active) > 0 {
		if rerank != nil {
			rerank(active)
		}
		sortByRank(active)

		t := active[0]
		want := t.MinBlock
		if t.Remaining < want {
			want = t.Remaining
		}
		got, err := r.allocate(t, want)
		if err != nil {
			return err
		}
		if got < want {
			// Horizon exhausted for this task; it stays incomplete.
			r.log.Debug().
				Str("task", t.UUID).
				Dur("remaining", t.Remaining).
				Msg("horizon exhausted, task unschedulable beyond this point")
			active = active[1:]
			continue
		}
		if t.Remaining == 0 {
			active = active[1:]
		}
	}
	return nil
}
