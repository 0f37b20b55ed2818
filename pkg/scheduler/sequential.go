package scheduler

// sequential fills each task's full remaining effort before moving to the
// next, in fixed rank order. Tasks never see each other's time on a shared
// map: the ledger is consulted on every allocation.
func (r *run) sequential(tasks []*Task) error {
	sortByRank(tasks)
	for _, t := range tasks {
		got, err := r.allocate(t, t.Remaining)
		if err != nil {
			return err
		}
		if t.Remaining > 0 {
			r.log.Debug().
				Str("task", t.UUID).
				Dur("got", got).
				Dur("remaining", t.Remaining).
				Msg("horizon exhausted before task completion")
		}
	}
	return nil
}
