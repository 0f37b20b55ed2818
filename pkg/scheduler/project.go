package scheduler

import "time"

// Result is the projected outcome for one task. Start is zero when nothing
// could be scheduled within the horizon; Completion is zero unless the task's
// full effort was allocated. Late is only meaningful for tasks with a due
// date: it is set when the task completes after it or not at all.
type Result struct {
	Start      time.Time
	Completion time.Time
	Late       bool
}

// Scheduled reports whether any work interval was allocated.
func (res Result) Scheduled() bool { return !res.Start.IsZero() }

// Complete reports whether the full effort fit inside the horizon.
func (res Result) Complete() bool { return !res.Completion.IsZero() }

// Project derives one Result per task from final task state. It is a pure
// function: re-running it on unchanged tasks yields identical results.
func Project(tasks []*Task) map[string]Result {
	results := make(map[string]Result, len(tasks))
	for _, t := range tasks {
		var res Result
		if len(t.Scheduled) > 0 {
			res.Start = t.Scheduled[0].Start
			if t.Remaining == 0 {
				res.Completion = t.Scheduled[len(t.Scheduled)-1].End
			}
		}
		if !t.Due.IsZero() {
			res.Late = res.Completion.IsZero() || res.Completion.After(t.Due)
		}
		results[t.UUID] = res
	}
	return results
}
