package model

import "time"

// Task is a schedulable work item from any source ("taskwarrior" or
// "orgmode"), already reduced to the fields the scheduling engine needs.
type Task struct {
	UUID        string
	Description string
	Source      string

	// Urgency is the source-computed ordering key; higher schedules first.
	Urgency float64

	// Estimate is the full effort still required.
	Estimate time.Duration

	// TimeMaps names the availability templates the task may draw time from.
	// A task without time maps opts out of scheduling.
	TimeMaps []string

	// MinBlock overrides the scheduler-wide chunk size for the parallel
	// algorithm. Zero means use the default.
	MinBlock time.Duration

	Due  time.Time // zero = no due date
	Wait time.Time // zero = schedulable immediately
}
