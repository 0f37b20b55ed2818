package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskcheck/pkg/interval"
	"taskcheck/pkg/scheduler"
)

func TestRenderOrdersAndFlags(t *testing.T) {
	monday := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return monday.Add(time.Duration(h) * time.Hour) }

	early := &scheduler.Task{UUID: "a", Description: "early task",
		Scheduled: []interval.Interval{{Start: at(9), End: at(11)}}}
	lateTask := &scheduler.Task{UUID: "b", Description: "late task",
		Scheduled: []interval.Interval{{Start: at(14), End: at(16)}}}
	never := &scheduler.Task{UUID: "c", Description: "never fits", Remaining: 3 * time.Hour}

	results := map[string]scheduler.Result{
		"a": {Start: at(9), Completion: at(11)},
		"b": {Start: at(14), Completion: at(16), Late: true},
		"c": {},
	}

	var buf bytes.Buffer
	Render(&buf, []*scheduler.Task{lateTask, never, early}, results)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "early task")
	assert.Contains(t, lines[0], "2026-01-05 09:00")
	assert.Contains(t, lines[1], "late task")
	assert.Contains(t, lines[1], "may not be completed on time")
	assert.Contains(t, lines[2], "never fits")
	assert.Contains(t, lines[2], "cannot be scheduled")
}

func TestRenderIncompleteShowsRemainder(t *testing.T) {
	monday := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	partial := &scheduler.Task{UUID: "p", Description: "big project",
		Remaining: 90 * time.Minute,
		Scheduled: []interval.Interval{{Start: monday, End: monday.Add(2 * time.Hour)}}}

	var buf bytes.Buffer
	Render(&buf, []*scheduler.Task{partial}, map[string]scheduler.Result{
		"p": {Start: monday},
	})

	out := buf.String()
	assert.Contains(t, out, "big project")
	assert.Contains(t, out, "incomplete")
	assert.Contains(t, out, "1.5h unallocated")
}
