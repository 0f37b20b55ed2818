// Package report renders the projected schedule for humans, flagging tasks
// that will miss their due date.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"taskcheck/pkg/scheduler"
)

const stampLayout = "2006-01-02 15:04"

var (
	lateStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// Render writes one line per task: scheduled start, projected completion,
// allocated hours and the late verdict. Tasks are listed by scheduled start,
// unschedulable ones last.
func Render(w io.Writer, tasks []*scheduler.Task, results map[string]scheduler.Result) {
	ordered := append([]*scheduler.Task(nil), tasks...)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := results[ordered[i].UUID], results[ordered[j].UUID]
		switch {
		case ri.Scheduled() != rj.Scheduled():
			return ri.Scheduled()
		case !ri.Scheduled():
			return false
		default:
			return ri.Start.Before(rj.Start)
		}
	})

	for _, t := range ordered {
		res := results[t.UUID]
		fmt.Fprintln(w, line(t, res))
	}
}

func line(t *scheduler.Task, res scheduler.Result) string {
	switch {
	case !res.Scheduled():
		return fmt.Sprintf("%s %s  %s",
			lateStyle.Render("✗"),
			t.Description,
			lateStyle.Render("cannot be scheduled within the horizon"))
	case !res.Complete():
		mark := pendingStyle.Render("…")
		note := pendingStyle.Render(fmt.Sprintf("horizon exceeded, %.1fh unallocated", t.Remaining.Hours()))
		if res.Late {
			mark = lateStyle.Render("!")
			note = lateStyle.Render("may not be completed on time")
		}
		return fmt.Sprintf("%s %s  %s → %s  %s",
			mark, t.Description, res.Start.Format(stampLayout), dimStyle.Render("incomplete"), note)
	case res.Late:
		return fmt.Sprintf("%s %s  %s → %s  %s",
			lateStyle.Render("!"), t.Description,
			res.Start.Format(stampLayout), res.Completion.Format(stampLayout),
			lateStyle.Render("may not be completed on time"))
	default:
		return fmt.Sprintf("%s %s  %s → %s  %s",
			okStyle.Render("✓"), t.Description,
			res.Start.Format(stampLayout), res.Completion.Format(stampLayout),
			dimStyle.Render(fmt.Sprintf("%.1fh", t.Allocated().Hours())))
	}
}
