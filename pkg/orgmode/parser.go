// Package orgmode reads schedulable tasks from Org files. It is a read-only
// source: org tasks are scheduled and reported but never written back.
package orgmode

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"taskcheck/pkg/model"
)

var (
	todoRegex     = regexp.MustCompile(`^\*+ TODO\s*(?:\[#([A-Z])\])?\s*(.*?)\s*$`)
	deadlineRegex = regexp.MustCompile(`DEADLINE:\s+<(\d{4}-\d{2}-\d{2})(?:\s+[A-Za-z]{3})?(?:\s+(\d{2}:\d{2}))?>`)
	propertyRegex = regexp.MustCompile(`^:([A-Za-z_]+):\s+(.*?)\s*$`)
	effortRegex   = regexp.MustCompile(`^(\d+):(\d{2})$`)
)

// Priority cookies map onto Taskwarrior's priority urgencies so org and
// taskwarrior tasks rank against each other sensibly.
var priorityUrgency = map[string]float64{
	"A": 6.0,
	"B": 3.9,
	"C": 1.8,
}

// ParseFiles parses multiple Org files into task records.
func ParseFiles(paths []string) ([]model.Task, error) {
	var all []model.Task
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		tasks, err := Parse(f, path)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		all = append(all, tasks...)
	}
	return all, nil
}

// Parse reads TODO headings and their property drawers. A task needs an
// :EFFORT: and a :TIME_MAP: property to be schedulable; headings without
// them still parse and opt out downstream.
func Parse(r io.Reader, source string) ([]model.Task, error) {
	scanner := bufio.NewScanner(r)
	var tasks []model.Task
	var current *model.Task

	flush := func() {
		if current != nil && current.Description != "" {
			if current.UUID == "" {
				current.UUID = fmt.Sprintf("%s#%d", source, len(tasks)+1)
			}
			tasks = append(tasks, *current)
		}
		current = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "*") {
			flush()
			if m := todoRegex.FindStringSubmatch(line); m != nil {
				current = &model.Task{
					Source:      "orgmode",
					Description: m[2],
					Urgency:     priorityUrgency[m[1]],
				}
			}
			continue
		}
		if current == nil {
			continue
		}

		if m := deadlineRegex.FindStringSubmatch(line); m != nil {
			stamp := m[1]
			layout := "2006-01-02"
			if m[2] != "" {
				stamp += " " + m[2]
				layout = "2006-01-02 15:04"
			}
			due, err := time.ParseInLocation(layout, stamp, time.Local)
			if err == nil {
				current.Due = due
			}
			continue
		}
		if m := propertyRegex.FindStringSubmatch(line); m != nil {
			switch strings.ToUpper(m[1]) {
			case "ID":
				current.UUID = m[2]
			case "EFFORT":
				effort, err := parseEffort(m[2])
				if err != nil {
					return nil, fmt.Errorf("task %q: %w", current.Description, err)
				}
				current.Estimate = effort
			case "TIME_MAP":
				for _, name := range strings.Split(m[2], ",") {
					current.TimeMaps = append(current.TimeMaps, strings.TrimSpace(name))
				}
			case "MIN_BLOCK":
				hours, err := strconv.ParseFloat(m[2], 64)
				if err != nil {
					return nil, fmt.Errorf("task %q: bad MIN_BLOCK %q", current.Description, m[2])
				}
				current.MinBlock = time.Duration(hours * float64(time.Hour))
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// parseEffort accepts org's H:MM effort format as well as plain hours
// ("2:30", "2.5").
func parseEffort(s string) (time.Duration, error) {
	if m := effortRegex.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		return time.Duration(h)*time.Hour + time.Duration(min)*time.Minute, nil
	}
	hours, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad EFFORT %q", s)
	}
	return time.Duration(hours * float64(time.Hour)), nil
}
