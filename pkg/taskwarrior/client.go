// Package taskwarrior is the task source and result sink: it shells out to
// the `task` binary for export, urgency configuration and write-back of
// projected schedules.
package taskwarrior

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"time"

	"taskcheck/pkg/model"
)

type Client struct{}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) run(args ...string) ([]byte, error) {
	cmd := exec.Command("task", args...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("taskwarrior command failed: exit code %d, %s, stderr: %s",
				exitErr.ExitCode(), err, exitErr.Stderr)
		}
		return nil, fmt.Errorf("taskwarrior command failed: %w", err)
	}
	return output, nil
}

// Export returns all tasks from `task export`, hooks disabled so the export
// itself cannot trigger us recursively.
func (c *Client) Export(filter ...string) ([]Task, error) {
	args := append(filter, "export", "rc.hooks=0")
	output, err := c.run(args...)
	if err != nil {
		return nil, err
	}
	var tasks []Task
	if err := json.Unmarshal(output, &tasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal taskwarrior output: %w", err)
	}
	return tasks, nil
}

// ParseTasks decodes tasks from an export stream, accepting both the JSON
// array `task export` emits and a bare stream of task objects (hook-style
// input, as produced by piping a filtered export).
func (c *Client) ParseTasks(r io.Reader) ([]Task, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read task export: %w", err)
	}
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var tasks []Task
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &tasks); err != nil {
			return nil, fmt.Errorf("failed to decode task export: %w", err)
		}
		return tasks, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	for {
		var task Task
		if err := decoder.Decode(&task); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// UrgencyCoefficients scrapes the estimated-urgency coefficients from
// `task _show`.
func (c *Client) UrgencyCoefficients() (Coefficients, error) {
	output, err := c.run("_show")
	if err != nil {
		return nil, err
	}
	return ParseCoefficients(bytes.NewReader(output))
}

// Records converts export records to engine task records, dropping tasks in
// terminal statuses. Conversion failures come back keyed by UUID so one bad
// record does not block the rest.
func Records(tasks []Task) ([]model.Task, map[string]error) {
	var records []model.Task
	bad := make(map[string]error)
	for _, t := range tasks {
		rec, ok, err := t.ToRecord()
		if err != nil {
			bad[t.UUID] = err
			continue
		}
		if ok {
			records = append(records, rec)
		}
	}
	return records, bad
}

// WriteSchedule persists a projection back into the task: the scheduled
// start, the projected completion date and the per-day scheduling note.
func (c *Client) WriteSchedule(uuid string, start, completion time.Time, note string) error {
	args := []string{uuid, "modify", "rc.hooks=0", "rc.confirmation=off"}
	if !start.IsZero() {
		args = append(args, "scheduled:"+start.UTC().Format(taskwarriorTimeLayout))
	}
	if !completion.IsZero() {
		args = append(args, "completion_date:"+completion.UTC().Format(taskwarriorTimeLayout))
	}
	if note != "" {
		args = append(args, "scheduling:"+note)
	}
	if _, err := c.run(args...); err != nil {
		return fmt.Errorf("failed to write schedule for task %s: %w", uuid, err)
	}
	return nil
}
