package taskwarrior

import (
	"fmt"
	"strings"
	"time"

	"taskcheck/pkg/model"
)

const (
	PENDING   = "pending"
	COMPLETED = "completed"
	WAITING   = "waiting"
	DELETED   = "deleted"
	RECURRING = "recurring"
)

type CustomTime struct {
	time.Time
}

const taskwarriorTimeLayout = "20060102T150405Z" // YYYYMMDDTHHMMSSZ, 'Z' indicates UTC

// UnmarshalJSON implements the json.Unmarshaler interface for CustomTime.
func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`) // Remove surrounding quotes
	if s == "" || s == "0" {          // Handle empty string or "0" if Taskwarrior ever outputs it
		ct.Time = time.Time{} // Set to zero value
		return nil
	}

	t, err := time.Parse(taskwarriorTimeLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse Taskwarrior time string '%s': %w", s, err)
	}
	ct.Time = t
	return nil
}

// MarshalJSON implements the json.Marshaler interface for CustomTime.
func (ct CustomTime) MarshalJSON() ([]byte, error) {
	if ct.Time.IsZero() {
		return []byte(`""`), nil // Export zero time as empty string
	}
	return []byte(`"` + ct.Time.Format(taskwarriorTimeLayout) + `"`), nil
}

// Task mirrors one record of `task export`. The scheduling-related UDAs
// (estimated, time_map, min_block, scheduling) must be configured in the
// user's taskrc; Taskwarrior exports them as flat top-level fields.
type Task struct {
	ID          int         `json:"id"`
	UUID        string      `json:"uuid"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	Urgency     float64     `json:"urgency,omitempty"`
	Due         *CustomTime `json:"due,omitempty"`
	Wait        *CustomTime `json:"wait,omitempty"`
	Project     string      `json:"project,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	// Scheduling UDAs.
	Estimated string  `json:"estimated,omitempty"` // ISO 8601 duration, e.g. "P1DT2H"
	TimeMap   string  `json:"time_map,omitempty"`  // comma-separated time map names
	MinBlock  float64 `json:"min_block,omitempty"` // hours, 0 = scheduler default
	// Write-back fields from previous runs.
	Scheduled      *CustomTime `json:"scheduled,omitempty"`
	CompletionDate *CustomTime `json:"completion_date,omitempty"`
	Scheduling     string      `json:"scheduling,omitempty"`
}

// avoidStatus lists the statuses that are never scheduled.
var avoidStatus = map[string]bool{
	COMPLETED: true,
	DELETED:   true,
	RECURRING: true,
}

// ToRecord reduces the export record to the engine's task model. Tasks in a
// terminal or recurring status are not schedulable and return false.
func (t Task) ToRecord() (model.Task, bool, error) {
	if avoidStatus[t.Status] {
		return model.Task{}, false, nil
	}
	estimate, err := ParseEstimate(t.Estimated)
	if err != nil {
		return model.Task{}, false, fmt.Errorf("estimated: %w", err)
	}
	rec := model.Task{
		UUID:        t.UUID,
		Description: t.Description,
		Source:      "taskwarrior",
		Urgency:     t.Urgency,
		Estimate:    estimate,
		MinBlock:    time.Duration(t.MinBlock * float64(time.Hour)),
	}
	if t.TimeMap != "" {
		for _, name := range strings.Split(t.TimeMap, ",") {
			rec.TimeMaps = append(rec.TimeMaps, strings.TrimSpace(name))
		}
	}
	if t.Due != nil {
		rec.Due = t.Due.Time
	}
	if t.Wait != nil {
		rec.Wait = t.Wait.Time
	}
	return rec, true, nil
}
