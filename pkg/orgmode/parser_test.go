package orgmode

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orgFile = `
* TODO [#A] Write quarterly report
DEADLINE: <2026-01-12 Mon 12:00>
:PROPERTIES:
:ID: 11111111-2222-3333-4444-555555555555
:EFFORT: 4:30
:TIME_MAP: work
:END:

* TODO Clean the garage
:PROPERTIES:
:EFFORT: 2.5
:TIME_MAP: weekend,evenings
:MIN_BLOCK: 1
:END:

* TODO Someday idea with no effort
* DONE Already finished
`

func TestParse(t *testing.T) {
	tasks, err := Parse(strings.NewReader(orgFile), "inbox.org")
	require.NoError(t, err)
	require.Len(t, tasks, 3) // DONE heading is not a TODO

	report := tasks[0]
	assert.Equal(t, "Write quarterly report", report.Description)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", report.UUID)
	assert.Equal(t, 4*time.Hour+30*time.Minute, report.Estimate)
	assert.Equal(t, []string{"work"}, report.TimeMaps)
	assert.Equal(t, 6.0, report.Urgency)
	assert.Equal(t, time.Date(2026, 1, 12, 12, 0, 0, 0, time.Local), report.Due)

	garage := tasks[1]
	assert.Equal(t, 150*time.Minute, garage.Estimate)
	assert.Equal(t, []string{"weekend", "evenings"}, garage.TimeMaps)
	assert.Equal(t, time.Hour, garage.MinBlock)
	assert.Zero(t, garage.Urgency)
	assert.Equal(t, "inbox.org#2", garage.UUID, "tasks without :ID: get a stable synthetic one")

	// No effort or time map: parses fine, opts out downstream.
	idea := tasks[2]
	assert.Zero(t, idea.Estimate)
	assert.Empty(t, idea.TimeMaps)
}

func TestParseRejectsBadEffort(t *testing.T) {
	_, err := Parse(strings.NewReader("* TODO x\n:EFFORT: soon\n"), "a.org")
	assert.Error(t, err)
}

func TestParseDeadlineDateOnly(t *testing.T) {
	tasks, err := Parse(strings.NewReader("* TODO x\nDEADLINE: <2026-02-01>\n"), "a.org")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local), tasks[0].Due)
}
