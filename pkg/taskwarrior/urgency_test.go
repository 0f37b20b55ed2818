package taskwarrior

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcheck/pkg/model"
	"taskcheck/pkg/scheduler"
)

const showOutput = `
confirmation=off
urgency.uda.estimated.PT1H.coefficient=1.0
urgency.uda.estimated.PT4H.coefficient=2.0
urgency.uda.estimated.P1DT0H.coefficient=4.0
urgency.age.coefficient=2.0
`

func TestParseCoefficients(t *testing.T) {
	coeffs, err := ParseCoefficients(strings.NewReader(showOutput))
	require.NoError(t, err)
	require.Len(t, coeffs, 3)
	assert.Equal(t, 1.0, coeffs["PT1H"])
	assert.Equal(t, 2.0, coeffs["PT4H"])
	assert.Equal(t, 4.0, coeffs["P1DT0H"])
}

func TestEstimatedUrgencyUsesClosestCoefficient(t *testing.T) {
	coeffs, err := ParseCoefficients(strings.NewReader(showOutput))
	require.NoError(t, err)

	// 5h is closest to the PT4H coefficient.
	assert.InDelta(t, 2.0*5, coeffs.EstimatedUrgency(5*time.Hour), 1e-9)
	// 30m is closest to PT1H.
	assert.InDelta(t, 1.0*0.5, coeffs.EstimatedUrgency(30*time.Minute), 1e-9)
	// 20h is closest to P1DT0H.
	assert.InDelta(t, 4.0*20, coeffs.EstimatedUrgency(20*time.Hour), 1e-9)

	assert.Zero(t, Coefficients{}.EstimatedUrgency(time.Hour))
}

func TestEstimatedUrgencyPrefersExactFormattedKey(t *testing.T) {
	// A coefficient keyed in whole-days-and-hours form is looked up directly
	// from the formatted remaining effort, without parsing every key.
	coeffs := Coefficients{"P1DT2H": 3.0, "PT1H": 1.0}
	assert.Equal(t, "P1DT2H", FormatEstimate(26*time.Hour))
	assert.InDelta(t, 3.0*26, coeffs.EstimatedUrgency(26*time.Hour), 1e-9)
}

func TestRerankerShiftsPriorityAsEffortShrinks(t *testing.T) {
	coeffs, err := ParseCoefficients(strings.NewReader(showOutput))
	require.NoError(t, err)

	records := []model.Task{
		{UUID: "big", Urgency: 26, Estimate: 12 * time.Hour}, // estimated component 2*12=24, base 2
		{UUID: "small", Urgency: 9, Estimate: 4 * time.Hour}, // estimated component 2*4=8, base 1
	}
	rr := NewReranker(coeffs, records)

	big := &scheduler.Task{UUID: "big", Remaining: 12 * time.Hour}
	small := &scheduler.Task{UUID: "small", Remaining: 4 * time.Hour}

	active := []*scheduler.Task{big, small}
	rr.Rerank(active)
	assert.Equal(t, 0, big.Rank)
	assert.Equal(t, 1, small.Rank)

	// After most of big's effort is consumed its urgency collapses
	// (1h remaining -> component 1*1=1, total 3) below small's 9.
	big.Remaining = time.Hour
	rr.Rerank(active)
	assert.Equal(t, 0, small.Rank)
	assert.Equal(t, 1, big.Rank)
}
