package taskwarrior

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var estimateRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseEstimate parses the subset of ISO 8601 durations Taskwarrior uses for
// the estimated UDA: P#D, PT#H, P#DT#H#M and friends. An empty string parses
// to zero (no estimate given).
func ParseEstimate(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	m := estimateRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid ISO 8601 duration %q", s)
	}
	var total time.Duration
	for i, unit := range []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second} {
		if m[i+1] == "" {
			continue
		}
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("invalid ISO 8601 duration %q: %w", s, err)
		}
		total += time.Duration(v) * unit
	}
	if total == 0 {
		return 0, fmt.Errorf("invalid ISO 8601 duration %q", s)
	}
	return total, nil
}

// FormatEstimate renders a duration the way Taskwarrior's urgency
// coefficients are keyed: whole days and hours, P#DT#H.
func FormatEstimate(d time.Duration) string {
	hours := int(d.Hours())
	return fmt.Sprintf("P%dDT%dH", hours/24, hours%24)
}
