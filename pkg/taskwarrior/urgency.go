package taskwarrior

import (
	"bufio"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"time"

	"taskcheck/pkg/model"
	"taskcheck/pkg/scheduler"
)

var coefficientRe = regexp.MustCompile(`^urgency\.uda\.estimated\.(.+)\.coefficient=(.+)$`)

// Coefficients maps an estimated UDA value (e.g. "PT2H") to its configured
// urgency coefficient, as reported by `task _show`.
type Coefficients map[string]float64

// ParseCoefficients scans `task _show` output for estimated-urgency
// coefficient lines. Unparseable values are skipped.
func ParseCoefficients(r io.Reader) (Coefficients, error) {
	coeffs := make(Coefficients)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := coefficientRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		coeffs[m[1]] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return coeffs, nil
}

// EstimatedUrgency computes the urgency component tied to remaining effort:
// the coefficient of the configured estimate value matching the remaining
// hours, times the remaining hours. A key formatted exactly as P#DT#H wins
// outright; otherwise the closest configured value is used.
func (c Coefficients) EstimatedUrgency(remaining time.Duration) float64 {
	if len(c) == 0 {
		return 0
	}
	hours := remaining.Hours()
	if v, ok := c[FormatEstimate(remaining)]; ok {
		return v * hours
	}
	bestDist := math.Inf(1)
	var best float64
	// Deterministic iteration: ties go to the smallest estimate value.
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d, err := ParseEstimate(k)
		if err != nil {
			continue
		}
		if dist := math.Abs(d.Hours() - hours); dist < bestDist {
			bestDist = dist
			best = c[k]
		}
	}
	return best * hours
}

// Reranker recomputes task ranks between parallel rounds the way Taskwarrior
// would: total urgency is the source urgency with its estimated component
// swapped for one derived from the effort still remaining.
type Reranker struct {
	coeffs Coefficients
	base   map[string]float64 // urgency minus the initial estimated component
}

func NewReranker(coeffs Coefficients, records []model.Task) *Reranker {
	base := make(map[string]float64, len(records))
	for _, rec := range records {
		base[rec.UUID] = rec.Urgency - coeffs.EstimatedUrgency(rec.Estimate)
	}
	return &Reranker{coeffs: coeffs, base: base}
}

// Rerank implements scheduler.Options.Rerank: highest recomputed urgency
// gets rank 0.
func (r *Reranker) Rerank(active []*scheduler.Task) {
	urgency := make(map[string]float64, len(active))
	for _, t := range active {
		urgency[t.UUID] = r.base[t.UUID] + r.coeffs.EstimatedUrgency(t.Remaining)
	}
	sort.SliceStable(active, func(i, j int) bool {
		return urgency[active[i].UUID] > urgency[active[j].UUID]
	})
	for i, t := range active {
		t.Rank = i
	}
}
