// internal/eligibility/combiner.go
package eligibility

import "math"

// ViabilityLevel is the ordinal outcome of an assessment.
type ViabilityLevel string

const (
	ViabilityInsufficient ViabilityLevel = "INSUFFICIENT"
	ViabilityChallenging  ViabilityLevel = "CHALLENGING"
	ViabilityPromising    ViabilityLevel = "PROMISING"
	ViabilityStrong       ViabilityLevel = "STRONG"
	ViabilityExcellent    ViabilityLevel = "EXCELLENT"
)

// ViabilityLevels lists every level in ascending order.
var ViabilityLevels = []ViabilityLevel{
	ViabilityInsufficient, ViabilityChallenging, ViabilityPromising, ViabilityStrong, ViabilityExcellent,
}

// Rank orders levels: INSUFFICIENT is 0, EXCELLENT is 4. Unknown levels rank -1.
func (v ViabilityLevel) Rank() int {
	for i, l := range ViabilityLevels {
		if l == v {
			return i
		}
	}
	return -1
}

// Combine merges the recommended route score and the overall waiver score into a
// percentage and classifies it.
func (e *Engine) Combine(routeScore, waiverScore float64) (float64, ViabilityLevel) {
	c := e.cfg.Combination
	overall := roundTo((routeScore*c.RouteWeight+waiverScore*c.WaiverWeight)*100, c.Precision)
	overall = math.Max(0, math.Min(100, overall))
	return overall, e.Classify(overall)
}

// Classify maps an overall score on the 0-100 scale to its viability level.
func (e *Engine) Classify(overall float64) ViabilityLevel {
	t := e.cfg.Viability
	switch {
	case overall >= t.Excellent:
		return ViabilityExcellent
	case overall >= t.Strong:
		return ViabilityStrong
	case overall >= t.Promising:
		return ViabilityPromising
	case overall >= t.Challenging:
		return ViabilityChallenging
	}
	return ViabilityInsufficient
}

func roundTo(v float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(v*p) / p
}
