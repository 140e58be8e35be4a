// internal/eligibility/guidance.go
package eligibility

import "fmt"

var nextSteps = map[ViabilityLevel][]string{
	ViabilityExcellent: {
		"Engage an immigration attorney to prepare the I-140 petition",
		"Gather recommendation letters from independent experts",
		"Compile evidence of national impact for each waiver prong",
		"Consider premium processing to shorten the decision time",
	},
	ViabilityStrong: {
		"Consult an immigration attorney to review the strength of your case",
		"Address the weaknesses identified before filing",
		"Collect additional evidence of national impact",
		"Prepare a detailed proposed endeavor statement",
	},
	ViabilityPromising: {
		"Work on the priority recommendations over the next 6 to 12 months",
		"Strengthen your publication and recognition record",
		"Document your contributions to the field in detail",
		"Reassess your eligibility after the improvements",
	},
	ViabilityChallenging: {
		"Focus on the high-impact recommendations first",
		"Build a track record of measurable contributions",
		"Consider alternative visa categories in the meantime",
		"Reassess your eligibility in 12 months",
	},
	ViabilityInsufficient: {
		"Invest in advanced education or certifications",
		"Accumulate more professional experience in your field",
		"Explore other immigration pathways better suited to your profile",
	},
}

// NextSteps returns the ordered follow-up actions for a level.
func NextSteps(level ViabilityLevel) []string {
	steps := nextSteps[level]
	return append([]string(nil), steps...)
}

// Message is a short personalised summary naming the recommended route.
func Message(level ViabilityLevel, route Route) string {
	r := route.label()
	switch level {
	case ViabilityExcellent:
		return fmt.Sprintf("Excellent profile for an EB2-NIW petition. The %s route is your best path and your case is ready to file.", r)
	case ViabilityStrong:
		return fmt.Sprintf("Strong profile for an EB2-NIW petition through the %s route. A few improvements will make your case more competitive.", r)
	case ViabilityPromising:
		return fmt.Sprintf("Promising profile. The %s route is viable, but targeted improvements are needed before filing.", r)
	case ViabilityChallenging:
		return fmt.Sprintf("Your profile faces challenges for an EB2-NIW petition. Strengthen the areas below before pursuing the %s route.", r)
	}
	return "Your profile does not yet meet the EB2-NIW requirements. Follow the recommendations to build your qualifications."
}

// ProcessingMonths estimates how long the petition will take to adjudicate.
func (e *Engine) ProcessingMonths(level ViabilityLevel) int {
	g := e.cfg.Guidance
	switch level {
	case ViabilityExcellent:
		return g.Excellent
	case ViabilityStrong:
		return g.Strong
	case ViabilityPromising:
		return g.Promising
	case ViabilityChallenging:
		return g.Challenging
	}
	return g.Insufficient
}

// LegacyViability maps a level to the label older clients expect.
func LegacyViability(level ViabilityLevel) string {
	switch level {
	case ViabilityExcellent:
		return "Strong"
	case ViabilityStrong:
		return "Good"
	case ViabilityPromising, ViabilityChallenging:
		return "Moderate"
	}
	return "Low"
}

// Probability is the legacy 0-1 rendering of an overall score.
func Probability(overallScore float64) float64 {
	return roundTo(overallScore/100, 4)
}
