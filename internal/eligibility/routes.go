// internal/eligibility/routes.go
package eligibility

import (
	"fmt"
	"math"
	"strings"
)

// Route identifies an EB2 qualification path, or the scope a recommendation improves.
type Route string

const (
	RouteAdvancedDegree     Route = "ADVANCED_DEGREE"
	RouteExceptionalAbility Route = "EXCEPTIONAL_ABILITY"
	RouteBoth               Route = "BOTH"
	RouteNIW                Route = "NIW"
)

func (r Route) label() string {
	switch r {
	case RouteAdvancedDegree:
		return "Advanced Degree"
	case RouteExceptionalAbility:
		return "Exceptional Ability"
	}
	return string(r)
}

// Credit is the credit one exceptional-ability criterion earns.
type Credit float64

const (
	CreditNone    Credit = 0
	CreditPartial Credit = 0.5
	CreditFull    Credit = 1
)

// CriterionResult records how one exceptional-ability criterion was judged.
type CriterionResult struct {
	Name   string `json:"name"`
	Credit Credit `json:"credit"`
}

type RouteEvaluation struct {
	AdvancedDegreeScore     float64           `json:"advancedDegreeScore"`
	ExceptionalAbilityScore float64           `json:"exceptionalAbilityScore"`
	RecommendedRoute        Route             `json:"recommendedRoute"`
	Explanation             string            `json:"explanation"`
	Criteria                []CriterionResult `json:"exceptionalAbilityCriteria"`
	CriteriaMet             int               `json:"criteriaMet"`
}

// Score returns the score of the recommended route.
func (r RouteEvaluation) Score() float64 {
	if r.RecommendedRoute == RouteExceptionalAbility {
		return r.ExceptionalAbilityScore
	}
	return r.AdvancedDegreeScore
}

// EvaluateRoutes scores both qualification paths and selects the stronger one.
// Ties go to the advanced-degree route.
func (e *Engine) EvaluateRoutes(p *Profile) RouteEvaluation {
	ad := e.advancedDegreeScore(p)
	criteria := e.exceptionalAbilityCriteria(p)
	ea, met := e.exceptionalAbilityScore(criteria)

	route := RouteAdvancedDegree
	if ea > ad {
		route = RouteExceptionalAbility
	}

	return RouteEvaluation{
		AdvancedDegreeScore:     ad,
		ExceptionalAbilityScore: ea,
		RecommendedRoute:        route,
		Explanation:             e.explainRoute(p, route, ad, ea, criteria),
		Criteria:                criteria,
		CriteriaMet:             met,
	}
}

func (e *Engine) advancedDegreeScore(p *Profile) float64 {
	t := e.cfg.AdvancedDegree
	var score float64
	switch p.Education.HighestDegree {
	case DegreePhD:
		score = t.PhD
	case DegreeMasters:
		score = t.Masters
	case DegreeBachelors:
		score = t.BachelorsByYears.Lookup(float64(p.Experience.YearsOfExperience))
	default:
		score = t.Other
	}
	if score <= 0 {
		return 0
	}

	if p.Education.Ranked() {
		for _, tier := range t.RankBonuses {
			if *p.Education.UniversityRanking <= tier.AtMost {
				score = clamp01(score + tier.Value)
				break
			}
		}
	}
	if e.isSTEM(p.Education.FieldOfStudy) {
		score = clamp01(score + t.StemBonus)
	}
	return score
}

// exceptionalAbilityCriteria judges the six regulatory criteria in a fixed order.
func (e *Engine) exceptionalAbilityCriteria(p *Profile) []CriterionResult {
	t := e.cfg.ExceptionalAbility
	ed, x, r := p.Education, p.Experience, p.Recognition

	degree := CreditNone
	switch {
	case ed.HighestDegree.IsAdvanced():
		degree = CreditFull
	case ed.HighestDegree == DegreeBachelors:
		degree = CreditPartial
	}

	experience := CreditNone
	switch {
	case x.YearsOfExperience >= t.YearsFull:
		experience = CreditFull
	case x.YearsOfExperience >= t.YearsPartial:
		experience = CreditPartial
	}

	license := CreditNone
	if ed.ProfessionalLicense || len(ed.Certifications) > 0 {
		license = CreditFull
	}

	salary := CreditNone
	switch {
	case x.SalaryLevel == SalaryAboveAverage,
		x.SalaryPercentile != nil && *x.SalaryPercentile > t.SalaryPercentileFull,
		x.CurrentSalary != nil && *x.CurrentSalary > t.SalaryAmountFull:
		salary = CreditFull
	case x.SalaryLevel == SalaryAverage,
		x.SalaryPercentile != nil && *x.SalaryPercentile >= t.SalaryPercentilePartial:
		salary = CreditPartial
	}

	memberships := CreditNone
	switch {
	case r.ProfessionalMemberships >= t.MembershipsFull:
		memberships = CreditFull
	case r.ProfessionalMemberships >= 1:
		memberships = CreditPartial
	}

	recognition := CreditNone
	switch {
	case r.AwardsCount >= t.AwardsFull || r.PeerRecognition || r.GovernmentRecognition:
		recognition = CreditFull
	case r.AwardsCount >= 1 || r.MediaCoverage:
		recognition = CreditPartial
	}

	return []CriterionResult{
		{Name: "degree", Credit: degree},
		{Name: "experience", Credit: experience},
		{Name: "license", Credit: license},
		{Name: "salary", Credit: salary},
		{Name: "memberships", Credit: memberships},
		{Name: "recognition", Credit: recognition},
	}
}

// exceptionalAbilityScore maps the number of fully met criteria to a tier. Partial
// credits reaching the promotion sum lift the result exactly one tier.
func (e *Engine) exceptionalAbilityScore(criteria []CriterionResult) (float64, int) {
	t := e.cfg.ExceptionalAbility
	full := 0
	partial := 0.0
	for _, c := range criteria {
		switch c.Credit {
		case CreditFull:
			full++
		case CreditPartial:
			partial += t.PartialCredit
		}
	}

	score := t.Tiers.Lookup(float64(full))
	if partial >= t.PartialPromotionAt {
		score = t.Tiers.NextAbove(float64(full))
	}
	return clamp01(score), full
}

// NextAbove returns the value of the step immediately above the one x reaches.
// At the top step it returns the top value.
func (l Ladder) NextAbove(x float64) float64 {
	if len(l.Steps) == 0 {
		return l.Otherwise
	}
	for i, s := range l.Steps {
		if x >= s.AtLeast {
			if i == 0 {
				return s.Value
			}
			return l.Steps[i-1].Value
		}
	}
	return l.Steps[len(l.Steps)-1].Value
}

func (e *Engine) explainRoute(p *Profile, route Route, ad, ea float64, criteria []CriterionResult) string {
	var basis string
	if route == RouteAdvancedDegree {
		ed := p.Education
		switch ed.HighestDegree {
		case DegreePhD:
			basis = fmt.Sprintf("a doctorate in %s", ed.FieldOfStudy)
		case DegreeMasters:
			basis = fmt.Sprintf("a master's degree in %s", ed.FieldOfStudy)
		case DegreeBachelors:
			basis = fmt.Sprintf("a bachelor's degree in %s plus %d years of progressive experience",
				ed.FieldOfStudy, p.Experience.YearsOfExperience)
		default:
			basis = "no qualifying degree"
		}
	} else {
		var met []string
		for _, c := range criteria {
			if c.Credit == CreditFull {
				met = append(met, c.Name)
			}
		}
		basis = fmt.Sprintf("%d of 6 exceptional ability criteria met (%s)", len(met), strings.Join(met, ", "))
	}

	other := RouteExceptionalAbility
	if route == RouteExceptionalAbility {
		other = RouteAdvancedDegree
	}
	gap := math.Abs(ad - ea)
	return fmt.Sprintf("%s route recommended based on %s; it leads the %s route by a %s margin (%.2f).",
		route.label(), basis, other.label(), e.gapWording(gap), gap)
}

func (e *Engine) gapWording(gap float64) string {
	switch {
	case gap < e.cfg.RouteGap.Slight:
		return "slight"
	case gap < e.cfg.RouteGap.Moderate:
		return "moderate"
	}
	return "significant"
}
