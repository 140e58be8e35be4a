// internal/eligibility/recommend.go
package eligibility

import "sort"

// Recommendation is one actionable improvement for the applicant.
type Recommendation struct {
	Category      Category `json:"category"`
	Description   string   `json:"description"`
	Impact        Impact   `json:"impact"`
	Priority      int      `json:"priority"`
	ImprovesRoute Route    `json:"improvesRoute"`
}

// groupPick selects the applicable rules of a group. A non-zero priority overrides the
// rule's own priority; highOnly keeps only HIGH-impact rules.
type groupPick struct {
	group    Group
	priority int
	highOnly bool
}

var routeGroups = map[Route][]Group{
	RouteAdvancedDegree:     {GroupAdvancedDegreeEducation},
	RouteExceptionalAbility: {GroupExceptionalAbilityEducation, GroupExceptionalAbilityExp, GroupExceptionalAbilityRecog},
}

var weakestCategoryPicks = map[Category][]groupPick{
	CategoryEducation:    {{group: GroupAdvancedDegreeEducation, priority: 1, highOnly: true}},
	CategoryExperience:   {{group: GroupGeneralExperience, priority: 1}, {group: GroupLeadership, priority: 2}},
	CategoryAchievements: {{group: GroupPublications, priority: 1}, {group: GroupPatents, priority: 2}},
	CategoryRecognition:  {{group: GroupAwards, priority: 1}},
}

var secondaryCategoryGroups = map[Category][]Group{
	CategoryEducation:    {GroupAdvancedDegreeEducation},
	CategoryExperience:   {GroupSpecialization},
	CategoryAchievements: {GroupProjects, GroupCitations},
	CategoryRecognition:  {GroupSpeaking, GroupMemberships},
}

const secondaryPriority = 3

// Recommend selects a bounded, prioritized list of recommendations from the catalog.
func (e *Engine) Recommend(p *Profile, scores CategoryScores, routes RouteEvaluation, waiver WaiverEvaluation) []Recommendation {
	facts := buildFacts(p, waiver)
	var picked []Recommendation

	add := func(pick groupPick, tag Route) {
		for _, r := range e.catalog.ByGroup(pick.group) {
			if pick.highOnly && r.Impact != ImpactHigh {
				continue
			}
			if !r.Applies(facts) {
				continue
			}
			priority := r.Priority
			if pick.priority > 0 {
				priority = pick.priority
			}
			picked = append(picked, Recommendation{
				Category:      r.Category,
				Description:   r.Description,
				Impact:        r.Impact,
				Priority:      priority,
				ImprovesRoute: tag,
			})
		}
	}

	for _, g := range routeGroups[routes.RecommendedRoute] {
		add(groupPick{group: g}, routes.RecommendedRoute)
	}

	limits := e.cfg.Recommendations
	switch waiver.Weakest() {
	case CriterionMeritImportance:
		add(groupPick{group: GroupMeritImportance}, RouteNIW)
		if scores.Achievements < limits.CorrelatedCategoryBelow {
			add(groupPick{group: GroupPublications}, RouteNIW)
		}
	case CriterionWellPositioned:
		add(groupPick{group: GroupWellPositioned}, RouteNIW)
		if scores.Experience < limits.CorrelatedCategoryBelow {
			add(groupPick{group: GroupGeneralExperience}, RouteNIW)
		}
	case CriterionBenefitWaiver:
		add(groupPick{group: GroupBenefitWaiver}, RouteNIW)
	}

	ranked := rankCategories(scores)
	for _, pick := range weakestCategoryPicks[ranked[0]] {
		add(pick, RouteBoth)
	}
	if second := ranked[1]; scores.Of(second) < limits.SecondaryCategoryBelow {
		for _, g := range secondaryCategoryGroups[second] {
			add(groupPick{group: g, priority: secondaryPriority}, RouteBoth)
		}
	}

	out := dedupe(picked)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return len(out[i].Description) > len(out[j].Description)
	})
	if len(out) > limits.Max {
		out = out[:limits.Max]
	}
	return out
}

// rankCategories orders categories from weakest to strongest; ties keep declaration order.
func rankCategories(scores CategoryScores) []Category {
	ranked := append([]Category(nil), Categories...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores.Of(ranked[i]) < scores.Of(ranked[j])
	})
	return ranked
}

// dedupe keeps one entry per description, the one with the lowest priority.
func dedupe(in []Recommendation) []Recommendation {
	index := make(map[string]int, len(in))
	out := make([]Recommendation, 0, len(in))
	for _, r := range in {
		if i, ok := index[r.Description]; ok {
			if r.Priority < out[i].Priority {
				out[i] = r
			}
			continue
		}
		index[r.Description] = len(out)
		out = append(out, r)
	}
	return out
}

func buildFacts(p *Profile, w WaiverEvaluation) Facts {
	return Facts{
		Symbols: map[Fact]string{
			FactDegree: string(p.Education.HighestDegree),
		},
		Numbers: map[Fact]float64{
			FactYears:          float64(p.Experience.YearsOfExperience),
			FactPublications:   float64(p.Achievements.PublicationsCount),
			FactPatents:        float64(p.Achievements.PatentsCount),
			FactProjects:       float64(p.Achievements.ProjectsLed),
			FactCitations:      float64(p.Achievements.CitationsCount),
			FactAwards:         float64(p.Recognition.AwardsCount),
			FactSpeaking:       float64(p.Recognition.SpeakingInvitations),
			FactMemberships:    float64(p.Recognition.ProfessionalMemberships),
			FactLeadership:     boolFact(p.Experience.LeadershipRoles),
			FactSpecialization: boolFact(p.Experience.SpecializedExperience),
			FactMerit:          w.MeritImportance,
			FactWellPositioned: w.WellPositioned,
			FactBenefitWaiver:  w.BenefitWaiver,
		},
	}
}

func boolFact(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
