// internal/eligibility/catalog.go
package eligibility

import "fmt"

type Impact string

const (
	ImpactLow    Impact = "LOW"
	ImpactMedium Impact = "MEDIUM"
	ImpactHigh   Impact = "HIGH"
)

// CategoryNIW marks recommendations that target the waiver rather than a scored category.
const CategoryNIW Category = "NIW"

// Group keys a family of related rules in the catalog.
type Group string

const (
	GroupAdvancedDegreeEducation     Group = "education/advanced-degree"
	GroupExceptionalAbilityEducation Group = "education/exceptional-ability"
	GroupGeneralExperience           Group = "experience/general"
	GroupLeadership                  Group = "experience/leadership"
	GroupSpecialization              Group = "experience/specialized"
	GroupExceptionalAbilityExp       Group = "experience/exceptional-ability"
	GroupPublications                Group = "achievements/publications"
	GroupPatents                     Group = "achievements/patents"
	GroupProjects                    Group = "achievements/projects"
	GroupCitations                   Group = "achievements/citations"
	GroupAwards                      Group = "recognition/awards"
	GroupSpeaking                    Group = "recognition/speaking"
	GroupMemberships                 Group = "recognition/memberships"
	GroupExceptionalAbilityRecog     Group = "recognition/exceptional-ability"
	GroupMeritImportance             Group = "niw/merit-importance"
	GroupWellPositioned              Group = "niw/well-positioned"
	GroupBenefitWaiver               Group = "niw/benefit-waiver"
)

// Fact names one value a rule condition can test.
type Fact string

const (
	FactDegree         Fact = "degree"
	FactYears          Fact = "years"
	FactPublications   Fact = "publications"
	FactPatents        Fact = "patents"
	FactProjects       Fact = "projects"
	FactCitations      Fact = "citations"
	FactAwards         Fact = "awards"
	FactSpeaking       Fact = "speaking"
	FactMemberships    Fact = "memberships"
	FactLeadership     Fact = "leadership"
	FactSpecialization Fact = "specialization"
	FactMerit          Fact = "merit"
	FactWellPositioned Fact = "wellPositioned"
	FactBenefitWaiver  Fact = "benefitWaiver"
)

// Condition is a set test when OneOf is non-empty, otherwise a range test. The range is
// inclusive unless Below is set, which excludes Max.
type Condition struct {
	Fact  Fact     `json:"fact"`
	OneOf []string `json:"oneOf,omitempty"`
	Min   float64  `json:"min"`
	Max   float64  `json:"max"`
	Below bool     `json:"below,omitempty"`
}

// Rule is a declarative catalog entry: conditions plus the recommendation they yield.
type Rule struct {
	ID          string      `json:"id"`
	Group       Group       `json:"group"`
	Category    Category    `json:"category"`
	Description string      `json:"description"`
	Impact      Impact      `json:"impact"`
	Priority    int         `json:"priority"`
	When        []Condition `json:"when,omitempty"`
}

// Facts is the evaluation context of a rule: symbolic and numeric facts about one
// assessment.
type Facts struct {
	Symbols map[Fact]string
	Numbers map[Fact]float64
}

func (c Condition) holds(f Facts) bool {
	if len(c.OneOf) > 0 {
		v, ok := f.Symbols[c.Fact]
		if !ok {
			return false
		}
		for _, o := range c.OneOf {
			if o == v {
				return true
			}
		}
		return false
	}
	v, ok := f.Numbers[c.Fact]
	if !ok || v < c.Min {
		return false
	}
	if c.Below {
		return v < c.Max
	}
	return v <= c.Max
}

// Applies reports whether every condition of the rule holds.
func (r Rule) Applies(f Facts) bool {
	for _, c := range r.When {
		if !c.holds(f) {
			return false
		}
	}
	return true
}

func degreeIs(d ...Degree) Condition {
	s := make([]string, len(d))
	for i := range d {
		s[i] = string(d[i])
	}
	return Condition{Fact: FactDegree, OneOf: s}
}

func between(f Fact, min, max float64) Condition {
	return Condition{Fact: f, Min: min, Max: max}
}

// below is for "reach N" rules that stop firing once the target is met.
func below(f Fact, min, max float64) Condition {
	return Condition{Fact: f, Min: min, Max: max, Below: true}
}

func flag(f Fact, v bool) Condition {
	if v {
		return between(f, 1, 1)
	}
	return between(f, 0, 0)
}

// Catalog is an ordered rule table.
type Catalog []Rule

// ByGroup returns the rules of g in catalog order.
func (c Catalog) ByGroup(g Group) []Rule {
	var out []Rule
	for _, r := range c {
		if r.Group == g {
			out = append(out, r)
		}
	}
	return out
}

// Validate rejects duplicate ids or descriptions and out-of-range priorities.
func (c Catalog) Validate() error {
	e := &ConfigurationError{}
	ids := make(map[string]bool, len(c))
	descs := make(map[string]bool, len(c))
	for _, r := range c {
		if r.ID == "" {
			e.addf("catalog rule without id in group %s", r.Group)
		}
		if ids[r.ID] {
			e.addf("catalog rule %s is duplicated", r.ID)
		}
		ids[r.ID] = true
		if descs[r.Description] {
			e.addf("catalog rule %s repeats a description", r.ID)
		}
		descs[r.Description] = true
		if r.Priority < 1 || r.Priority > 5 {
			e.addf("catalog rule %s priority %d outside 1..5", r.ID, r.Priority)
		}
		switch r.Impact {
		case ImpactLow, ImpactMedium, ImpactHigh:
		default:
			e.addf("catalog rule %s has unknown impact %q", r.ID, r.Impact)
		}
		for _, cond := range r.When {
			if len(cond.OneOf) == 0 && (cond.Min > cond.Max || cond.Below && cond.Min == cond.Max) {
				e.addf("catalog rule %s has an empty range on %s", r.ID, cond.Fact)
			}
		}
	}
	if len(e.Problems) > 0 {
		return e
	}
	return nil
}

func (r Rule) String() string {
	return fmt.Sprintf("%s[%s p%d]", r.ID, r.Impact, r.Priority)
}

const unbounded = 1e9

// DefaultCatalog is the built-in recommendation rule table.
var DefaultCatalog = Catalog{
	// education / advanced degree
	{ID: "edu-ad-masters", Group: GroupAdvancedDegreeEducation, Category: CategoryEducation, Impact: ImpactHigh, Priority: 1,
		Description: "Pursue a master's degree in your field to qualify directly for the Advanced Degree route",
		When:        []Condition{degreeIs(DegreeBachelors)}},
	{ID: "edu-ad-phd", Group: GroupAdvancedDegreeEducation, Category: CategoryEducation, Impact: ImpactHigh, Priority: 1,
		Description: "Consider a PhD to strengthen your academic standing and research credentials",
		When:        []Condition{degreeIs(DegreeMasters)}},
	{ID: "edu-ad-certifications", Group: GroupAdvancedDegreeEducation, Category: CategoryEducation, Impact: ImpactMedium, Priority: 2,
		Description: "Earn recognized professional certifications in your specialty"},
	{ID: "edu-ad-continuing", Group: GroupAdvancedDegreeEducation, Category: CategoryEducation, Impact: ImpactMedium, Priority: 3,
		Description: "Complete continuing education programs at recognized institutions"},

	// education / exceptional ability
	{ID: "edu-ea-degree", Group: GroupExceptionalAbilityEducation, Category: CategoryEducation, Impact: ImpactHigh, Priority: 1,
		Description: "Obtain an advanced degree related to your area of exceptional ability",
		When:        []Condition{degreeIs(DegreeBachelors)}},
	{ID: "edu-ea-license", Group: GroupExceptionalAbilityEducation, Category: CategoryEducation, Impact: ImpactHigh, Priority: 2,
		Description: "Obtain a professional license or certification in your occupation"},
	{ID: "edu-ea-courses", Group: GroupExceptionalAbilityEducation, Category: CategoryEducation, Impact: ImpactMedium, Priority: 3,
		Description: "Document specialized courses and workshops you have completed"},

	// experience / general
	{ID: "exp-progressive", Group: GroupGeneralExperience, Category: CategoryExperience, Impact: ImpactHigh, Priority: 1,
		Description: "Accumulate at least 5 years of progressive post-degree experience",
		When:        []Condition{below(FactYears, 0, 5)}},
	{ID: "exp-growth", Group: GroupGeneralExperience, Category: CategoryExperience, Impact: ImpactMedium, Priority: 2,
		Description: "Document how your responsibilities grew over time with employer letters",
		When:        []Condition{between(FactYears, 3, 15)}},

	// experience / leadership
	{ID: "exp-leadership-seek", Group: GroupLeadership, Category: CategoryExperience, Impact: ImpactHigh, Priority: 2,
		Description: "Seek leadership roles on projects or teams",
		When:        []Condition{flag(FactLeadership, false)}},
	{ID: "exp-leadership-quantify", Group: GroupLeadership, Category: CategoryExperience, Impact: ImpactMedium, Priority: 3,
		Description: "Quantify the impact of your leadership with team sizes, budgets and measurable results",
		When:        []Condition{flag(FactLeadership, true)}},

	// experience / specialized
	{ID: "exp-niche", Group: GroupSpecialization, Category: CategoryExperience, Impact: ImpactHigh, Priority: 2,
		Description: "Develop a niche specialization within your field",
		When:        []Condition{flag(FactSpecialization, false)}},
	{ID: "exp-niche-rarity", Group: GroupSpecialization, Category: CategoryExperience, Impact: ImpactMedium, Priority: 3,
		Description: "Document how rare your specialization is in the US labor market",
		When:        []Condition{flag(FactSpecialization, true)}},

	// experience / exceptional ability
	{ID: "exp-ea-ten-years", Group: GroupExceptionalAbilityExp, Category: CategoryExperience, Impact: ImpactHigh, Priority: 1,
		Description: "Document 10 years of full-time experience in the occupation",
		When:        []Condition{below(FactYears, 0, 10)}},
	{ID: "exp-ea-letters", Group: GroupExceptionalAbilityExp, Category: CategoryExperience, Impact: ImpactMedium, Priority: 2,
		Description: "Collect letters from current and former supervisors describing your expertise",
		When:        []Condition{between(FactYears, 5, unbounded)}},
	{ID: "exp-ea-salary", Group: GroupExceptionalAbilityExp, Category: CategoryExperience, Impact: ImpactMedium, Priority: 3,
		Description: "Document a salary above the average for your occupation",
		When:        []Condition{between(FactYears, 3, unbounded)}},

	// achievements / publications
	{ID: "ach-publish", Group: GroupPublications, Category: CategoryAchievements, Impact: ImpactHigh, Priority: 1,
		Description: "Publish articles in recognized peer-reviewed journals",
		When:        []Condition{between(FactPublications, 0, 5)}},
	{ID: "ach-publish-ten", Group: GroupPublications, Category: CategoryAchievements, Impact: ImpactHigh, Priority: 2,
		Description: "Increase your publication count to at least 10 articles",
		When:        []Condition{below(FactPublications, 5, 10)}},
	{ID: "ach-coauthor", Group: GroupPublications, Category: CategoryAchievements, Impact: ImpactMedium, Priority: 3,
		Description: "Co-author papers with recognized researchers in your area",
		When:        []Condition{between(FactPublications, 0, 100)}},

	// achievements / patents
	{ID: "ach-patent-file", Group: GroupPatents, Category: CategoryAchievements, Impact: ImpactHigh, Priority: 1,
		Description: "File patents for innovations you have developed",
		When:        []Condition{below(FactPatents, 0, 1)}},
	{ID: "ach-patent-more", Group: GroupPatents, Category: CategoryAchievements, Impact: ImpactHigh, Priority: 2,
		Description: "Grow your patent portfolio to demonstrate sustained innovation",
		When:        []Condition{below(FactPatents, 1, 3)}},

	// achievements / projects
	{ID: "ach-projects-lead", Group: GroupProjects, Category: CategoryAchievements, Impact: ImpactHigh, Priority: 2,
		Description: "Lead significant projects with measurable outcomes",
		When:        []Condition{between(FactProjects, 0, 2)}},
	{ID: "ach-projects-quantify", Group: GroupProjects, Category: CategoryAchievements, Impact: ImpactMedium, Priority: 3,
		Description: "Quantify the impact of the projects you led with metrics and adoption figures",
		When:        []Condition{between(FactProjects, 1, 100)}},

	// achievements / citations
	{ID: "ach-citations", Group: GroupCitations, Category: CategoryAchievements, Impact: ImpactMedium, Priority: 3,
		Description: "Increase citations of your work by engaging with the research community",
		When:        []Condition{between(FactCitations, 0, 50)}},
	{ID: "ach-promote", Group: GroupCitations, Category: CategoryAchievements, Impact: ImpactLow, Priority: 4,
		Description: "Promote your published work on academic and professional networks",
		When:        []Condition{between(FactCitations, 0, 100)}},

	// recognition / awards
	{ID: "rec-awards-apply", Group: GroupAwards, Category: CategoryRecognition, Impact: ImpactHigh, Priority: 2,
		Description: "Apply for professional awards and competitive grants in your field",
		When:        []Condition{between(FactAwards, 0, 2)}},
	{ID: "rec-awards-prestige", Group: GroupAwards, Category: CategoryRecognition, Impact: ImpactMedium, Priority: 3,
		Description: "Document the prestige and selection criteria of the awards you received",
		When:        []Condition{between(FactAwards, 1, 100)}},

	// recognition / speaking
	{ID: "rec-speaking-seek", Group: GroupSpeaking, Category: CategoryRecognition, Impact: ImpactHigh, Priority: 2,
		Description: "Seek speaking opportunities at conferences and industry events",
		When:        []Condition{between(FactSpeaking, 0, 3)}},
	{ID: "rec-speaking-regular", Group: GroupSpeaking, Category: CategoryRecognition, Impact: ImpactMedium, Priority: 3,
		Description: "Become a regular speaker at major events in your field",
		When:        []Condition{between(FactSpeaking, 2, 100)}},

	// recognition / memberships
	{ID: "rec-memberships-join", Group: GroupMemberships, Category: CategoryRecognition, Impact: ImpactMedium, Priority: 3,
		Description: "Join professional organizations that require outstanding achievement for membership",
		When:        []Condition{between(FactMemberships, 0, 2)}},
	{ID: "rec-memberships-lead", Group: GroupMemberships, Category: CategoryRecognition, Impact: ImpactHigh, Priority: 2,
		Description: "Take committee or leadership roles within your professional organizations",
		When:        []Condition{between(FactMemberships, 1, 100)}},

	// recognition / exceptional ability
	{ID: "rec-ea-letters", Group: GroupExceptionalAbilityRecog, Category: CategoryRecognition, Impact: ImpactHigh, Priority: 2,
		Description: "Obtain recommendation letters from independent experts attesting to your contributions"},
	{ID: "rec-ea-formal", Group: GroupExceptionalAbilityRecog, Category: CategoryRecognition, Impact: ImpactMedium, Priority: 3,
		Description: "Document formal recognition from peers, government bodies or professional organizations"},

	// niw / merit and national importance
	{ID: "niw-merit-impact", Group: GroupMeritImportance, Category: CategoryNIW, Impact: ImpactHigh, Priority: 1,
		Description: "Articulate the substantial merit of your proposed work and who benefits from it",
		When:        []Condition{between(FactMerit, 0, 0.7)}},
	{ID: "niw-merit-national", Group: GroupMeritImportance, Category: CategoryNIW, Impact: ImpactHigh, Priority: 2,
		Description: "Describe the national impact of your work in detail, supported by data and statistics",
		When:        []Condition{between(FactMerit, 0, 0.8)}},
	{ID: "niw-merit-priorities", Group: GroupMeritImportance, Category: CategoryNIW, Impact: ImpactMedium, Priority: 2,
		Description: "Tie your work to published US government priorities and initiatives",
		When:        []Condition{between(FactMerit, 0.5, 0.9)}},

	// niw / well positioned
	{ID: "niw-positioned-resources", Group: GroupWellPositioned, Category: CategoryNIW, Impact: ImpactHigh, Priority: 1,
		Description: "Detail the qualifications, resources and plan that position you to advance the work",
		When:        []Condition{between(FactWellPositioned, 0, 0.7)}},
	{ID: "niw-positioned-track", Group: GroupWellPositioned, Category: CategoryNIW, Impact: ImpactMedium, Priority: 2,
		Description: "Show how your past successes predict future progress on the proposed endeavor",
		When:        []Condition{between(FactWellPositioned, 0, 0.8)}},

	// niw / benefit of waiver
	{ID: "niw-benefit-labor", Group: GroupBenefitWaiver, Category: CategoryNIW, Impact: ImpactHigh, Priority: 1,
		Description: "Explain why the labor certification process is impractical for your work",
		When:        []Condition{between(FactBenefitWaiver, 0, 0.7)}},
	{ID: "niw-benefit-offer", Group: GroupBenefitWaiver, Category: CategoryNIW, Impact: ImpactHigh, Priority: 2,
		Description: "Argue why requiring a job offer would harm the national interest",
		When:        []Condition{between(FactBenefitWaiver, 0, 0.7)}},
	{ID: "niw-benefit-urgency", Group: GroupBenefitWaiver, Category: CategoryNIW, Impact: ImpactMedium, Priority: 2,
		Description: "Demonstrate the urgency or immediate need for your contributions",
		When:        []Condition{between(FactBenefitWaiver, 0, 0.8)}},
}
