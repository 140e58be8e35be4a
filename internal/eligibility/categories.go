// internal/eligibility/categories.go
package eligibility

// Category names one of the four scored profile areas.
type Category string

const (
	CategoryEducation    Category = "EDUCATION"
	CategoryExperience   Category = "EXPERIENCE"
	CategoryAchievements Category = "ACHIEVEMENTS"
	CategoryRecognition  Category = "RECOGNITION"
)

// Categories lists every category in the order used for stable tie-breaking.
var Categories = []Category{CategoryEducation, CategoryExperience, CategoryAchievements, CategoryRecognition}

type CategoryScores struct {
	Education    float64 `json:"education"`
	Experience   float64 `json:"experience"`
	Achievements float64 `json:"achievements"`
	Recognition  float64 `json:"recognition"`
}

// Of returns the score for c.
func (s CategoryScores) Of(c Category) float64 {
	switch c {
	case CategoryEducation:
		return s.Education
	case CategoryExperience:
		return s.Experience
	case CategoryAchievements:
		return s.Achievements
	case CategoryRecognition:
		return s.Recognition
	}
	return 0
}

// Average is the unweighted mean of the four scores.
func (s CategoryScores) Average() float64 {
	return (s.Education + s.Experience + s.Achievements + s.Recognition) / 4
}

// field relevance tiers as returned by the text classifier
const (
	fieldHighDemand = iota
	fieldGeneral
	fieldNiche
)

// ScoreCategories computes the four category scores of a validated profile.
func (e *Engine) ScoreCategories(p *Profile) CategoryScores {
	return CategoryScores{
		Education:    e.scoreEducation(p.Education),
		Experience:   e.scoreExperience(p.Experience),
		Achievements: e.scoreAchievements(p.Achievements),
		Recognition:  e.scoreRecognition(p.Recognition),
	}
}

func (e *Engine) scoreEducation(ed *Education) float64 {
	t := e.cfg.Education
	score := t.Degree.For(ed.HighestDegree)*t.DegreeWeight +
		e.institutionScore(ed)*t.InstitutionWeight +
		e.fieldRelevance(ed.FieldOfStudy)*t.FieldWeight
	return clamp01(score)
}

func (e *Engine) institutionScore(ed *Education) float64 {
	t := e.cfg.Education.Institution
	if !ed.Ranked() {
		return t.Unranked
	}
	for _, tier := range t.Tiers {
		if *ed.UniversityRanking <= tier.AtMost {
			return tier.Value
		}
	}
	return t.RankedOther
}

func (e *Engine) fieldRelevance(field string) float64 {
	f := e.cfg.Education.Field
	switch e.fieldTier(field) {
	case fieldHighDemand:
		return f.HighDemand
	case fieldGeneral:
		return f.General
	case fieldNiche:
		return f.Niche
	}
	return f.Other
}

func (e *Engine) fieldTier(field string) int {
	k := e.cfg.Keywords
	return e.text.Classify(field, [][]string{k.StemHighDemand, k.StemGeneral, k.Niche})
}

// isSTEM reports whether field matches either STEM tier.
func (e *Engine) isSTEM(field string) bool {
	tier := e.fieldTier(field)
	return tier == fieldHighDemand || tier == fieldGeneral
}

func (e *Engine) scoreExperience(x *Experience) float64 {
	t := e.cfg.Experience
	score := t.Years.Lookup(float64(x.YearsOfExperience))*t.YearsWeight +
		t.Leadership.For(x.LeadershipRoles)*t.LeadershipWeight +
		t.Specialization.For(x.SpecializedExperience)*t.SpecializationWeight
	return clamp01(score)
}

func (e *Engine) scoreAchievements(a *Achievements) float64 {
	t := e.cfg.Achievements
	score := clamp01(t.Base)
	score = clamp01(score + t.Publications.Lookup(float64(a.PublicationsCount)))
	score = clamp01(score + t.Patents.Lookup(float64(a.PatentsCount)))
	score = clamp01(score + t.Projects.Lookup(float64(a.ProjectsLed)))
	score = clamp01(score + t.Citations.Lookup(float64(a.CitationsCount)))
	return score
}

func (e *Engine) scoreRecognition(r *Recognition) float64 {
	t := e.cfg.Recognition
	score := clamp01(t.Base)
	score = clamp01(score + t.Awards.Lookup(float64(r.AwardsCount)))
	score = clamp01(score + t.Speaking.Lookup(float64(r.SpeakingInvitations)))
	score = clamp01(score + t.Memberships.Lookup(float64(r.ProfessionalMemberships)))
	return score
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
