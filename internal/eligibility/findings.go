// internal/eligibility/findings.go
package eligibility

import "fmt"

// Finding is one templated strength or weakness tied to the category that produced it.
type Finding struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

var degreeNames = map[Degree]string{
	DegreePhD:       "Doctorate",
	DegreeMasters:   "Master's degree",
	DegreeBachelors: "Bachelor's degree",
	DegreeOther:     "Non-degree education",
}

// IdentifyFindings reports strengths for categories at or above the strength threshold
// and weaknesses for categories at or below the weakness threshold, in category order.
func (e *Engine) IdentifyFindings(scores CategoryScores, p *Profile) (strengths, weaknesses []Finding) {
	t := e.cfg.Findings
	strengths, weaknesses = []Finding{}, []Finding{}
	for _, c := range Categories {
		s := scores.Of(c)
		switch {
		case s >= t.StrengthThreshold:
			strengths = append(strengths, e.strengthsFor(c, p)...)
		case s <= t.WeaknessThreshold:
			weaknesses = append(weaknesses, e.weaknessesFor(c, p)...)
		}
	}
	return strengths, weaknesses
}

func (e *Engine) strengthsFor(c Category, p *Profile) []Finding {
	var texts []string
	switch c {
	case CategoryEducation:
		ed := p.Education
		texts = append(texts, fmt.Sprintf("%s in %s", degreeNames[ed.HighestDegree], ed.FieldOfStudy))
		if ed.Ranked() && *ed.UniversityRanking <= 200 {
			texts = append(texts, fmt.Sprintf("Degree from a top-ranked institution (#%d)", *ed.UniversityRanking))
		}
		if e.isSTEM(ed.FieldOfStudy) {
			texts = append(texts, "Field of study in a STEM area of national demand")
		}
	case CategoryExperience:
		x := p.Experience
		texts = append(texts, fmt.Sprintf("%d years of professional experience", x.YearsOfExperience))
		if x.LeadershipRoles {
			texts = append(texts, "Documented leadership roles")
		}
		if x.SpecializedExperience {
			texts = append(texts, "Specialized expertise in the field")
		}
	case CategoryAchievements:
		a := p.Achievements
		if a.PublicationsCount > 0 {
			texts = append(texts, fmt.Sprintf("%d publications with %d citations", a.PublicationsCount, a.CitationsCount))
		}
		if a.PatentsCount > 0 {
			texts = append(texts, fmt.Sprintf("%d patents granted or filed", a.PatentsCount))
		}
		if a.ProjectsLed > 0 {
			texts = append(texts, fmt.Sprintf("Led %d significant projects", a.ProjectsLed))
		}
	case CategoryRecognition:
		r := p.Recognition
		if r.AwardsCount > 0 {
			texts = append(texts, fmt.Sprintf("%d professional awards", r.AwardsCount))
		}
		if r.SpeakingInvitations > 0 {
			texts = append(texts, fmt.Sprintf("%d invitations to speak at events", r.SpeakingInvitations))
		}
		if r.ProfessionalMemberships > 0 {
			texts = append(texts, fmt.Sprintf("Member of %d professional organizations", r.ProfessionalMemberships))
		}
	}
	if len(texts) == 0 {
		texts = append(texts, fmt.Sprintf("Strong %s profile", categoryNoun(c)))
	}
	return findings(c, texts)
}

func (e *Engine) weaknessesFor(c Category, p *Profile) []Finding {
	var texts []string
	switch c {
	case CategoryEducation:
		ed := p.Education
		if !ed.HighestDegree.IsAdvanced() {
			texts = append(texts, fmt.Sprintf("No advanced degree (highest: %s)", degreeNames[ed.HighestDegree]))
		}
		if !ed.Ranked() {
			texts = append(texts, "Institution ranking not documented")
		}
		if !e.isSTEM(ed.FieldOfStudy) {
			texts = append(texts, fmt.Sprintf("Field of study %q is outside high-demand STEM areas", ed.FieldOfStudy))
		}
	case CategoryExperience:
		x := p.Experience
		texts = append(texts, fmt.Sprintf("Only %d years of professional experience", x.YearsOfExperience))
		if !x.LeadershipRoles {
			texts = append(texts, "No documented leadership roles")
		}
		if !x.SpecializedExperience {
			texts = append(texts, "No specialized expertise documented")
		}
	case CategoryAchievements:
		a := p.Achievements
		if a.PublicationsCount < 5 {
			texts = append(texts, fmt.Sprintf("Limited publication record (%d)", a.PublicationsCount))
		}
		if a.PatentsCount == 0 {
			texts = append(texts, "No patents")
		}
		if a.ProjectsLed == 0 {
			texts = append(texts, "No significant projects led")
		}
	case CategoryRecognition:
		r := p.Recognition
		if r.AwardsCount == 0 {
			texts = append(texts, "No professional awards")
		}
		if r.SpeakingInvitations < 2 {
			texts = append(texts, "Few invitations to speak at events")
		}
		if r.ProfessionalMemberships == 0 {
			texts = append(texts, "No professional memberships")
		}
	}
	if len(texts) == 0 {
		texts = append(texts, fmt.Sprintf("Weak %s profile", categoryNoun(c)))
	}
	return findings(c, texts)
}

func findings(c Category, texts []string) []Finding {
	out := make([]Finding, len(texts))
	for i, t := range texts {
		out[i] = Finding{Category: c, Text: t}
	}
	return out
}

func categoryNoun(c Category) string {
	switch c {
	case CategoryEducation:
		return "education"
	case CategoryExperience:
		return "experience"
	case CategoryAchievements:
		return "achievements"
	}
	return "recognition"
}
