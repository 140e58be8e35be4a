// internal/eligibility/waiver.go
package eligibility

import "strings"

// WaiverCriterion names one prong of the national interest waiver test.
type WaiverCriterion string

const (
	CriterionMeritImportance WaiverCriterion = "MERIT_IMPORTANCE"
	CriterionWellPositioned  WaiverCriterion = "WELL_POSITIONED"
	CriterionBenefitWaiver   WaiverCriterion = "BENEFIT_WAIVER"
)

// WaiverSignals exposes the intermediate components behind each sub-score.
type WaiverSignals struct {
	Relevance       float64 `json:"relevance"`
	Impact          float64 `json:"impact"`
	Evidence        float64 `json:"evidence"`
	Qualification   float64 `json:"qualification"`
	Success         float64 `json:"success"`
	Plan            float64 `json:"plan"`
	Urgency         float64 `json:"urgency"`
	Impracticality  float64 `json:"impracticality"`
	ProfileStrength float64 `json:"profileStrength"`
}

type WaiverEvaluation struct {
	MeritImportance float64       `json:"meritImportance"`
	WellPositioned  float64       `json:"wellPositioned"`
	BenefitWaiver   float64       `json:"benefitWaiver"`
	Overall         float64       `json:"overall"`
	Signals         WaiverSignals `json:"signals"`
}

// Of returns the sub-score for c.
func (w WaiverEvaluation) Of(c WaiverCriterion) float64 {
	switch c {
	case CriterionMeritImportance:
		return w.MeritImportance
	case CriterionWellPositioned:
		return w.WellPositioned
	case CriterionBenefitWaiver:
		return w.BenefitWaiver
	}
	return 0
}

// Weakest returns the lowest sub-criterion; ties resolve in declaration order.
func (w WaiverEvaluation) Weakest() WaiverCriterion {
	weakest := CriterionMeritImportance
	for _, c := range []WaiverCriterion{CriterionWellPositioned, CriterionBenefitWaiver} {
		if w.Of(c) < w.Of(weakest) {
			weakest = c
		}
	}
	return weakest
}

type evidenceStrength int

const (
	evidenceWeak evidenceStrength = iota
	evidenceModerate
	evidenceStrong
)

// EvaluateWaiver scores the three waiver prongs from the applicant's intended work and
// track record.
func (e *Engine) EvaluateWaiver(p *Profile) WaiverEvaluation {
	var sig WaiverSignals
	merit := e.meritImportance(p, &sig)
	positioned := e.wellPositioned(p, &sig)
	benefit := e.benefitOfWaiver(p, &sig)

	t := e.cfg.Waiver
	return WaiverEvaluation{
		MeritImportance: merit,
		WellPositioned:  positioned,
		BenefitWaiver:   benefit,
		Overall:         clamp01(merit*t.MeritWeight + positioned*t.WellPositionedWeight + benefit*t.BenefitWeight),
		Signals:         sig,
	}
}

func (e *Engine) evidence(p *Profile) evidenceStrength {
	t := e.cfg.Waiver.Evidence
	a, r := p.Achievements, p.Recognition
	switch {
	case a.PublicationsCount >= t.StrongPublications || a.PatentsCount >= t.StrongPatents || r.AwardsCount >= t.StrongAwards:
		return evidenceStrong
	case a.PublicationsCount >= t.ModeratePublications || a.PatentsCount >= t.ModeratePatents || r.AwardsCount >= t.ModerateAwards:
		return evidenceModerate
	}
	return evidenceWeak
}

func (e *Engine) meritImportance(p *Profile, sig *WaiverSignals) float64 {
	t := e.cfg.Waiver.Merit
	k := e.cfg.Keywords
	w := p.IntendedWork

	var relevance float64
	switch e.text.Classify(joinText(w.FieldOfWork, w.ProposedWork, w.NationalImportance),
		[][]string{k.HighImportance, k.SignificantImportance}) {
	case 0:
		relevance = t.HighRelevance
	case 1:
		relevance = t.SignificantRelevance
	default:
		relevance = t.ImportanceLength.Lookup(textLength(w.NationalImportance))
	}

	// blank beneficiaries or proposed work earn nothing for that half of impact
	var scope, clarity float64
	if strings.TrimSpace(w.PotentialBeneficiaries) != "" {
		scope = t.LimitedScope
		switch e.text.Classify(w.PotentialBeneficiaries, [][]string{k.BroadScope, k.SignificantScope}) {
		case 0:
			scope = t.BroadScope
		case 1:
			scope = t.SignificantScope
		}
	}
	if strings.TrimSpace(w.ProposedWork) != "" {
		clarity = t.Clarity.Lookup(textLength(w.ProposedWork))
	}
	impact := clamp01(scope*t.ScopeWeight + clarity*t.ClarityWeight)

	var evidence float64
	switch e.evidence(p) {
	case evidenceStrong:
		evidence = t.StrongEvidence
	case evidenceModerate:
		evidence = t.ModerateEvidence
	default:
		evidence = t.WeakEvidence
	}

	sig.Relevance, sig.Impact, sig.Evidence = relevance, impact, evidence
	return clamp01(relevance*t.RelevanceWeight + impact*t.ImpactWeight + evidence*t.EvidenceWeight)
}

func (e *Engine) wellPositioned(p *Profile, sig *WaiverSignals) float64 {
	t := e.cfg.Waiver.WellPositioned
	ed, x, a, r := p.Education, p.Experience, p.Achievements, p.Recognition

	qualification := t.QualificationDegree.For(ed.HighestDegree)
	qualification = clamp01(qualification + t.QualificationYears.Lookup(float64(x.YearsOfExperience)))
	if x.SpecializedExperience || len(ed.Certifications) > 0 {
		qualification = clamp01(qualification + t.SpecializationBonus)
	}

	success := clamp01(t.SuccessPublications.Lookup(float64(a.PublicationsCount)))
	success = clamp01(success + t.SuccessPatents.Lookup(float64(a.PatentsCount)))
	success = clamp01(success + t.SuccessProjects.Lookup(float64(a.ProjectsLed)))
	ev := e.cfg.Waiver.Evidence
	switch {
	case r.AwardsCount >= ev.StrongAwards || r.SpeakingInvitations >= t.StrongSpeaking:
		success = clamp01(success + t.RecognitionStrong)
	case r.AwardsCount >= ev.ModerateAwards || r.SpeakingInvitations >= t.ModerateSpeaking:
		success = clamp01(success + t.RecognitionModerate)
	}

	plan := t.PlanLength.Lookup(textLength(p.IntendedWork.ProposedWork))
	switch {
	case x.LeadershipRoles:
		plan = clamp01(plan + t.PlanLeadershipBonus)
	case x.YearsOfExperience >= t.PlanSeniorityYears:
		plan = clamp01(plan + t.PlanSeniorityBonus)
	}

	sig.Qualification, sig.Success, sig.Plan = qualification, success, plan
	return clamp01(qualification*t.QualificationWeight + success*t.SuccessWeight + plan*t.PlanWeight)
}

func (e *Engine) benefitOfWaiver(p *Profile, sig *WaiverSignals) float64 {
	t := e.cfg.Waiver.Benefit
	k := e.cfg.Keywords
	w := p.IntendedWork

	urgency := e.keywordSignal(joinText(w.NationalImportance, w.ProposedWork, w.StandardProcessImpracticality), w.NationalImportance, k.Urgency)
	impracticality := e.keywordSignal(w.StandardProcessImpracticality, w.StandardProcessImpracticality, k.Impracticality)

	strength := t.ProfileDegree.For(p.Education.HighestDegree)
	strength = clamp01(strength + t.ProfileYears.Lookup(float64(p.Experience.YearsOfExperience)))
	switch e.evidence(p) {
	case evidenceStrong:
		strength = clamp01(strength + t.ProfileStrongEvidence)
	case evidenceModerate:
		strength = clamp01(strength + t.ProfileModerate)
	}

	benefit := clamp01(urgency*t.InnerUrgency + impracticality*t.InnerImpracticality + strength*t.InnerProfile)

	sig.Urgency, sig.Impracticality, sig.ProfileStrength = urgency, impracticality, strength
	return clamp01(urgency*t.UrgencyWeight + impracticality*t.ImpracticalityWeight + benefit*t.BenefitWeight)
}

// keywordSignal buckets the keyword count found in text. When nothing matches it falls
// back to the length of explanation.
func (e *Engine) keywordSignal(text, explanation string, terms []string) float64 {
	t := e.cfg.Waiver.Benefit
	if n := e.text.Count(text, terms); n > 0 {
		return t.KeywordCount.Lookup(float64(n))
	}
	return t.LengthFallback.Lookup(textLength(explanation))
}
