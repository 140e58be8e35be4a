// internal/eligibility/waiver_test.go
package eligibility

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Merit & Importance
// ==========================

func TestEngine_MeritImportance(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name           string
		work           IntendedWork
		achievements   Achievements
		validateOutput func(t *testing.T, merit float64, sig WaiverSignals)
	}{
		{
			name: "high importance domain with broad scope",
			work: IntendedWork{
				FieldOfWork:            "Cybersecurity",
				ProposedWork:           "Hardening hospital networks.",
				PotentialBeneficiaries: "Millions of patients nationwide",
			},
			validateOutput: func(t *testing.T, merit float64, sig WaiverSignals) {
				assert.Equal(t, 1.0, sig.Relevance)
				assert.InDelta(t, 1.0*0.6+0.6*0.4, sig.Impact, 1e-9)
				assert.Equal(t, 0.4, sig.Evidence)
				assert.InDelta(t, 0.4+0.84*0.4+0.4*0.2, merit, 1e-9)
			},
		},
		{
			name: "significant importance domain with community scope",
			work: IntendedWork{
				FieldOfWork:            "Rural education outreach",
				PotentialBeneficiaries: "Teachers in small communities",
			},
			achievements: Achievements{PublicationsCount: 5},
			validateOutput: func(t *testing.T, merit float64, sig WaiverSignals) {
				assert.Equal(t, 0.8, sig.Relevance)
				assert.InDelta(t, 0.8*0.6, sig.Impact, 1e-9)
				assert.Equal(t, 0.7, sig.Evidence)
			},
		},
		{
			name: "no keywords falls back to national importance length",
			work: IntendedWork{
				FieldOfWork:        "Hospitality",
				NationalImportance: strings.Repeat("x", 200),
			},
			validateOutput: func(t *testing.T, merit float64, sig WaiverSignals) {
				assert.Equal(t, 0.6, sig.Relevance)
			},
		},
		{
			name: "empty text earns no impact",
			work: IntendedWork{},
			validateOutput: func(t *testing.T, merit float64, sig WaiverSignals) {
				assert.Equal(t, 0.3, sig.Relevance)
				assert.Zero(t, sig.Impact)
				assert.InDelta(t, 0.3*0.4+0.4*0.2, merit, 1e-9)
			},
		},
		{
			name: "whitespace only text earns no impact",
			work: IntendedWork{ProposedWork: "   ", PotentialBeneficiaries: "\n\t"},
			validateOutput: func(t *testing.T, merit float64, sig WaiverSignals) {
				assert.Zero(t, sig.Impact)
			},
		},
		{
			name: "beneficiaries without keywords get limited scope",
			work: IntendedWork{PotentialBeneficiaries: "Local clinics"},
			validateOutput: func(t *testing.T, merit float64, sig WaiverSignals) {
				assert.InDelta(t, 0.6*0.6, sig.Impact, 1e-9)
			},
		},
		{
			name: "long proposal is clear",
			work: IntendedWork{ProposedWork: strings.Repeat("y", 301)},
			validateOutput: func(t *testing.T, merit float64, sig WaiverSignals) {
				assert.InDelta(t, 1.0*0.4, sig.Impact, 1e-9)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := createMinimalProfile()
			w := tt.work
			a := tt.achievements
			p.IntendedWork = &w
			p.Achievements = &a

			var sig WaiverSignals
			merit := e.meritImportance(p, &sig)
			tt.validateOutput(t, merit, sig)
		})
	}
}

// ==========================
// Well Positioned
// ==========================

func TestEngine_WellPositioned(t *testing.T) {
	e := newTestEngine(t)

	t.Run("accomplished leader", func(t *testing.T) {
		p := createMinimalProfile()
		p.Education.HighestDegree = DegreePhD
		p.Experience.YearsOfExperience = 10
		p.Experience.SpecializedExperience = true
		p.Experience.LeadershipRoles = true
		p.Achievements.PublicationsCount = 10
		p.Achievements.PatentsCount = 3
		p.Achievements.ProjectsLed = 3

		var sig WaiverSignals
		got := e.wellPositioned(p, &sig)

		assert.InDelta(t, 1.0, sig.Qualification, 1e-9)
		assert.InDelta(t, 1.0, sig.Success, 1e-9)
		assert.InDelta(t, 0.4, sig.Plan, 1e-9)
		assert.InDelta(t, 0.35+0.35+0.4*0.30, got, 1e-9)
	})

	t.Run("seniority bonus without leadership", func(t *testing.T) {
		p := createMinimalProfile()
		p.Education.HighestDegree = DegreeMasters
		p.Experience.YearsOfExperience = 7
		p.Recognition.SpeakingInvitations = 2
		p.IntendedWork.ProposedWork = strings.Repeat("z", 250)

		var sig WaiverSignals
		e.wellPositioned(p, &sig)

		assert.InDelta(t, 0.9, sig.Qualification, 1e-9)
		assert.InDelta(t, 0.2, sig.Success, 1e-9)
		assert.InDelta(t, 0.7, sig.Plan, 1e-9)
	})

	t.Run("certifications count as specialization", func(t *testing.T) {
		p := createMinimalProfile()
		p.Education.Certifications = []Certification{{Name: "CISSP"}}

		var sig WaiverSignals
		e.wellPositioned(p, &sig)

		assert.InDelta(t, 0.4, sig.Qualification, 1e-9)
	})
}

// ==========================
// Benefit of Waiver
// ==========================

func TestEngine_BenefitWaiver_UrgencyKeywordsReachTopTier(t *testing.T) {
	e := newTestEngine(t)
	urgentText := "There is an urgent shortage of grid specialists and this is a critical national priority."

	base := createMinimalProfile()
	base.IntendedWork.StandardProcessImpracticality = urgentText

	strong := createStrongResearcherProfile()
	strong.IntendedWork = &IntendedWork{StandardProcessImpracticality: urgentText}

	for _, p := range []*Profile{base, strong} {
		got := e.EvaluateWaiver(p)
		assert.Equal(t, 1.0, got.Signals.Urgency)
		assert.GreaterOrEqual(t, got.BenefitWaiver, 0.6)
	}

	assert.InDelta(t, 0.4+0.3*0.3+(0.4+0.3*0.3)*0.3, e.EvaluateWaiver(base).BenefitWaiver, 1e-9)
}

func TestEngine_BenefitWaiver_UrgencySources(t *testing.T) {
	e := newTestEngine(t)

	t.Run("length fallback measures national importance only", func(t *testing.T) {
		p := createMinimalProfile()
		p.IntendedWork.ProposedWork = strings.Repeat("w", 400)
		p.IntendedWork.StandardProcessImpracticality = strings.Repeat("i", 400)

		var sig WaiverSignals
		e.benefitOfWaiver(p, &sig)
		assert.Equal(t, 0.3, sig.Urgency)

		p.IntendedWork.NationalImportance = strings.Repeat("n", 160)
		e.benefitOfWaiver(p, &sig)
		assert.Equal(t, 0.5, sig.Urgency)
	})

	t.Run("portuguese terms are recognised", func(t *testing.T) {
		p := createMinimalProfile()
		p.IntendedWork.NationalImportance = "Há uma escassez urgente de especialistas, uma prioridade nacional."
		p.IntendedWork.StandardProcessImpracticality = "Como empreendedor autônomo, a certificação é impraticável."

		var sig WaiverSignals
		e.benefitOfWaiver(p, &sig)
		assert.Equal(t, 1.0, sig.Urgency)
		assert.Equal(t, 1.0, sig.Impracticality)
	})
}

func TestEngine_KeywordSignal(t *testing.T) {
	e := newTestEngine(t)
	terms := e.cfg.Keywords.Urgency

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"three keywords", "urgent critical shortage", 1.0},
		{"two keywords", "urgent and critical", 0.8},
		{"one keyword", "a real gap", 0.7},
		{"long text without keywords", strings.Repeat("a", 301), 0.6},
		{"medium text without keywords", strings.Repeat("a", 151), 0.5},
		{"short text without keywords", "hello", 0.3},
		{"empty", "", 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.keywordSignal(tt.text, tt.text, terms))
		})
	}
}

func TestEngine_BenefitWaiver_ProfileStrength(t *testing.T) {
	e := newTestEngine(t)

	p := createMinimalProfile()
	p.Education.HighestDegree = DegreeMasters
	p.Experience.YearsOfExperience = 7
	p.Recognition.AwardsCount = 1

	var sig WaiverSignals
	e.benefitOfWaiver(p, &sig)
	assert.InDelta(t, 0.3+0.2+0.2, sig.ProfileStrength, 1e-9)

	p.Education.HighestDegree = DegreePhD
	p.Experience.YearsOfExperience = 10
	p.Achievements.PatentsCount = 3
	e.benefitOfWaiver(p, &sig)
	assert.InDelta(t, 1.0, sig.ProfileStrength, 1e-9)
}

// ==========================
// Aggregation
// ==========================

func TestEngine_EvaluateWaiver_OverallWeights(t *testing.T) {
	e := newTestEngine(t)

	got := e.EvaluateWaiver(createStrongResearcherProfile())

	want := got.MeritImportance*0.35 + got.WellPositioned*0.35 + got.BenefitWaiver*0.30
	assert.InDelta(t, want, got.Overall, 1e-9)
	for _, v := range []float64{got.MeritImportance, got.WellPositioned, got.BenefitWaiver, got.Overall} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestWaiverEvaluation_Weakest(t *testing.T) {
	tests := []struct {
		name string
		w    WaiverEvaluation
		want WaiverCriterion
	}{
		{"merit lowest", WaiverEvaluation{MeritImportance: 0.2, WellPositioned: 0.5, BenefitWaiver: 0.5}, CriterionMeritImportance},
		{"benefit lowest", WaiverEvaluation{MeritImportance: 0.6, WellPositioned: 0.5, BenefitWaiver: 0.4}, CriterionBenefitWaiver},
		{"tie resolves to declaration order", WaiverEvaluation{MeritImportance: 0.5, WellPositioned: 0.3, BenefitWaiver: 0.3}, CriterionWellPositioned},
		{"all equal", WaiverEvaluation{MeritImportance: 0.5, WellPositioned: 0.5, BenefitWaiver: 0.5}, CriterionMeritImportance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.w.Weakest())
		})
	}
}
