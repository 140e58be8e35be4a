// internal/eligibility/config.go
package eligibility

import (
	"fmt"
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const weightTolerance = 1e-6

// Config is the complete set of scoring tables. Components receive it by value at
// construction and never modify it.
type Config struct {
	Education          EducationTable          `mapstructure:"education" json:"education"`
	Experience         ExperienceTable         `mapstructure:"experience" json:"experience"`
	Achievements       AchievementsTable       `mapstructure:"achievements" json:"achievements"`
	Recognition        RecognitionTable        `mapstructure:"recognition" json:"recognition"`
	AdvancedDegree     AdvancedDegreeTable     `mapstructure:"advanced_degree" json:"advancedDegree"`
	ExceptionalAbility ExceptionalAbilityTable `mapstructure:"exceptional_ability" json:"exceptionalAbility"`
	RouteGap           GapTable                `mapstructure:"route_gap" json:"routeGap"`
	Waiver             WaiverTable             `mapstructure:"waiver" json:"waiver"`
	Keywords           KeywordTable            `mapstructure:"keywords" json:"keywords"`
	Combination        CombinationTable        `mapstructure:"combination" json:"combination"`
	Viability          ViabilityThresholds     `mapstructure:"viability" json:"viability"`
	Findings           FindingsTable           `mapstructure:"findings" json:"findings"`
	Recommendations    RecommendationTable     `mapstructure:"recommendations" json:"recommendations"`
	Guidance           GuidanceTable           `mapstructure:"guidance" json:"guidance"`
}

// Step awards Value to any input at or above AtLeast.
type Step struct {
	AtLeast float64 `mapstructure:"at_least" json:"atLeast"`
	Value   float64 `mapstructure:"value" json:"value"`
}

// Ladder is a descending step function with a value for inputs below every step.
type Ladder struct {
	Steps     []Step  `mapstructure:"steps" json:"steps"`
	Otherwise float64 `mapstructure:"otherwise" json:"otherwise"`
}

// Lookup returns the value of the first step x reaches.
func (l Ladder) Lookup(x float64) float64 {
	for _, s := range l.Steps {
		if x >= s.AtLeast {
			return s.Value
		}
	}
	return l.Otherwise
}

// RankTier awards Value to institution ranks at or better than AtMost.
type RankTier struct {
	AtMost int     `mapstructure:"at_most" json:"atMost"`
	Value  float64 `mapstructure:"value" json:"value"`
}

type DegreeScores struct {
	PhD       float64 `mapstructure:"phd" json:"PHD"`
	Masters   float64 `mapstructure:"masters" json:"MASTERS"`
	Bachelors float64 `mapstructure:"bachelors" json:"BACHELORS"`
	Other     float64 `mapstructure:"other" json:"OTHER"`
}

// For returns the score of d; unknown degrees fall into Other.
func (s DegreeScores) For(d Degree) float64 {
	switch d {
	case DegreePhD:
		return s.PhD
	case DegreeMasters:
		return s.Masters
	case DegreeBachelors:
		return s.Bachelors
	}
	return s.Other
}

type FlagScores struct {
	Yes float64 `mapstructure:"yes" json:"yes"`
	No  float64 `mapstructure:"no" json:"no"`
}

func (f FlagScores) For(b bool) float64 {
	if b {
		return f.Yes
	}
	return f.No
}

type InstitutionScores struct {
	Tiers       []RankTier `mapstructure:"tiers" json:"tiers"`
	RankedOther float64    `mapstructure:"ranked_other" json:"rankedOther"`
	Unranked    float64    `mapstructure:"unranked" json:"unranked"`
}

type FieldScores struct {
	HighDemand float64 `mapstructure:"high_demand" json:"highDemand"`
	General    float64 `mapstructure:"general" json:"general"`
	Niche      float64 `mapstructure:"niche" json:"niche"`
	Other      float64 `mapstructure:"other" json:"other"`
}

type EducationTable struct {
	DegreeWeight      float64           `mapstructure:"degree_weight" json:"degreeWeight"`
	InstitutionWeight float64           `mapstructure:"institution_weight" json:"institutionWeight"`
	FieldWeight       float64           `mapstructure:"field_weight" json:"fieldWeight"`
	Degree            DegreeScores      `mapstructure:"degree" json:"degree"`
	Institution       InstitutionScores `mapstructure:"institution" json:"institution"`
	Field             FieldScores       `mapstructure:"field" json:"field"`
}

type ExperienceTable struct {
	YearsWeight          float64    `mapstructure:"years_weight" json:"yearsWeight"`
	LeadershipWeight     float64    `mapstructure:"leadership_weight" json:"leadershipWeight"`
	SpecializationWeight float64    `mapstructure:"specialization_weight" json:"specializationWeight"`
	Years                Ladder     `mapstructure:"years" json:"years"`
	Leadership           FlagScores `mapstructure:"leadership" json:"leadership"`
	Specialization       FlagScores `mapstructure:"specialization" json:"specialization"`
}

// AchievementsTable is additive: Base plus one bonus per evidence type.
type AchievementsTable struct {
	Base         float64 `mapstructure:"base" json:"base"`
	Publications Ladder  `mapstructure:"publications" json:"publications"`
	Patents      Ladder  `mapstructure:"patents" json:"patents"`
	Projects     Ladder  `mapstructure:"projects" json:"projects"`
	Citations    Ladder  `mapstructure:"citations" json:"citations"`
}

type RecognitionTable struct {
	Base        float64 `mapstructure:"base" json:"base"`
	Awards      Ladder  `mapstructure:"awards" json:"awards"`
	Speaking    Ladder  `mapstructure:"speaking" json:"speaking"`
	Memberships Ladder  `mapstructure:"memberships" json:"memberships"`
}

type AdvancedDegreeTable struct {
	PhD              float64    `mapstructure:"phd" json:"phd"`
	Masters          float64    `mapstructure:"masters" json:"masters"`
	Other            float64    `mapstructure:"other" json:"other"`
	BachelorsByYears Ladder     `mapstructure:"bachelors_by_years" json:"bachelorsByYears"`
	RankBonuses      []RankTier `mapstructure:"rank_bonuses" json:"rankBonuses"`
	StemBonus        float64    `mapstructure:"stem_bonus" json:"stemBonus"`
}

type ExceptionalAbilityTable struct {
	// Tiers maps the number of fully met criteria to the route score.
	Tiers                   Ladder  `mapstructure:"tiers" json:"tiers"`
	PartialCredit           float64 `mapstructure:"partial_credit" json:"partialCredit"`
	PartialPromotionAt      float64 `mapstructure:"partial_promotion_at" json:"partialPromotionAt"`
	YearsFull               int     `mapstructure:"years_full" json:"yearsFull"`
	YearsPartial            int     `mapstructure:"years_partial" json:"yearsPartial"`
	SalaryPercentileFull    int     `mapstructure:"salary_percentile_full" json:"salaryPercentileFull"`
	SalaryPercentilePartial int     `mapstructure:"salary_percentile_partial" json:"salaryPercentilePartial"`
	SalaryAmountFull        float64 `mapstructure:"salary_amount_full" json:"salaryAmountFull"`
	MembershipsFull         int     `mapstructure:"memberships_full" json:"membershipsFull"`
	AwardsFull              int     `mapstructure:"awards_full" json:"awardsFull"`
}

// GapTable buckets the difference between the two route scores.
type GapTable struct {
	Slight   float64 `mapstructure:"slight" json:"slight"`
	Moderate float64 `mapstructure:"moderate" json:"moderate"`
}

// EvidenceThresholds defines the strong and moderate achievement tiers shared by the
// waiver sub-criteria.
type EvidenceThresholds struct {
	StrongPublications   int `mapstructure:"strong_publications" json:"strongPublications"`
	StrongPatents        int `mapstructure:"strong_patents" json:"strongPatents"`
	StrongAwards         int `mapstructure:"strong_awards" json:"strongAwards"`
	ModeratePublications int `mapstructure:"moderate_publications" json:"moderatePublications"`
	ModeratePatents      int `mapstructure:"moderate_patents" json:"moderatePatents"`
	ModerateAwards       int `mapstructure:"moderate_awards" json:"moderateAwards"`
}

type MeritTable struct {
	RelevanceWeight       float64 `mapstructure:"relevance_weight" json:"relevanceWeight"`
	ImpactWeight          float64 `mapstructure:"impact_weight" json:"impactWeight"`
	EvidenceWeight        float64 `mapstructure:"evidence_weight" json:"evidenceWeight"`
	ScopeWeight           float64 `mapstructure:"scope_weight" json:"scopeWeight"`
	ClarityWeight         float64 `mapstructure:"clarity_weight" json:"clarityWeight"`
	HighRelevance         float64 `mapstructure:"high_relevance" json:"highRelevance"`
	SignificantRelevance  float64 `mapstructure:"significant_relevance" json:"significantRelevance"`
	ImportanceLength      Ladder  `mapstructure:"importance_length" json:"importanceLength"`
	BroadScope            float64 `mapstructure:"broad_scope" json:"broadScope"`
	SignificantScope      float64 `mapstructure:"significant_scope" json:"significantScope"`
	LimitedScope          float64 `mapstructure:"limited_scope" json:"limitedScope"`
	Clarity               Ladder  `mapstructure:"clarity" json:"clarity"`
	StrongEvidence        float64 `mapstructure:"strong_evidence" json:"strongEvidence"`
	ModerateEvidence      float64 `mapstructure:"moderate_evidence" json:"moderateEvidence"`
	WeakEvidence          float64 `mapstructure:"weak_evidence" json:"weakEvidence"`
}

type WellPositionedTable struct {
	QualificationWeight  float64      `mapstructure:"qualification_weight" json:"qualificationWeight"`
	SuccessWeight        float64      `mapstructure:"success_weight" json:"successWeight"`
	PlanWeight           float64      `mapstructure:"plan_weight" json:"planWeight"`
	QualificationDegree  DegreeScores `mapstructure:"qualification_degree" json:"qualificationDegree"`
	QualificationYears   Ladder       `mapstructure:"qualification_years" json:"qualificationYears"`
	SpecializationBonus  float64      `mapstructure:"specialization_bonus" json:"specializationBonus"`
	SuccessPublications  Ladder       `mapstructure:"success_publications" json:"successPublications"`
	SuccessPatents       Ladder       `mapstructure:"success_patents" json:"successPatents"`
	SuccessProjects      Ladder       `mapstructure:"success_projects" json:"successProjects"`
	RecognitionStrong    float64      `mapstructure:"recognition_strong" json:"recognitionStrong"`
	RecognitionModerate  float64      `mapstructure:"recognition_moderate" json:"recognitionModerate"`
	StrongSpeaking       int          `mapstructure:"strong_speaking" json:"strongSpeaking"`
	ModerateSpeaking     int          `mapstructure:"moderate_speaking" json:"moderateSpeaking"`
	PlanLength           Ladder       `mapstructure:"plan_length" json:"planLength"`
	PlanLeadershipBonus  float64      `mapstructure:"plan_leadership_bonus" json:"planLeadershipBonus"`
	PlanSeniorityBonus   float64      `mapstructure:"plan_seniority_bonus" json:"planSeniorityBonus"`
	PlanSeniorityYears   int          `mapstructure:"plan_seniority_years" json:"planSeniorityYears"`
}

type BenefitTable struct {
	UrgencyWeight         float64      `mapstructure:"urgency_weight" json:"urgencyWeight"`
	ImpracticalityWeight  float64      `mapstructure:"impracticality_weight" json:"impracticalityWeight"`
	BenefitWeight         float64      `mapstructure:"benefit_weight" json:"benefitWeight"`
	InnerUrgency          float64      `mapstructure:"inner_urgency" json:"innerUrgency"`
	InnerImpracticality   float64      `mapstructure:"inner_impracticality" json:"innerImpracticality"`
	InnerProfile          float64      `mapstructure:"inner_profile" json:"innerProfile"`
	KeywordCount          Ladder       `mapstructure:"keyword_count" json:"keywordCount"`
	LengthFallback        Ladder       `mapstructure:"length_fallback" json:"lengthFallback"`
	ProfileDegree         DegreeScores `mapstructure:"profile_degree" json:"profileDegree"`
	ProfileYears          Ladder       `mapstructure:"profile_years" json:"profileYears"`
	ProfileStrongEvidence float64      `mapstructure:"profile_strong_evidence" json:"profileStrongEvidence"`
	ProfileModerate       float64      `mapstructure:"profile_moderate_evidence" json:"profileModerateEvidence"`
}

type WaiverTable struct {
	MeritWeight          float64             `mapstructure:"merit_weight" json:"meritWeight"`
	WellPositionedWeight float64             `mapstructure:"well_positioned_weight" json:"wellPositionedWeight"`
	BenefitWeight        float64             `mapstructure:"benefit_weight" json:"benefitWeight"`
	Evidence             EvidenceThresholds  `mapstructure:"evidence" json:"evidence"`
	Merit                MeritTable          `mapstructure:"merit" json:"merit"`
	WellPositioned       WellPositionedTable `mapstructure:"well_positioned" json:"wellPositioned"`
	Benefit              BenefitTable        `mapstructure:"benefit" json:"benefit"`
}

// KeywordTable holds every curated term list. Matching is case-insensitive substring.
type KeywordTable struct {
	StemHighDemand        []string `mapstructure:"stem_high_demand" json:"stemHighDemand"`
	StemGeneral           []string `mapstructure:"stem_general" json:"stemGeneral"`
	Niche                 []string `mapstructure:"niche" json:"niche"`
	HighImportance        []string `mapstructure:"high_importance" json:"highImportance"`
	SignificantImportance []string `mapstructure:"significant_importance" json:"significantImportance"`
	BroadScope            []string `mapstructure:"broad_scope" json:"broadScope"`
	SignificantScope      []string `mapstructure:"significant_scope" json:"significantScope"`
	Urgency               []string `mapstructure:"urgency" json:"urgency"`
	Impracticality        []string `mapstructure:"impracticality" json:"impracticality"`
}

type CombinationTable struct {
	RouteWeight  float64 `mapstructure:"route_weight" json:"routeWeight"`
	WaiverWeight float64 `mapstructure:"waiver_weight" json:"waiverWeight"`
	Precision    int     `mapstructure:"precision" json:"precision"`
}

// ViabilityThresholds are the lower bounds, on the 0-100 scale, of each level above
// INSUFFICIENT.
type ViabilityThresholds struct {
	Challenging float64 `mapstructure:"challenging" json:"CHALLENGING"`
	Promising   float64 `mapstructure:"promising" json:"PROMISING"`
	Strong      float64 `mapstructure:"strong" json:"STRONG"`
	Excellent   float64 `mapstructure:"excellent" json:"EXCELLENT"`
}

type FindingsTable struct {
	StrengthThreshold float64 `mapstructure:"strength_threshold" json:"strengthThreshold"`
	WeaknessThreshold float64 `mapstructure:"weakness_threshold" json:"weaknessThreshold"`
}

type RecommendationTable struct {
	Max                     int     `mapstructure:"max" json:"max"`
	CorrelatedCategoryBelow float64 `mapstructure:"correlated_category_below" json:"correlatedCategoryBelow"`
	SecondaryCategoryBelow  float64 `mapstructure:"secondary_category_below" json:"secondaryCategoryBelow"`
}

// GuidanceTable holds the estimated processing time, in months, for each level.
type GuidanceTable struct {
	Excellent    int `mapstructure:"excellent_months" json:"EXCELLENT"`
	Strong       int `mapstructure:"strong_months" json:"STRONG"`
	Promising    int `mapstructure:"promising_months" json:"PROMISING"`
	Challenging  int `mapstructure:"challenging_months" json:"CHALLENGING"`
	Insufficient int `mapstructure:"insufficient_months" json:"INSUFFICIENT"`
}

// DefaultConfig returns the canonical scoring tables.
func DefaultConfig() Config {
	return Config{
		Education: EducationTable{
			DegreeWeight:      0.50,
			InstitutionWeight: 0.20,
			FieldWeight:       0.30,
			Degree:            DegreeScores{PhD: 1.0, Masters: 0.8, Bachelors: 0.5, Other: 0.2},
			Institution: InstitutionScores{
				Tiers:       []RankTier{{AtMost: 50, Value: 1.0}, {AtMost: 200, Value: 0.8}},
				RankedOther: 0.6,
				Unranked:    0.4,
			},
			Field: FieldScores{HighDemand: 1.0, General: 0.8, Niche: 0.7, Other: 0.5},
		},
		Experience: ExperienceTable{
			YearsWeight:          0.40,
			LeadershipWeight:     0.30,
			SpecializationWeight: 0.30,
			Years: Ladder{
				Steps:     []Step{{10, 1.0}, {7, 0.8}, {4, 0.6}, {1, 0.4}},
				Otherwise: 0.2,
			},
			Leadership:     FlagScores{Yes: 0.6, No: 0.2},
			Specialization: FlagScores{Yes: 0.7, No: 0.3},
		},
		Achievements: AchievementsTable{
			Base:         0.3,
			Publications: Ladder{Steps: []Step{{10, 0.3}, {5, 0.2}, {1, 0.1}}},
			Patents:      Ladder{Steps: []Step{{3, 0.2}, {1, 0.1}}},
			Projects:     Ladder{Steps: []Step{{3, 0.2}, {1, 0.1}}},
			Citations:    Ladder{Steps: []Step{{100, 0.1}}},
		},
		Recognition: RecognitionTable{
			Base:        0.3,
			Awards:      Ladder{Steps: []Step{{3, 0.3}, {1, 0.2}}},
			Speaking:    Ladder{Steps: []Step{{5, 0.2}, {2, 0.1}}},
			Memberships: Ladder{Steps: []Step{{2, 0.2}, {1, 0.1}}},
		},
		AdvancedDegree: AdvancedDegreeTable{
			PhD:              1.0,
			Masters:          0.9,
			Other:            0,
			BachelorsByYears: Ladder{Steps: []Step{{7, 0.45}, {5, 0.40}}},
			RankBonuses:      []RankTier{{AtMost: 50, Value: 0.10}, {AtMost: 100, Value: 0.05}},
			StemBonus:        0.05,
		},
		ExceptionalAbility: ExceptionalAbilityTable{
			Tiers: Ladder{
				Steps:     []Step{{5, 1.0}, {4, 0.9}, {3, 0.8}, {2, 0.5}},
				Otherwise: 0.2,
			},
			PartialCredit:           0.5,
			PartialPromotionAt:      1.0,
			YearsFull:               10,
			YearsPartial:            5,
			SalaryPercentileFull:    75,
			SalaryPercentilePartial: 50,
			SalaryAmountFull:        100000,
			MembershipsFull:         2,
			AwardsFull:              2,
		},
		RouteGap: GapTable{Slight: 0.10, Moderate: 0.20},
		Waiver: WaiverTable{
			MeritWeight:          0.35,
			WellPositionedWeight: 0.35,
			BenefitWeight:        0.30,
			Evidence: EvidenceThresholds{
				StrongPublications:   10,
				StrongPatents:        3,
				StrongAwards:         3,
				ModeratePublications: 5,
				ModeratePatents:      1,
				ModerateAwards:       1,
			},
			Merit: MeritTable{
				RelevanceWeight:      0.4,
				ImpactWeight:         0.4,
				EvidenceWeight:       0.2,
				ScopeWeight:          0.6,
				ClarityWeight:        0.4,
				HighRelevance:        1.0,
				SignificantRelevance: 0.8,
				ImportanceLength: Ladder{
					Steps:     []Step{{301, 0.7}, {151, 0.6}, {1, 0.5}},
					Otherwise: 0.3,
				},
				BroadScope:        1.0,
				SignificantScope:  0.8,
				LimitedScope:      0.6,
				Clarity: Ladder{
					Steps:     []Step{{301, 1.0}, {151, 0.8}},
					Otherwise: 0.6,
				},
				StrongEvidence:   1.0,
				ModerateEvidence: 0.7,
				WeakEvidence:     0.4,
			},
			WellPositioned: WellPositionedTable{
				QualificationWeight: 0.35,
				SuccessWeight:       0.35,
				PlanWeight:          0.30,
				QualificationDegree: DegreeScores{PhD: 1.0, Masters: 0.8, Bachelors: 0.6, Other: 0.3},
				QualificationYears:  Ladder{Steps: []Step{{10, 0.2}, {7, 0.1}}},
				SpecializationBonus: 0.1,
				SuccessPublications: Ladder{Steps: []Step{{10, 0.4}, {5, 0.3}, {1, 0.2}}},
				SuccessPatents:      Ladder{Steps: []Step{{3, 0.3}, {1, 0.2}}},
				SuccessProjects:     Ladder{Steps: []Step{{3, 0.3}, {1, 0.2}}},
				RecognitionStrong:   0.3,
				RecognitionModerate: 0.2,
				StrongSpeaking:      5,
				ModerateSpeaking:    2,
				PlanLength: Ladder{
					Steps:     []Step{{401, 0.7}, {201, 0.5}, {101, 0.3}},
					Otherwise: 0.1,
				},
				PlanLeadershipBonus: 0.3,
				PlanSeniorityBonus:  0.2,
				PlanSeniorityYears:  7,
			},
			Benefit: BenefitTable{
				UrgencyWeight:        0.4,
				ImpracticalityWeight: 0.3,
				BenefitWeight:        0.3,
				InnerUrgency:         0.4,
				InnerImpracticality:  0.3,
				InnerProfile:         0.3,
				KeywordCount: Ladder{
					Steps: []Step{{3, 1.0}, {2, 0.8}, {1, 0.7}},
				},
				LengthFallback: Ladder{
					Steps:     []Step{{301, 0.6}, {151, 0.5}},
					Otherwise: 0.3,
				},
				ProfileDegree:         DegreeScores{PhD: 0.4, Masters: 0.3},
				ProfileYears:          Ladder{Steps: []Step{{10, 0.3}, {7, 0.2}}},
				ProfileStrongEvidence: 0.3,
				ProfileModerate:       0.2,
			},
		},
		Keywords: KeywordTable{
			StemHighDemand: []string{
				"computer", "software", "data", "artificial intelligence",
				"machine learning", "quantum", "robotics",
			},
			StemGeneral: []string{
				"math", "physics", "chemistry", "biology", "medicine",
				"technology", "science", "engineering",
			},
			Niche: []string{"art", "business", "humanities", "social"},
			HighImportance: []string{
				"health", "healthcare", "medicine", "medical", "cybersecurity",
				"renewable energy", "clean energy", "artificial intelligence", "security",
				"defense", "biotechnology", "climate", "pandemic", "cancer",
				"saúde", "medicina", "segurança", "energia renovável", "inteligência artificial",
			},
			SignificantImportance: []string{
				"education", "technology", "innovation", "agriculture", "infrastructure",
				"economy", "economic", "manufacturing", "transportation",
				"educação", "tecnologia", "inovação", "economia",
			},
			BroadScope: []string{
				"national", "nationwide", "all americans", "country", "united states",
				"population", "millions",
			},
			SignificantScope: []string{
				"industry", "sector", "community", "communities", "many", "significant",
				"substantial",
			},
			Urgency: []string{
				"urgent", "critical", "immediate", "shortage", "gap", "needed",
				"essential", "priority", "demand", "crisis",
				"urgente", "crítico", "imediato", "escassez", "lacuna", "necessário",
				"essencial", "prioridade", "demanda", "crise",
			},
			Impracticality: []string{
				"impractical", "difficult", "challenging", "impossible", "barrier",
				"obstacle", "unique", "singular", "rare", "scarce", "self-employed",
				"entrepreneur", "freelance",
				"impraticável", "difícil", "desafiador", "impossível", "barreira", "obstáculo",
				"único", "raro", "escasso", "autônomo", "empreendedor",
			},
		},
		Combination: CombinationTable{RouteWeight: 0.4, WaiverWeight: 0.6, Precision: 2},
		Viability: ViabilityThresholds{
			Challenging: 40,
			Promising:   55,
			Strong:      70,
			Excellent:   85,
		},
		Findings: FindingsTable{StrengthThreshold: 0.7, WeaknessThreshold: 0.5},
		Recommendations: RecommendationTable{
			Max:                     7,
			CorrelatedCategoryBelow: 0.7,
			SecondaryCategoryBelow:  0.6,
		},
		Guidance: GuidanceTable{
			Excellent:    6,
			Strong:       8,
			Promising:    10,
			Challenging:  12,
			Insufficient: 12,
		},
	}
}

// LoadConfig merges the YAML tables at path over DefaultConfig and validates the result.
// An empty path yields the validated defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, &ConfigurationError{Problems: []string{fmt.Sprintf("read %s: %v", path, err)}}
		}
		// lists in the file replace the default lists instead of merging index by index
		replaceLists := func(dc *mapstructure.DecoderConfig) { dc.ZeroFields = true }
		if err := v.Unmarshal(&cfg, replaceLists); err != nil {
			return Config{}, &ConfigurationError{Problems: []string{fmt.Sprintf("decode %s: %v", path, err)}}
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks weight sums, score ranges, step ordering and threshold ordering.
func (c Config) Validate() error {
	e := &ConfigurationError{}

	sums := []struct {
		name    string
		weights []float64
	}{
		{"education weights", []float64{c.Education.DegreeWeight, c.Education.InstitutionWeight, c.Education.FieldWeight}},
		{"experience weights", []float64{c.Experience.YearsWeight, c.Experience.LeadershipWeight, c.Experience.SpecializationWeight}},
		{"waiver weights", []float64{c.Waiver.MeritWeight, c.Waiver.WellPositionedWeight, c.Waiver.BenefitWeight}},
		{"merit weights", []float64{c.Waiver.Merit.RelevanceWeight, c.Waiver.Merit.ImpactWeight, c.Waiver.Merit.EvidenceWeight}},
		{"merit impact weights", []float64{c.Waiver.Merit.ScopeWeight, c.Waiver.Merit.ClarityWeight}},
		{"well-positioned weights", []float64{c.Waiver.WellPositioned.QualificationWeight, c.Waiver.WellPositioned.SuccessWeight, c.Waiver.WellPositioned.PlanWeight}},
		{"benefit weights", []float64{c.Waiver.Benefit.UrgencyWeight, c.Waiver.Benefit.ImpracticalityWeight, c.Waiver.Benefit.BenefitWeight}},
		{"benefit inner weights", []float64{c.Waiver.Benefit.InnerUrgency, c.Waiver.Benefit.InnerImpracticality, c.Waiver.Benefit.InnerProfile}},
		{"combination weights", []float64{c.Combination.RouteWeight, c.Combination.WaiverWeight}},
	}
	for _, s := range sums {
		total := 0.0
		for _, w := range s.weights {
			if w < 0 {
				e.addf("%s contain a negative weight", s.name)
			}
			total += w
		}
		if math.Abs(total-1.0) > weightTolerance {
			e.addf("%s sum to %.4f, want 1.0", s.name, total)
		}
	}

	ladders := []struct {
		name   string
		ladder Ladder
	}{
		{"experience.years", c.Experience.Years},
		{"achievements.publications", c.Achievements.Publications},
		{"achievements.patents", c.Achievements.Patents},
		{"achievements.projects", c.Achievements.Projects},
		{"achievements.citations", c.Achievements.Citations},
		{"recognition.awards", c.Recognition.Awards},
		{"recognition.speaking", c.Recognition.Speaking},
		{"recognition.memberships", c.Recognition.Memberships},
		{"advanced_degree.bachelors_by_years", c.AdvancedDegree.BachelorsByYears},
		{"exceptional_ability.tiers", c.ExceptionalAbility.Tiers},
		{"merit.importance_length", c.Waiver.Merit.ImportanceLength},
		{"merit.clarity", c.Waiver.Merit.Clarity},
		{"well_positioned.qualification_years", c.Waiver.WellPositioned.QualificationYears},
		{"well_positioned.success_publications", c.Waiver.WellPositioned.SuccessPublications},
		{"well_positioned.success_patents", c.Waiver.WellPositioned.SuccessPatents},
		{"well_positioned.success_projects", c.Waiver.WellPositioned.SuccessProjects},
		{"well_positioned.plan_length", c.Waiver.WellPositioned.PlanLength},
		{"benefit.keyword_count", c.Waiver.Benefit.KeywordCount},
		{"benefit.length_fallback", c.Waiver.Benefit.LengthFallback},
		{"benefit.profile_years", c.Waiver.Benefit.ProfileYears},
	}
	for _, l := range ladders {
		validateLadder(e, l.name, l.ladder)
	}

	validateRankTiers(e, "education.institution.tiers", c.Education.Institution.Tiers)
	validateRankTiers(e, "advanced_degree.rank_bonuses", c.AdvancedDegree.RankBonuses)

	keywordSets := []struct {
		name  string
		terms []string
	}{
		{"stem_high_demand", c.Keywords.StemHighDemand},
		{"stem_general", c.Keywords.StemGeneral},
		{"high_importance", c.Keywords.HighImportance},
		{"significant_importance", c.Keywords.SignificantImportance},
		{"broad_scope", c.Keywords.BroadScope},
		{"significant_scope", c.Keywords.SignificantScope},
		{"urgency", c.Keywords.Urgency},
		{"impracticality", c.Keywords.Impracticality},
	}
	for _, set := range keywordSets {
		if len(set.terms) == 0 {
			e.addf("keywords.%s is empty", set.name)
		}
		for _, k := range set.terms {
			if strings.TrimSpace(k) == "" {
				e.addf("keywords.%s contains a blank term", set.name)
				break
			}
		}
	}

	t := c.Viability
	if !(t.Challenging > 0 && t.Challenging < t.Promising && t.Promising < t.Strong && t.Strong < t.Excellent && t.Excellent <= 100) {
		e.addf("viability thresholds must increase strictly within (0,100]: %.2f/%.2f/%.2f/%.2f",
			t.Challenging, t.Promising, t.Strong, t.Excellent)
	}
	if !(c.Findings.WeaknessThreshold < c.Findings.StrengthThreshold) {
		e.addf("weakness threshold %.2f must be below strength threshold %.2f",
			c.Findings.WeaknessThreshold, c.Findings.StrengthThreshold)
	}
	if !(c.RouteGap.Slight > 0 && c.RouteGap.Slight < c.RouteGap.Moderate) {
		e.addf("route gap buckets must increase strictly")
	}
	if c.Recommendations.Max < 1 {
		e.addf("recommendations.max must be at least 1")
	}
	if c.Combination.Precision < 0 || c.Combination.Precision > 6 {
		e.addf("combination.precision must be within 0..6")
	}
	if c.ExceptionalAbility.YearsPartial >= c.ExceptionalAbility.YearsFull {
		e.addf("exceptional_ability.years_partial must be below years_full")
	}

	if len(e.Problems) > 0 {
		return e
	}
	return nil
}

func validateLadder(e *ConfigurationError, name string, l Ladder) {
	for i, s := range l.Steps {
		if s.Value < 0 || s.Value > 1 {
			e.addf("%s step %d value %.2f outside [0,1]", name, i, s.Value)
		}
		if i > 0 && s.AtLeast >= l.Steps[i-1].AtLeast {
			e.addf("%s steps must be in strictly descending order", name)
		}
	}
	if l.Otherwise < 0 || l.Otherwise > 1 {
		e.addf("%s fallback %.2f outside [0,1]", name, l.Otherwise)
	}
}

func validateRankTiers(e *ConfigurationError, name string, tiers []RankTier) {
	for i, t := range tiers {
		if t.AtMost < 1 {
			e.addf("%s tier %d must cover at least rank 1", name, i)
		}
		if i > 0 && t.AtMost <= tiers[i-1].AtMost {
			e.addf("%s tiers must be in strictly ascending rank order", name)
		}
	}
}
