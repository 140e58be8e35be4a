// internal/api/dto.go
package api

import (
	"time"

	"eb2niw-assessor/internal/eligibility"
	"eb2niw-assessor/internal/models"
)

// assessRequest is the body of POST /assess: the profile plus request options.
type assessRequest struct {
	UserID      string `json:"userId,omitempty"`
	NotifyEmail string `json:"notifyEmail,omitempty"`
	eligibility.Profile
}

// ScoreSummary carries the category scores plus the overall score on the same 0-1 scale.
type ScoreSummary struct {
	Education    float64 `json:"education"`
	Experience   float64 `json:"experience"`
	Achievements float64 `json:"achievements"`
	Recognition  float64 `json:"recognition"`
	Overall      float64 `json:"overall"`
}

// AssessmentResponse is returned by POST /assess. Viability, Probability and the plain
// Recommendations list keep older clients working.
type AssessmentResponse struct {
	ID                      string                       `json:"id"`
	UserID                  string                       `json:"userId,omitempty"`
	CreatedAt               time.Time                    `json:"createdAt"`
	Score                   ScoreSummary                 `json:"score"`
	EB2Route                eligibility.RouteEvaluation  `json:"eb2Route"`
	NIWEvaluation           eligibility.WaiverEvaluation `json:"niwEvaluation"`
	ViabilityLevel          eligibility.ViabilityLevel   `json:"viabilityLevel"`
	OverallScore            float64                      `json:"overallScore"`
	Viability               string                       `json:"viability"`
	Probability             float64                      `json:"probability"`
	Strengths               []string                     `json:"strengths"`
	Weaknesses              []string                     `json:"weaknesses"`
	Recommendations         []string                     `json:"recommendations"`
	DetailedRecommendations []eligibility.Recommendation `json:"detailedRecommendations"`
	NextSteps               []string                     `json:"nextSteps"`
	Message                 string                       `json:"message"`
	EstimatedProcessingTime int                          `json:"estimatedProcessingTime"`
	Cached                  bool                         `json:"cached"`
}

func newAssessmentResponse(rec *models.AssessmentRecord) AssessmentResponse {
	a := rec.Result
	recs := make([]string, len(a.Recommendations))
	for i, r := range a.Recommendations {
		recs[i] = r.Description
	}

	return AssessmentResponse{
		ID:        rec.ID,
		UserID:    rec.UserID,
		CreatedAt: rec.CreatedAt,
		Score: ScoreSummary{
			Education:    a.Scores.Education,
			Experience:   a.Scores.Experience,
			Achievements: a.Scores.Achievements,
			Recognition:  a.Scores.Recognition,
			Overall:      eligibility.Probability(a.OverallScore),
		},
		EB2Route:                a.Routes,
		NIWEvaluation:           a.Waiver,
		ViabilityLevel:          a.ViabilityLevel,
		OverallScore:            a.OverallScore,
		Viability:               eligibility.LegacyViability(a.ViabilityLevel),
		Probability:             eligibility.Probability(a.OverallScore),
		Strengths:               findingTexts(a.Strengths),
		Weaknesses:              findingTexts(a.Weaknesses),
		Recommendations:         recs,
		DetailedRecommendations: nonNil(a.Recommendations),
		NextSteps:               nonNil(a.NextSteps),
		Message:                 a.Message,
		EstimatedProcessingTime: a.EstimatedProcessingMonths,
		Cached:                  rec.Cached,
	}
}

func findingTexts(fs []eligibility.Finding) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Text
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// HistoryResponse is returned by GET /history/{userId}.
type HistoryResponse struct {
	UserID      string                `json:"userId"`
	Assessments []models.HistoryEntry `json:"assessments"`
}

type criterionInfo struct {
	Description string  `json:"description"`
	Weight      float64 `json:"weight,omitempty"`
}

type viabilityInfo struct {
	MinScore    float64 `json:"minScore"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
}

// InfoResponse describes the assessment methodology.
type InfoResponse struct {
	Categories     map[string]criterionInfo `json:"categories"`
	Routes         map[string]string        `json:"routes"`
	WaiverCriteria map[string]criterionInfo `json:"niwCriteria"`
	Combination    map[string]float64       `json:"combination"`
	Viability      map[string]viabilityInfo `json:"viabilityLevels"`
}

func newInfoResponse(cfg eligibility.Config) InfoResponse {
	t := cfg.Viability
	return InfoResponse{
		Categories: map[string]criterionInfo{
			"education":    {Description: "Highest degree, institution ranking and field of study"},
			"experience":   {Description: "Years of professional experience, leadership roles and specialization"},
			"achievements": {Description: "Publications, patents, projects led and citations"},
			"recognition":  {Description: "Awards, speaking invitations and professional memberships"},
		},
		Routes: map[string]string{
			string(eligibility.RouteAdvancedDegree):     "Master's degree or higher, or a bachelor's degree followed by five years of progressive experience",
			string(eligibility.RouteExceptionalAbility): "At least three of the six regulatory criteria of exceptional ability",
		},
		WaiverCriteria: map[string]criterionInfo{
			"meritImportance": {Description: "The proposed endeavor has substantial merit and national importance", Weight: cfg.Waiver.MeritWeight},
			"wellPositioned":  {Description: "The applicant is well positioned to advance the proposed endeavor", Weight: cfg.Waiver.WellPositionedWeight},
			"benefitWaiver":   {Description: "On balance it would benefit the United States to waive the job offer", Weight: cfg.Waiver.BenefitWeight},
		},
		Combination: map[string]float64{
			"routeWeight":  cfg.Combination.RouteWeight,
			"waiverWeight": cfg.Combination.WaiverWeight,
		},
		Viability: map[string]viabilityInfo{
			string(eligibility.ViabilityExcellent):    {MinScore: t.Excellent, Label: eligibility.LegacyViability(eligibility.ViabilityExcellent), Description: "Ready to file"},
			string(eligibility.ViabilityStrong):       {MinScore: t.Strong, Label: eligibility.LegacyViability(eligibility.ViabilityStrong), Description: "Competitive with minor improvements"},
			string(eligibility.ViabilityPromising):    {MinScore: t.Promising, Label: eligibility.LegacyViability(eligibility.ViabilityPromising), Description: "Viable after targeted improvements"},
			string(eligibility.ViabilityChallenging):  {MinScore: t.Challenging, Label: eligibility.LegacyViability(eligibility.ViabilityChallenging), Description: "Significant gaps to close before filing"},
			string(eligibility.ViabilityInsufficient): {MinScore: 0, Label: eligibility.LegacyViability(eligibility.ViabilityInsufficient), Description: "Requirements not yet met"},
		},
	}
}

// ConfigResponse exposes the active scoring tables and rule catalog.
type ConfigResponse struct {
	Scoring eligibility.Config  `json:"scoring"`
	Rules   eligibility.Catalog `json:"rules"`
}

type statusResponse struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Checks map[string]string `json:"checks,omitempty"`
}
