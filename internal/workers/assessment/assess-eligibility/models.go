// internal/workers/assessment/assess-eligibility/models.go
package assesseligibility

import "eb2niw-assessor/internal/eligibility"

type Input struct {
	Profile     *eligibility.Profile `json:"profile"`
	UserID      string               `json:"userId,omitempty"`
	NotifyEmail string               `json:"notifyEmail,omitempty"`
}

type Output struct {
	AssessmentID              string  `json:"assessmentId"`
	OverallScore              float64 `json:"overallScore"`
	ViabilityLevel            string  `json:"viabilityLevel"`
	Viability                 string  `json:"viability"`
	RecommendedRoute          string  `json:"recommendedRoute"`
	NIWScore                  float64 `json:"niwScore"`
	Probability               float64 `json:"probability"`
	EstimatedProcessingMonths int     `json:"estimatedProcessingMonths"`
	CreatedAt                 string  `json:"createdAt"` // ISO 8601
}
