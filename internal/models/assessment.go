// internal/models/assessment.go
package models

import (
	"time"

	"eb2niw-assessor/internal/eligibility"
)

// AssessmentRecord is one completed assessment together with the profile it was computed from.
type AssessmentRecord struct {
	ID               string                  `json:"id"`
	UserID           string                  `json:"userId,omitempty"`
	Profile          *eligibility.Profile    `json:"profile"`
	Result           *eligibility.Assessment `json:"result"`
	ProcessingTimeMs int64                   `json:"processingTimeMs"`
	Cached           bool                    `json:"cached"`
	CreatedAt        time.Time               `json:"createdAt"`
}

// HistoryEntry is the summary row returned for a user's past assessments, newest first.
type HistoryEntry struct {
	ID               string                     `json:"id"`
	UserID           string                     `json:"userId"`
	OverallScore     float64                    `json:"overallScore"`
	ViabilityLevel   eligibility.ViabilityLevel `json:"viabilityLevel"`
	RecommendedRoute eligibility.Route          `json:"recommendedRoute"`
	IsLatest         bool                       `json:"isLatest"`
	CreatedAt        time.Time                  `json:"createdAt"`
}

// AssessmentEvent is published once an assessment completes.
type AssessmentEvent struct {
	EventType        string                     `json:"eventType"`
	AssessmentID     string                     `json:"assessmentId"`
	UserID           string                     `json:"userId,omitempty"`
	OverallScore     float64                    `json:"overallScore"`
	ViabilityLevel   eligibility.ViabilityLevel `json:"viabilityLevel"`
	RecommendedRoute eligibility.Route          `json:"recommendedRoute"`
	OccurredAt       time.Time                  `json:"occurredAt"`
}

// SearchDocument is the analytics projection stored in the search index.
type SearchDocument struct {
	AssessmentID     string                     `json:"assessmentId"`
	UserID           string                     `json:"userId,omitempty"`
	OverallScore     float64                    `json:"overallScore"`
	ViabilityLevel   eligibility.ViabilityLevel `json:"viabilityLevel"`
	RecommendedRoute eligibility.Route          `json:"recommendedRoute"`
	HighestDegree    eligibility.Degree         `json:"highestDegree"`
	FieldOfStudy     string                     `json:"fieldOfStudy"`
	Scores           eligibility.CategoryScores `json:"scores"`
	NIWScore         float64                    `json:"niwScore"`
	CreatedAt        time.Time                  `json:"createdAt"`
}

// ViabilityStats aggregates indexed assessments by viability level.
type ViabilityStats struct {
	Total        int64            `json:"total"`
	ByLevel      map[string]int64 `json:"byLevel"`
	AverageScore float64          `json:"averageScore"`
}

// NewSearchDocument projects a record onto its indexed form.
func NewSearchDocument(rec *AssessmentRecord) SearchDocument {
	doc := SearchDocument{
		AssessmentID:     rec.ID,
		UserID:           rec.UserID,
		OverallScore:     rec.Result.OverallScore,
		ViabilityLevel:   rec.Result.ViabilityLevel,
		RecommendedRoute: rec.Result.Routes.RecommendedRoute,
		Scores:           rec.Result.Scores,
		NIWScore:         rec.Result.Waiver.Overall,
		CreatedAt:        rec.CreatedAt,
	}
	if rec.Profile != nil && rec.Profile.Education != nil {
		doc.HighestDegree = rec.Profile.Education.HighestDegree
		doc.FieldOfStudy = rec.Profile.Education.FieldOfStudy
	}
	return doc
}
