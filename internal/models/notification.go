// internal/models/notification.go
package models

import "time"

// Notification records one outbound message about an assessment.
type Notification struct {
	ID           string    `json:"id"`
	AssessmentID string    `json:"assessmentId"`
	RecipientID  string    `json:"recipientId,omitempty"`
	Recipient    string    `json:"recipient"`
	Type         string    `json:"type"`    // "assessment_summary"
	Channel      string    `json:"channel"` // "email"
	Status       string    `json:"status"`  // "sent", "failed"
	Subject      string    `json:"subject"`
	MessageID    string    `json:"messageId,omitempty"`
	SentAt       time.Time `json:"sentAt"`
}
