// internal/assessment/notify.go
package assessment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eb2niw-assessor/internal/common/aws"
	"eb2niw-assessor/internal/eligibility"
	"eb2niw-assessor/internal/models"

	"github.com/google/uuid"
)

const EventAssessmentCompleted = "assessment.completed"

// EventPublisher announces completed assessments to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event models.AssessmentEvent) error
}

// SummaryMailer e-mails an assessment summary to the applicant.
type SummaryMailer interface {
	SendSummary(ctx context.Context, to string, rec *models.AssessmentRecord) (*models.Notification, error)
}

type SNSEventPublisher struct {
	client *aws.SNSClient
}

func NewSNSEventPublisher(client *aws.SNSClient) *SNSEventPublisher {
	return &SNSEventPublisher{client: client}
}

func (p *SNSEventPublisher) Publish(ctx context.Context, event models.AssessmentEvent) error {
	_, err := p.client.PublishJSON(ctx, event.EventType, event)
	return err
}

func newCompletedEvent(rec *models.AssessmentRecord) models.AssessmentEvent {
	return models.AssessmentEvent{
		EventType:        EventAssessmentCompleted,
		AssessmentID:     rec.ID,
		UserID:           rec.UserID,
		OverallScore:     rec.Result.OverallScore,
		ViabilityLevel:   rec.Result.ViabilityLevel,
		RecommendedRoute: rec.Result.Routes.RecommendedRoute,
		OccurredAt:       rec.CreatedAt,
	}
}

type SESSummaryMailer struct {
	client *aws.SESClient
	now    func() time.Time
}

func NewSESSummaryMailer(client *aws.SESClient) *SESSummaryMailer {
	return &SESSummaryMailer{client: client, now: func() time.Time { return time.Now().UTC() }}
}

func (m *SESSummaryMailer) SendSummary(ctx context.Context, to string, rec *models.AssessmentRecord) (*models.Notification, error) {
	n := &models.Notification{
		ID:           uuid.NewString(),
		AssessmentID: rec.ID,
		RecipientID:  rec.UserID,
		Recipient:    to,
		Type:         "assessment_summary",
		Channel:      "email",
		Subject:      summarySubject(rec.Result),
	}

	msgID, err := m.client.SendText(ctx, to, n.Subject, summaryBody(rec))
	n.SentAt = m.now()
	if err != nil {
		n.Status = "failed"
		return n, err
	}
	n.Status = "sent"
	n.MessageID = msgID
	return n, nil
}

func summarySubject(a *eligibility.Assessment) string {
	return fmt.Sprintf("Your EB2-NIW eligibility assessment: %s (%.1f/100)", a.ViabilityLevel, a.OverallScore)
}

func summaryBody(rec *models.AssessmentRecord) string {
	a := rec.Result
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", a.Message)
	fmt.Fprintf(&b, "Overall score: %.2f/100\n", a.OverallScore)
	fmt.Fprintf(&b, "Viability: %s\n", a.ViabilityLevel)
	fmt.Fprintf(&b, "Recommended route: %s\n", a.Routes.RecommendedRoute)
	fmt.Fprintf(&b, "Estimated processing time: %d months\n", a.EstimatedProcessingMonths)

	writeList(&b, "Strengths", findingTexts(a.Strengths))
	writeList(&b, "Areas to improve", findingTexts(a.Weaknesses))

	recs := make([]string, len(a.Recommendations))
	for i, r := range a.Recommendations {
		recs[i] = r.Description
	}
	writeList(&b, "Recommendations", recs)
	writeList(&b, "Next steps", a.NextSteps)

	fmt.Fprintf(&b, "\nAssessment id: %s\n", rec.ID)
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}

func findingTexts(fs []eligibility.Finding) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Text
	}
	return out
}
