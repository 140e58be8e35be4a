// internal/assessment/helpers_test.go
package assessment

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"eb2niw-assessor/internal/common/logger"
	"eb2niw-assessor/internal/eligibility"
	"eb2niw-assessor/internal/models"

	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var (
	engineNow  = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	serviceNow = time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
)

func intPtr(v int) *int { return &v }

func createTestProfile() *eligibility.Profile {
	return &eligibility.Profile{
		Education: &eligibility.Education{
			HighestDegree:        eligibility.DegreePhD,
			FieldOfStudy:         "Computer Science",
			UniversityRanking:    intPtr(40),
			YearsSinceGraduation: 5,
		},
		Experience: &eligibility.Experience{
			YearsOfExperience:     7,
			LeadershipRoles:       true,
			SpecializedExperience: true,
		},
		Achievements: &eligibility.Achievements{
			PublicationsCount: 12,
			PatentsCount:      1,
			ProjectsLed:       2,
			CitationsCount:    300,
		},
		Recognition: &eligibility.Recognition{
			AwardsCount:         2,
			SpeakingInvitations: 4,
		},
		IntendedWork: &eligibility.IntendedWork{
			ProposedWork:       "Develop open tooling that protects regional power grids from intrusions.",
			FieldOfWork:        "Cybersecurity",
			NationalImportance: "Grid attacks are a national security threat.",
		},
	}
}

func newTestEngine(t *testing.T) *eligibility.Engine {
	t.Helper()
	e, err := eligibility.New(eligibility.DefaultConfig(), eligibility.WithClock(func() time.Time { return engineNow }))
	require.NoError(t, err)
	return e
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	ids := 0
	base := []Option{
		WithClock(func() time.Time { return serviceNow }),
		WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("assessment-%d", ids)
		}),
	}
	return NewService(newTestEngine(t), logger.NewTestLogger(t), append(base, opts...)...)
}

func newTestRecord(t *testing.T) *models.AssessmentRecord {
	t.Helper()
	p := createTestProfile()
	a, err := newTestEngine(t).Evaluate(p)
	require.NoError(t, err)
	return &models.AssessmentRecord{
		ID:               "6f1c2d4e-0000-4000-8000-000000000001",
		UserID:           "user-1",
		Profile:          p,
		Result:           a,
		ProcessingTimeMs: 3,
		CreatedAt:        a.CreatedAt,
	}
}

// ==========================
// Fakes
// ==========================

type fakeRepository struct {
	mu         sync.Mutex
	saved      []*models.AssessmentRecord
	saveErr    error
	history    []models.HistoryEntry
	historyErr error
	lastLimit  int
}

func (f *fakeRepository) SaveLatest(_ context.Context, rec *models.AssessmentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeRepository) History(_ context.Context, _ string, limit int) ([]models.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	return f.history, f.historyErr
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]eligibility.Assessment
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]eligibility.Assessment)}
}

func (f *fakeCache) Get(_ context.Context, key string) (*eligibility.Assessment, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	a, ok := f.entries[key]
	if !ok {
		return nil, false, nil
	}
	return &a, true, nil
}

func (f *fakeCache) Set(_ context.Context, key string, a *eligibility.Assessment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = *a
	return nil
}

type fakeIndexer struct {
	mu       sync.Mutex
	indexed  []string
	stats    *models.ViabilityStats
	statsErr error
}

func (f *fakeIndexer) Index(_ context.Context, rec *models.AssessmentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, rec.ID)
	return nil
}

func (f *fakeIndexer) Stats(context.Context) (*models.ViabilityStats, error) {
	return f.stats, f.statsErr
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.AssessmentEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event models.AssessmentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeMailer) SendSummary(_ context.Context, to string, rec *models.AssessmentRecord) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return &models.Notification{AssessmentID: rec.ID, Recipient: to, Status: "sent", MessageID: "msg-1"}, nil
}
