// internal/assessment/service.go
package assessment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "eb2niw-assessor/internal/common/errors"
	"eb2niw-assessor/internal/common/logger"
	"eb2niw-assessor/internal/common/metrics"
	"eb2niw-assessor/internal/eligibility"
	"eb2niw-assessor/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxHistoryLimit = 50

// Telemetry is implemented by observability.Observability.
type Telemetry interface {
	StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span)
	RecordAssessment(ctx context.Context, viabilityLevel, route string, cached bool)
	RecordAssessmentDuration(ctx context.Context, duration time.Duration, status string)
}

// Request is one assessment submission.
type Request struct {
	Profile     *eligibility.Profile
	UserID      string
	NotifyEmail string
}

type Service struct {
	engine    *eligibility.Engine
	repo      Repository
	cache     ResultCache
	indexer   Indexer
	events    EventPublisher
	mailer    SummaryMailer
	telemetry Telemetry
	logger    logger.Logger

	persistTimeout time.Duration
	sideTimeout    time.Duration
	historyLimit   int
	now            func() time.Time
	newID          func() string

	pending sync.WaitGroup
}

type Option func(*Service)

func WithRepository(r Repository) Option { return func(s *Service) { s.repo = r } }
func WithCache(c ResultCache) Option { return func(s *Service) { s.cache = c } }
func WithIndexer(i Indexer) Option { return func(s *Service) { s.indexer = i } }
func WithEventPublisher(p EventPublisher) Option { return func(s *Service) { s.events = p } }
func WithMailer(m SummaryMailer) Option { return func(s *Service) { s.mailer = m } }
func WithTelemetry(t Telemetry) Option { return func(s *Service) { s.telemetry = t } }

func WithPersistTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.persistTimeout = d
		}
	}
}

func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithClock sets the time source for createdAt stamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithIDGenerator replaces uuid generation.
func WithIDGenerator(f func() string) Option { return func(s *Service) { s.newID = f } }

// NewService builds the assessment service. Every collaborator except the engine is optional.
func NewService(engine *eligibility.Engine, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		engine:         engine,
		logger:         log.WithFields(map[string]interface{}{"component": "assessment-service"}),
		persistTimeout: 5 * time.Second,
		sideTimeout:    10 * time.Second,
		historyLimit:   10,
		now:            func() time.Time { return time.Now().UTC() },
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine exposes the scoring engine for the configuration and info endpoints.
func (s *Service) Engine() *eligibility.Engine { return s.engine }

// Assess evaluates the profile and stores the result for the user, when one is given.
// Persistence failures are logged and do not fail the request. A profile that fails
// validation is returned as *eligibility.ValidationError.
func (s *Service) Assess(ctx context.Context, req Request) (*models.AssessmentRecord, error) {
	ctx, span := s.startSpan(ctx, "assessment.assess", attribute.Bool("user.present", req.UserID != ""))
	defer span.End()

	started := time.Now()

	result, cached, err := s.evaluate(ctx, req.Profile)
	if err != nil {
		s.recordDuration(ctx, time.Since(started), "invalid")
		span.RecordError(err)
		return nil, err
	}

	rec := &models.AssessmentRecord{
		ID:        s.newID(),
		UserID:    req.UserID,
		Profile:   req.Profile,
		Result:    result,
		Cached:    cached,
		CreatedAt: result.CreatedAt,
	}
	rec.ProcessingTimeMs = time.Since(started).Milliseconds()

	if rec.UserID != "" && s.repo != nil {
		s.persist(ctx, rec)
	}

	s.afterAssessment(rec, req.NotifyEmail)

	elapsed := time.Since(started)
	s.recordDuration(ctx, elapsed, "ok")
	s.recordOutcome(ctx, rec)

	s.logger.Info("assessment completed", map[string]interface{}{
		"assessmentId":   rec.ID,
		"userId":         rec.UserID,
		"overallScore":   result.OverallScore,
		"viabilityLevel": string(result.ViabilityLevel),
		"route":          string(result.Routes.RecommendedRoute),
		"cached":         cached,
		"durationMs":     elapsed.Milliseconds(),
	})
	return rec, nil
}

// evaluate returns the engine output, served from the cache when possible. Cached
// output is re-stamped with the current time.
func (s *Service) evaluate(ctx context.Context, p *eligibility.Profile) (*eligibility.Assessment, bool, error) {
	if err := p.Validate(); err != nil {
		return nil, false, err
	}

	var key string
	if s.cache != nil {
		k, err := CacheKey(p)
		if err == nil {
			key = k
			if a, ok := s.cacheGet(ctx, key); ok {
				a.CreatedAt = s.now()
				return a, true, nil
			}
		}
	}

	_, span := s.startSpan(ctx, "assessment.evaluate")
	a, err := s.engine.Evaluate(p)
	span.End()
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, a); err != nil {
			metrics.CacheRequests.WithLabelValues("error").Inc()
			s.logger.Warn("failed to cache assessment", map[string]interface{}{"error": err.Error()})
		}
	}
	return a, false, nil
}

func (s *Service) cacheGet(ctx context.Context, key string) (*eligibility.Assessment, bool) {
	a, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheRequests.WithLabelValues("error").Inc()
		s.logger.Warn("result cache unavailable", map[string]interface{}{"error": err.Error()})
		return nil, false
	case ok:
		metrics.CacheRequests.WithLabelValues("hit").Inc()
		return a, true
	default:
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
}

func (s *Service) persist(ctx context.Context, rec *models.AssessmentRecord) {
	ctx, span := s.startSpan(ctx, "assessment.persist")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()

	if err := s.repo.SaveLatest(ctx, rec); err != nil {
		span.RecordError(err)
		metrics.PersistenceFailures.WithLabelValues("save_latest").Inc()
		stdErr := apperrors.NewPersistenceFailedError("save_latest", err)
		s.logger.Error("failed to persist assessment", map[string]interface{}{
			"assessmentId": rec.ID,
			"userId":       rec.UserID,
			"errorCode":    string(stdErr.Code),
			"error":        stdErr.Details,
		})
	}
}

// afterAssessment indexes, publishes and mails in the background. Wait blocks until
// these have finished.
func (s *Service) afterAssessment(rec *models.AssessmentRecord, notifyEmail string) {
	if s.indexer != nil {
		s.background("index", func(ctx context.Context) error {
			return s.indexer.Index(ctx, rec)
		})
	}
	if s.events != nil {
		s.background("publish", func(ctx context.Context) error {
			return s.events.Publish(ctx, newCompletedEvent(rec))
		})
	}
	if s.mailer != nil && notifyEmail != "" {
		s.background("notify", func(ctx context.Context) error {
			n, err := s.mailer.SendSummary(ctx, notifyEmail, rec)
			if err == nil {
				s.logger.Info("assessment summary sent", map[string]interface{}{
					"assessmentId": rec.ID,
					"messageId":    n.MessageID,
				})
			}
			return err
		})
	}
}

func (s *Service) background(operation string, fn func(ctx context.Context) error) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.sideTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.logger.Warn("assessment side effect failed", map[string]interface{}{
				"operation": operation,
				"error":     err.Error(),
			})
		}
	}()
}

// Wait blocks until background indexing, publishing and mailing have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// History returns the user's assessments, newest first. A non-positive limit selects
// the configured default.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error) {
	if userID == "" {
		return nil, apperrors.NewInvalidRequestError("userId is required")
	}
	if s.repo == nil {
		return nil, apperrors.NewHistoryUnavailableError(errors.New("no assessment store configured"))
	}
	if limit <= 0 {
		limit = s.historyLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	ctx, span := s.startSpan(ctx, "assessment.history")
	defer span.End()

	entries, err := s.repo.History(ctx, userID, limit)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.NewHistoryUnavailableError(err)
	}
	return entries, nil
}

// Stats returns the viability-level distribution of indexed assessments.
func (s *Service) Stats(ctx context.Context) (*models.ViabilityStats, error) {
	if s.indexer == nil {
		return nil, apperrors.NewStatsUnavailableError(errors.New("search index disabled"))
	}
	stats, err := s.indexer.Stats(ctx)
	if err != nil {
		return nil, apperrors.NewStatsUnavailableError(fmt.Errorf("aggregate assessments: %w", err))
	}
	return stats, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if s.telemetry != nil {
		return s.telemetry.StartSpan(ctx, name, attrs...)
	}
	return otel.Tracer("assessment").Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) recordDuration(ctx context.Context, d time.Duration, status string) {
	if s.telemetry != nil {
		s.telemetry.RecordAssessmentDuration(ctx, d, status)
	}
}

func (s *Service) recordOutcome(ctx context.Context, rec *models.AssessmentRecord) {
	level := string(rec.Result.ViabilityLevel)
	route := string(rec.Result.Routes.RecommendedRoute)

	source := "engine"
	if rec.Cached {
		source = "cache"
	}
	metrics.AssessmentsTotal.WithLabelValues(level, route).Inc()
	metrics.AssessmentDuration.WithLabelValues(source).Observe(float64(rec.ProcessingTimeMs) / 1000)
	metrics.AssessmentScore.Observe(rec.Result.OverallScore)

	if s.telemetry != nil {
		s.telemetry.RecordAssessment(ctx, level, route, rec.Cached)
	}
}
