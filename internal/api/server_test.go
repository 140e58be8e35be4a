// internal/api/server_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eb2niw-assessor/internal/assessment"
	"eb2niw-assessor/internal/common/config"
	apperrors "eb2niw-assessor/internal/common/errors"
	"eb2niw-assessor/internal/common/logger"
	"eb2niw-assessor/internal/eligibility"
	"eb2niw-assessor/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

const validBody = `{
  "userId": "user-42",
  "education": {"highestDegree": "PHD", "fieldOfStudy": "Computer Science", "universityRanking": 30, "yearsSinceGraduation": 4},
  "experience": {"yearsOfExperience": 8, "leadershipRoles": true, "specializedExperience": true},
  "achievements": {"publicationsCount": 14, "patentsCount": 2, "projectsLed": 3, "citationsCount": 350},
  "recognition": {"awardsCount": 3, "speakingInvitations": 6, "professionalMemberships": 2},
  "usPlans": {
    "proposedWork": "Build open intrusion detection tooling for regional power grids.",
    "fieldOfWork": "Cybersecurity",
    "nationalImportance": "Grid attacks are a critical national security threat."
  }
}`

type stubRepository struct {
	saved   []*models.AssessmentRecord
	history []models.HistoryEntry
}

func (r *stubRepository) SaveLatest(_ context.Context, rec *models.AssessmentRecord) error {
	r.saved = append(r.saved, rec)
	return nil
}

func (r *stubRepository) History(context.Context, string, int) ([]models.HistoryEntry, error) {
	return r.history, nil
}

type stubIdentity struct {
	userID string
	err    error
}

func (s stubIdentity) ResolveUserID(context.Context, string) (string, error) {
	return s.userID, s.err
}

func newTestServer(t *testing.T, repo assessment.Repository, opts ...Option) http.Handler {
	t.Helper()
	engine, err := eligibility.New(eligibility.DefaultConfig(), eligibility.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	var svcOpts []assessment.Option
	if repo != nil {
		svcOpts = append(svcOpts, assessment.WithRepository(repo))
	}
	svc := assessment.NewService(engine, logger.NewTestLogger(t), svcOpts...)
	t.Cleanup(svc.Wait)

	return NewServer(svc, logger.NewTestLogger(t), opts...).Handler()
}

func doRequest(h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.StandardError {
	t.Helper()
	var e apperrors.StandardError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

// ==========================
// POST /assess
// ==========================

func TestHandleAssess(t *testing.T) {
	repo := &stubRepository{}
	h := newTestServer(t, repo)

	rec := doRequest(h, http.MethodPost, "/api/v1/eligibility/assess", validBody)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp AssessmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "user-42", resp.UserID)
	assert.Equal(t, fixedNow, resp.CreatedAt)
	assert.InDelta(t, resp.OverallScore/100, resp.Probability, 1e-4)
	assert.InDelta(t, resp.Probability, resp.Score.Overall, 1e-9)
	assert.Equal(t, eligibility.LegacyViability(resp.ViabilityLevel), resp.Viability)
	assert.Len(t, resp.Recommendations, len(resp.DetailedRecommendations))
	assert.NotEmpty(t, resp.NextSteps)
	assert.NotEmpty(t, resp.Message)
	assert.Positive(t, resp.EstimatedProcessingTime)

	require.Len(t, repo.saved, 1)
	assert.Equal(t, resp.ID, repo.saved[0].ID)
}

func TestHandleAssess_Errors(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		validateOutput func(t *testing.T, e apperrors.StandardError)
	}{
		{
			name:           "malformed JSON",
			body:           `{"education":`,
			expectedStatus: http.StatusBadRequest,
			validateOutput: func(t *testing.T, e apperrors.StandardError) {
				assert.Equal(t, apperrors.ErrCodeValidationFailed, e.Code)
			},
		},
		{
			name:           "missing section",
			body:           `{"education":{"highestDegree":"PHD","fieldOfStudy":"Physics"},"experience":{},"achievements":{},"recognition":{}}`,
			expectedStatus: http.StatusBadRequest,
			validateOutput: func(t *testing.T, e apperrors.StandardError) {
				assert.Equal(t, apperrors.ErrCodeValidationFailed, e.Code)
				assert.Contains(t, e.Metadata["fields"], "usPlans")
			},
		},
		{
			name:           "unknown degree",
			body:           strings.Replace(validBody, `"PHD"`, `"DOCTORATE"`, 1),
			expectedStatus: http.StatusBadRequest,
			validateOutput: func(t *testing.T, e apperrors.StandardError) {
				assert.Equal(t, apperrors.ErrCodeValidationFailed, e.Code)
			},
		},
		{
			name:           "negative count rejected by the engine",
			body:           strings.Replace(validBody, `"publicationsCount": 14`, `"publicationsCount": -2`, 1),
			expectedStatus: http.StatusBadRequest,
			validateOutput: func(t *testing.T, e apperrors.StandardError) {
				assert.Equal(t, apperrors.ErrCodeValidationFailed, e.Code)
				assert.Equal(t, []interface{}{"achievements.publicationsCount"}, e.Metadata["fields"])
			},
		},
		{
			name:           "invalid notify address",
			body:           strings.Replace(validBody, `"userId": "user-42",`, `"userId": "user-42", "notifyEmail": "not-an-address",`, 1),
			expectedStatus: http.StatusBadRequest,
			validateOutput: func(t *testing.T, e apperrors.StandardError) {
				assert.Equal(t, []interface{}{"notifyEmail"}, e.Metadata["fields"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepository{}
			h := newTestServer(t, repo)

			rec := doRequest(h, http.MethodPost, "/api/v1/eligibility/assess", tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			tt.validateOutput(t, decodeError(t, rec))
			assert.Empty(t, repo.saved)
		})
	}
}

func TestHandleAssess_Identity(t *testing.T) {
	t.Run("token overrides body user", func(t *testing.T) {
		repo := &stubRepository{}
		h := newTestServer(t, repo, WithIdentityResolver(stubIdentity{userID: "kc-subject"}))

		rec := doRequest(h, http.MethodPost, "/api/v1/eligibility/assess", validBody, "Authorization", "Bearer abc")

		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, repo.saved, 1)
		assert.Equal(t, "kc-subject", repo.saved[0].UserID)
	})

	t.Run("rejected token", func(t *testing.T) {
		h := newTestServer(t, &stubRepository{},
			WithIdentityResolver(stubIdentity{err: apperrors.NewUnauthorizedError("token is not active")}))

		rec := doRequest(h, http.MethodPost, "/api/v1/eligibility/assess", validBody, "Authorization", "Bearer expired")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, apperrors.ErrCodeUnauthorized, decodeError(t, rec).Code)
	})
}

func TestHandleAssess_RateLimited(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	h := newTestServer(t, nil, WithRateLimiter(NewRateLimiter(client, time.Minute), config.RateLimits{Assess: 2}))

	for i := 0; i < 2; i++ {
		rec := doRequest(h, http.MethodPost, "/api/v1/eligibility/assess", validBody)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := doRequest(h, http.MethodPost, "/api/v1/eligibility/assess", validBody)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, apperrors.ErrCodeRateLimited, decodeError(t, rec).Code)

	other := doRequest(h, http.MethodPost, "/api/v1/eligibility/assess", validBody, "X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, http.StatusOK, other.Code)
}

// ==========================
// History, info, config, stats
// ==========================

func TestHandleHistory(t *testing.T) {
	repo := &stubRepository{history: []models.HistoryEntry{
		{ID: "a2", UserID: "user-42", OverallScore: 74.1, ViabilityLevel: eligibility.ViabilityStrong, IsLatest: true},
		{ID: "a1", UserID: "user-42", OverallScore: 58.3, ViabilityLevel: eligibility.ViabilityPromising},
	}}
	h := newTestServer(t, repo)

	rec := doRequest(h, http.MethodGet, "/api/v1/eligibility/history/user-42?limit=5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user-42", resp.UserID)
	require.Len(t, resp.Assessments, 2)
	assert.True(t, resp.Assessments[0].IsLatest)
}

func TestHandleHistory_Errors(t *testing.T) {
	tests := []struct {
		name           string
		repo           assessment.Repository
		path           string
		expectedStatus int
	}{
		{name: "bad limit", repo: &stubRepository{}, path: "/api/v1/eligibility/history/u1?limit=abc", expectedStatus: http.StatusBadRequest},
		{name: "zero limit", repo: &stubRepository{}, path: "/api/v1/eligibility/history/u1?limit=0", expectedStatus: http.StatusBadRequest},
		{name: "no store", repo: nil, path: "/api/v1/eligibility/history/u1", expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(newTestServer(t, tt.repo), http.MethodGet, tt.path, "")
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestHandleInfo(t *testing.T) {
	rec := doRequest(newTestServer(t, nil), http.MethodGet, "/api/v1/eligibility/info", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp InfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Categories, 4)
	assert.Equal(t, 85.0, resp.Viability["EXCELLENT"].MinScore)
	assert.Equal(t, "Good", resp.Viability["STRONG"].Label)
	assert.InDelta(t, 1.0, resp.Combination["routeWeight"]+resp.Combination["waiverWeight"], 1e-9)
}

func TestHandleConfig(t *testing.T) {
	rec := doRequest(newTestServer(t, nil), http.MethodGet, "/api/v1/eligibility/config", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Scoring map[string]json.RawMessage `json:"scoring"`
		Rules   []eligibility.Rule         `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Scoring, "viability")
	assert.Contains(t, resp.Scoring, "waiver")
	assert.NotEmpty(t, resp.Rules)
}

func TestHandleStats_Disabled(t *testing.T) {
	rec := doRequest(newTestServer(t, nil), http.MethodGet, "/api/v1/eligibility/stats", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, apperrors.ErrCodeStatsUnavailable, decodeError(t, rec).Code)
}

func TestUnknownRoute(t *testing.T) {
	rec := doRequest(newTestServer(t, nil), http.MethodGet, "/api/v1/eligibility/unknown", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, apperrors.ErrCodeNotFound, e.Code)
	assert.Equal(t, "GET /api/v1/eligibility/unknown", e.Details)
}

func TestWriteError_ConfigurationInvalid(t *testing.T) {
	engine, err := eligibility.New(eligibility.DefaultConfig())
	require.NoError(t, err)
	s := NewServer(assessment.NewService(engine, logger.NewTestLogger(t)), logger.NewTestLogger(t))

	rec := httptest.NewRecorder()
	s.writeError(rec, fmt.Errorf("reload: %w", &eligibility.ConfigurationError{Problems: []string{"waiver weights sum to 0.9000, want 1.0"}}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, apperrors.ErrCodeConfigurationInvalid, e.Code)
	assert.Contains(t, e.Details, "waiver weights")
}

// ==========================
// Health, readiness, CORS
// ==========================

func TestHealthAndReady(t *testing.T) {
	h := newTestServer(t, nil,
		WithReadinessCheck("postgres", func(context.Context) error { return nil }),
		WithReadinessCheck("redis", func(context.Context) error { return errors.New("connection refused") }),
	)

	health := doRequest(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Contains(t, health.Body.String(), `"healthy"`)

	ready := doRequest(h, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, ready.Code)
	var resp statusResponse
	require.NoError(t, json.Unmarshal(ready.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Checks["postgres"])
	assert.Equal(t, "connection refused", resp.Checks["redis"])
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, nil)
	doRequest(h, http.MethodGet, "/api/v1/eligibility/info", "")

	rec := doRequest(h, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "eligibility_http_requests_total")
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, nil, WithCORSOrigins([]string{"https://app.example.com"}))

	preflight := httptest.NewRequest(http.MethodOptions, "/api/v1/eligibility/assess", nil)
	preflight.Header.Set("Origin", "https://app.example.com")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, preflight)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	foreign := httptest.NewRequest(http.MethodPost, "/api/v1/eligibility/assess", bytes.NewBufferString(validBody))
	foreign.Header.Set("Origin", "https://evil.example.org")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, foreign)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
