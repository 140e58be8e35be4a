// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eb2niw-assessor/internal/assessment"
	apperrors "eb2niw-assessor/internal/common/errors"
	"eb2niw-assessor/internal/common/validation"
	"eb2niw-assessor/internal/eligibility"
)

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, apperrors.NewInvalidRequestError("request body could not be read: "+err.Error()))
		return
	}

	if result := validation.ValidateAssessmentRequest(body); !result.Valid {
		s.writeError(w, apperrors.NewValidationFailedError(
			strings.Join(result.GetErrorMessages(), "; "), result.Fields()))
		return
	}

	var req assessRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, apperrors.NewInvalidRequestError("request body is not a valid profile: "+err.Error()))
		return
	}
	if req.NotifyEmail != "" && !validation.ValidateEmail(req.NotifyEmail) {
		s.writeError(w, apperrors.NewValidationFailedError("notifyEmail: invalid e-mail address", []string{"notifyEmail"}))
		return
	}

	userID := req.UserID
	if s.identity != nil {
		resolved, err := s.identity.ResolveUserID(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		if resolved != "" {
			userID = resolved
		}
	}

	rec, err := s.service.Assess(r.Context(), assessment.Request{
		Profile:     &req.Profile,
		UserID:      userID,
		NotifyEmail: req.NotifyEmail,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newAssessmentResponse(rec))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, apperrors.NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	entries, err := s.service.History(r.Context(), userID, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{UserID: userID, Assessments: entries})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newInfoResponse(s.service.Engine().Config()))
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	engine := s.service.Engine()
	writeJSON(w, http.StatusOK, ConfigResponse{Scoring: engine.Config(), Rules: engine.Catalog()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "healthy", Time: s.now().Format(time.RFC3339)})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := statusResponse{Status: "ready", Time: s.now().Format(time.RFC3339), Checks: map[string]string{}}
	status := http.StatusOK
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "not ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, apperrors.NewNotFoundError(r.Method+" "+r.URL.Path))
}

// ==========================
// Responses
// ==========================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError renders err as a StandardError. Profile validation failures keep their
// field list and rejected scoring tables map to CONFIGURATION_INVALID; anything
// unrecognised becomes a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var stdErr *apperrors.StandardError
	var verr *eligibility.ValidationError
	var cerr *eligibility.ConfigurationError
	switch {
	case errors.As(err, &verr):
		fields := make([]string, len(verr.Violations))
		for i, v := range verr.Violations {
			fields[i] = v.Field
		}
		stdErr = apperrors.NewValidationFailedError(verr.Error(), fields)
	case errors.As(err, &cerr):
		stdErr = apperrors.NewConfigurationInvalidError(cerr)
	default:
		stdErr = apperrors.Normalize(err)
	}

	status := apperrors.HTTPStatus(stdErr.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
	}
	writeJSON(w, status, stdErr)
}
