// internal/workers/assessment/assess-eligibility/handler.go
package assesseligibility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eb2niw-assessor/internal/assessment"
	apperrors "eb2niw-assessor/internal/common/errors"
	"eb2niw-assessor/internal/common/logger"
	"eb2niw-assessor/internal/common/metrics"
	"eb2niw-assessor/internal/eligibility"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "assess-eb2-eligibility"
)

// JobRecorder is implemented by observability.Observability.
type JobRecorder interface {
	RecordJobProcessed(ctx context.Context, status string)
}

type Handler struct {
	config     *Config
	service    *assessment.Service
	jobs       JobRecorder
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, service *assessment.Service, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		service:    service,
		errHandler: apperrors.NewErrorHandler(log),
		logger:     log,
	}
}

// WithJobRecorder reports every processed job, completed or failed, to r.
func (h *Handler) WithJobRecorder(r JobRecorder) *Handler {
	h.jobs = r
	return h
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	defer func() {
		metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	}()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.process(ctx, job.Variables)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

// process decodes the job variables, runs the assessment and records the outcome.
func (h *Handler) process(ctx context.Context, variables string) (*Output, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		perr := apperrors.NewInvalidRequestError(fmt.Sprintf("parse input: %v", err))
		h.recordJob(ctx, perr)
		return nil, perr
	}

	output, err := h.execute(ctx, &input)
	h.recordJob(ctx, err)
	return output, err
}

func (h *Handler) recordJob(ctx context.Context, err error) {
	if h.jobs == nil {
		return
	}
	status := "completed"
	if err != nil {
		status = "failed"
	}
	h.jobs.RecordJobProcessed(ctx, status)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Profile == nil {
		return nil, apperrors.NewValidationFailedError("profile: is required", []string{"profile"})
	}

	rec, err := h.service.Assess(ctx, assessment.Request{
		Profile:     input.Profile,
		UserID:      input.UserID,
		NotifyEmail: input.NotifyEmail,
	})
	if err != nil {
		var verr *eligibility.ValidationError
		if errors.As(err, &verr) {
			fields := make([]string, len(verr.Violations))
			for i, v := range verr.Violations {
				fields[i] = "profile." + v.Field
			}
			return nil, apperrors.NewValidationFailedError(verr.Error(), fields)
		}
		return nil, err
	}

	a := rec.Result
	return &Output{
		AssessmentID:              rec.ID,
		OverallScore:              a.OverallScore,
		ViabilityLevel:            string(a.ViabilityLevel),
		Viability:                 eligibility.LegacyViability(a.ViabilityLevel),
		RecommendedRoute:          string(a.Routes.RecommendedRoute),
		NIWScore:                  a.Waiver.Overall,
		Probability:               eligibility.Probability(a.OverallScore),
		EstimatedProcessingMonths: a.EstimatedProcessingMonths,
		CreatedAt:                 rec.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		h.fail(ctx, client, job, apperrors.NewInternalError(err))
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey":         job.Key,
		"assessmentId":   output.AssessmentID,
		"viabilityLevel": output.ViabilityLevel,
	})
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.errHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
