// internal/common/errors/errors_test.go
package errors

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeInvalidRequest, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeHistoryUnavailable, http.StatusServiceUnavailable},
		{ErrCodePersistenceFailed, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestNewRateLimitedError(t *testing.T) {
	err := NewRateLimitedError(1500 * time.Millisecond)
	assert.Equal(t, ErrCodeRateLimited, err.Code)
	assert.Equal(t, 2, err.Metadata["retryAfterSeconds"])

	err = NewRateLimitedError(0)
	assert.Equal(t, 1, err.Metadata["retryAfterSeconds"])
}

func TestConvertToBPMNError_Validation(t *testing.T) {
	stdErr := NewValidationFailedError("experience.yearsOfExperience: must not be negative",
		[]string{"experience.yearsOfExperience"})

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "ELIGIBILITY_VALIDATION_FAILED", bpmnErr.Code)
	assert.False(t, bpmnErr.Retryable)
	assert.Equal(t, 0, bpmnErr.Retries)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "VALIDATION_FAILED", vars["originalErrorCode"])
	assert.Equal(t, []string{"experience.yearsOfExperience"}, vars["invalidFields"])
	assert.Equal(t, "ELIGIBILITY_VALIDATION_FAILED", vars["errorCode"])
}

func TestConvertToBPMNError_RetryableAndFallback(t *testing.T) {
	bpmnErr := ConvertToBPMNError(NewPersistenceFailedError("save_latest", fmt.Errorf("connection reset")))
	assert.Equal(t, "ELIGIBILITY_PERSISTENCE_FAILED", bpmnErr.Code)
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.Contains(t, bpmnErr.Details, "save_latest")

	unmapped := ConvertToBPMNError(NewSearchIndexFailedError(fmt.Errorf("503")))
	assert.Equal(t, "SEARCH_INDEX_FAILED", unmapped.Code)
}

func TestNormalize(t *testing.T) {
	wrapped := fmt.Errorf("assess: %w", NewUnauthorizedError("token inactive"))
	assert.Equal(t, ErrCodeUnauthorized, Normalize(wrapped).Code)

	plain := Normalize(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestRetriesFor(t *testing.T) {
	assert.Equal(t, int32(2), retriesFor(entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: 3}}, 3))
	assert.Equal(t, int32(3), retriesFor(entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: 10}}, 3))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodePersistenceFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeStatsUnavailable))
	assert.Equal(t, "ACCESS", GetErrorCategory(ErrCodeRateLimited))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidationFailed))
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeConfigurationInvalid))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestAsStandardError(t *testing.T) {
	_, ok := AsStandardError(fmt.Errorf("plain"))
	assert.False(t, ok)

	got, ok := AsStandardError(NewNotFoundError("assessment"))
	require.True(t, ok)
	assert.Equal(t, "assessment", got.Details)
	assert.True(t, IsRetryableErrorCode(ErrCodeHistoryUnavailable))
	assert.False(t, IsRetryableErrorCode(ErrCodeValidationFailed))
}
