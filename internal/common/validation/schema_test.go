// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const validRequest = `{
  "userId": "user-1",
  "education": {"highestDegree": "PHD", "fieldOfStudy": "Computer Science", "universityRanking": 45},
  "experience": {"yearsOfExperience": 8, "leadershipRoles": true},
  "achievements": {"publicationsCount": 12, "citationsCount": 340},
  "recognition": {"awardsCount": 2},
  "usPlans": {"proposedWork": "AI for rural healthcare"}
}`

// ==========================
// Assessment Request Schema
// ==========================

func TestValidateAssessmentRequest(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		validateOutput func(t *testing.T, r *ValidationResult)
	}{
		{
			name: "valid request",
			body: validRequest,
			validateOutput: func(t *testing.T, r *ValidationResult) {
				assert.True(t, r.Valid)
				assert.Empty(t, r.Errors)
			},
		},
		{
			name: "missing sub-record",
			body: `{"education":{"highestDegree":"PHD","fieldOfStudy":"CS"},"experience":{},"achievements":{},"recognition":{}}`,
			validateOutput: func(t *testing.T, r *ValidationResult) {
				assert.False(t, r.Valid)
				assert.True(t, r.HasErrors("usPlans"))
				assert.Equal(t, "REQUIRED", r.Errors[0].Code)
			},
		},
		{
			name: "unknown degree and wrong type",
			body: `{"education":{"highestDegree":"DIPLOMA","fieldOfStudy":"CS"},"experience":{"yearsOfExperience":"ten"},"achievements":{},"recognition":{},"usPlans":{}}`,
			validateOutput: func(t *testing.T, r *ValidationResult) {
				assert.False(t, r.Valid)
				assert.ElementsMatch(t, []string{"education.highestDegree", "experience.yearsOfExperience"}, r.Fields())
			},
		},
		{
			name: "nested required field",
			body: `{"education":{"highestDegree":"PHD"},"experience":{},"achievements":{},"recognition":{},"usPlans":{}}`,
			validateOutput: func(t *testing.T, r *ValidationResult) {
				assert.True(t, r.HasErrors("education.fieldOfStudy"))
				assert.Len(t, r.GetErrorsForField("education"), 1)
			},
		},
		{
			name: "not json",
			body: `{"education":`,
			validateOutput: func(t *testing.T, r *ValidationResult) {
				assert.False(t, r.Valid)
				require.Len(t, r.Errors, 1)
				assert.Equal(t, "INVALID_JSON", r.Errors[0].Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validateOutput(t, ValidateAssessmentRequest([]byte(tt.body)))
		})
	}
}

func TestValidator_ValidateInput(t *testing.T) {
	v, err := NewValidator(`{"type":"object","required":["profile"],"properties":{"userId":{"type":"string"}}}`)
	require.NoError(t, err)

	r := v.ValidateInput(map[string]interface{}{"userId": 7})

	assert.False(t, r.Valid)
	assert.ElementsMatch(t, []string{"profile", "userId"}, r.Fields())
	assert.Len(t, r.GetErrorMessages(), 2)
}

func TestNewValidator_InvalidSchema(t *testing.T) {
	_, err := NewValidator(`{"type": 12}`)
	assert.Error(t, err)
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("ana@example.org"))
	assert.False(t, ValidateEmail("ana@"))
}
