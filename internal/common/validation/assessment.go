// internal/common/validation/assessment.go
package validation

// AssessmentRequestSchema describes the body of POST /api/v1/eligibility/assess. Only the
// document shape is checked here; value ranges are enforced by the scoring engine.
const AssessmentRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["education", "experience", "achievements", "recognition", "usPlans"],
  "properties": {
    "userId": {"type": "string", "maxLength": 128},
    "notifyEmail": {"type": "string", "maxLength": 254},
    "education": {
      "type": "object",
      "required": ["highestDegree", "fieldOfStudy"],
      "properties": {
        "highestDegree": {"type": "string", "enum": ["PHD", "MASTERS", "BACHELORS", "OTHER"]},
        "fieldOfStudy": {"type": "string", "minLength": 1},
        "universityRanking": {"type": ["integer", "null"]},
        "yearsSinceGraduation": {"type": "integer"},
        "professionalLicense": {"type": "boolean"},
        "certifications": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["name"],
            "properties": {
              "name": {"type": "string"},
              "issuer": {"type": "string"},
              "year": {"type": "integer"},
              "stillValid": {"type": "boolean"}
            }
          }
        }
      }
    },
    "experience": {
      "type": "object",
      "properties": {
        "yearsOfExperience": {"type": "integer"},
        "leadershipRoles": {"type": "boolean"},
        "specializedExperience": {"type": "boolean"},
        "currentPosition": {"type": "string"},
        "salaryLevel": {"type": "string", "enum": ["", "ABOVE_AVERAGE", "AVERAGE", "BELOW_AVERAGE"]},
        "salaryPercentile": {"type": ["integer", "null"]},
        "currentSalary": {"type": ["number", "null"]}
      }
    },
    "achievements": {
      "type": "object",
      "properties": {
        "publicationsCount": {"type": "integer"},
        "patentsCount": {"type": "integer"},
        "projectsLed": {"type": "integer"},
        "citationsCount": {"type": "integer"}
      }
    },
    "recognition": {
      "type": "object",
      "properties": {
        "awardsCount": {"type": "integer"},
        "speakingInvitations": {"type": "integer"},
        "professionalMemberships": {"type": "integer"},
        "peerRecognition": {"type": "boolean"},
        "governmentRecognition": {"type": "boolean"},
        "mediaCoverage": {"type": "boolean"}
      }
    },
    "usPlans": {
      "type": "object",
      "properties": {
        "proposedWork": {"type": "string"},
        "fieldOfWork": {"type": "string"},
        "nationalImportance": {"type": "string"},
        "potentialBeneficiaries": {"type": "string"},
        "standardProcessImpracticality": {"type": "string"}
      }
    }
  }
}`

var assessmentValidator = MustValidator(AssessmentRequestSchema)

// ValidateAssessmentRequest checks an assessment request body against AssessmentRequestSchema.
func ValidateAssessmentRequest(body []byte) *ValidationResult {
	return assessmentValidator.ValidateJSON(body)
}
