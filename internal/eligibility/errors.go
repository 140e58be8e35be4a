// internal/eligibility/errors.go
package eligibility

import (
	"fmt"
	"strings"
)

// Violation names one profile field outside its declared domain.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned before any scoring starts when the profile is malformed.
type ValidationError struct {
	Violations []Violation `json:"violations"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + " " + v.Message
	}
	return "invalid profile: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: msg})
}

func (e *ValidationError) nonNegative(field string, n int) {
	if n < 0 {
		e.add(field, fmt.Sprintf("must not be negative, got %d", n))
	}
}

// ConfigurationError reports a broken scoring table. It is raised at construction time only.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return "invalid scoring configuration: " + strings.Join(e.Problems, "; ")
}

func (e *ConfigurationError) addf(format string, args ...interface{}) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}
