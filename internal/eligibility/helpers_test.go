// internal/eligibility/helpers_test.go
package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	e, err := New(DefaultConfig(), opts...)
	require.NoError(t, err)
	return e
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

// createMinimalProfile is a valid profile with every optional signal absent.
func createMinimalProfile() *Profile {
	return &Profile{
		Education: &Education{
			HighestDegree: DegreeOther,
			FieldOfStudy:  "Hospitality Management",
		},
		Experience:   &Experience{},
		Achievements: &Achievements{},
		Recognition:  &Recognition{},
		IntendedWork: &IntendedWork{},
	}
}

const strongProposedWork = "I will lead the development of open cybersecurity tooling that detects intrusions " +
	"in power grid control systems before they cause outages. The work combines anomaly detection models " +
	"with formal verification of industrial protocols, and the resulting tools will be released to utilities, " +
	"federal agencies and research laboratories. Over the next five years I plan to deploy pilots with three " +
	"regional operators, publish the detection benchmarks, and train engineers who maintain critical infrastructure."

// createStrongResearcherProfile matches the PhD researcher scenario.
func createStrongResearcherProfile() *Profile {
	return &Profile{
		Education: &Education{
			HighestDegree:        DegreePhD,
			FieldOfStudy:         "Computer Science",
			UniversityRanking:    intPtr(25),
			YearsSinceGraduation: 6,
		},
		Experience: &Experience{
			YearsOfExperience:     8,
			LeadershipRoles:       true,
			SpecializedExperience: true,
			CurrentPosition:       "Principal Research Scientist",
		},
		Achievements: &Achievements{
			PublicationsCount: 15,
			PatentsCount:      2,
			ProjectsLed:       3,
			CitationsCount:    420,
		},
		Recognition: &Recognition{
			AwardsCount:             3,
			SpeakingInvitations:     8,
			ProfessionalMemberships: 2,
		},
		IntendedWork: &IntendedWork{
			ProposedWork:           strongProposedWork,
			FieldOfWork:            "Cybersecurity for critical infrastructure",
			NationalImportance:     "Attacks on the national power grid are a critical and urgent threat to public safety.",
			PotentialBeneficiaries: "Millions of Americans served by the nationwide electric grid",
		},
	}
}

// createEarlyCareerProfile matches the early career bachelor scenario.
func createEarlyCareerProfile() *Profile {
	return &Profile{
		Education: &Education{
			HighestDegree: DegreeBachelors,
			FieldOfStudy:  "Hospitality Management",
		},
		Experience: &Experience{
			YearsOfExperience: 2,
		},
		Achievements: &Achievements{
			ProjectsLed: 1,
		},
		Recognition:  &Recognition{},
		IntendedWork: &IntendedWork{},
	}
}

// createSeniorPractitionerProfile matches the exceptional ability practitioner scenario.
func createSeniorPractitionerProfile() *Profile {
	return &Profile{
		Education: &Education{
			HighestDegree: DegreeBachelors,
			FieldOfStudy:  "Mechanical Engineering",
		},
		Experience: &Experience{
			YearsOfExperience: 15,
			LeadershipRoles:   true,
			SalaryLevel:       SalaryAboveAverage,
		},
		Achievements: &Achievements{
			PatentsCount: 3,
			ProjectsLed:  10,
		},
		Recognition: &Recognition{
			AwardsCount:             5,
			ProfessionalMemberships: 3,
		},
		IntendedWork: &IntendedWork{
			ProposedWork: "Design of low-emission turbines for regional manufacturers.",
			FieldOfWork:  "Clean energy manufacturing",
		},
	}
}
