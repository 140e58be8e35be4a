// internal/eligibility/profile.go
package eligibility

import (
	"fmt"
	"strings"
)

// Degree is the highest academic degree held by the applicant.
type Degree string

const (
	DegreePhD       Degree = "PHD"
	DegreeMasters   Degree = "MASTERS"
	DegreeBachelors Degree = "BACHELORS"
	DegreeOther     Degree = "OTHER"
)

// Valid reports whether d belongs to the closed degree set.
func (d Degree) Valid() bool {
	switch d {
	case DegreePhD, DegreeMasters, DegreeBachelors, DegreeOther:
		return true
	}
	return false
}

// IsAdvanced reports whether d is a post-baccalaureate degree.
func (d Degree) IsAdvanced() bool {
	return d == DegreePhD || d == DegreeMasters
}

// SalaryLevel compares the applicant's pay with the occupation's average.
type SalaryLevel string

const (
	SalaryUnknown      SalaryLevel = ""
	SalaryAboveAverage SalaryLevel = "ABOVE_AVERAGE"
	SalaryAverage      SalaryLevel = "AVERAGE"
	SalaryBelowAverage SalaryLevel = "BELOW_AVERAGE"
)

func (s SalaryLevel) Valid() bool {
	switch s {
	case SalaryUnknown, SalaryAboveAverage, SalaryAverage, SalaryBelowAverage:
		return true
	}
	return false
}

type Certification struct {
	Name       string `json:"name"`
	Issuer     string `json:"issuer,omitempty"`
	Year       int    `json:"year,omitempty"`
	StillValid bool   `json:"stillValid"`
}

type Education struct {
	HighestDegree        Degree          `json:"highestDegree"`
	FieldOfStudy         string          `json:"fieldOfStudy"`
	UniversityRanking    *int            `json:"universityRanking,omitempty"`
	YearsSinceGraduation int             `json:"yearsSinceGraduation"`
	ProfessionalLicense  bool            `json:"professionalLicense"`
	Certifications       []Certification `json:"certifications,omitempty"`
}

// Ranked reports whether an institution rank was supplied.
func (e Education) Ranked() bool {
	return e.UniversityRanking != nil && *e.UniversityRanking > 0
}

type Experience struct {
	YearsOfExperience     int         `json:"yearsOfExperience"`
	LeadershipRoles       bool        `json:"leadershipRoles"`
	SpecializedExperience bool        `json:"specializedExperience"`
	CurrentPosition       string      `json:"currentPosition,omitempty"`
	SalaryLevel           SalaryLevel `json:"salaryLevel,omitempty"`
	SalaryPercentile      *int        `json:"salaryPercentile,omitempty"`
	CurrentSalary         *float64    `json:"currentSalary,omitempty"`
}

type Achievements struct {
	PublicationsCount int `json:"publicationsCount"`
	PatentsCount      int `json:"patentsCount"`
	ProjectsLed       int `json:"projectsLed"`
	CitationsCount    int `json:"citationsCount"`
}

type Recognition struct {
	AwardsCount             int  `json:"awardsCount"`
	SpeakingInvitations     int  `json:"speakingInvitations"`
	ProfessionalMemberships int  `json:"professionalMemberships"`
	PeerRecognition         bool `json:"peerRecognition"`
	GovernmentRecognition   bool `json:"governmentRecognition"`
	MediaCoverage           bool `json:"mediaCoverage"`
}

// IntendedWork holds the free-text description of the applicant's US plans.
type IntendedWork struct {
	ProposedWork                  string `json:"proposedWork"`
	FieldOfWork                   string `json:"fieldOfWork"`
	NationalImportance            string `json:"nationalImportance"`
	PotentialBeneficiaries        string `json:"potentialBeneficiaries"`
	StandardProcessImpracticality string `json:"standardProcessImpracticality"`
}

// Profile is the immutable input aggregate of an assessment.
type Profile struct {
	Education    *Education    `json:"education"`
	Experience   *Experience   `json:"experience"`
	Achievements *Achievements `json:"achievements"`
	Recognition  *Recognition  `json:"recognition"`
	IntendedWork *IntendedWork `json:"usPlans"`
}

// Validate checks every declared domain and collects all violations at once.
func (p *Profile) Validate() error {
	v := &ValidationError{}
	if p == nil {
		v.add("profile", "is required")
		return v
	}

	if p.Education == nil {
		v.add("education", "is required")
	} else {
		e := p.Education
		if !e.HighestDegree.Valid() {
			v.add("education.highestDegree", fmt.Sprintf("unknown degree %q", e.HighestDegree))
		}
		if strings.TrimSpace(e.FieldOfStudy) == "" {
			v.add("education.fieldOfStudy", "is required")
		}
		if e.UniversityRanking != nil && *e.UniversityRanking < 1 {
			v.add("education.universityRanking", "must be at least 1")
		}
		v.nonNegative("education.yearsSinceGraduation", e.YearsSinceGraduation)
	}

	if p.Experience == nil {
		v.add("experience", "is required")
	} else {
		x := p.Experience
		v.nonNegative("experience.yearsOfExperience", x.YearsOfExperience)
		if !x.SalaryLevel.Valid() {
			v.add("experience.salaryLevel", fmt.Sprintf("unknown salary level %q", x.SalaryLevel))
		}
		if x.SalaryPercentile != nil && (*x.SalaryPercentile < 0 || *x.SalaryPercentile > 100) {
			v.add("experience.salaryPercentile", "must be between 0 and 100")
		}
		if x.CurrentSalary != nil && *x.CurrentSalary < 0 {
			v.add("experience.currentSalary", "must not be negative")
		}
	}

	if p.Achievements == nil {
		v.add("achievements", "is required")
	} else {
		a := p.Achievements
		v.nonNegative("achievements.publicationsCount", a.PublicationsCount)
		v.nonNegative("achievements.patentsCount", a.PatentsCount)
		v.nonNegative("achievements.projectsLed", a.ProjectsLed)
		v.nonNegative("achievements.citationsCount", a.CitationsCount)
	}

	if p.Recognition == nil {
		v.add("recognition", "is required")
	} else {
		r := p.Recognition
		v.nonNegative("recognition.awardsCount", r.AwardsCount)
		v.nonNegative("recognition.speakingInvitations", r.SpeakingInvitations)
		v.nonNegative("recognition.professionalMemberships", r.ProfessionalMemberships)
	}

	if p.IntendedWork == nil {
		v.add("usPlans", "is required")
	}

	if len(v.Violations) > 0 {
		return v
	}
	return nil
}
