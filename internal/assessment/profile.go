package assessment

import (
	"fmt"
	"strings"
)

// Gender of the patient, as accepted by the prediction service.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// WorkType of the patient.
type WorkType string

const (
	WorkPrivate      WorkType = "Private"
	WorkSelfEmployed WorkType = "Self-employed"
	WorkGovtJob      WorkType = "Govt_job"
	WorkChildren     WorkType = "children"
	WorkNeverWorked  WorkType = "Never_worked"
)

// ResidenceType of the patient.
type ResidenceType string

const (
	ResidenceUrban ResidenceType = "Urban"
	ResidenceRural ResidenceType = "Rural"
)

// SmokingStatus of the patient.
type SmokingStatus string

const (
	SmokingNever     SmokingStatus = "never"
	SmokingFormerly  SmokingStatus = "formerly"
	SmokingCurrently SmokingStatus = "currently"
)

// Genders lists the accepted genders in form order.
func Genders() []Gender { return []Gender{GenderMale, GenderFemale} }

// WorkTypes lists the accepted work types in form order.
func WorkTypes() []WorkType {
	return []WorkType{WorkPrivate, WorkSelfEmployed, WorkGovtJob, WorkChildren, WorkNeverWorked}
}

// ResidenceTypes lists the accepted residence types in form order.
func ResidenceTypes() []ResidenceType { return []ResidenceType{ResidenceUrban, ResidenceRural} }

// SmokingStatuses lists the accepted smoking statuses in form order.
func SmokingStatuses() []SmokingStatus {
	return []SmokingStatus{SmokingNever, SmokingFormerly, SmokingCurrently}
}

func (g Gender) valid() bool {
	for _, v := range Genders() {
		if g == v {
			return true
		}
	}
	return false
}

func (w WorkType) valid() bool {
	for _, v := range WorkTypes() {
		if w == v {
			return true
		}
	}
	return false
}

func (r ResidenceType) valid() bool {
	for _, v := range ResidenceTypes() {
		if r == v {
			return true
		}
	}
	return false
}

func (s SmokingStatus) valid() bool {
	for _, v := range SmokingStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// Label returns the form label for the work type.
func (w WorkType) Label() string {
	switch w {
	case WorkPrivate:
		return "Private Sector"
	case WorkSelfEmployed:
		return "Self Employed"
	case WorkGovtJob:
		return "Government Job"
	case WorkChildren:
		return "Student/Child"
	case WorkNeverWorked:
		return "Never Worked"
	default:
		return string(w)
	}
}

// Label returns the form label for the smoking status.
func (s SmokingStatus) Label() string {
	switch s {
	case SmokingNever:
		return "Never Smoked"
	case SmokingFormerly:
		return "Formerly Smoked"
	case SmokingCurrently:
		return "Currently Smokes"
	default:
		return string(s)
	}
}

// ParseGender parses a gender case-insensitively.
func ParseGender(s string) (Gender, error) {
	for _, v := range Genders() {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// ParseWorkType parses a work type case-insensitively. Dashes and
// underscores are interchangeable.
func ParseWorkType(s string) (WorkType, error) {
	norm := normalizeToken(s)
	for _, v := range WorkTypes() {
		if norm == normalizeToken(string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown work type %q", s)
}

// ParseResidenceType parses a residence type case-insensitively.
func ParseResidenceType(s string) (ResidenceType, error) {
	for _, v := range ResidenceTypes() {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown residence type %q", s)
}

// ParseSmokingStatus parses a smoking status. The service's own spellings
// ("never smoked", "formerly smoked", "smokes") are accepted too.
func ParseSmokingStatus(s string) (SmokingStatus, error) {
	switch normalizeToken(s) {
	case "never", "never smoked", "never_smoked":
		return SmokingNever, nil
	case "formerly", "formerly smoked", "formerly_smoked":
		return SmokingFormerly, nil
	case "currently", "smokes", "current":
		return SmokingCurrently, nil
	}
	return "", fmt.Errorf("unknown smoking status %q", s)
}

func normalizeToken(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}

// HealthProfile is the set of patient attributes sent to the predictor.
type HealthProfile struct {
	Age             float64       `json:"age"`
	Gender          Gender        `json:"gender"`
	Hypertension    bool          `json:"hypertension"`
	HeartDisease    bool          `json:"heart_disease"`
	EverMarried     bool          `json:"ever_married"`
	WorkType        WorkType      `json:"work_type"`
	ResidenceType   ResidenceType `json:"residence_type"`
	AvgGlucoseLevel float64       `json:"avg_glucose_level"`
	BMI             float64       `json:"bmi"`
	SmokingStatus   SmokingStatus `json:"smoking_status"`
}

// DefaultProfile returns the values the assessment form starts with.
func DefaultProfile() HealthProfile {
	return HealthProfile{
		Age:             50,
		Gender:          GenderMale,
		EverMarried:     true,
		WorkType:        WorkPrivate,
		ResidenceType:   ResidenceUrban,
		AvgGlucoseLevel: 100,
		BMI:             25,
		SmokingStatus:   SmokingNever,
	}
}
