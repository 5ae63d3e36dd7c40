package assessment

import (
	"fmt"
	"math"
	"strings"
)

// Inclusive numeric ranges accepted for a profile.
const (
	MinAge     = 0
	MaxAge     = 120
	MinGlucose = 50
	MaxGlucose = 300
	MinBMI     = 10
	MaxBMI     = 70
)

// FieldError describes one invalid profile field.
type FieldError struct {
	Field  string
	Reason string
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Reason
}

// ValidationError lists every invalid field of a profile. The user is
// expected to correct the input and resubmit.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid health profile: " + strings.Join(parts, "; ")
}

// Has reports whether the named field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Validate returns a *ValidationError when any field is missing or out of
// range. Values are never clamped.
func (p HealthProfile) Validate() error {
	var errs []FieldError

	checkRange := func(field string, v, lo, hi float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, FieldError{Field: field, Reason: "must be a number"})
			return
		}
		if v < lo || v > hi {
			errs = append(errs, FieldError{Field: field, Reason: fmt.Sprintf("must be between %g and %g, got %g", lo, hi, v)})
		}
	}

	checkRange("age", p.Age, MinAge, MaxAge)
	checkRange("avg_glucose_level", p.AvgGlucoseLevel, MinGlucose, MaxGlucose)
	checkRange("bmi", p.BMI, MinBMI, MaxBMI)

	if p.Gender == "" {
		errs = append(errs, FieldError{Field: "gender", Reason: "is required"})
	} else if !p.Gender.valid() {
		errs = append(errs, FieldError{Field: "gender", Reason: fmt.Sprintf("unknown value %q", p.Gender)})
	}
	if p.WorkType == "" {
		errs = append(errs, FieldError{Field: "work_type", Reason: "is required"})
	} else if !p.WorkType.valid() {
		errs = append(errs, FieldError{Field: "work_type", Reason: fmt.Sprintf("unknown value %q", p.WorkType)})
	}
	if p.ResidenceType == "" {
		errs = append(errs, FieldError{Field: "residence_type", Reason: "is required"})
	} else if !p.ResidenceType.valid() {
		errs = append(errs, FieldError{Field: "residence_type", Reason: fmt.Sprintf("unknown value %q", p.ResidenceType)})
	}
	if p.SmokingStatus == "" {
		errs = append(errs, FieldError{Field: "smoking_status", Reason: "is required"})
	} else if !p.SmokingStatus.valid() {
		errs = append(errs, FieldError{Field: "smoking_status", Reason: fmt.Sprintf("unknown value %q", p.SmokingStatus)})
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
