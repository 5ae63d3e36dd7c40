package assessment

import (
	"fmt"
	"strconv"
)

// Payload is the JSON body the prediction service accepts.
type Payload struct {
	Age             float64 `json:"age"`
	Gender          string  `json:"gender"`
	Hypertension    int     `json:"hypertension"`
	HeartDisease    int     `json:"heart_disease"`
	EverMarried     string  `json:"ever_married"`
	WorkType        string  `json:"work_type"`
	ResidenceType   string  `json:"Residence_type"`
	AvgGlucoseLevel float64 `json:"avg_glucose_level"`
	BMI             float64 `json:"bmi"`
	SmokingStatus   string  `json:"smoking_status"`
}

// ToPayload converts a validated profile to the service's field encoding.
func (p HealthProfile) ToPayload() Payload {
	return Payload{
		Age:             p.Age,
		Gender:          string(p.Gender),
		Hypertension:    boolInt(p.Hypertension),
		HeartDisease:    boolInt(p.HeartDisease),
		EverMarried:     YesNo(p.EverMarried),
		WorkType:        string(p.WorkType),
		ResidenceType:   string(p.ResidenceType),
		AvgGlucoseLevel: p.AvgGlucoseLevel,
		BMI:             p.BMI,
		SmokingStatus:   serviceSmoking(p.SmokingStatus),
	}
}

func serviceSmoking(s SmokingStatus) string {
	switch s {
	case SmokingNever:
		return "never smoked"
	case SmokingFormerly:
		return "formerly smoked"
	case SmokingCurrently:
		return "smokes"
	default:
		return string(s)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// YesNo renders a boolean as "Yes" or "No".
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// FormatPercent renders a probability as a percentage with one decimal place.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// FormatNumber renders a measurement without trailing zeros, e.g. 72 or 27.5.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
