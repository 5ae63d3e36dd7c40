package assessment

import (
	"time"

	"github.com/strokerisk/strokerisk/internal/risk"
)

// Record is one persisted assessment outcome. Records are never modified
// after creation.
type Record struct {
	ID                 string        `json:"id"`
	Profile            HealthProfile `json:"profile"`
	Probability        float64       `json:"probability"`
	Tier               risk.Tier     `json:"tier"`
	CreatedAt          time.Time     `json:"created_at"`
	PredictorRiskLevel string        `json:"predictor_risk_level,omitempty"`
	SubmittedBy        string        `json:"submitted_by,omitempty"`
}

// Check verifies the invariants every stored record must hold.
func (r Record) Check() error {
	return risk.CheckProbability(r.Probability)
}

// PercentString renders the probability as a one-decimal percentage, e.g. "82.0%".
func (r Record) PercentString() string {
	return FormatPercent(r.Probability)
}
