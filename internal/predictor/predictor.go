package predictor

import (
	"context"

	"github.com/strokerisk/strokerisk/internal/assessment"
)

// Predictor is the seam to the external stroke-prediction service.
// Implementations make exactly one attempt per call and never retry.
type Predictor interface {
	// Predict sends a validated profile and returns the service's result.
	// Failures are returned as *PredictionError.
	Predict(ctx context.Context, profile assessment.HealthProfile) (*Result, error)
}

// Result is a successful prediction.
type Result struct {
	// Probability of stroke in [0,1].
	Probability float64

	// RiskLevel is the tier name the service computed itself. It is kept
	// for reference only; local classification is authoritative.
	RiskLevel string

	// Prediction is the service's binary decision at ThresholdUsed.
	Prediction int

	// ThresholdUsed is the service's decision threshold, 0 when absent.
	ThresholdUsed float64
}

// Health is the service's /health answer.
type Health struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// HealthChecker is implemented by predictors that can probe the service.
type HealthChecker interface {
	Health(ctx context.Context) (*Health, error)
}
