package risk

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidProbability is returned when a probability is not a finite
// number in [0,1]. Seeing it means the predictor contract was broken.
var ErrInvalidProbability = errors.New("invalid probability")

// Thresholds holds the tier cutoffs shared by classification, statistics,
// filtering and exports.
//
//	p >  High          -> HIGH
//	Medium < p <= High -> MEDIUM
//	p <= Medium        -> LOW
type Thresholds struct {
	Medium float64 `json:"medium" mapstructure:"medium_threshold"`
	High   float64 `json:"high" mapstructure:"high_threshold"`
}

// DefaultThresholds returns the 0.4 / 0.7 cutoffs used by the prediction service.
func DefaultThresholds() Thresholds {
	return Thresholds{Medium: 0.4, High: 0.7}
}

// Validate checks 0 <= Medium < High <= 1.
func (th Thresholds) Validate() error {
	if math.IsNaN(th.Medium) || math.IsNaN(th.High) {
		return fmt.Errorf("risk thresholds must be numbers")
	}
	if th.Medium < 0 || th.High > 1 {
		return fmt.Errorf("risk thresholds must lie in [0,1], got medium=%v high=%v", th.Medium, th.High)
	}
	if th.Medium >= th.High {
		return fmt.Errorf("medium threshold %v must be below high threshold %v", th.Medium, th.High)
	}
	return nil
}

// Classification is the result of classifying a probability.
type Classification struct {
	Tier     Tier
	Color    ColorToken
	Priority int
}

// Classify maps a probability to a tier using the default thresholds.
func Classify(p float64) (Classification, error) {
	return DefaultThresholds().Classify(p)
}

// Classify maps a probability to a tier.
func (th Thresholds) Classify(p float64) (Classification, error) {
	if err := CheckProbability(p); err != nil {
		return Classification{}, err
	}
	tier := th.TierOf(p)
	return Classification{
		Tier:     tier,
		Color:    tier.Color(),
		Priority: tier.Priority(),
	}, nil
}

// TierOf returns the tier for p without range checks. Callers holding
// values that already passed CheckProbability (stored records) use it.
func (th Thresholds) TierOf(p float64) Tier {
	switch {
	case p > th.High:
		return TierHigh
	case p > th.Medium:
		return TierMedium
	default:
		return TierLow
	}
}

// CheckProbability returns ErrInvalidProbability unless p is finite and in [0,1].
func CheckProbability(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 || p > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidProbability, p)
	}
	return nil
}

// Band describes the probability range of a tier, e.g. ">70%".
func (th Thresholds) Band(t Tier) string {
	switch t {
	case TierHigh:
		return fmt.Sprintf(">%s%%", pct(th.High))
	case TierMedium:
		return fmt.Sprintf("%s-%s%%", pct(th.Medium), pct(th.High))
	default:
		return fmt.Sprintf("≤%s%%", pct(th.Medium))
	}
}

func pct(v float64) string {
	return fmt.Sprintf("%g", math.Round(v*1000)/10)
}
