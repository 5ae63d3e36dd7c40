package risk

import (
	"fmt"
	"strings"
)

// Tier is the risk bucket derived from a stroke probability.
type Tier string

const (
	TierLow    Tier = "LOW"
	TierMedium Tier = "MEDIUM"
	TierHigh   Tier = "HIGH"
)

// AllTiers returns all tiers from highest to lowest priority.
func AllTiers() []Tier {
	return []Tier{TierHigh, TierMedium, TierLow}
}

// ParseTier parses a tier name case-insensitively.
func ParseTier(s string) (Tier, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH":
		return TierHigh, nil
	case "MEDIUM":
		return TierMedium, nil
	case "LOW":
		return TierLow, nil
	}
	return "", fmt.Errorf("unknown risk tier %q", s)
}

// DisplayName returns a human-readable label for the tier.
func (t Tier) DisplayName() string {
	switch t {
	case TierHigh:
		return "High Risk"
	case TierMedium:
		return "Medium Risk"
	case TierLow:
		return "Low Risk"
	default:
		return string(t)
	}
}

// Priority orders tiers for sorting and attention: higher is more urgent.
func (t Tier) Priority() int {
	switch t {
	case TierHigh:
		return 3
	case TierMedium:
		return 2
	case TierLow:
		return 1
	default:
		return 0
	}
}

// Color returns the display color token for the tier.
func (t Tier) Color() ColorToken {
	switch t {
	case TierHigh:
		return ColorHigh
	case TierMedium:
		return ColorMedium
	default:
		return ColorLow
	}
}

// ColorToken is a hex color used by every view that colors a tier.
type ColorToken string

const (
	ColorHigh   ColorToken = "#dc2626"
	ColorMedium ColorToken = "#ea580c"
	ColorLow    ColorToken = "#16a34a"
)
