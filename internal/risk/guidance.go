package risk

// Guidance is the care advice shown next to a result.
type Guidance struct {
	Title           string
	Recommendations []string
	Sources         []string
}

var guidanceByTier = map[Tier]Guidance{
	TierHigh: {
		Title: "High Risk - Immediate Medical Consultation Recommended",
		Recommendations: []string{
			"Schedule immediate appointment with healthcare provider",
			"Consult cardiologist or neurologist for comprehensive evaluation",
			"Monitor blood pressure daily (Target: <120/80 mmHg) - WHO Guidelines",
			"Emergency action plan for stroke symptoms (FAST protocol)",
			"Consider medication review with doctor (antiplatelets, statins)",
			"Regular cardiovascular screenings every 3-6 months - AHA Recommendations",
		},
		Sources: []string{"American Heart Association", "World Health Organization", "CDC"},
	},
	TierMedium: {
		Title: "Medium Risk - Preventive Care Recommended",
		Recommendations: []string{
			"Regular health checkups every 6 months",
			"Maintain blood pressure below 130/85 mmHg - AHA Standards",
			"LDL cholesterol target <100 mg/dL - NCEP Guidelines",
			"30 minutes moderate exercise 5 days/week - WHO Physical Activity",
			"DASH diet: Fruits, vegetables, low sodium - NHLBI Recommendation",
			"Smoking cessation and alcohol moderation - CDC Guidelines",
		},
		Sources: []string{"American Stroke Association", "National Institutes of Health"},
	},
	TierLow: {
		Title: "Low Risk - Maintain Healthy Lifestyle",
		Recommendations: []string{
			"Annual preventive health screenings",
			"Continue balanced diet rich in fruits and vegetables",
			"Regular physical activity (150 mins/week moderate) - WHO",
			"Maintain healthy weight (BMI 18.5-24.9)",
			"Blood pressure monitoring monthly",
			"Avoid tobacco and limit alcohol consumption",
		},
		Sources: []string{"World Health Organization", "American Heart Association"},
	},
}

// Recommendations returns the guidance for a tier. Unknown tiers get the
// low-risk guidance.
func Recommendations(t Tier) Guidance {
	if g, ok := guidanceByTier[t]; ok {
		return g
	}
	return guidanceByTier[TierLow]
}

// Reference values above which a measurement is flagged as a risk factor.
const (
	AgeFactorThreshold     = 65
	GlucoseFactorThreshold = 140
	BMIFactorThreshold     = 30
)

// Factor is a single measured value compared with its reference threshold.
type Factor struct {
	Name      string
	Value     float64
	Threshold float64
}

// Elevated reports whether the value is above its threshold.
func (f Factor) Elevated() bool {
	return f.Value > f.Threshold
}

// Factors returns the age, glucose and BMI factors for display.
func Factors(age, glucose, bmi float64) []Factor {
	return []Factor{
		{Name: "Age", Value: age, Threshold: AgeFactorThreshold},
		{Name: "Glucose", Value: glucose, Threshold: GlucoseFactorThreshold},
		{Name: "BMI", Value: bmi, Threshold: BMIFactorThreshold},
	}
}
