package assess

import (
	"math"

	tea "charm.land/bubbletea/v2"

	"github.com/strokerisk/strokerisk/internal/assessment"
	"github.com/strokerisk/strokerisk/internal/ui/components"
)

// Form field indices, in display order.
const (
	fieldAge = iota
	fieldGender
	fieldHypertension
	fieldHeartDisease
	fieldEverMarried
	fieldWorkType
	fieldResidence
	fieldGlucose
	fieldBMI
	fieldSmoking
	fieldSubmit
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldAge:          "Age",
	fieldGender:       "Gender",
	fieldHypertension: "Hypertension",
	fieldHeartDisease: "Heart Disease",
	fieldEverMarried:  "Ever Married",
	fieldWorkType:     "Work Type",
	fieldResidence:    "Residence Type",
	fieldGlucose:      "Avg Glucose (mg/dL)",
	fieldBMI:          "BMI",
	fieldSmoking:      "Smoking Status",
}

// fieldKeys maps form fields to the names used by validation errors.
var fieldKeys = map[int]string{
	fieldAge:       "age",
	fieldGender:    "gender",
	fieldWorkType:  "work_type",
	fieldResidence: "residence_type",
	fieldGlucose:   "avg_glucose_level",
	fieldBMI:       "bmi",
	fieldSmoking:   "smoking_status",
}

var yesNo = []string{"No", "Yes"}

// form holds the input widgets for a HealthProfile.
type form struct {
	age     components.TextInput
	glucose components.TextInput
	bmi     components.TextInput
	gender  components.Selector
	hyper   components.Selector
	heart   components.Selector
	married components.Selector
	work    components.Selector
	resid   components.Selector
	smoking components.Selector
	focus   int
}

func newForm(p assessment.HealthProfile) form {
	f := form{
		age:     components.NewTextInput("0-120", true, 5),
		glucose: components.NewTextInput("50-300", true, 6),
		bmi:     components.NewTextInput("10-70", true, 5),
		gender:  components.NewSelector(genderOptions(), indexOf(genderOptions(), string(p.Gender))),
		hyper:   components.NewSelector(yesNo, boolIndex(p.Hypertension)),
		heart:   components.NewSelector(yesNo, boolIndex(p.HeartDisease)),
		married: components.NewSelector(yesNo, boolIndex(p.EverMarried)),
		work:    components.NewSelector(workOptions(), workIndex(p.WorkType)),
		resid:   components.NewSelector(residenceOptions(), indexOf(residenceOptions(), string(p.ResidenceType))),
		smoking: components.NewSelector(smokingOptions(), smokingIndex(p.SmokingStatus)),
	}
	f.age.SetValue(assessment.FormatNumber(p.Age))
	f.glucose.SetValue(assessment.FormatNumber(p.AvgGlucoseLevel))
	f.bmi.SetValue(assessment.FormatNumber(p.BMI))
	return f
}

// profile reads the widgets into a HealthProfile. Unparseable numbers
// become NaN so validation reports them.
func (f form) profile() assessment.HealthProfile {
	num := func(t components.TextInput) float64 {
		v, err := t.FloatValue()
		if err != nil {
			return math.NaN()
		}
		return v
	}
	return assessment.HealthProfile{
		Age:             num(f.age),
		Gender:          assessment.Genders()[f.gender.Selected],
		Hypertension:    f.hyper.Selected == 1,
		HeartDisease:    f.heart.Selected == 1,
		EverMarried:     f.married.Selected == 1,
		WorkType:        assessment.WorkTypes()[f.work.Selected],
		ResidenceType:   assessment.ResidenceTypes()[f.resid.Selected],
		AvgGlucoseLevel: num(f.glucose),
		BMI:             num(f.bmi),
		SmokingStatus:   assessment.SmokingStatuses()[f.smoking.Selected],
	}
}

func (f *form) input(field int) *components.TextInput {
	switch field {
	case fieldAge:
		return &f.age
	case fieldGlucose:
		return &f.glucose
	case fieldBMI:
		return &f.bmi
	}
	return nil
}

func (f *form) selector(field int) *components.Selector {
	switch field {
	case fieldGender:
		return &f.gender
	case fieldHypertension:
		return &f.hyper
	case fieldHeartDisease:
		return &f.heart
	case fieldEverMarried:
		return &f.married
	case fieldWorkType:
		return &f.work
	case fieldResidence:
		return &f.resid
	case fieldSmoking:
		return &f.smoking
	}
	return nil
}

func (f *form) setFocus(field int) tea.Cmd {
	for i := 0; i < fieldCount; i++ {
		if in := f.input(i); in != nil {
			in.Blur()
		}
		if sel := f.selector(i); sel != nil {
			sel.Blur()
		}
	}
	f.focus = field
	if sel := f.selector(field); sel != nil {
		sel.Focus()
	}
	if in := f.input(field); in != nil {
		return in.Focus()
	}
	return nil
}

func (f *form) next() tea.Cmd { return f.setFocus((f.focus + 1) % fieldCount) }
func (f *form) prev() tea.Cmd { return f.setFocus((f.focus + fieldCount - 1) % fieldCount) }

// update forwards msg to the focused widget.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if in := f.input(f.focus); in != nil {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return cmd
	}
	if sel := f.selector(f.focus); sel != nil {
		var cmd tea.Cmd
		*sel, cmd = sel.Update(msg)
		return cmd
	}
	return nil
}

// widgetView renders the widget for field.
func (f *form) widgetView(field int) string {
	if in := f.input(field); in != nil {
		return in.View()
	}
	if sel := f.selector(field); sel != nil {
		return sel.View()
	}
	return ""
}

func genderOptions() []string {
	opts := make([]string, 0, 2)
	for _, g := range assessment.Genders() {
		opts = append(opts, string(g))
	}
	return opts
}

func workOptions() []string {
	opts := make([]string, 0, 5)
	for _, w := range assessment.WorkTypes() {
		opts = append(opts, w.Label())
	}
	return opts
}

func residenceOptions() []string {
	opts := make([]string, 0, 2)
	for _, r := range assessment.ResidenceTypes() {
		opts = append(opts, string(r))
	}
	return opts
}

func smokingOptions() []string {
	opts := make([]string, 0, 3)
	for _, s := range assessment.SmokingStatuses() {
		opts = append(opts, s.Label())
	}
	return opts
}

func workIndex(w assessment.WorkType) int {
	for i, v := range assessment.WorkTypes() {
		if v == w {
			return i
		}
	}
	return 0
}

func smokingIndex(s assessment.SmokingStatus) int {
	for i, v := range assessment.SmokingStatuses() {
		if v == s {
			return i
		}
	}
	return 0
}

func indexOf(opts []string, v string) int {
	for i, o := range opts {
		if o == v {
			return i
		}
	}
	return 0
}

func boolIndex(b bool) int {
	if b {
		return 1
	}
	return 0
}
