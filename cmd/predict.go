package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strokerisk/strokerisk/internal/assessment"
	"github.com/strokerisk/strokerisk/internal/predictor"
	"github.com/strokerisk/strokerisk/internal/risk"
)

type profileFlags struct {
	age          float64
	gender       string
	hypertension bool
	heartDisease bool
	everMarried  bool
	workType     string
	residence    string
	glucose      float64
	bmi          float64
	smoking      string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	d := assessment.DefaultProfile()
	fs := cmd.Flags()
	fs.Float64Var(&f.age, "age", d.Age, fmt.Sprintf("Age in years (%g-%g)", float64(assessment.MinAge), float64(assessment.MaxAge)))
	fs.StringVar(&f.gender, "gender", string(d.Gender), "Male or Female")
	fs.BoolVar(&f.hypertension, "hypertension", d.Hypertension, "Has hypertension")
	fs.BoolVar(&f.heartDisease, "heart-disease", d.HeartDisease, "Has heart disease")
	fs.BoolVar(&f.everMarried, "ever-married", d.EverMarried, "Has ever been married")
	fs.StringVar(&f.workType, "work-type", string(d.WorkType), "Private, Self-employed, Govt_job, children or Never_worked")
	fs.StringVar(&f.residence, "residence", string(d.ResidenceType), "Urban or Rural")
	fs.Float64Var(&f.glucose, "glucose", d.AvgGlucoseLevel, fmt.Sprintf("Average glucose level in mg/dL (%g-%g)", float64(assessment.MinGlucose), float64(assessment.MaxGlucose)))
	fs.Float64Var(&f.bmi, "bmi", d.BMI, fmt.Sprintf("Body mass index (%g-%g)", float64(assessment.MinBMI), float64(assessment.MaxBMI)))
	fs.StringVar(&f.smoking, "smoking", string(d.SmokingStatus), "never, formerly or currently")
}

func (f *profileFlags) profile() (assessment.HealthProfile, error) {
	p := assessment.HealthProfile{
		Age:             f.age,
		Hypertension:    f.hypertension,
		HeartDisease:    f.heartDisease,
		EverMarried:     f.everMarried,
		AvgGlucoseLevel: f.glucose,
		BMI:             f.bmi,
	}
	var err error
	if p.Gender, err = assessment.ParseGender(f.gender); err != nil {
		return p, err
	}
	if p.WorkType, err = assessment.ParseWorkType(f.workType); err != nil {
		return p, err
	}
	if p.ResidenceType, err = assessment.ParseResidenceType(f.residence); err != nil {
		return p, err
	}
	if p.SmokingStatus, err = assessment.ParseSmokingStatus(f.smoking); err != nil {
		return p, err
	}
	return p, nil
}

func newPredictCmd() *cobra.Command {
	var (
		pf   profileFlags
		user string
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Assess one health profile and record the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := pf.profile()
			if err != nil {
				return err
			}

			e, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			flow := e.flow
			if user != "" {
				flow = flow.WithUser(user)
			}

			out, err := flow.Submit(cmd.Context(), profile)
			if err != nil {
				var perr *predictor.PredictionError
				if errors.As(err, &perr) {
					return errors.New(perr.UserMessage())
				}
				return err
			}

			printResult(cmd.OutOrStdout(), out.Record, out.Classification)
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&user, "user", "", "Record the submission under this username")
	return cmd
}

func printResult(w io.Writer, r *assessment.Record, c risk.Classification) {
	g := risk.Recommendations(c.Tier)

	fmt.Fprintf(w, "Risk tier:    %s (%s)\n", c.Tier.DisplayName(), c.Tier)
	fmt.Fprintf(w, "Probability:  %s\n", r.PercentString())
	fmt.Fprintf(w, "Record ID:    %s\n", r.ID)
	fmt.Fprintln(w)
	fmt.Fprintln(w, g.Title)
	for _, rec := range g.Recommendations {
		fmt.Fprintf(w, "  • %s\n", rec)
	}
	fmt.Fprintf(w, "\nSources: %s\n", strings.Join(g.Sources, ", "))

	var elevated []string
	for _, f := range risk.Factors(r.Profile.Age, r.Profile.AvgGlucoseLevel, r.Profile.BMI) {
		if f.Elevated() {
			elevated = append(elevated, fmt.Sprintf("%s %s (> %s)", f.Name,
				assessment.FormatNumber(f.Value), assessment.FormatNumber(f.Threshold)))
		}
	}
	if len(elevated) > 0 {
		fmt.Fprintf(w, "Elevated factors: %s\n", strings.Join(elevated, ", "))
	}
}
