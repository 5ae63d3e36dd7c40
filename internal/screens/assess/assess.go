package assess

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/strokerisk/strokerisk/internal/assessment"
	"github.com/strokerisk/strokerisk/internal/predictor"
	"github.com/strokerisk/strokerisk/internal/router"
	"github.com/strokerisk/strokerisk/internal/screen"
	"github.com/strokerisk/strokerisk/internal/submission"
	"github.com/strokerisk/strokerisk/internal/ui/layout"
)

// phase is the screen's view of the submission state machine.
type phase int

const (
	phaseEditing phase = iota
	phaseSubmitting
	phaseResult
	phaseFailed
)

// Submitter runs one assessment submission.
type Submitter interface {
	Submit(ctx context.Context, p assessment.HealthProfile) (*submission.Outcome, error)
}

// AssessScreen is the health-profile form with its result card.
type AssessScreen struct {
	submitter Submitter
	initial   assessment.HealthProfile

	form    form
	phase   phase
	spinner spinner.Model

	outcome     *submission.Outcome
	fieldErrors map[string]string
	errMsg      string
	lastProfile assessment.HealthProfile
}

var _ screen.Screen = (*AssessScreen)(nil)
var _ screen.KeyHintProvider = (*AssessScreen)(nil)

// New creates an AssessScreen pre-filled with initial.
func New(s Submitter, initial assessment.HealthProfile) *AssessScreen {
	return &AssessScreen{
		submitter: s,
		initial:   initial,
		form:      newForm(initial),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *AssessScreen) Init() tea.Cmd {
	return s.form.setFocus(fieldAge)
}

func (s *AssessScreen) Title() string {
	return "Risk Assessment"
}

func (s *AssessScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseResult:
		return []layout.KeyHint{
			{Key: "n", Description: "New assessment"},
			{Key: "e", Description: "Edit"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseFailed:
		return []layout.KeyHint{
			{Key: "r", Description: "Retry"},
			{Key: "e", Description: "Edit"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Field"},
			{Key: "←→", Description: "Choose"},
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *AssessScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submitDoneMsg:
		s.handleDone(msg)
		return s, nil

	case spinner.TickMsg:
		if s.phase != phaseSubmitting {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}

	if s.phase == phaseEditing {
		return s, s.form.update(msg)
	}
	return s, nil
}

func (s *AssessScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	switch s.phase {
	case phaseSubmitting:
		return nil

	case phaseResult:
		switch key {
		case "n":
			fresh := New(s.submitter, s.initial)
			return func() tea.Msg { return router.ReplaceScreenMsg{Screen: fresh} }
		case "e":
			s.phase = phaseEditing
			return s.form.setFocus(fieldAge)
		}
		return nil

	case phaseFailed:
		switch key {
		case "r":
			return s.submit(s.lastProfile)
		case "e":
			s.phase = phaseEditing
			return s.form.setFocus(s.form.focus)
		}
		return nil
	}

	switch key {
	case "tab", "down":
		return s.form.next()
	case "shift+tab", "up":
		return s.form.prev()
	case "ctrl+s":
		return s.submit(s.form.profile())
	case "enter":
		if s.form.focus == fieldSubmit {
			return s.submit(s.form.profile())
		}
		return s.form.next()
	}
	return s.form.update(msg)
}

// submit starts one asynchronous submission.
func (s *AssessScreen) submit(p assessment.HealthProfile) tea.Cmd {
	s.phase = phaseSubmitting
	s.errMsg = ""
	s.fieldErrors = nil
	s.lastProfile = p

	submitter := s.submitter
	run := func() tea.Msg {
		out, err := submitter.Submit(context.Background(), p)
		return submitDoneMsg{Outcome: out, Err: err}
	}
	return tea.Batch(run, s.spinner.Tick)
}

func (s *AssessScreen) handleDone(msg submitDoneMsg) {
	s.outcome = msg.Outcome
	if msg.Err == nil {
		s.phase = phaseResult
		return
	}

	var ve *assessment.ValidationError
	if errors.As(msg.Err, &ve) {
		// Input problems go back to the form, not the retry prompt.
		s.phase = phaseEditing
		s.fieldErrors = make(map[string]string, len(ve.Fields))
		for _, fe := range ve.Fields {
			s.fieldErrors[fe.Field] = fe.Reason
		}
		s.errMsg = "Please correct the highlighted fields"
		return
	}

	s.phase = phaseFailed
	var pe *predictor.PredictionError
	if errors.As(msg.Err, &pe) {
		s.errMsg = pe.UserMessage()
	} else {
		s.errMsg = "Could not save the assessment: " + msg.Err.Error()
	}
}
