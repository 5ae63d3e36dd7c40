package assess

import (
	"github.com/strokerisk/strokerisk/internal/submission"
)

// submitDoneMsg carries the result of one Flow.Submit call.
type submitDoneMsg struct {
	Outcome *submission.Outcome
	Err     error
}
