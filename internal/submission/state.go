package submission

// State is a phase of a single submission.
type State int

const (
	StateIdle              State = iota // Not started
	StateValidating                     // Checking the profile locally
	StateAwaitingPredictor              // Waiting on the prediction service
	StateSucceeded                      // Record appended to the store
	StateFailed                         // Validation, prediction or storage failed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateAwaitingPredictor:
		return "awaiting_predictor"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}
