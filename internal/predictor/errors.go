package predictor

import (
	"errors"
	"fmt"
)

// Kind classifies a prediction failure.
type Kind string

const (
	// KindUnreachable: the service could not be reached or failed
	// without a usable answer (connection refused, timeout, 5xx).
	KindUnreachable Kind = "unreachable"

	// KindRejected: the service answered and explicitly refused the input.
	KindRejected Kind = "rejected"

	// KindMalformed: the service answered with something that does not
	// honor the response contract.
	KindMalformed Kind = "malformed"
)

// PredictionError is returned for every failed prediction.
type PredictionError struct {
	Kind Kind

	// Message is the human-readable cause shown to the user.
	Message string

	// StatusCode is the HTTP status when a response was received.
	StatusCode int

	Err error
}

func (e *PredictionError) Error() string {
	msg := fmt.Sprintf("prediction %s: %s", e.Kind, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PredictionError) Unwrap() error { return e.Err }

// UserMessage returns the text shown next to the retry affordance.
func (e *PredictionError) UserMessage() string {
	switch e.Kind {
	case KindUnreachable:
		return "Failed to connect to the prediction service. Make sure it is running and try again."
	case KindRejected:
		return "Prediction failed: " + e.Message
	default:
		return "The prediction service returned an unexpected response: " + e.Message
	}
}

func unreachable(msg string, status int, err error) *PredictionError {
	return &PredictionError{Kind: KindUnreachable, Message: msg, StatusCode: status, Err: err}
}

func rejected(msg string, status int) *PredictionError {
	return &PredictionError{Kind: KindRejected, Message: msg, StatusCode: status}
}

func malformed(msg string, status int, err error) *PredictionError {
	return &PredictionError{Kind: KindMalformed, Message: msg, StatusCode: status, Err: err}
}

// KindOf returns the failure kind of err, or "" when err is not a
// *PredictionError.
func KindOf(err error) Kind {
	var pe *PredictionError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// IsUnreachable reports whether err is a transport failure.
func IsUnreachable(err error) bool { return KindOf(err) == KindUnreachable }

// IsRejected reports whether err is a business rejection by the service.
func IsRejected(err error) bool { return KindOf(err) == KindRejected }
