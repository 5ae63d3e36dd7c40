package predictor

import (
	"context"
	"sync"

	"github.com/strokerisk/strokerisk/internal/assessment"
)

// MockResponse is a canned answer for the MockPredictor.
type MockResponse struct {
	Result *Result
	Err    error
}

// MockPredictor is a deterministic Predictor for testing.
// It returns canned responses in FIFO order and records all requests.
type MockPredictor struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []assessment.HealthProfile
}

var _ Predictor = (*MockPredictor)(nil)

// NewMockPredictor creates a MockPredictor with the given canned responses.
func NewMockPredictor(responses ...MockResponse) *MockPredictor {
	return &MockPredictor{responses: responses}
}

// Predict returns the next canned response, or an unreachable error when
// the queue is empty.
func (m *MockPredictor) Predict(_ context.Context, profile assessment.HealthProfile) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, profile)

	if len(m.responses) == 0 {
		return nil, unreachable("no canned response", 0, nil)
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}
	r := *resp.Result
	return &r, nil
}

// Health always reports a healthy service.
func (m *MockPredictor) Health(context.Context) (*Health, error) {
	return &Health{Status: "healthy", ModelLoaded: true}, nil
}

// AddResponse appends a canned response to the queue.
func (m *MockPredictor) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Predict calls made.
func (m *MockPredictor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Probability is a shorthand for a successful canned response.
func Probability(p float64) MockResponse {
	return MockResponse{Result: &Result{Probability: p}}
}

// Failure is a shorthand for a failed canned response of the given kind.
func Failure(kind Kind, msg string) MockResponse {
	return MockResponse{Err: &PredictionError{Kind: kind, Message: msg}}
}
