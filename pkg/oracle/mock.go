package oracle

import (
	"context"
)

// MockOracle is a configurable mock for testing workflow logic.
// Set the function fields to control behavior in tests.
type MockOracle struct {
	// EvaluateFunc is called when Evaluate is invoked.
	// If nil, returns a canned evaluation and nil error.
	EvaluateFunc func(ctx context.Context, prompt string) (*Evaluation, error)

	// AnswerFunc is called when Answer is invoked.
	// If nil, returns a canned answer and nil error.
	AnswerFunc func(ctx context.Context, finalPrompt string) (string, error)

	// Call tracking for verification
	EvaluateCalls int
	AnswerCalls   int
}

var _ Oracle = (*MockOracle)(nil)

// NewMockOracle creates a new mock with sensible defaults.
func NewMockOracle() *MockOracle {
	return &MockOracle{}
}

// Evaluate implements Oracle.
func (m *MockOracle) Evaluate(ctx context.Context, prompt string) (*Evaluation, error) {
	m.EvaluateCalls++
	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(ctx, prompt)
	}
	return &Evaluation{Message: "Looks reasonable. Anything to refine?"}, nil
}

// Answer implements Oracle.
func (m *MockOracle) Answer(ctx context.Context, finalPrompt string) (string, error) {
	m.AnswerCalls++
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, finalPrompt)
	}
	return "mock answer", nil
}

// Reset clears call tracking counters.
func (m *MockOracle) Reset() {
	m.EvaluateCalls = 0
	m.AnswerCalls = 0
}
