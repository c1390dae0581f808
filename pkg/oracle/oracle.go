// Package oracle wraps the external AI capability that evaluates draft
// prompts and answers finalized ones.
package oracle

import (
	"context"
)

// Evaluation is the oracle's assessment of a candidate prompt.
type Evaluation struct {
	// Message is the refinement feedback or clarifying question to show the
	// user. Never empty.
	Message string `json:"message"`

	// Suggestions are optional concrete refinements the user can pick from.
	Suggestions []string `json:"suggestions,omitempty"`

	// Degraded is true when the underlying call failed and Message is the
	// configured fallback. The operation still succeeds.
	Degraded bool `json:"-"`
}

// Oracle is the external prompt capability the workflow engine depends on.
//
// Evaluate never returns a hard error: underlying failures are absorbed into
// a fallback clarifying message so drafting can always proceed. Answer is
// allowed to fail visibly because generation is an explicit, retryable user
// action.
type Oracle interface {
	Evaluate(ctx context.Context, prompt string) (*Evaluation, error)
	Answer(ctx context.Context, finalPrompt string) (string, error)
}

// generator is the provider seam: one completion call against a concrete
// backend (OpenAI-compatible or Anthropic).
type generator interface {
	complete(ctx context.Context, systemMessage, userMessage string) (string, error)
}
