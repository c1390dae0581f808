package oracle

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const evaluateSystemMessage = `You are a prompt refinement assistant. The user gives you a draft prompt they intend to send to an AI system. Assess it and reply with strictly this JSON object and nothing else:
{"message": "<your feedback or one clarifying question>", "suggestions": ["<optional concrete refinement>", "..."]}
Keep the message short and actionable. Omit suggestions you are not confident in.`

const answerSystemMessage = `You are a helpful assistant. Answer the user's prompt directly and completely.`

// Config holds configuration for creating an oracle client.
type Config struct {
	Provider string // "openai" or "anthropic"
	BaseURL  string // Optional endpoint override
	Model    string
	APIKey   string
	// FallbackMessage is substituted as the agent reply when evaluation
	// fails. Must not be empty.
	FallbackMessage string
}

// Client implements Oracle on top of a provider generator.
type Client struct {
	gen      generator
	model    string
	fallback string
	logger   *zap.Logger
}

var _ Oracle = (*Client)(nil)

// Evaluate asks the oracle to assess a draft prompt. It never returns a hard
// error: provider failures and undecodable output degrade to the configured
// fallback clarifying message so the workflow can always proceed.
func (c *Client) Evaluate(ctx context.Context, prompt string) (*Evaluation, error) {
	start := time.Now()

	completion, err := c.gen.complete(ctx, evaluateSystemMessage, prompt)
	if err != nil {
		classified := ClassifyError(err)
		c.logger.Warn("Prompt evaluation degraded to fallback",
			zap.String("model", c.model),
			zap.String("error_type", string(classified.Type)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return c.fallbackEvaluation(), nil
	}

	ev, ok := decodeEvaluation(completion)
	if !ok {
		c.logger.Warn("Empty evaluation from oracle, substituting fallback",
			zap.String("model", c.model),
			zap.Duration("elapsed", time.Since(start)))
		return c.fallbackEvaluation(), nil
	}

	c.logger.Debug("Prompt evaluated",
		zap.String("model", c.model),
		zap.Int("suggestions", len(ev.Suggestions)),
		zap.Duration("elapsed", time.Since(start)))
	return ev, nil
}

// Answer produces the final answer for a locked-in prompt. Failures are
// returned as classified errors; callers may retry the retryable ones.
func (c *Client) Answer(ctx context.Context, finalPrompt string) (string, error) {
	start := time.Now()

	completion, err := c.gen.complete(ctx, answerSystemMessage, finalPrompt)
	if err != nil {
		classified := ClassifyError(err)
		c.logger.Error("Answer generation failed",
			zap.String("model", c.model),
			zap.String("error_type", string(classified.Type)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", classified
	}

	if completion == "" {
		return "", NewError(ErrorTypeEmpty, "empty answer from oracle", true, nil)
	}

	c.logger.Info("Answer generated",
		zap.String("model", c.model),
		zap.Int("answer_len", len(completion)),
		zap.Duration("elapsed", time.Since(start)))
	return completion, nil
}

func (c *Client) fallbackEvaluation() *Evaluation {
	return &Evaluation{
		Message:  c.fallback,
		Degraded: true,
	}
}
