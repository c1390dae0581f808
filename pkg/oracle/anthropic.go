package oracle

import (
	"context"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
)

const anthropicMaxTokens = 2000

// anthropicGenerator talks to the Anthropic Messages API.
type anthropicGenerator struct {
	client *anthropic.Client
	model  string
}

var _ generator = (*anthropicGenerator)(nil)

func newAnthropicGenerator(cfg *Config) *anthropicGenerator {
	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")))
	}

	return &anthropicGenerator{
		client: anthropic.NewClient(cfg.APIKey, opts...),
		model:  cfg.Model,
	}
}

func (g *anthropicGenerator) complete(ctx context.Context, systemMessage, userMessage string) (string, error) {
	resp, err := g.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(g.model),
		System:    systemMessage,
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(userMessage),
		},
	})
	if err != nil {
		return "", err
	}

	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			return strings.TrimSpace(*block.Text), nil
		}
	}
	return "", nil
}
