package oracle

import (
	"fmt"

	"go.uber.org/zap"
)

// NewClient creates an Oracle for the configured provider.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.FallbackMessage == "" {
		return nil, fmt.Errorf("fallback message is required")
	}

	var gen generator
	switch cfg.Provider {
	case "openai", "":
		gen = newOpenAIGenerator(cfg)
	case "anthropic":
		gen = newAnthropicGenerator(cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	return &Client{
		gen:      gen,
		model:    cfg.Model,
		fallback: cfg.FallbackMessage,
		logger:   logger.Named("oracle"),
	}, nil
}
