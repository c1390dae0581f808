// Package config loads and validates process configuration.
// Configuration comes from config.yaml with environment variable overrides;
// secrets (JWT_SECRET, ORACLE_API_KEY, PGPASSWORD) are env-only.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Oracle provider names accepted by Oracle.Provider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration for plan-generation-api.
type Config struct {
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Oracle   OracleConfig   `yaml:"oracle"`
}

// AuthConfig holds JWT signing configuration for locally issued tokens.
type AuthConfig struct {
	// JWTSecret signs and verifies access tokens (HS256). Secret - env only.
	JWTSecret string `yaml:"-" env:"JWT_SECRET"`

	// TokenTTL is how long issued access tokens stay valid.
	TokenTTL time.Duration `yaml:"token_ttl" env:"AUTH_TOKEN_TTL" env-default:"24h"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"plangen"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"plan_generation"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	MigrationsPath string `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"migrations"`
}

// OracleConfig holds the prompt oracle endpoint configuration.
type OracleConfig struct {
	// Provider selects the backing API: "openai" or "anthropic".
	Provider string `yaml:"provider" env:"ORACLE_PROVIDER" env-default:"openai"`

	// BaseURL overrides the provider's default endpoint. Optional; useful
	// for OpenAI-compatible local endpoints.
	BaseURL string `yaml:"base_url" env:"ORACLE_BASE_URL" env-default:""`

	Model string `yaml:"model" env:"ORACLE_MODEL" env-default:"gpt-4o-mini"`

	// APIKey authenticates against the provider. Secret - env only.
	// Startup fails if unset.
	APIKey string `yaml:"-" env:"ORACLE_API_KEY"`

	// RequestTimeout bounds every oracle call.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"ORACLE_REQUEST_TIMEOUT" env-default:"30s"`

	// FallbackMessage is returned as the agent reply when evaluation fails.
	FallbackMessage string `yaml:"fallback_message" env:"ORACLE_FALLBACK_MESSAGE" env-default:"Could you clarify what you want this prompt to achieve?"`
}

// Load reads configuration from config.yaml with environment variable
// overrides and validates it eagerly so a misconfigured process fails at
// startup rather than on first use.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		// Allow running without a YAML file (env-only deployments).
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Oracle.APIKey == "" {
		return fmt.Errorf("ORACLE_API_KEY must be set")
	}
	if c.Oracle.Provider != ProviderOpenAI && c.Oracle.Provider != ProviderAnthropic {
		return fmt.Errorf("unknown oracle provider %q (want %q or %q)",
			c.Oracle.Provider, ProviderOpenAI, ProviderAnthropic)
	}
	if c.Oracle.Model == "" {
		return fmt.Errorf("oracle model must not be empty")
	}
	if c.Oracle.RequestTimeout <= 0 {
		return fmt.Errorf("oracle request_timeout must be positive")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token_ttl must be positive")
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
