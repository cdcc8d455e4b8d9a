package bot

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/moyogii/sparrowbot/internal/storage"
)

// Deployment environments.
const (
	EnvProduction = "production"
	EnvCanary     = "canary"
)

// Config holds the bot configuration loaded from environment variables.
type Config struct {
	DeploymentEnv  string              `env:"DEPLOYMENT_ENV" envDefault:"production"`
	Token          string              `env:"APP_TOKEN"`
	CanaryToken    string              `env:"APP_TOKEN_CANARY"`
	ClientID       string              `env:"APP_CLIENT_ID"`
	HandlerTimeout time.Duration       `env:"HANDLER_TIMEOUT" envDefault:"10s"`
	HTTPAddr       string              `env:"HTTP_ADDR" envDefault:":30000"`
	SentryDSN      string              `env:"SENTRY_DSN"`
	RedisURL       string              `env:"REDIS_URL"`
	MySQL          storage.MySQLConfig `envPrefix:"MYSQL_"`
}

// DiscordToken returns the token for the selected deployment.
func (c *Config) DiscordToken() string {
	if c.IsCanary() {
		return c.CanaryToken
	}
	return c.Token
}

// IsCanary reports whether the canary bot is selected.
func (c *Config) IsCanary() bool {
	return c.DeploymentEnv == EnvCanary
}

// LoadConfig loads configuration from a .env file, if present, and
// environment variables. Returns an error if required fields are missing.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	switch cfg.DeploymentEnv {
	case EnvProduction, EnvCanary:
	default:
		return nil, fmt.Errorf("unknown deployment environment %q", cfg.DeploymentEnv)
	}
	if cfg.DiscordToken() == "" {
		return nil, fmt.Errorf("no Discord token set for %s deployment", cfg.DeploymentEnv)
	}

	return cfg, nil
}
