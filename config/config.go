// Package config loads process configuration from environment variables.
package config

import (
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds the application configuration loaded from environment
// variables.
type Config struct {
	// DatabaseURL is the Postgres connection string. Empty means the bot
	// runs on the in-memory store only.
	// Environment variable: DATABASE_URL
	DatabaseURL string `koanf:"DATABASE_URL"`

	// Port is the HTTP listen port.
	// Environment variable: PORT
	Port int `koanf:"PORT"`

	// WebhookTokenHash is an optional bcrypt hash of the shared token that
	// gates POST /webhook.
	// Environment variable: WEBHOOK_TOKEN_HASH
	WebhookTokenHash string `koanf:"WEBHOOK_TOKEN_HASH"`

	// StrictBudget rejects expenses that would overdraw the budget instead
	// of recording them with a warning.
	// Environment variable: STRICT_BUDGET
	StrictBudget bool `koanf:"STRICT_BUDGET"`

	// LogJSON switches logging to the JSON handler (for production).
	// Environment variable: LOG_JSON
	LogJSON bool `koanf:"LOG_JSON"`
}

// Load reads the configuration from the environment and fills defaults.
func Load() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		cfg.Port = 5000
	}
	return cfg, nil
}
