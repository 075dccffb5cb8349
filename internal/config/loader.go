package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FLAIRBOT_CONFIG is set
//  3. env (prefix FLAIRBOT_)
//
// A missing required credential is a fatal startup error; nothing is fetched
// from the message service before Load succeeds.
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("FLAIRBOT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: FLAIRBOT_CLIENT_ID -> client_id (flat keys).
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.Provider("FLAIRBOT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "flairbot_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks the required credential fields.
func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"client_id", c.ClientID},
		{"client_secret", c.ClientSecret},
		{"username", c.Username},
		{"password", c.Password},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, r.name)
		}
	}
	if strings.TrimSpace(c.Subreddit) == "" {
		return fmt.Errorf("%w: subreddit must not be empty", ErrInvalidConfig)
	}
	return nil
}
