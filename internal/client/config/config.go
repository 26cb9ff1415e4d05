package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the gophid CLI.
type Config struct {
	ServerEndpointAddr string        `env:"GOPHID_SERVER_ADDRESS"`
	RequestTimeout     time.Duration `env:"GOPHID_REQUEST_TIMEOUT"`
	// Token is the session token used by commands that need one.
	Token string `env:"GOPHID_TOKEN"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 5 * time.Second
}

// LoadConfig applies defaults, then JSON, environment and flags from args.
// It returns the remaining positional arguments (the command and its
// operands).
func LoadConfig(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, nil, fmt.Errorf("json config: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, nil, fmt.Errorf("env config: %w", err)
	}
	rest, err := parseFlags(cfg, args)
	if err != nil {
		return nil, nil, fmt.Errorf("flags: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, nil, fmt.Errorf("request timeout must be positive")
	}
	return cfg, rest, nil
}
