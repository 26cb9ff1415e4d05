// Package config builds the server configuration once at startup: defaults,
// then an optional JSON file, then GOPHID_* environment variables, then
// command-line flags. The resulting Config is read-only afterwards and is
// passed explicitly to the components that need it.
package config

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the gophid server.
//
// Fields:
//   - EndpointAddrGRPC / EndpointAddrHTTP: bind addresses of the two APIs.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - AccessTokenValidityDuration: session token lifetime.
//   - BcryptCost: password hashing work factor.
//   - RedisAddr: Redis address or redis:// URL for OAuth state. Empty keeps
//     state in process memory.
//   - Google*: OAuth client registration. Google sign-in is disabled when
//     GoogleClientID is empty.
//   - FrontendURL: where the Google callback redirects the browser.
type Config struct {
	EndpointAddrGRPC            string        `env:"GOPHID_GRPC_ADDRESS"`
	EndpointAddrHTTP            string        `env:"GOPHID_HTTP_ADDRESS"`
	DatabaseDSN                 string        `env:"GOPHID_DATABASE_DSN"`
	SecretKey                   string        `env:"GOPHID_SECRET_KEY"`
	AccessTokenValidityDuration time.Duration `env:"GOPHID_ACCESS_TOKEN_TTL"`
	BcryptCost                  int           `env:"GOPHID_BCRYPT_COST"`
	RedisAddr                   string        `env:"GOPHID_REDIS_ADDR"`
	GoogleClientID              string        `env:"GOPHID_GOOGLE_CLIENT_ID"`
	GoogleClientSecret          string        `env:"GOPHID_GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL           string        `env:"GOPHID_GOOGLE_REDIRECT_URL"`
	OAuthStateTTL               time.Duration `env:"GOPHID_OAUTH_STATE_TTL"`
	FrontendURL                 string        `env:"GOPHID_FRONTEND_URL"`
	LogLevel                    string        `env:"GOPHID_LOG_LEVEL"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 60 * time.Minute
	c.BcryptCost = 10
	c.RedisAddr = ""
	c.OAuthStateTTL = 10 * time.Minute
	c.FrontendURL = "http://localhost:3000"
	c.LogLevel = "info"
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != ""
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("secret key is required")
	}
	if c.AccessTokenValidityDuration <= 0 {
		return fmt.Errorf("access token validity must be positive, got %s", c.AccessTokenValidityDuration)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be within [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.GoogleEnabled() && (c.GoogleClientSecret == "" || c.GoogleRedirectURL == "") {
		return errors.New("google client secret and redirect url are required when google client id is set")
	}
	return nil
}

// LoadConfig builds a Config from defaults, the JSON file named by -c/-config
// (or $GOPHID_CONFIG), the environment and finally the flags in args
// (normally os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
