package config

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/gophid/internal/flagx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 60*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, 10*time.Minute, c.OAuthStateTTL)
	assert.Equal(t, "http://localhost:3000", c.FrontendURL)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.GoogleEnabled())
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "empty secret", mutate: func(c *Config) { c.SecretKey = "" }},
		{name: "zero ttl", mutate: func(c *Config) { c.AccessTokenValidityDuration = 0 }},
		{name: "cost too low", mutate: func(c *Config) { c.BcryptCost = 1 }},
		{name: "cost too high", mutate: func(c *Config) { c.BcryptCost = 40 }},
		{name: "google without secret", mutate: func(c *Config) {
			c.GoogleClientID = "id"
			c.GoogleRedirectURL = "http://localhost:8080/api/auth/google/callback"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Setenv(flagx.ConfigPathEnv, "")
	path := writeTempJSON(t, map[string]any{
		"secret_key":   "from-json",
		"database_dsn": "postgres://json",
		"bcrypt_cost":  11,
	})
	t.Setenv("GOPHID_SECRET_KEY", "from-env")
	t.Setenv("GOPHID_ACCESS_TOKEN_TTL", "90s")

	cfg, err := LoadConfig([]string{"-c", path, "-a", "127.0.0.1:9090", "-w", "12"})
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.SecretKey, "env overrides json")
	assert.Equal(t, "postgres://json", cfg.DatabaseDSN, "json overrides defaults")
	assert.Equal(t, 12, cfg.BcryptCost, "flags override json")
	assert.Equal(t, "127.0.0.1:9090", cfg.EndpointAddrGRPC)
	assert.Equal(t, 90*time.Second, cfg.AccessTokenValidityDuration, "unset -t keeps env value")
	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
}

func TestLoadConfig_Flags(t *testing.T) {
	t.Setenv(flagx.ConfigPathEnv, "")

	cfg, err := LoadConfig([]string{
		"-a", "127.0.0.1:9090", "-l", "127.0.0.1:9091", "-d", "db", "-s", "secret",
		"-t", "5", "-r", "redis:6379", "-f", "https://app.example.com",
		"-google-client-id", "cid", "-google-client-secret", "csecret",
		"-google-redirect-url=https://api.example.com/api/auth/google/callback",
		"-log-level", "debug", "-unknown", "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, &Config{
		EndpointAddrGRPC:            "127.0.0.1:9090",
		EndpointAddrHTTP:            "127.0.0.1:9091",
		DatabaseDSN:                 "db",
		SecretKey:                   "secret",
		AccessTokenValidityDuration: 5 * time.Minute,
		BcryptCost:                  10,
		RedisAddr:                   "redis:6379",
		GoogleClientID:              "cid",
		GoogleClientSecret:          "csecret",
		GoogleRedirectURL:           "https://api.example.com/api/auth/google/callback",
		OAuthStateTTL:               10 * time.Minute,
		FrontendURL:                 "https://app.example.com",
		LogLevel:                    "debug",
	}, cfg)
	assert.True(t, cfg.GoogleEnabled())
}

func TestLoadConfig_InvalidResult(t *testing.T) {
	t.Setenv(flagx.ConfigPathEnv, "")

	_, err := LoadConfig([]string{"-s", ""})
	assert.Error(t, err)
}
