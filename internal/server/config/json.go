package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophid/internal/flagx"
	"github.com/dmitrijs2005/gophid/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
// Only keys present in the file override the current values.
type JsonConfig struct {
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  *int            `json:"bcrypt_cost"`
	RedisAddr                   *string         `json:"redis_addr"`
	GoogleClientID              *string         `json:"google_client_id"`
	GoogleClientSecret          *string         `json:"google_client_secret"`
	GoogleRedirectURL           *string         `json:"google_redirect_url"`
	OAuthStateTTL               *timex.Duration `json:"oauth_state_ttl"`
	FrontendURL                 *string         `json:"frontend_url"`
	LogLevel                    *string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config (or $GOPHID_CONFIG) into
// config. Nothing happens when no file is named.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.RedisAddr, c.RedisAddr)
	setIf(&config.GoogleClientID, c.GoogleClientID)
	setIf(&config.GoogleClientSecret, c.GoogleClientSecret)
	setIf(&config.GoogleRedirectURL, c.GoogleRedirectURL)
	setIf(&config.FrontendURL, c.FrontendURL)
	setIf(&config.LogLevel, c.LogLevel)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.OAuthStateTTL != nil {
		config.OAuthStateTTL = c.OAuthStateTTL.Duration
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
