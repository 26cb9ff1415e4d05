package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/gophid/internal/flagx"
)

var knownFlags = []string{
	"-a", "-l", "-d", "-s", "-t", "-w", "-r", "-f",
	"-google-client-id", "-google-client-secret", "-google-redirect-url",
	"-log-level",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-l string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-w int      bcrypt cost
//	-r string   Redis address for OAuth state
//	-f string   frontend URL for the Google callback redirect
//	-google-client-id, -google-client-secret, -google-redirect-url string
//	-log-level string
//
// Args are filtered through flagx.FilterArgs first so -c/-config and flags
// of other components do not cause parse errors.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("gophid", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "l", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing key")
	ttl := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.IntVar(&config.BcryptCost, "w", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.FrontendURL, "f", config.FrontendURL, "frontend URL")
	fs.StringVar(&config.GoogleClientID, "google-client-id", config.GoogleClientID, "google oauth client id")
	fs.StringVar(&config.GoogleClientSecret, "google-client-secret", config.GoogleClientSecret, "google oauth client secret")
	fs.StringVar(&config.GoogleRedirectURL, "google-redirect-url", config.GoogleRedirectURL, "google oauth redirect url")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*ttl) * time.Minute
		}
	})
	return nil
}
