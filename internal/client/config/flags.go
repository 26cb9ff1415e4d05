package config

import (
	"flag"
	"io"
	"time"
)

// parseFlags populates Config from command-line flags and returns the
// positional arguments that follow them.
//
// Supported flags:
//
//	-a string        address and port of the server
//	-t string        session token
//	-timeout int     request timeout in seconds
//	-c, -config      JSON config path (read by parseJson)
func parseFlags(cfg *Config, args []string) ([]string, error) {
	fs := flag.NewFlagSet("gophid-client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.Token, "t", cfg.Token, "session token")
	timeout := fs.Int("timeout", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.String("c", "", "path to config file")
	fs.String("config", "", "path to config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "timeout" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return fs.Args(), nil
}
