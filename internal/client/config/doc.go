// Package config loads the gophid client settings.
//
// Sources, later overriding earlier: built-in defaults, a JSON file named by
// -c/-config (or $GOPHID_CONFIG), GOPHID_* environment variables, and
// command-line flags.
package config
