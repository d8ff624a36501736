// Package config loads the extractor's settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/google"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/instrumentation"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/logging"
)

// Config holds all settings. Command-line flags override these values.
type Config struct {
	// ClientSecretFile is the OAuth client secret downloaded from the Google
	// Cloud console.
	ClientSecretFile string `env:"GMAIL_EXTRACTOR_CLIENT_SECRET" envDefault:"private/client_secret.json"`

	// TokenFile stores the user's token. Defaults to google.DefaultTokenFile().
	TokenFile string `env:"GMAIL_EXTRACTOR_TOKEN_FILE"`

	// OutputDir receives CSV exports.
	OutputDir string `env:"GMAIL_EXTRACTOR_OUTPUT_DIR" envDefault:"."`

	// ResultsDir receives saved messages and CSVs built from them.
	ResultsDir string `env:"GMAIL_EXTRACTOR_RESULTS_DIR" envDefault:"results"`

	// AuthCallbackAddr is where the authorization flow listens for Google's
	// redirect. It must match a redirect URI allowed for the OAuth client.
	AuthCallbackAddr string `env:"GMAIL_EXTRACTOR_AUTH_ADDR" envDefault:"localhost:9876"`

	LogLevel  string `env:"GMAIL_EXTRACTOR_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"GMAIL_EXTRACTOR_LOG_FORMAT" envDefault:"text"`

	Instrumentation instrumentation.Config
}

// Load reads the given .env files, or ./.env when none are given, then
// parses the environment. A missing .env file is not an error. Variables
// already set in the environment take precedence over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.TokenFile == "" {
		cfg.TokenFile = google.DefaultTokenFile()
	}
	return cfg, nil
}

// Validate checks values that env parsing cannot.
func (c *Config) Validate() error {
	if c.ClientSecretFile == "" {
		return errors.New("client secret file must be set")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q, must be one of: text, json", c.LogFormat)
	}
	return c.Instrumentation.Validate()
}
