// Package config loads and validates the pointsexport configuration file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rshade/pointsexport/internal/logging"
	"github.com/rshade/pointsexport/internal/points"
	"github.com/rshade/pointsexport/internal/points/client"
)

// Environment variables consulted by ApplyEnv and the CLI.
const (
	EnvConfigPath = "POINTSEXPORT_CONFIG"
	EnvChannelID  = "POINTSEXPORT_CHANNEL_ID"
	EnvLogLevel   = "POINTSEXPORT_LOG_LEVEL"
	EnvLogFormat  = "POINTSEXPORT_LOG_FORMAT"
)

// DefaultPath is the config file read when neither --config nor POINTSEXPORT_CONFIG is set.
const DefaultPath = "config.yaml"

// Config is the decoded configuration file.
type Config struct {
	// ChannelID is the StreamElements channel whose leaderboard is exported.
	ChannelID string `yaml:"channel_id"`

	// Cutoff is the exclusive point floor. Nil exports everything.
	Cutoff *uint64 `yaml:"cutoff,omitempty"`

	API     APIConfig     `yaml:"api"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the upstream points API client.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// RequestsPerSecond paces page requests. Zero disables pacing.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// OutputConfig configures where the CSV file is written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// LoggingConfig configures the operational log.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File receives the operational log. Empty logs to stderr only.
	File string `yaml:"file"`
}

// Default returns a Config with every optional field populated.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: points.DefaultBaseURL,
			Timeout: client.DefaultTimeout,
		},
		Output: OutputConfig{
			Directory: ".",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatAuto,
			File:   "pointsexport.log",
		},
	}
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvChannelID); ok && v != "" {
		c.ChannelID = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.ChannelID) == "" {
		errs = append(errs, errors.New("channel_id is required"))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be >= 0, got %s", c.API.Timeout))
	}
	if c.API.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("api.requests_per_second must be >= 0, got %g", c.API.RequestsPerSecond))
	}
	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL))
		}
	}
	switch c.Logging.Format {
	case "", logging.FormatAuto, logging.FormatConsole, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("logging.format must be auto, console or json, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
