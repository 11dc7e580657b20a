package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pointsexport/internal/config"
	"github.com/rshade/pointsexport/internal/logging"
	"github.com/rshade/pointsexport/internal/points"
)

// noEnv is a lookup that finds nothing.
func noEnv(string) (string, bool) { return "", false }

// envOf returns a lookup backed by vars.
func envOf(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

// writeConfig is a test helper that writes YAML content to a temp file
// and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Full(t *testing.T) {
	path := writeConfig(t, `
channel_id: abc123
cutoff: 500
api:
  base_url: https://example.test/kappa/v2
  timeout: 5s
  requests_per_second: 2.5
output:
  directory: exports
logging:
  level: debug
  format: json
  file: ""
`)

	res, err := config.Load(path, noEnv)
	require.NoError(t, err)

	cfg := res.Config
	assert.Equal(t, path, res.Path)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "abc123", cfg.ChannelID)
	require.NotNil(t, cfg.Cutoff)
	assert.Equal(t, uint64(500), *cfg.Cutoff)
	assert.Equal(t, "https://example.test/kappa/v2", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.InDelta(t, 2.5, cfg.API.RequestsPerSecond, 0.0001)
	assert.Equal(t, "exports", cfg.Output.Directory)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.Logging.File)
}

func TestLoad_MinimalUsesDefaults(t *testing.T) {
	res, err := config.Load(writeConfig(t, "channel_id: abc123\n"), noEnv)
	require.NoError(t, err)

	cfg := res.Config
	assert.Nil(t, cfg.Cutoff)
	assert.Equal(t, points.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Zero(t, cfg.API.RequestsPerSecond)
	assert.Equal(t, ".", cfg.Output.Directory)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, logging.FormatAuto, cfg.Logging.Format)
	assert.Equal(t, "pointsexport.log", cfg.Logging.File)
}

func TestLoad_PartialSectionKeepsDefaults(t *testing.T) {
	res, err := config.Load(writeConfig(t, `
channel_id: abc
api:
  timeout: 2m
`), noEnv)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, res.Config.API.Timeout)
	assert.Equal(t, points.DefaultBaseURL, res.Config.API.BaseURL)
}

func TestLoad_LegacyLayout(t *testing.T) {
	res, err := config.Load(writeConfig(t, `
info:
  streamelements_id: legacy-channel
  cutoff: 25
`), noEnv)
	require.NoError(t, err)

	assert.Equal(t, "legacy-channel", res.Config.ChannelID)
	require.NotNil(t, res.Config.Cutoff)
	assert.Equal(t, uint64(25), *res.Config.Cutoff)
}

func TestLoad_FlatKeysWinOverLegacy(t *testing.T) {
	res, err := config.Load(writeConfig(t, `
channel_id: flat
cutoff: 1
info:
  streamelements_id: legacy
  cutoff: 99
`), noEnv)
	require.NoError(t, err)

	assert.Equal(t, "flat", res.Config.ChannelID)
	assert.Equal(t, uint64(1), *res.Config.Cutoff)
}

func TestLoad_StreamElementsAlias(t *testing.T) {
	res, err := config.Load(writeConfig(t, "streamelements_id: alias\n"), noEnv)
	require.NoError(t, err)
	assert.Equal(t, "alias", res.Config.ChannelID)
}

func TestLoad_CutoffZeroIsSet(t *testing.T) {
	res, err := config.Load(writeConfig(t, "channel_id: a\ncutoff: 0\n"), noEnv)
	require.NoError(t, err)
	require.NotNil(t, res.Config.Cutoff)
	assert.Zero(t, *res.Config.Cutoff)
}

func TestLoad_UnknownKeysWarn(t *testing.T) {
	res, err := config.Load(writeConfig(t, "channel_id: a\nzeta: 1\nalpha: true\n"), noEnv)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`unknown config key "alpha" ignored`,
		`unknown config key "zeta" ignored`,
	}, res.Warnings)
}

func TestLoad_EnvOverrides(t *testing.T) {
	res, err := config.Load(writeConfig(t, "channel_id: from-file\n"), envOf(map[string]string{
		config.EnvChannelID: "from-env",
		config.EnvLogLevel:  "warn",
		config.EnvLogFormat: "json",
	}))
	require.NoError(t, err)

	assert.Equal(t, "from-env", res.Config.ChannelID)
	assert.Equal(t, "warn", res.Config.Logging.Level)
	assert.Equal(t, "json", res.Config.Logging.Format)
}

func TestLoad_EnvSuppliesMissingChannel(t *testing.T) {
	res, err := config.Load(writeConfig(t, "cutoff: 3\n"), envOf(map[string]string{
		config.EnvChannelID: "env-only",
	}))
	require.NoError(t, err)
	assert.Equal(t, "env-only", res.Config.ChannelID)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{name: "empty file", content: "", wantMsg: "channel_id is required"},
		{name: "malformed yaml", content: "channel_id: [unclosed\n", wantMsg: "parsing YAML"},
		{name: "negative cutoff", content: "channel_id: a\ncutoff: -5\n", wantMsg: "parsing YAML"},
		{name: "bad timeout", content: "channel_id: a\napi:\n  timeout: soon\n", wantMsg: "parsing YAML"},
		{name: "negative timeout", content: "channel_id: a\napi:\n  timeout: -1s\n", wantMsg: "api.timeout"},
		{name: "negative rate", content: "channel_id: a\napi:\n  requests_per_second: -1\n", wantMsg: "requests_per_second"},
		{name: "relative base url", content: "channel_id: a\napi:\n  base_url: /kappa\n", wantMsg: "api.base_url"},
		{name: "bad log format", content: "channel_id: a\nlogging:\n  format: xml\n", wantMsg: "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := config.Load(writeConfig(t, tt.content), noEnv)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, points.ErrConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), noEnv)
	require.Error(t, err)
	assert.ErrorIs(t, err, points.ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "flag.yaml", config.ResolvePath("flag.yaml", envOf(map[string]string{config.EnvConfigPath: "env.yaml"})))
	assert.Equal(t, "env.yaml", config.ResolvePath("", envOf(map[string]string{config.EnvConfigPath: "env.yaml"})))
	assert.Equal(t, config.DefaultPath, config.ResolvePath("", noEnv))
}

func TestLoggingConfig_ToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "warn", Format: "json", File: "/var/log/x.log"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.Config{Level: "warn", Format: "json", Output: logging.OutputFile, File: "/var/log/x.log"}, got)

	lc.File = ""
	assert.Equal(t, logging.OutputStderr, lc.ToLoggingConfig().Output)
}

func TestLoggingConfig_Debug(t *testing.T) {
	lc := config.LoggingConfig{Level: "error", Format: "json", File: "x.log"}
	dbg := lc.Debug()

	assert.Equal(t, config.LoggingConfig{Level: "debug", Format: "console"}, dbg)
	assert.Equal(t, "error", lc.Level, "original must be unchanged")
}
