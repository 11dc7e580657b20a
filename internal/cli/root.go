package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/pointsexport/internal/config"
	"github.com/rshade/pointsexport/internal/logging"
	"github.com/rshade/pointsexport/internal/points"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// globalOptions carries persistent flag values and the loaded config to subcommands.
type globalOptions struct {
	configPath string
	debug      bool
	outputDir  string
	cutoff     uint64
	timeout    time.Duration

	lookupEnv func(string) (string, bool)
	now       func() time.Time

	loaded    *config.LoadResult
	logResult *logging.LogPathResult
}

// NewRootCmd creates the root Cobra command for the pointsexport CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv, time.Now)
}

// NewRootCmdWithEnv creates the root command with explicit env lookup and clock for testability.
func NewRootCmdWithEnv(
	ver string,
	lookupEnv func(string) (string, bool),
	now func() time.Time,
) *cobra.Command {
	opts := &globalOptions{lookupEnv: lookupEnv, now: now}

	cmd := &cobra.Command{
		Use:           "pointsexport",
		Short:         "Export StreamElements points leaderboards to CSV",
		Long:          "pointsexport: page through a StreamElements points leaderboard and write it to a dated CSV file",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !needsConfig(cmd) {
				return nil
			}
			return opts.prepare(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(opts.logResult)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		fmt.Sprintf("path to the config file (default %q, or $%s)", config.DefaultPath, config.EnvConfigPath))
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging to the console")
	cmd.PersistentFlags().StringVar(&opts.outputDir, "output-dir", "",
		"directory for the CSV file (overrides output.directory)")
	cmd.PersistentFlags().Uint64Var(&opts.cutoff, "cutoff", 0,
		"exclusive point floor; users at or below it are omitted (overrides cutoff)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0,
		"per-request timeout, e.g. 45s (overrides api.timeout; 0 keeps the config value)")

	cmd.AddCommand(
		newExportCmd(opts, points.ModeAlltime),
		newExportCmd(opts, points.ModeTop),
		newConfigCmd(opts),
	)

	return cmd
}

const rootCmdExample = `  # Export the all-time leaderboard using ./config.yaml
  pointsexport alltime

  # Export the current top leaderboard with a different config file
  pointsexport top --config /etc/pointsexport/config.yaml

  # Only keep users above 500 points, writing into ./exports
  pointsexport alltime --cutoff 500 --output-dir exports

  # Check the configuration without contacting the API
  pointsexport config validate`

// needsConfig reports whether cmd reads the config file. Help and shell completion
// commands run without one and leave no log file behind.
func needsConfig(cmd *cobra.Command) bool {
	if !cmd.Runnable() {
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// prepare loads the config, applies flag overrides and sets up logging.
// Logging is configured even when the config fails to load so the failure reaches the log.
func (o *globalOptions) prepare(cmd *cobra.Command) error {
	path := config.ResolvePath(o.configPath, o.lookupEnv)

	loaded, err := config.Load(path, o.lookupEnv)
	if err != nil {
		loggingCfg := config.Default().Logging
		if o.debug {
			loggingCfg = loggingCfg.Debug()
		}
		result := setupLogging(cmd, loggingCfg)
		o.logResult = &result
		logger.Error().Ctx(cmd.Context()).Err(err).Str("config", path).Msg("configuration failed to load")
		_ = cleanupLogging(o.logResult)
		return err
	}

	cfg := loaded.Config
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Output.Directory = o.outputDir
	}
	if flags.Changed("cutoff") {
		cutoff := o.cutoff
		cfg.Cutoff = &cutoff
	}
	if flags.Changed("timeout") && o.timeout > 0 {
		cfg.API.Timeout = o.timeout
	}
	o.loaded = loaded

	loggingCfg := cfg.Logging
	if o.debug {
		loggingCfg = loggingCfg.Debug()
	}
	result := setupLogging(cmd, loggingCfg)
	o.logResult = &result

	for _, w := range loaded.Warnings {
		logger.Warn().Ctx(cmd.Context()).Str("config", path).Msg(w)
	}
	return nil
}

// newConfigCmd creates the config command group.
func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration commands"}
	cmd.AddCommand(newConfigValidateCmd(opts))
	return cmd
}
