package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// newConfigValidateCmd creates the config validate command.
func newConfigValidateCmd(opts *globalOptions) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration file for syntax and semantic correctness
without contacting the points API.

This includes:
- YAML syntax
- channel_id presence (channel_id, streamelements_id, or info.streamelements_id)
- cutoff, api.timeout and api.requests_per_second ranges
- api.base_url and logging.format values`,
		Example: `  # Validate ./config.yaml
  pointsexport config validate

  # Validate another file and show the effective settings
  pointsexport config validate --config prod.yaml --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, opts, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the effective configuration")

	return cmd
}

// runConfigValidate reports the outcome of the load done by the root command.
func runConfigValidate(cmd *cobra.Command, opts *globalOptions, verbose bool) error {
	loaded := opts.loaded

	for _, w := range loaded.Warnings {
		cmd.Printf("Warning: %s\n", w)
	}
	cmd.Printf("Configuration %s is valid\n", loaded.Path)

	if verbose {
		printVerboseDetails(cmd, opts)
	}
	return nil
}

func printVerboseDetails(cmd *cobra.Command, opts *globalOptions) {
	cfg := opts.loaded.Config
	p := message.NewPrinter(language.English)

	cmd.Printf("  channel_id: %s\n", cfg.ChannelID)
	if cfg.Cutoff != nil {
		cmd.Print(p.Sprintf("  cutoff: %d\n", *cfg.Cutoff))
	} else {
		cmd.Println("  cutoff: none")
	}
	cmd.Printf("  api.base_url: %s\n", cfg.API.BaseURL)
	cmd.Printf("  api.timeout: %s\n", cfg.API.Timeout)
	cmd.Printf("  api.requests_per_second: %g\n", cfg.API.RequestsPerSecond)
	cmd.Printf("  output.directory: %s\n", cfg.Output.Directory)
	cmd.Printf("  logging: level=%s format=%s file=%q\n", cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
}
