package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/pointsexport/internal/engine"
	"github.com/rshade/pointsexport/internal/logging"
	"github.com/rshade/pointsexport/internal/points"
	"github.com/rshade/pointsexport/internal/points/client"
)

// newExportCmd creates the subcommand that exports the leaderboard for mode.
func newExportCmd(opts *globalOptions, mode points.Mode) *cobra.Command {
	short := map[points.Mode]string{
		points.ModeAlltime: "Export the all-time points leaderboard",
		points.ModeTop:     "Export the current top points leaderboard",
	}[mode]

	return &cobra.Command{
		Use:   mode.String(),
		Short: short,
		Long: short + `.

Pages through the leaderboard 1000 users at a time and writes every user to
{DD-MM-YYYY}-` + mode.String() + `-points.csv (no header; username,points).

With a cutoff configured, users at or below the cutoff are omitted and paging
stops at the first page that reaches it. Any failure aborts the run; rows
already written remain in the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeExport(cmd, opts, mode)
		},
	}
}

// executeExport runs one export and renders its summary.
func executeExport(cmd *cobra.Command, opts *globalOptions, mode points.Mode) error {
	ctx := cmd.Context()
	cfg := opts.loaded.Config

	c := client.New(cfg.ChannelID, mode,
		client.WithBaseURL(cfg.API.BaseURL),
		client.WithTimeout(cfg.API.Timeout),
		client.WithRateLimit(cfg.API.RequestsPerSecond),
		client.WithLogger(logging.ComponentLogger(logger, "client")),
	)

	exporter := engine.NewExporter(c,
		engine.WithProgressCallback(func(s engine.ProgressSnapshot) {
			logger.Debug().
				Ctx(ctx).
				Uint64("page", s.FetchedPages).
				Uint64("pages", s.TotalPages).
				Uint64("rows_written", s.WrittenRows).
				Float64("percent", s.PercentComplete).
				Msg("page written")
		}),
	)

	req := engine.Request{
		Target:    points.NewTarget(mode, opts.now()),
		OutputDir: cfg.Output.Directory,
		Cutoff:    cfg.Cutoff,
	}

	logger.Info().
		Ctx(ctx).
		Str("channel", cfg.ChannelID).
		Str("mode", mode.String()).
		Str("url", c.URL(nil)).
		Msg("starting export")

	res, err := exporter.Run(ctx, req)
	if err != nil {
		event := logger.Error().Ctx(ctx).Err(err)
		if kind, ok := points.KindOf(err); ok {
			event = event.Str("kind", kind.String())
		}
		if res != nil {
			event = event.Str("path", res.Path).Int("rows_written", res.Rows).Int("fetches", res.Fetches)
		}
		event.Msg("export failed")
		_ = cleanupLogging(opts.logResult)
		return fmt.Errorf("%s export: %w", mode, err)
	}

	engine.LogResult(&logger, res)
	return RenderSummary(cmd.OutOrStdout(), mode, res)
}
