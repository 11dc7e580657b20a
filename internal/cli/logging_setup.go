package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/pointsexport/internal/config"
	"github.com/rshade/pointsexport/internal/logging"
)

// setupLogging builds the operational logger from loggingCfg and stores it, with a
// fresh trace id, in the command context.
func setupLogging(cmd *cobra.Command, loggingCfg config.LoggingConfig) logging.LogPathResult {
	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger.Hook(logging.TraceHook{}), "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.CommandPath()).Msg("command started")

	return result
}

// cleanupLogging closes the log file handle.
func cleanupLogging(logResult *logging.LogPathResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
