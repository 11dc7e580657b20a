package config

import (
	"github.com/rshade/pointsexport/internal/logging"
)

// ToLoggingConfig converts config.LoggingConfig to logging.Config for use with
// the internal/logging package.
//
// The conversion applies these rules:
//   - Level, Format are copied directly
//   - If File is set, Output becomes "file" and File is passed through
//   - If File is empty, Output defaults to "stderr"
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
		Caller: false,
	}
}

// Debug returns a copy of lc switched to debug level on the console, the way --debug runs.
func (lc *LoggingConfig) Debug() LoggingConfig {
	out := *lc
	out.Level = "debug"
	out.Format = logging.FormatConsole
	out.File = ""
	return out
}
