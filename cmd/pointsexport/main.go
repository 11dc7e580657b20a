// Command pointsexport exports StreamElements points leaderboards to dated CSV files.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rshade/pointsexport/internal/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev" //nolint:gochecknoglobals // Set by the linker.

func main() {
	os.Exit(run())
}

// run executes the root command and returns the process exit code.
func run() int {
	root := cli.NewRootCmd(version)
	err := root.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return exitCode(err)
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}
