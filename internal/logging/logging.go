package logging

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const appName = "rsbundle"

// VerboseFlag is the persistent flag that lowers the log level to debug.
const VerboseFlag = "verbose"

// New returns a logger writing to w. Warnings and errors are always shown;
// debug output only when verbose is set.
func New(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: appName,
		Level:  log.WarnLevel,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// FromCommand builds a logger on the command's error stream, honoring the
// verbose flag when the command or one of its parents defines it.
func FromCommand(cmd *cobra.Command) *log.Logger {
	verbose := false
	if flag := cmd.Flags().Lookup(VerboseFlag); flag != nil {
		verbose = flag.Value.String() == "true"
	}
	return New(cmd.ErrOrStderr(), verbose)
}
