package cmd

import (
	"os"

	bundlecmd "github.com/LegacyCodeHQ/rsbundle/cmd/bundle"
	"github.com/LegacyCodeHQ/rsbundle/cmd/graph"
	"github.com/LegacyCodeHQ/rsbundle/cmd/watch"
	"github.com/LegacyCodeHQ/rsbundle/cmd/why"
	"github.com/LegacyCodeHQ/rsbundle/internal/logging"
	"github.com/spf13/cobra"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// rootCmd bundles modules when called without a subcommand.
var rootCmd = newRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := bundlecmd.NewCommand()

	// Register subcommands
	root.AddCommand(graph.NewCommand())
	root.AddCommand(why.NewCommand())
	root.AddCommand(watch.NewCommand())

	// Initialize annotations for version template
	if root.Annotations == nil {
		root.Annotations = make(map[string]string)
	}
	root.Annotations["buildDate"] = buildDate
	root.Annotations["commit"] = commit

	root.Version = version

	// Customize version template to show additional build info
	root.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	root.PersistentFlags().BoolP(logging.VerboseFlag, "v", false, "Log each resolved and inlined module")

	return root
}
