package graph

import (
	"fmt"

	"github.com/LegacyCodeHQ/rsbundle/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/rsbundle/depgraph"
	"github.com/LegacyCodeHQ/rsbundle/internal/logging"
	"github.com/spf13/cobra"
)

type graphOptions struct {
	projectDir   string
	outputFormat string
	bin          string
	strict       bool
	revision     string
	generateURL  bool
	order        bool
}

// NewCommand returns a new graph command instance.
func NewCommand() *cobra.Command {
	opts := &graphOptions{
		outputFormat: formatters.OutputFormatText.String(),
	}

	cmd := &cobra.Command{
		Use:   "graph [module_names...]",
		Short: "Show the modules a set of seed modules pulls in",
		Long: `Show every module reachable from the given seed modules through
"use crate::<module>::" references, without modifying any file.

With no module names, every module directly under src/ is a seed.`,
		Example: `  rsbundle graph segtree
  rsbundle graph --bin main -f dot segtree modint
  rsbundle graph -f mermaid --url
  rsbundle graph --rev HEAD~1 segtree`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.projectDir, "dir", "C", "", "Project directory containing src/ (default: current directory)")
	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", opts.outputFormat,
		fmt.Sprintf("Output format (%s)", formatters.SupportedFormats()))
	cmd.Flags().StringVar(&opts.bin, "bin", "", "Entry file under src/bin whose embedded modules are marked")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail on referenced modules that do not exist")
	cmd.Flags().StringVar(&opts.revision, "rev", "", "Read modules as of a git commit instead of the working tree")
	cmd.Flags().BoolVarP(&opts.generateURL, "url", "u", false, "Print a link that renders the graph (mermaid only)")
	cmd.Flags().BoolVar(&opts.order, "order", false, "Print the modules in dependency order, dependents first")

	return cmd
}

func runGraph(cmd *cobra.Command, opts *graphOptions, args []string) error {
	if _, ok := formatters.ParseOutputFormat(opts.outputFormat); !ok {
		return fmt.Errorf("unknown format: %s (valid options: %s)", opts.outputFormat, formatters.SupportedFormats())
	}

	mg, err := LoadModuleGraph(cmd.Context(), LoadOptions{
		ProjectDir: opts.projectDir,
		Bin:        opts.bin,
		Modules:    args,
		Strict:     opts.strict,
		Revision:   opts.revision,
	}, logging.FromCommand(cmd))
	if err != nil {
		return err
	}

	if opts.order {
		order, err := depgraph.DependencyOrder(mg.Closure.Graph)
		if err != nil {
			return err
		}
		for _, modulePath := range order {
			fmt.Fprintln(cmd.OutOrStdout(), mg.Layout.Display(modulePath))
		}
		return nil
	}

	output, formatter, err := mg.Render(opts.outputFormat)
	if err != nil {
		return err
	}

	if opts.generateURL {
		if url, ok := formatter.GenerateURL(output); ok {
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		}
		return fmt.Errorf("format %s has no shareable link", opts.outputFormat)
	}

	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}
