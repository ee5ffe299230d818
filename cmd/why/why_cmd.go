package why

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/rsbundle/cmd/graph"
	"github.com/LegacyCodeHQ/rsbundle/depgraph"
	"github.com/LegacyCodeHQ/rsbundle/internal/logging"
	"github.com/LegacyCodeHQ/rsbundle/layout"
	"github.com/spf13/cobra"
)

type whyOptions struct {
	projectDir string
	strict     bool
	revision   string
}

// NewCommand returns a new why command instance.
func NewCommand() *cobra.Command {
	opts := &whyOptions{}

	cmd := &cobra.Command{
		Use:   "why <module> [seed_modules...]",
		Short: "Show the reference chain that pulls a module into a bundle",
		Long: `Show the shortest chain of "use crate::<module>::" references leading
from one of the seed modules to <module>.

With no seed modules, every module directly under src/ is a seed.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhy(cmd, opts, args[0], args[1:])
		},
	}

	cmd.Flags().StringVarP(&opts.projectDir, "dir", "C", "", "Project directory containing src/ (default: current directory)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail on referenced modules that do not exist")
	cmd.Flags().StringVar(&opts.revision, "rev", "", "Read modules as of a git commit instead of the working tree")

	return cmd
}

func runWhy(cmd *cobra.Command, opts *whyOptions, target string, seeds []string) error {
	mg, err := graph.LoadModuleGraph(cmd.Context(), graph.LoadOptions{
		ProjectDir: opts.projectDir,
		Modules:    seeds,
		Strict:     opts.strict,
		Revision:   opts.revision,
	}, logging.FromCommand(cmd))
	if err != nil {
		return err
	}

	targetPath := mg.Layout.Module(layout.RawName(target)).String()
	targetDisplay := mg.Layout.Display(targetPath)

	chain, err := shortestChain(mg.Closure, targetPath)
	if err != nil {
		return err
	}
	if chain == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is not required by %s\n", targetDisplay, displayList(mg.Layout, mg.Closure.Seeds))
		return nil
	}

	if len(chain) == 1 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is a seed module\n", targetDisplay)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is required through:\n", targetDisplay)
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", strings.Join(displayChain(chain), " -> "))
	return nil
}

// shortestChain returns the shortest reference chain from any seed to
// target, or nil when target is outside the closure. Ties go to the seed
// that sorts first.
func shortestChain(closure depgraph.Closure, target string) ([]string, error) {
	if !closure.Contains(target) {
		return nil, nil
	}

	var best []string
	for _, seed := range closure.Seeds {
		chain, err := depgraph.ReferenceChain(closure.Graph, seed, target)
		if err != nil {
			continue
		}
		if best == nil || len(chain) < len(best) {
			best = chain
		}
	}
	if best == nil {
		return nil, fmt.Errorf("module %s is in the closure but unreachable from every seed", target)
	}
	return best, nil
}

func displayChain(chain []string) []string {
	names := make([]string, 0, len(chain))
	for _, modulePath := range chain {
		names = append(names, layout.ModulePath(modulePath).Name())
	}
	return names
}

func displayList(l layout.Layout, paths []string) string {
	display := make([]string, 0, len(paths))
	for _, p := range paths {
		display = append(display, l.Display(p))
	}
	return strings.Join(display, ", ")
}
