package bundle

import (
	"errors"
	"fmt"
	"io"

	"github.com/LegacyCodeHQ/rsbundle/bundle"
	"github.com/LegacyCodeHQ/rsbundle/depgraph/languages/rust"
	"github.com/LegacyCodeHQ/rsbundle/internal/logging"
	"github.com/LegacyCodeHQ/rsbundle/layout"
	"github.com/spf13/cobra"
)

type bundleOptions struct {
	projectDir string
	join       bool
	strict     bool
	dryRun     bool
}

// NewCommand returns a new bundle command instance.
func NewCommand() *cobra.Command {
	opts := &bundleOptions{}

	cmd := &cobra.Command{
		Use:   "rsbundle <bin> [module_names...]",
		Short: "Inline local modules into a single-file Rust binary",
		Long: `rsbundle appends the modules a binary needs to the binary's own source
file, so the result can be submitted as one file.

<bin> names a file under src/bin and each module name a file under src/.
Every module reachable from the named ones through "use crate::<module>::"
references is appended as an inline "pub mod" block, unless the entry file
already carries a block with that name. Existing content is never changed.

A <bin> named like a subcommand (graph, why, watch, help, completion) runs
that subcommand instead. Give such an entry with its extension, as in
"rsbundle graph.rs segtree".`,
		Example: `  rsbundle main segtree modint
  rsbundle -C path/to/project --dry-run main segtree`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBundle(cmd, opts, args[0], args[1:])
		},
	}

	cmd.Flags().StringVarP(&opts.projectDir, "dir", "C", "", "Project directory containing src/ (default: current directory)")
	cmd.Flags().BoolVar(&opts.join, "join", false, "Join each module body onto its header line")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail on referenced modules that do not exist before reading them")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print what would be appended without writing")

	return cmd
}

func runBundle(cmd *cobra.Command, opts *bundleOptions, bin string, modules []string) error {
	l, err := layout.New(opts.projectDir)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}

	entry, seeds, err := l.ResolveRequest(layout.RawName(bin), layout.RawNames(modules))
	if err != nil {
		return describeMissing(l, err)
	}

	blockLayout := rust.BlockLayoutLines
	if opts.join {
		blockLayout = rust.BlockLayoutJoined
	}

	b := bundle.New(l, nil, logging.FromCommand(cmd), bundle.Options{
		Layout: blockLayout,
		Strict: opts.strict,
		DryRun: opts.dryRun,
	})

	result, err := b.Run(cmd.Context(), entry, seeds)
	if err != nil {
		return describeMissing(l, err)
	}

	if opts.dryRun {
		printPlan(cmd.OutOrStdout(), l, result)
	}
	return nil
}

// describeMissing names the role of a missing file and shows its path
// relative to the project directory.
func describeMissing(l layout.Layout, err error) error {
	var missing *layout.MissingFileError
	if !errors.As(err, &missing) {
		return err
	}
	shown := &layout.MissingFileError{
		Path: layout.ModulePath(l.Display(missing.Path.String())),
		Kind: missing.Kind,
	}
	return fmt.Errorf("%w (%s)", shown, missing.Kind)
}

func printPlan(w io.Writer, l layout.Layout, result bundle.Result) {
	fmt.Fprintf(w, "entry: %s\n", l.Display(result.Entry.String()))
	for _, modulePath := range result.Appended {
		fmt.Fprintf(w, "  append %s\n", l.Display(modulePath))
	}
	for _, modulePath := range result.Skipped {
		fmt.Fprintf(w, "  skip   %s (already embedded)\n", l.Display(modulePath))
	}
	if len(result.Appended) == 0 {
		fmt.Fprintln(w, "  nothing to append")
	}
}
