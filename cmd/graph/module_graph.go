package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/rsbundle/bundle"
	"github.com/LegacyCodeHQ/rsbundle/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/rsbundle/depgraph"
	"github.com/LegacyCodeHQ/rsbundle/layout"
	"github.com/charmbracelet/log"
)

// LoadOptions select which part of a project a ModuleGraph covers.
type LoadOptions struct {
	// ProjectDir holds src/ and src/bin/; the current directory when empty.
	ProjectDir string
	// Bin names an entry file whose embedded modules are marked.
	Bin string
	// Modules are the seed names. Every module directly under the module
	// root is a seed when empty.
	Modules []string
	// Strict validates transitive dependencies before reading them.
	Strict bool
	// Revision reads the project as it was at a git commit instead of from
	// the working tree.
	Revision string
}

// ModuleGraph is the closure of a set of seed modules together with what is
// needed to render it.
type ModuleGraph struct {
	Layout   layout.Layout
	Entry    layout.ModulePath
	Closure  depgraph.Closure
	Embedded map[string]bool
	Cycles   [][]string
	// Revision names the commit the graph was read from, if any.
	Revision string
}

// LoadModuleGraph resolves the seeds, walks their references, and marks the
// modules the entry file already carries.
func LoadModuleGraph(ctx context.Context, opts LoadOptions, logger *log.Logger) (ModuleGraph, error) {
	l, err := layout.New(opts.ProjectDir)
	if err != nil {
		return ModuleGraph{}, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	src, err := openSource(ctx, l, opts)
	if err != nil {
		return ModuleGraph{}, err
	}

	seeds, err := src.resolveSeeds(opts.Modules)
	if err != nil {
		return ModuleGraph{}, err
	}

	b := bundle.New(l, src.reader, logger, bundle.Options{Strict: opts.Strict})
	mg := ModuleGraph{Layout: l, Embedded: map[string]bool{}, Revision: src.revision}

	if opts.Bin != "" {
		mg.Entry = l.Bin(layout.RawName(opts.Bin))
		if mg.Embedded, err = src.embeddedModules(mg.Entry); err != nil {
			return ModuleGraph{}, err
		}
	}

	if mg.Closure, err = b.Closure(seeds); err != nil {
		return ModuleGraph{}, fmt.Errorf("failed to resolve module dependencies: %w", err)
	}

	if mg.Cycles, err = depgraph.Cycles(mg.Closure.Graph); err != nil {
		return ModuleGraph{}, fmt.Errorf("failed to detect reference cycles: %w", err)
	}

	return mg, nil
}

// FormatOptions returns the formatter options describing mg.
func (mg ModuleGraph) FormatOptions() formatters.FormatOptions {
	opts := formatters.FormatOptions{
		Seeds:    mg.Closure.Seeds,
		Embedded: mg.Embedded,
		Cycles:   mg.Cycles,
		Display:  mg.Layout.Display,
	}
	var label []string
	if mg.Entry != "" {
		label = append(label, mg.Layout.Display(mg.Entry.String()))
	}
	if mg.Revision != "" {
		label = append(label, "@ "+mg.Revision)
	}
	opts.Label = strings.Join(label, " ")
	return opts
}

// Render formats mg in the named output format.
func (mg ModuleGraph) Render(format string) (string, formatters.Formatter, error) {
	formatter, err := formatters.NewFormatter(format)
	if err != nil {
		return "", nil, err
	}
	output, err := formatter.Format(mg.Closure.Graph, mg.FormatOptions())
	if err != nil {
		return "", nil, err
	}
	return output, formatter, nil
}

