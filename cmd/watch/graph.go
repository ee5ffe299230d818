package watch

import (
	"context"

	"github.com/LegacyCodeHQ/rsbundle/cmd/graph"
	"github.com/LegacyCodeHQ/rsbundle/cmd/graph/formatters"
	"github.com/charmbracelet/log"
)

const emptyDOTGraph = "digraph modules {\n}\n"

// snapshot is one rebuild of the module graph as sent to viewers.
type snapshot struct {
	ID      uint64   `json:"id"`
	Label   string   `json:"label,omitempty"`
	Seeds   []string `json:"seeds"`
	Modules int      `json:"modules"`
	Cycles  int      `json:"cycles"`
	DOT     string   `json:"dot"`
	Error   string   `json:"error,omitempty"`
}

func buildSnapshot(ctx context.Context, opts *watchOptions, logger *log.Logger) (snapshot, error) {
	mg, err := graph.LoadModuleGraph(ctx, graph.LoadOptions{
		ProjectDir: opts.projectDir,
		Bin:        opts.bin,
		Modules:    opts.modules,
	}, logger)
	if err != nil {
		return snapshot{}, err
	}

	dot, _, err := mg.Render(formatters.OutputFormatDOT.String())
	if err != nil {
		return snapshot{}, err
	}

	formatOpts := mg.FormatOptions()
	seeds := make([]string, 0, len(mg.Closure.Seeds))
	for _, seed := range mg.Closure.Seeds {
		seeds = append(seeds, mg.Layout.Display(seed))
	}
	return snapshot{
		Label:   formatOpts.Label,
		Seeds:   seeds,
		Modules: mg.Closure.Len(),
		Cycles:  len(mg.Cycles),
		DOT:     dot,
	}, nil
}

// failedSnapshot replaces the graph with an empty one carrying err.
func failedSnapshot(err error) snapshot {
	return snapshot{Seeds: []string{}, DOT: emptyDOTGraph, Error: err.Error()}
}
