package formatters

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/rsbundle/depgraph"
)

func init() {
	Register(OutputFormatText, func() Formatter { return &TextFormatter{} })
}

// TextFormatter lists required modules and their references, one per line.
type TextFormatter struct{}

// Format converts the module graph to a plain listing.
func (f *TextFormatter) Format(g depgraph.DependencyGraph, opts FormatOptions) (string, error) {
	var sb strings.Builder
	if opts.Label != "" {
		sb.WriteString(opts.Label + "\n")
	}

	nodes := depgraph.Nodes(g)
	names := BuildNodeNames(nodes)

	plural := "s"
	if len(nodes) == 1 {
		plural = ""
	}
	sb.WriteString(fmt.Sprintf("%d module%s required\n", len(nodes), plural))

	for _, node := range nodes {
		line := names[node]
		var tags []string
		if opts.isSeed(node) {
			tags = append(tags, "seed")
		}
		if opts.Embedded[node] {
			tags = append(tags, "embedded")
		}
		if len(tags) > 0 {
			line += " (" + strings.Join(tags, ", ") + ")"
		}
		if deps := sortedDeps(g, node); len(deps) > 0 {
			refs := make([]string, 0, len(deps))
			for _, dep := range deps {
				refs = append(refs, names[dep])
			}
			line += " -> " + strings.Join(refs, ", ")
		}
		sb.WriteString("  " + line + "\n")
	}

	for _, cycle := range opts.Cycles {
		named := make([]string, 0, len(cycle))
		for _, node := range cycle {
			named = append(named, names[node])
		}
		sb.WriteString("cycle: " + strings.Join(named, ", ") + "\n")
	}
	return sb.String(), nil
}

// GenerateURL returns false as text output has no renderer.
func (f *TextFormatter) GenerateURL(output string) (string, bool) {
	return "", false
}
