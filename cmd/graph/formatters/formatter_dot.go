package formatters

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/rsbundle/depgraph"
)

func init() {
	Register(OutputFormatDOT, func() Formatter { return &DOTFormatter{} })
}

// DOTFormatter formats module graphs as Graphviz DOT.
type DOTFormatter struct{}

// Format converts the module graph to Graphviz DOT format.
func (f *DOTFormatter) Format(g depgraph.DependencyGraph, opts FormatOptions) (string, error) {
	var sb strings.Builder
	sb.WriteString("digraph modules {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n")

	if opts.Label != "" {
		sb.WriteString(fmt.Sprintf("  label=%q;\n", opts.Label))
		sb.WriteString("  labelloc=t;\n")
		sb.WriteString("  labeljust=l;\n")
		sb.WriteString("  fontsize=10;\n")
		sb.WriteString("  fontname=Courier;\n")
	}
	sb.WriteString("\n")

	nodes := depgraph.Nodes(g)
	names := BuildNodeNames(nodes)
	inCycle := cycleMembership(opts.Cycles)

	for _, node := range nodes {
		attrs := []string{fmt.Sprintf("label=%q", names[node]), fmt.Sprintf("tooltip=%q", opts.display(node))}
		switch {
		case opts.Embedded[node]:
			attrs = append(attrs, `style="dashed"`, `color="gray50"`, `fontcolor="gray50"`)
		case opts.isSeed(node):
			attrs = append(attrs, `style="filled,bold"`, `fillcolor="#87CEEB"`)
		}
		sb.WriteString(fmt.Sprintf("  %q [%s];\n", names[node], strings.Join(attrs, ", ")))
	}

	if depgraph.EdgeCount(g) > 0 {
		sb.WriteString("\n")
	}
	for _, node := range nodes {
		for _, dep := range sortedDeps(g, node) {
			if inCycle[node] != 0 && inCycle[node] == inCycle[dep] {
				sb.WriteString(fmt.Sprintf("  %q -> %q [color=\"red\"];\n", names[node], names[dep]))
				continue
			}
			sb.WriteString(fmt.Sprintf("  %q -> %q;\n", names[node], names[dep]))
		}
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

// GenerateURL returns false as DOT output is rendered locally.
func (f *DOTFormatter) GenerateURL(output string) (string, bool) {
	return "", false
}

// cycleMembership maps each module to a 1-based cycle group number.
func cycleMembership(cycles [][]string) map[string]int {
	membership := make(map[string]int)
	for i, cycle := range cycles {
		for _, node := range cycle {
			membership[node] = i + 1
		}
	}
	return membership
}
