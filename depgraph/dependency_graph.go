package depgraph

import "sort"

// DependencyGraph represents a mapping from module paths to the module paths they reference
type DependencyGraph map[string][]string

// ContainsNode reports whether node is a vertex of g.
func ContainsNode(g DependencyGraph, node string) bool {
	_, ok := g[node]
	return ok
}

// Nodes returns every vertex of g in sorted order.
func Nodes(g DependencyGraph) []string {
	nodes := make([]string, 0, len(g))
	for node := range g {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

// EdgeCount returns the number of directed edges in g.
func EdgeCount(g DependencyGraph) int {
	count := 0
	for _, deps := range g {
		count += len(deps)
	}
	return count
}
