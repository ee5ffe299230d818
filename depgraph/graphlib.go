package depgraph

import (
	"errors"
	"fmt"
	"sort"

	graphlib "github.com/dominikbraun/graph"
)

// ToGraph converts g into a directed graph-library graph. Self references
// are left out; Cycles reports them separately.
func ToGraph(g DependencyGraph) (graphlib.Graph[string, string], error) {
	lib := graphlib.New(graphlib.StringHash, graphlib.Directed())

	for _, node := range Nodes(g) {
		if err := lib.AddVertex(node); err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("failed to add module %s: %w", node, err)
		}
	}

	for _, node := range Nodes(g) {
		for _, dep := range g[node] {
			if dep == node {
				continue
			}
			if err := lib.AddVertex(dep); err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
				return nil, fmt.Errorf("failed to add module %s: %w", dep, err)
			}
			if err := lib.AddEdge(node, dep); err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("failed to add reference %s -> %s: %w", node, dep, err)
			}
		}
	}

	return lib, nil
}

// Cycles returns every group of modules that reference each other, directly
// or through other modules. Each group is sorted and groups are ordered by
// their first member.
func Cycles(g DependencyGraph) ([][]string, error) {
	lib, err := ToGraph(g)
	if err != nil {
		return nil, err
	}

	components, err := graphlib.StronglyConnectedComponents(lib)
	if err != nil {
		return nil, fmt.Errorf("failed to compute strongly connected components: %w", err)
	}

	var cycles [][]string
	for _, component := range components {
		if len(component) == 1 && !referencesItself(g, component[0]) {
			continue
		}
		cycle := append([]string(nil), component...)
		sort.Strings(cycle)
		cycles = append(cycles, cycle)
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i][0] < cycles[j][0]
	})
	return cycles, nil
}

// DependencyOrder lists the modules of g so that each module comes before
// the modules it references, breaking ties by path. It fails when g has a
// cycle.
func DependencyOrder(g DependencyGraph) ([]string, error) {
	lib, err := ToGraph(g)
	if err != nil {
		return nil, err
	}

	order, err := graphlib.StableTopologicalSort(lib, func(a, b string) bool {
		return a < b
	})
	if err != nil {
		return nil, fmt.Errorf("failed to order modules: %w", err)
	}
	return order, nil
}

// ReferenceChain returns the shortest chain of references leading from one
// module to another, both ends included.
func ReferenceChain(g DependencyGraph, from, to string) ([]string, error) {
	if from == to {
		return []string{from}, nil
	}

	lib, err := ToGraph(g)
	if err != nil {
		return nil, err
	}

	chain, err := graphlib.ShortestPath(lib, from, to)
	if err != nil {
		return nil, fmt.Errorf("no reference chain from %s to %s: %w", from, to, err)
	}
	return chain, nil
}

func referencesItself(g DependencyGraph, node string) bool {
	for _, dep := range g[node] {
		if dep == node {
			return true
		}
	}
	return false
}
