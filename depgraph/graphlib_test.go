package depgraph_test

import (
	"testing"

	"github.com/LegacyCodeHQ/rsbundle/depgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToGraph(t *testing.T) {
	g := depgraph.DependencyGraph{
		"a": {"b", "a"},
		"b": {"c"},
		"c": {},
	}

	lib, err := depgraph.ToGraph(g)
	require.NoError(t, err)

	adjacency, err := lib.AdjacencyMap()
	require.NoError(t, err)
	assert.Len(t, adjacency, 3)
	assert.Contains(t, adjacency["a"], "b")
	assert.NotContains(t, adjacency["a"], "a")
	assert.Contains(t, adjacency["b"], "c")
	assert.Empty(t, adjacency["c"])
}

func TestCycles(t *testing.T) {
	g := depgraph.DependencyGraph{
		"a": {"b"},
		"b": {"a", "c"},
		"c": {"d"},
		"d": {},
		"e": {"e"},
	}

	cycles, err := depgraph.Cycles(g)

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"e"}}, cycles)
}

func TestCycles_Acyclic(t *testing.T) {
	cycles, err := depgraph.Cycles(depgraph.DependencyGraph{"a": {"b"}, "b": {}})

	require.NoError(t, err)
	assert.Empty(t, cycles)
}

func TestDependencyOrder(t *testing.T) {
	g := depgraph.DependencyGraph{
		"main":    {"segtree", "algebra"},
		"segtree": {"algebra"},
		"algebra": {},
	}

	order, err := depgraph.DependencyOrder(g)

	require.NoError(t, err)
	assert.Equal(t, []string{"main", "segtree", "algebra"}, order)
}

func TestReferenceChain(t *testing.T) {
	g := depgraph.DependencyGraph{
		"a": {"b"},
		"b": {"c"},
		"c": {},
		"x": {},
	}

	chain, err := depgraph.ReferenceChain(g, "a", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, chain)

	chain, err = depgraph.ReferenceChain(g, "a", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, chain)

	_, err = depgraph.ReferenceChain(g, "a", "x")
	assert.Error(t, err)
}

func TestEdgeCount(t *testing.T) {
	g := depgraph.DependencyGraph{"a": {"b", "c"}, "b": {"c"}, "c": {}}

	assert.Equal(t, 3, depgraph.EdgeCount(g))
	assert.Zero(t, depgraph.EdgeCount(depgraph.DependencyGraph{"a": {}}))
}
