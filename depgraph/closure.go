package depgraph

import (
	"fmt"
	"sort"

	"github.com/LegacyCodeHQ/rsbundle/depgraph/languages/rust"
	"github.com/LegacyCodeHQ/rsbundle/layout"
	"github.com/LegacyCodeHQ/rsbundle/vcs"
)

// ReferenceResolver returns the modules a module references.
type ReferenceResolver interface {
	ResolveReferences(modulePath string, seed bool) ([]string, error)
}

// Closure is the set of modules reachable from a set of seeds, together
// with the reference edges discovered while reaching them.
type Closure struct {
	Seeds []string
	Graph DependencyGraph
}

// Modules returns the closure members in sorted order. Traversal order is
// not preserved.
func (c Closure) Modules() []string {
	return Nodes(c.Graph)
}

// Contains reports whether modulePath is required.
func (c Closure) Contains(modulePath string) bool {
	return ContainsNode(c.Graph, modulePath)
}

// Len returns the number of required modules.
func (c Closure) Len() int {
	return len(c.Graph)
}

// ResolveClosure computes the transitive closure of seeds over the reference
// relation. The frontier is a plain worklist with no ordering guarantee; the
// seen set starts as exactly the seeds so every module is read at most once
// and cycles terminate.
func ResolveClosure(seeds []string, resolver ReferenceResolver) (Closure, error) {
	if resolver == nil {
		return Closure{}, fmt.Errorf("reference resolver is required")
	}

	graph := make(DependencyGraph)
	seedSet := make(map[string]bool, len(seeds))
	frontier := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		if seedSet[seed] {
			continue
		}
		seedSet[seed] = true
		graph[seed] = []string{}
		frontier = append(frontier, seed)
	}

	for len(frontier) > 0 {
		current := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]

		refs, err := resolver.ResolveReferences(current, seedSet[current])
		if err != nil {
			return Closure{}, err
		}
		graph[current] = refs

		for _, ref := range refs {
			if _, seen := graph[ref]; seen {
				continue
			}
			graph[ref] = []string{}
			frontier = append(frontier, ref)
		}
	}

	sortedSeeds := make([]string, 0, len(seedSet))
	for seed := range seedSet {
		sortedSeeds = append(sortedSeeds, seed)
	}
	sort.Strings(sortedSeeds)

	return Closure{Seeds: sortedSeeds, Graph: graph}, nil
}

type rustReferenceResolver struct {
	layout        layout.Layout
	contentReader vcs.ContentReader
	strict        bool
}

// NewRustReferenceResolver resolves `use crate::<module>::` references under
// the module root of l. In strict mode a referenced module that is not a
// regular file fails with a *layout.MissingFileError before it is read;
// otherwise the read error surfaces as is.
func NewRustReferenceResolver(l layout.Layout, contentReader vcs.ContentReader, strict bool) ReferenceResolver {
	return &rustReferenceResolver{
		layout:        l,
		contentReader: contentReader,
		strict:        strict,
	}
}

func (r *rustReferenceResolver) ResolveReferences(modulePath string, seed bool) ([]string, error) {
	if r.strict && !seed {
		if err := layout.ValidateExists(layout.ModulePath(modulePath), layout.TransitiveDependency); err != nil {
			return nil, err
		}
	}

	refs, err := rust.ResolveRustProjectImports(modulePath, r.layout, r.contentReader)
	if err != nil {
		return nil, err
	}
	if refs == nil {
		refs = []string{}
	}
	return refs, nil
}
