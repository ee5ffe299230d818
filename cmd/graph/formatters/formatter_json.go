package formatters

import (
	"encoding/json"

	"github.com/LegacyCodeHQ/rsbundle/depgraph"
)

func init() {
	Register(OutputFormatJSON, func() Formatter { return &JSONFormatter{} })
}

// JSONFormatter formats module graphs as JSON.
type JSONFormatter struct{}

type documentModule struct {
	Name       string   `json:"name" yaml:"name"`
	Path       string   `json:"path" yaml:"path"`
	Seed       bool     `json:"seed" yaml:"seed"`
	Embedded   bool     `json:"embedded" yaml:"embedded"`
	References []string `json:"references" yaml:"references"`
}

type graphDocument struct {
	Label   string           `json:"label,omitempty" yaml:"label,omitempty"`
	Modules []documentModule `json:"modules" yaml:"modules"`
	Cycles  [][]string       `json:"cycles" yaml:"cycles"`
}

// buildDocument describes g with node names in place of paths, for the
// structured output formats.
func buildDocument(g depgraph.DependencyGraph, opts FormatOptions) graphDocument {
	nodes := depgraph.Nodes(g)
	names := BuildNodeNames(nodes)

	doc := graphDocument{
		Label:   opts.Label,
		Modules: make([]documentModule, 0, len(nodes)),
		Cycles:  make([][]string, 0, len(opts.Cycles)),
	}
	for _, node := range nodes {
		refs := make([]string, 0, len(g[node]))
		for _, dep := range sortedDeps(g, node) {
			refs = append(refs, names[dep])
		}
		doc.Modules = append(doc.Modules, documentModule{
			Name:       names[node],
			Path:       opts.display(node),
			Seed:       opts.isSeed(node),
			Embedded:   opts.Embedded[node],
			References: refs,
		})
	}
	for _, cycle := range opts.Cycles {
		named := make([]string, 0, len(cycle))
		for _, node := range cycle {
			named = append(named, names[node])
		}
		doc.Cycles = append(doc.Cycles, named)
	}
	return doc
}

// Format converts the module graph to JSON format.
func (f *JSONFormatter) Format(g depgraph.DependencyGraph, opts FormatOptions) (string, error) {
	data, err := json.MarshalIndent(buildDocument(g, opts), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// GenerateURL returns false as JSON format does not support URL generation.
func (f *JSONFormatter) GenerateURL(output string) (string, bool) {
	return "", false
}
