package formatters

import (
	"fmt"
	"sort"

	"github.com/LegacyCodeHQ/rsbundle/depgraph"
)

// FormatOptions contains optional parameters for formatting module graphs.
type FormatOptions struct {
	// Label is an optional title or label for the graph
	Label string
	// Seeds are the modules the graph was grown from
	Seeds []string
	// Embedded marks modules the entry file already carries
	Embedded map[string]bool
	// Cycles lists groups of modules that reference each other
	Cycles [][]string
	// Display maps a module path to the text shown for it; identity when nil
	Display func(path string) string
}

func (o FormatOptions) display(path string) string {
	if o.Display == nil {
		return path
	}
	return o.Display(path)
}

func (o FormatOptions) isSeed(path string) bool {
	for _, seed := range o.Seeds {
		if seed == path {
			return true
		}
	}
	return false
}

// Formatter is the interface that all graph formatters must implement.
type Formatter interface {
	// Format converts a module graph to a formatted string representation.
	Format(g depgraph.DependencyGraph, opts FormatOptions) (string, error)
	// GenerateURL returns a link that renders output, when the format has one.
	GenerateURL(output string) (string, bool)
}

var registry = map[OutputFormat]func() Formatter{}

// Register makes a formatter available under format.
func Register(format OutputFormat, factory func() Formatter) {
	registry[format] = factory
}

// NewFormatter creates a Formatter for the specified format type.
func NewFormatter(format string) (Formatter, error) {
	f, ok := ParseOutputFormat(format)
	if !ok {
		return nil, fmt.Errorf("unknown format: %s (valid options: %s)", format, SupportedFormats())
	}
	factory, ok := registry[f]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s (valid options: %s)", format, SupportedFormats())
	}
	return factory(), nil
}

func sortedDeps(g depgraph.DependencyGraph, node string) []string {
	deps := append([]string(nil), g[node]...)
	sort.Strings(deps)
	return deps
}
