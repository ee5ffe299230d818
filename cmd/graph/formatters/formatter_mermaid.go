package formatters

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/LegacyCodeHQ/rsbundle/depgraph"
)

func init() {
	Register(OutputFormatMermaid, func() Formatter { return &MermaidFormatter{} })
}

// MermaidFormatter formats module graphs as Mermaid.js flowcharts.
type MermaidFormatter struct{}

// Format converts the module graph to Mermaid.js flowchart format.
func (f *MermaidFormatter) Format(g depgraph.DependencyGraph, opts FormatOptions) (string, error) {
	var sb strings.Builder

	if opts.Label != "" {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", opts.Label))
		sb.WriteString("---\n")
	}

	sb.WriteString("flowchart LR\n")

	// Mermaid node IDs can't have dots or slashes
	nodes := depgraph.Nodes(g)
	names := BuildNodeNames(nodes)
	nodeIDs := make(map[string]string, len(nodes))
	for i, node := range nodes {
		nodeIDs[node] = fmt.Sprintf("n%d", i)
	}

	for _, node := range nodes {
		label := strings.ReplaceAll(names[node], "\"", "#quot;")
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", nodeIDs[node], label))
	}

	if depgraph.EdgeCount(g) > 0 {
		sb.WriteString("\n")
	}
	for _, node := range nodes {
		for _, dep := range sortedDeps(g, node) {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", nodeIDs[node], nodeIDs[dep]))
		}
	}

	var seedNodes, embeddedNodes []string
	for _, node := range nodes {
		switch {
		case opts.Embedded[node]:
			embeddedNodes = append(embeddedNodes, nodeIDs[node])
		case opts.isSeed(node):
			seedNodes = append(seedNodes, nodeIDs[node])
		}
	}

	sb.WriteString("\n")
	sb.WriteString("    classDef seed fill:#87CEEB,stroke:#4682B4\n")
	sb.WriteString("    classDef embedded stroke-dasharray:5 5,color:#808080\n")
	if len(seedNodes) > 0 {
		sb.WriteString(fmt.Sprintf("    class %s seed\n", strings.Join(seedNodes, ",")))
	}
	if len(embeddedNodes) > 0 {
		sb.WriteString(fmt.Sprintf("    class %s embedded\n", strings.Join(embeddedNodes, ",")))
	}
	return sb.String(), nil
}

// GenerateURL creates a mermaid.live URL with the diagram embedded.
func (f *MermaidFormatter) GenerateURL(output string) (string, bool) {
	payload := map[string]interface{}{
		"code": output,
		"mermaid": map[string]interface{}{
			"theme": "default",
		},
		"autoSync":      true,
		"updateDiagram": true,
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("https://mermaid.live/edit#%s", url.PathEscape(output)), true
	}

	encoded := base64.URLEncoding.EncodeToString(jsonBytes)
	return fmt.Sprintf("https://mermaid.live/edit#base64:%s", encoded), true
}
