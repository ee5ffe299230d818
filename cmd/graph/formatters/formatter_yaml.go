package formatters

import (
	"bytes"

	"github.com/LegacyCodeHQ/rsbundle/depgraph"
	"gopkg.in/yaml.v3"
)

func init() {
	Register(OutputFormatYAML, func() Formatter { return &YAMLFormatter{} })
}

// YAMLFormatter formats module graphs as YAML, with the same fields as JSON.
type YAMLFormatter struct{}

// Format converts the module graph to YAML format.
func (f *YAMLFormatter) Format(g depgraph.DependencyGraph, opts FormatOptions) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(buildDocument(g, opts)); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// GenerateURL returns false as YAML format does not support URL generation.
func (f *YAMLFormatter) GenerateURL(output string) (string, bool) {
	return "", false
}
