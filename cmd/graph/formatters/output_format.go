package formatters

import (
	"sort"
	"strings"
)

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatText    OutputFormat = "text"
	OutputFormatDOT     OutputFormat = "dot"
	OutputFormatJSON    OutputFormat = "json"
	OutputFormatMermaid OutputFormat = "mermaid"
	OutputFormatYAML    OutputFormat = "yaml"
)

// String returns the string representation of the format
func (f OutputFormat) String() string {
	return string(f)
}

// ParseOutputFormat matches format case-insensitively.
func ParseOutputFormat(format string) (OutputFormat, bool) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(format))) {
	case OutputFormatText:
		return OutputFormatText, true
	case OutputFormatDOT:
		return OutputFormatDOT, true
	case OutputFormatJSON:
		return OutputFormatJSON, true
	case OutputFormatMermaid:
		return OutputFormatMermaid, true
	case OutputFormatYAML:
		return OutputFormatYAML, true
	default:
		return "", false
	}
}

// SupportedFormats lists the registered formats, comma separated.
func SupportedFormats() string {
	names := make([]string, 0, len(registry))
	for format := range registry {
		names = append(names, format.String())
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
