package rust

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// BlockLayout selects how a module body is laid out inside its inline block.
type BlockLayout int

const (
	// BlockLayoutLines writes every compacted line on its own output line.
	BlockLayoutLines BlockLayout = iota
	// BlockLayoutJoined concatenates the compacted lines onto the header line.
	BlockLayoutJoined
)

const (
	blockAttribute = "#[rustfmt::skip]"
	blockFooter    = "}"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CompactLine drops lines containing the comment marker and collapses every
// whitespace run of the rest into one space. The line must not carry its
// terminator.
func CompactLine(line string) (string, bool) {
	if strings.Contains(line, CommentMarker) {
		return "", false
	}
	return whitespaceRun.ReplaceAllString(line, " "), true
}

// BlockHeader is the line that opens the inline block for module name.
func BlockHeader(name string) string {
	return fmt.Sprintf("pub mod %s {", name)
}

// RenderBlock writes content as a formatting-suppressed inline module block.
func RenderBlock(w io.Writer, name string, content []byte, layout BlockLayout) error {
	var body strings.Builder
	err := ScanLines(bytes.NewReader(content), func(line string) error {
		compacted, ok := CompactLine(line)
		if !ok {
			return nil
		}
		switch layout {
		case BlockLayoutJoined:
			body.WriteString(compacted)
		default:
			body.WriteString(compacted)
			body.WriteString("\n")
		}
		return nil
	})
	if err != nil {
		return err
	}

	var out string
	switch layout {
	case BlockLayoutJoined:
		out = blockAttribute + "\n" + BlockHeader(name) + body.String() + blockFooter + "\n"
	default:
		out = blockAttribute + "\n" + BlockHeader(name) + "\n" + body.String() + blockFooter + "\n"
	}

	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed to write block %s: %w", name, err)
	}
	return nil
}
