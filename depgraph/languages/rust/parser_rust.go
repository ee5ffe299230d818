package rust

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// The scanner is lexical: each pattern is tested against the start of a
// single line. Comments, strings and declarations split across lines are
// not understood.
const (
	// EmbeddedModulePattern marks the start of an inline module block.
	// The name group is greedy, so "pub mod a {b {" yields "a {b".
	EmbeddedModulePattern = `^pub mod (.+) {`
	// ReferencePattern marks a use of another library module.
	ReferencePattern = `^use crate::(\w*)::`
	// CommentMarker drops a whole line wherever it appears.
	CommentMarker = "//"
)

const (
	embeddedModuleNameGroup = 1
	referenceNameGroup      = 1
)

var (
	embeddedModuleRegexp = regexp.MustCompile(EmbeddedModulePattern)
	referenceRegexp      = regexp.MustCompile(ReferencePattern)
)

// RustImportKind describes the type of Rust import-like declaration.
type RustImportKind int

const (
	// RustImportUse is a `use crate::<module>::` reference.
	RustImportUse RustImportKind = iota
	// RustImportModDecl is an inline `pub mod <module> {` block.
	RustImportModDecl
)

// RustImport represents a module reference or an inline module block.
type RustImport struct {
	Path string
	Kind RustImportKind
	Line int
}

// ParseRustImports scans Rust source code line by line and extracts imports.
func ParseRustImports(sourceCode []byte) ([]RustImport, error) {
	return scanImports(bytes.NewReader(sourceCode))
}

func scanImports(r io.Reader) ([]RustImport, error) {
	var imports []RustImport
	lineNo := 0
	err := ScanLines(r, func(line string) error {
		lineNo++
		if name, ok := ParseEmbeddedModule(line); ok {
			imports = append(imports, RustImport{Path: name, Kind: RustImportModDecl, Line: lineNo})
		}
		if name, ok := ParseReference(line); ok {
			imports = append(imports, RustImport{Path: name, Kind: RustImportUse, Line: lineNo})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return imports, nil
}

// ParseEmbeddedModule returns the block name when line starts an inline module.
func ParseEmbeddedModule(line string) (string, bool) {
	m := embeddedModuleRegexp.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[embeddedModuleNameGroup], true
}

// ParseReference returns the referenced module name when line is a
// `use crate::<name>::` statement. An empty name is not a reference.
func ParseReference(line string) (string, bool) {
	m := referenceRegexp.FindStringSubmatch(line)
	if m == nil || m[referenceNameGroup] == "" {
		return "", false
	}
	return m[referenceNameGroup], true
}

// ScanLines streams r one line at a time. Lines are passed without their
// terminator; CRLF endings are treated like LF. There is no line length limit.
func ScanLines(r io.Reader, fn func(line string) error) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if cbErr := fn(trimLineEnding(line)); cbErr != nil {
				return cbErr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read line: %w", err)
		}
	}
}

func trimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
