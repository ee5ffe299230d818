package rust

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRustImports(t *testing.T) {
	source := `use std::io;
use crate::graph::{DirectedAdjGraph, DirectedGraph};
use crate::algebra::Monoid;
    use crate::indented::X;
pub mod unionfind {
pub(crate) mod hidden {
`
	imports, err := ParseRustImports([]byte(source))

	require.NoError(t, err)
	require.Len(t, imports, 3)
	assert.Equal(t, RustImport{Path: "graph", Kind: RustImportUse, Line: 2}, imports[0])
	assert.Equal(t, RustImport{Path: "algebra", Kind: RustImportUse, Line: 3}, imports[1])
	assert.Equal(t, RustImport{Path: "unionfind", Kind: RustImportModDecl, Line: 5}, imports[2])
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{line: "use crate::graph::Graph;", want: "graph", ok: true},
		{line: "use crate::binary_indexed_tree::{BIT, Sum};", want: "binary_indexed_tree", ok: true},
		{line: "use crate::graph;", ok: false},
		{line: "use crate::::Graph;", ok: false},
		{line: "use library::graph::Graph;", ok: false},
		{line: "pub use crate::graph::Graph;", ok: false},
		{line: " use crate::graph::Graph;", ok: false},
		{line: "use crate::a::b::c::D;", want: "a", ok: true},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			got, ok := ParseReference(tc.line)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseEmbeddedModule(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{line: "pub mod unionfind {", want: "unionfind", ok: true},
		{line: "pub mod unionfind {  ", want: "unionfind", ok: true},
		{line: "pub mod a {pub struct A {x: u32}}", want: "a {pub struct A", ok: true},
		{line: "pub mod a {pub const X: u32 = 1;}", want: "a", ok: true},
		{line: "pub mod a;", ok: false},
		{line: "mod a {", ok: false},
		{line: "  pub mod a {", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			got, ok := ParseEmbeddedModule(tc.line)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScanLines_HandlesCRLFAndMissingTrailingNewline(t *testing.T) {
	var lines []string
	err := ScanLines(strings.NewReader("a\r\nb\n\nc"), func(line string) error {
		lines = append(lines, line)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "", "c"}, lines)
}

func TestScanLines_LongLine(t *testing.T) {
	long := strings.Repeat("x", 1<<20)
	var got string
	err := ScanLines(strings.NewReader(long+"\n"), func(line string) error {
		got = line
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, got, len(long))
}
