package graph

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LegacyCodeHQ/rsbundle/internal/testhelpers"
	"github.com/LegacyCodeHQ/rsbundle/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainProject(t *testing.T) string {
	return testhelpers.WriteProject(t, map[string]string{
		"src/a.rs":        "use crate::b::B;\npub struct A;\n",
		"src/b.rs":        "use crate::c::C;\npub struct B;\n",
		"src/c.rs":        "pub struct C;\n",
		"src/bin/main.rs": "fn main() {}\npub mod c {pub struct C;}\n",
	})
}

func executeGraph(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewCommand()
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestGraphCommand_Text(t *testing.T) {
	dir := chainProject(t)

	output, err := executeGraph(t, "-C", dir, "a")

	require.NoError(t, err)
	assert.Equal(t, "3 modules required\n  a (seed) -> b\n  b -> c\n  c\n", output)
}

func TestGraphCommand_MarksEmbeddedModules(t *testing.T) {
	dir := chainProject(t)

	output, err := executeGraph(t, "-C", dir, "--bin", "main", "a")

	require.NoError(t, err)
	assert.Contains(t, output, "src/bin/main.rs\n")
	assert.Contains(t, output, "  c (embedded)\n")
}

func TestGraphCommand_AllModulesWhenNoSeedsGiven(t *testing.T) {
	dir := chainProject(t)

	output, err := executeGraph(t, "-C", dir)

	require.NoError(t, err)
	assert.Contains(t, output, "  a (seed) -> b\n")
	assert.Contains(t, output, "  b (seed) -> c\n")
	assert.Contains(t, output, "  c (seed)\n")
	assert.NotContains(t, output, "main")
}

func TestGraphCommand_Order(t *testing.T) {
	dir := chainProject(t)

	output, err := executeGraph(t, "-C", dir, "--order", "a")

	require.NoError(t, err)
	assert.Equal(t, "src/a.rs\nsrc/b.rs\nsrc/c.rs\n", output)
}

func TestGraphCommand_OrderFailsOnCycle(t *testing.T) {
	dir := testhelpers.WriteProject(t, map[string]string{
		"src/x.rs": "use crate::y::Y;\n",
		"src/y.rs": "use crate::x::X;\n",
	})

	_, err := executeGraph(t, "-C", dir, "--order", "x")

	assert.Error(t, err)
}

func TestGraphCommand_JSONReportsCycles(t *testing.T) {
	dir := testhelpers.WriteProject(t, map[string]string{
		"src/x.rs": "use crate::y::Y;\n",
		"src/y.rs": "use crate::x::X;\n",
	})

	output, err := executeGraph(t, "-C", dir, "-f", "json", "x")
	require.NoError(t, err)

	var doc struct {
		Modules []struct {
			Name string `json:"name"`
		} `json:"modules"`
		Cycles [][]string `json:"cycles"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &doc))
	assert.Len(t, doc.Modules, 2)
	assert.Equal(t, [][]string{{"x", "y"}}, doc.Cycles)
}

func TestGraphCommand_MermaidURL(t *testing.T) {
	dir := chainProject(t)

	output, err := executeGraph(t, "-C", dir, "-f", "mermaid", "--url", "a")

	require.NoError(t, err)
	assert.Contains(t, output, "https://mermaid.live/edit#base64:")
}

func TestGraphCommand_URLUnsupportedForText(t *testing.T) {
	dir := chainProject(t)

	_, err := executeGraph(t, "-C", dir, "--url", "a")

	assert.ErrorContains(t, err, "no shareable link")
}

func TestGraphCommand_UnknownFormat(t *testing.T) {
	dir := chainProject(t)

	_, err := executeGraph(t, "-C", dir, "-f", "svg", "a")

	assert.ErrorContains(t, err, "unknown format: svg")
}

func TestGraphCommand_MissingSeed(t *testing.T) {
	dir := chainProject(t)

	_, err := executeGraph(t, "-C", dir, "nope")

	var missing *layout.MissingFileError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, layout.SeedModule, missing.Kind)
}

func TestGraphCommand_StrictMissingDependency(t *testing.T) {
	dir := testhelpers.WriteProject(t, map[string]string{
		"src/a.rs": "use crate::gone::G;\n",
	})

	_, err := executeGraph(t, "-C", dir, "--strict", "a")

	assert.ErrorIs(t, err, layout.ErrMissingFile)
}

// gitCommitAll commits dir as a new repository and returns the commit name.
func gitCommitAll(t *testing.T, dir string) string {
	t.Helper()
	for _, args := range [][]string{
		{"init"},
		{"config", "user.name", "Test User"},
		{"config", "user.email", "test@example.com"},
		{"add", "."},
		{"commit", "-m", "initial"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v failed: %s", args, out)
	}

	head := exec.Command("git", "rev-parse", "HEAD")
	head.Dir = dir
	out, err := head.Output()
	require.NoError(t, err)
	return strings.TrimSpace(string(out))
}

func TestGraphCommand_Revision(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}
	dir := chainProject(t)
	commit := gitCommitAll(t, dir)

	// The working tree drops the reference to c; the commit still has it.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "b.rs"), []byte("pub struct B;\n"), 0o644))

	committed, err := executeGraph(t, "-C", dir, "--rev", "HEAD", "a")
	require.NoError(t, err)
	assert.Equal(t, "@ HEAD ("+commit[:7]+")\n3 modules required\n  a (seed) -> b\n  b -> c\n  c\n", committed)

	working, err := executeGraph(t, "-C", dir, "a")
	require.NoError(t, err)
	assert.Equal(t, "2 modules required\n  a (seed) -> b\n  b\n", working)
}

func TestGraphCommand_RevisionRejectsStrict(t *testing.T) {
	dir := chainProject(t)

	_, err := executeGraph(t, "-C", dir, "--rev", "HEAD", "--strict", "a")

	assert.ErrorContains(t, err, "cannot be combined")
}

func TestModuleGraph_FormatOptionsLabel(t *testing.T) {
	l, err := layout.New(t.TempDir())
	require.NoError(t, err)
	entry := l.Bin(layout.RawName("main"))

	tests := []struct {
		name     string
		mg       ModuleGraph
		expected string
	}{
		{name: "working tree", mg: ModuleGraph{Layout: l}, expected: ""},
		{name: "entry", mg: ModuleGraph{Layout: l, Entry: entry}, expected: "src/bin/main.rs"},
		{name: "revision", mg: ModuleGraph{Layout: l, Revision: "v1 (abc1234)"}, expected: "@ v1 (abc1234)"},
		{name: "entry at revision", mg: ModuleGraph{Layout: l, Entry: entry, Revision: "v1 (abc1234)"}, expected: "src/bin/main.rs @ v1 (abc1234)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.mg.FormatOptions().Label)
		})
	}
}
