package watch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LegacyCodeHQ/rsbundle/internal/testhelpers"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch chan snapshot) snapshot {
	t.Helper()
	select {
	case got := <-ch:
		return got
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return snapshot{}
	}
}

func TestBroker_PublishAndSubscribe(t *testing.T) {
	b := newBroker()
	ch := b.subscribe()
	defer b.unsubscribe(ch)

	b.publish(snapshot{DOT: "digraph { A -> B; }"})

	got := receive(t, ch)
	assert.Equal(t, "digraph { A -> B; }", got.DOT)
	assert.Equal(t, uint64(1), got.ID)
}

func TestBroker_NewSubscriberReceivesLatest(t *testing.T) {
	b := newBroker()
	b.publish(snapshot{DOT: "digraph { A; }"})
	b.publish(snapshot{DOT: "digraph { X -> Y; }"})

	ch := b.subscribe()
	defer b.unsubscribe(ch)

	got := receive(t, ch)
	assert.Equal(t, "digraph { X -> Y; }", got.DOT)
	assert.Equal(t, uint64(2), got.ID)
}

func TestBroker_MultipleSubscribers(t *testing.T) {
	b := newBroker()
	ch1 := b.subscribe()
	ch2 := b.subscribe()
	defer b.unsubscribe(ch1)
	defer b.unsubscribe(ch2)

	b.publish(snapshot{DOT: "digraph { A; }"})

	assert.Equal(t, "digraph { A; }", receive(t, ch1).DOT)
	assert.Equal(t, "digraph { A; }", receive(t, ch2).DOT)
}

func TestHandleIndex_ServesHTML(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	handleIndex(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "rsbundle watch")
	assert.Contains(t, w.Body.String(), "EventSource")
}

// readEvent reads the first SSE event from the stream.
func readEvent(t *testing.T, body io.Reader) (map[string]string, snapshot) {
	t.Helper()

	fields := map[string]string{}
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		key, value, ok := strings.Cut(line, ": ")
		require.True(t, ok, "malformed event line %q", line)
		fields[key] = value
	}
	require.NoError(t, scanner.Err())

	var s snapshot
	require.NoError(t, json.Unmarshal([]byte(fields["data"]), &s))
	return fields, s
}

func TestHandleSSE_StreamsSnapshotEvent(t *testing.T) {
	b := newBroker()
	b.publish(snapshot{
		Label:   "src/bin/main.rs",
		Seeds:   []string{"src/a.rs"},
		Modules: 2,
		DOT:     "digraph {\n  A -> B;\n}\n",
	})

	server := httptest.NewServer(handleSSE(b))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	fields, got := readEvent(t, resp.Body)
	assert.Equal(t, "graph", fields["event"])
	assert.Equal(t, "1", fields["id"])
	assert.Equal(t, snapshot{
		ID:      1,
		Label:   "src/bin/main.rs",
		Seeds:   []string{"src/a.rs"},
		Modules: 2,
		DOT:     "digraph {\n  A -> B;\n}\n",
	}, got)
}

func TestIsRelevantChange_ModuleFiles(t *testing.T) {
	assert.True(t, isRelevantChange(fsnotify.Event{Name: "src/segtree.rs", Op: fsnotify.Write}))
	assert.True(t, isRelevantChange(fsnotify.Event{Name: "src/modint.rs", Op: fsnotify.Create}))
	assert.True(t, isRelevantChange(fsnotify.Event{Name: "src/old.rs", Op: fsnotify.Remove}))
	assert.True(t, isRelevantChange(fsnotify.Event{Name: "src/old.rs", Op: fsnotify.Rename}))
}

func TestIsRelevantChange_OtherFiles(t *testing.T) {
	assert.False(t, isRelevantChange(fsnotify.Event{Name: "Cargo.toml", Op: fsnotify.Write}))
	assert.False(t, isRelevantChange(fsnotify.Event{Name: "src/.main.rs.123.tmp", Op: fsnotify.Create}))
	assert.False(t, isRelevantChange(fsnotify.Event{Name: "README.md", Op: fsnotify.Write}))
}

func TestIsRelevantChange_ChmodIgnored(t *testing.T) {
	assert.False(t, isRelevantChange(fsnotify.Event{Name: "src/a.rs", Op: fsnotify.Chmod}))
}

func watchProject(t *testing.T) string {
	return testhelpers.WriteProject(t, map[string]string{
		"src/a.rs":        "use crate::b::B;\n",
		"src/b.rs":        "pub struct B;\n",
		"src/bin/main.rs": "fn main() {}\n",
	})
}

func TestBuildSnapshot_ProducesGraph(t *testing.T) {
	dir := watchProject(t)

	s, err := buildSnapshot(context.Background(), &watchOptions{projectDir: dir, bin: "main", modules: []string{"a"}}, log.New(io.Discard))
	require.NoError(t, err)

	assert.Contains(t, s.DOT, "digraph modules")
	assert.Contains(t, s.DOT, "src/a.rs")
	assert.Contains(t, s.DOT, "src/b.rs")
	assert.Equal(t, "src/bin/main.rs", s.Label)
	assert.Equal(t, []string{"src/a.rs"}, s.Seeds)
	assert.Equal(t, 2, s.Modules)
	assert.Zero(t, s.Cycles)
	assert.Empty(t, s.Error)
}

func TestBuildSnapshot_AllModulesByDefault(t *testing.T) {
	dir := watchProject(t)

	s, err := buildSnapshot(context.Background(), &watchOptions{projectDir: dir}, log.New(io.Discard))
	require.NoError(t, err)

	assert.Equal(t, []string{"src/a.rs", "src/b.rs"}, s.Seeds)
	assert.NotContains(t, s.DOT, "main.rs")
}

func TestBuildSnapshot_MissingSeed(t *testing.T) {
	dir := watchProject(t)

	_, err := buildSnapshot(context.Background(), &watchOptions{projectDir: dir, modules: []string{"zzz"}}, log.New(io.Discard))
	assert.Error(t, err)
}

func TestPublishCurrentGraph_FailedRebuildPublishesEmptyGraph(t *testing.T) {
	dir := watchProject(t)

	b := newBroker()
	ch := b.subscribe()
	defer b.unsubscribe(ch)

	publishCurrentGraph(context.Background(), &watchOptions{projectDir: dir, modules: []string{"zzz"}}, b, log.New(io.Discard))

	got := receive(t, ch)
	assert.Equal(t, emptyDOTGraph, got.DOT)
	assert.Contains(t, got.Error, "src/zzz.rs")
}

func TestNewCommand_DefaultPort(t *testing.T) {
	cmd := NewCommand()
	port, err := cmd.Flags().GetInt("port")
	require.NoError(t, err)
	assert.Equal(t, 4900, port)
}

func TestWatchCommand_StopsWhenContextIsCancelled(t *testing.T) {
	dir := watchProject(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewCommand()
	cmd.SetArgs([]string{"-C", dir, "--port", "0", "a"})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, stdout.String(), "Watching ")
}

func TestWatchCommand_InitialBuildFailure(t *testing.T) {
	dir := watchProject(t)

	cmd := NewCommand()
	cmd.SetArgs([]string{"-C", dir, "--port", "0", "zzz"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	assert.ErrorContains(t, err, "initial graph build failed")
}
