package git

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/LegacyCodeHQ/rsbundle/vcs"
)

// Revision reads a project directory as it was at a commit. Paths passed to
// its methods are absolute paths inside that directory.
type Revision struct {
	dir    string
	ref    string
	commit string
}

// OpenRevision resolves ref in the repository containing dir.
func OpenRevision(ctx context.Context, dir, ref string) (*Revision, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if _, err := runGitCommand(ctx, absDir, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("%s is not a git repository: %w", absDir, err)
	}
	commit, err := resolveCommit(ctx, absDir, ref)
	if err != nil {
		return nil, err
	}
	return &Revision{dir: absDir, ref: ref, commit: commit}, nil
}

// Ref returns the reference the revision was opened with.
func (r *Revision) Ref() string {
	return r.ref
}

// Commit returns the full object name ref resolved to.
func (r *Revision) Commit() string {
	return r.commit
}

// ContentReader reads files at the revision. A path missing from the commit
// reports fs.ErrNotExist.
func (r *Revision) ContentReader(ctx context.Context) vcs.ContentReader {
	return func(filePath string) ([]byte, error) {
		entry, err := r.lookup(ctx, filePath)
		if err != nil {
			return nil, err
		}
		if entry.kind != objectBlob {
			return nil, fmt.Errorf("%s at %s is a %s, not a file", entry.path, r.ref, entry.kind)
		}

		out, err := runGitCommand(ctx, r.dir, "cat-file", objectBlob, entry.object)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s at %s: %w", entry.path, r.ref, err)
		}
		return out, nil
	}
}

// IsFile reports whether filePath is a file in the commit tree.
func (r *Revision) IsFile(ctx context.Context, filePath string) bool {
	entry, err := r.lookup(ctx, filePath)
	return err == nil && entry.kind == objectBlob
}

// ListFiles returns the files directly inside dir at the revision, sorted.
func (r *Revision) ListFiles(ctx context.Context, dir string) ([]string, error) {
	rel, err := projectRelPath(r.dir, dir)
	if err != nil {
		return nil, err
	}

	entries, err := r.listTree(ctx, "./"+rel+"/")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s at %s: %w", rel, r.ref, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.kind == objectBlob {
			files = append(files, filepath.Join(r.dir, filepath.FromSlash(entry.path)))
		}
	}
	sort.Strings(files)
	return files, nil
}

const objectBlob = "blob"

// treeEntry is one record of git ls-tree output.
type treeEntry struct {
	kind   string
	object string
	path   string
}

func (r *Revision) lookup(ctx context.Context, filePath string) (treeEntry, error) {
	rel, err := projectRelPath(r.dir, filePath)
	if err != nil {
		return treeEntry{}, err
	}

	entries, err := r.listTree(ctx, "./"+rel)
	if err != nil {
		return treeEntry{}, fmt.Errorf("failed to look up %s at %s: %w", rel, r.ref, err)
	}
	for _, entry := range entries {
		if entry.path == rel {
			return entry, nil
		}
	}
	return treeEntry{}, fmt.Errorf("%s at %s: %w", rel, r.ref, fs.ErrNotExist)
}

// listTree runs ls-tree for pathspec relative to the project directory. A
// pathspec matching nothing yields no entries.
func (r *Revision) listTree(ctx context.Context, pathspec string) ([]treeEntry, error) {
	out, err := runGitCommand(ctx, r.dir, "ls-tree", "-z", r.commit, "--", pathspec)
	if err != nil {
		return nil, err
	}
	return parseTreeEntries(out), nil
}

func parseTreeEntries(out []byte) []treeEntry {
	var entries []treeEntry
	for _, record := range strings.Split(string(out), "\x00") {
		// <mode> SP <type> SP <object> TAB <path>
		meta, path, ok := strings.Cut(record, "\t")
		if !ok {
			continue
		}
		fields := strings.Fields(meta)
		if len(fields) != 3 {
			continue
		}
		entries = append(entries, treeEntry{kind: fields[1], object: fields[2], path: path})
	}
	return entries
}
