package graph

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/LegacyCodeHQ/rsbundle/depgraph/languages/rust"
	"github.com/LegacyCodeHQ/rsbundle/layout"
	"github.com/LegacyCodeHQ/rsbundle/vcs"
	"github.com/LegacyCodeHQ/rsbundle/vcs/git"
)

// source is where module files are looked up: the working tree, or a git
// commit when a revision is requested.
type source struct {
	layout   layout.Layout
	reader   vcs.ContentReader
	isFile   func(path string) bool
	list     func(dir string) ([]string, error)
	// revision describes the commit being read; empty for the working tree.
	revision string
}

func openSource(ctx context.Context, l layout.Layout, opts LoadOptions) (source, error) {
	if opts.Revision == "" {
		return source{
			layout: l,
			reader: vcs.FilesystemContentReader(),
			isFile: func(path string) bool {
				return layout.ValidateExists(layout.ModulePath(path), layout.SeedModule) == nil
			},
			list: globModules,
		}, nil
	}

	if opts.Strict {
		return source{}, fmt.Errorf("--strict checks the working tree and cannot be combined with a revision")
	}
	rev, err := git.OpenRevision(ctx, l.BaseDir(), opts.Revision)
	if err != nil {
		return source{}, err
	}
	return source{
		layout: l,
		reader: rev.ContentReader(ctx),
		isFile: func(path string) bool {
			return rev.IsFile(ctx, path)
		},
		list: func(dir string) ([]string, error) {
			return rev.ListFiles(ctx, dir)
		},
		revision: fmt.Sprintf("%s (%.7s)", rev.Ref(), rev.Commit()),
	}, nil
}

func (s source) validate(path layout.ModulePath, kind layout.FileKind) error {
	if !s.isFile(path.String()) {
		return &layout.MissingFileError{Path: path, Kind: kind}
	}
	return nil
}

func (s source) resolveSeeds(names []string) ([]layout.ModulePath, error) {
	if len(names) == 0 {
		return s.projectModules()
	}

	seeds := make([]layout.ModulePath, 0, len(names))
	for _, name := range layout.RawNames(names) {
		seed := s.layout.Module(name)
		if err := s.validate(seed, layout.SeedModule); err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}

func (s source) projectModules() ([]layout.ModulePath, error) {
	files, err := s.list(s.layout.ModuleRoot())
	if err != nil {
		return nil, err
	}

	var seeds []layout.ModulePath
	for _, file := range files {
		base := filepath.Base(file)
		if strings.HasPrefix(base, ".") || filepath.Ext(base) != layout.Extension {
			continue
		}
		seeds = append(seeds, layout.ModulePath(file))
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("no modules found in %s", s.layout.Display(s.layout.ModuleRoot()))
	}
	return seeds, nil
}

func (s source) embeddedModules(entry layout.ModulePath) (map[string]bool, error) {
	if err := s.validate(entry, layout.EntryFile); err != nil {
		return nil, err
	}
	content, err := s.reader(entry.String())
	if err != nil {
		return nil, err
	}
	return rust.ResolveEmbeddedModules(bytes.NewReader(content), s.layout)
}

func globModules(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+layout.Extension))
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		if layout.ValidateExists(layout.ModulePath(match), layout.SeedModule) == nil {
			files = append(files, match)
		}
	}
	sort.Strings(files)
	return files, nil
}
