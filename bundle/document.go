package bundle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/LegacyCodeHQ/rsbundle/depgraph/languages/rust"
	"github.com/LegacyCodeHQ/rsbundle/layout"
)

// document is the entry file seen as an append-only resource: it is opened
// once for scanning and written once, atomically, with the original bytes
// kept as a prefix.
type document struct {
	path layout.ModulePath
}

func (d document) embeddedModules(l layout.Layout) (map[string]bool, error) {
	f, err := os.Open(d.path.String())
	if err != nil {
		return nil, fmt.Errorf("failed to open entry file: %w", err)
	}
	defer f.Close()

	embedded, err := rust.ResolveEmbeddedModules(f, l)
	if err != nil {
		return nil, fmt.Errorf("failed to scan entry file %s: %w", d.path, err)
	}
	return embedded, nil
}

// appendBytes writes the current content followed by suffix to a temporary
// file next to the entry file, syncs it, and renames it over the entry file.
// An interrupted run leaves either the old or the new content in place.
func (d document) appendBytes(suffix []byte) (err error) {
	path := d.path.String()

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat entry file: %w", err)
	}

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open entry file: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = io.Copy(tmp, src); err != nil {
		return fmt.Errorf("failed to copy entry file: %w", err)
	}
	_ = src.Close()
	if _, err = tmp.Write(suffix); err != nil {
		return fmt.Errorf("failed to write bundled modules: %w", err)
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace entry file: %w", err)
	}
	return nil
}
