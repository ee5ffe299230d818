package layout

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// ModuleDir is the module root, relative to the project directory.
	ModuleDir = "src"
	// BinDir holds entry files, relative to the project directory.
	BinDir = "src/bin"
	// Extension is appended to names that do not already carry it.
	Extension = ".rs"
)

// RawName is a user-provided module or binary name from CLI arguments.
type RawName string

// ModulePath is a normalized absolute path of a module or entry file.
type ModulePath string

func (p ModulePath) String() string {
	return string(p)
}

// Name returns the file stem, which doubles as the inline block name.
func (p ModulePath) Name() string {
	return strings.TrimSuffix(filepath.Base(string(p)), Extension)
}

// Layout resolves names against the fixed src/ and src/bin/ directories of a project.
type Layout struct {
	baseDir ModulePath
}

func New(baseDir string) (Layout, error) {
	if baseDir == "" {
		baseDir = "."
	}

	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to resolve base path: %w", err)
	}

	return Layout{baseDir: ModulePath(filepath.Clean(absBaseDir))}, nil
}

func (l Layout) BaseDir() string {
	return l.baseDir.String()
}

// ModuleRoot returns the absolute module root directory.
func (l Layout) ModuleRoot() string {
	return filepath.Join(l.baseDir.String(), ModuleDir)
}

// BinRoot returns the absolute directory holding entry files.
func (l Layout) BinRoot() string {
	return filepath.Join(l.baseDir.String(), BinDir)
}

// Module maps a seed name to its file under the module root.
func (l Layout) Module(name RawName) ModulePath {
	return ModulePath(filepath.Join(l.ModuleRoot(), withExtension(string(name))))
}

// Bin maps an entry name to its file under the bin directory.
func (l Layout) Bin(name RawName) ModulePath {
	return ModulePath(filepath.Join(l.BinRoot(), withExtension(string(name))))
}

// ModuleByName maps a name scanned out of source text, which never carries
// the extension, to its module path.
func (l Layout) ModuleByName(name string) ModulePath {
	return ModulePath(filepath.Join(l.ModuleRoot(), name+Extension))
}

// Display returns path relative to the project directory when possible.
func (l Layout) Display(path string) string {
	rel, err := filepath.Rel(l.baseDir.String(), path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

func withExtension(name string) string {
	if strings.HasSuffix(name, Extension) {
		return name
	}
	return name + Extension
}
