package layout

import (
	"errors"
	"fmt"
	"os"
)

// ErrMissingFile matches every *MissingFileError via errors.Is.
var ErrMissingFile = errors.New("file does not exist")

// FileKind tells which role a missing file played.
type FileKind int

const (
	EntryFile FileKind = iota
	SeedModule
	TransitiveDependency
)

func (k FileKind) String() string {
	switch k {
	case EntryFile:
		return "entry file"
	case SeedModule:
		return "seed module"
	case TransitiveDependency:
		return "transitive dependency"
	default:
		return "file"
	}
}

// MissingFileError reports a path that is not a regular file.
type MissingFileError struct {
	Path ModulePath
	Kind FileKind
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingFile, e.Path)
}

func (e *MissingFileError) Is(target error) bool {
	return target == ErrMissingFile
}

// ValidateExists fails with *MissingFileError unless path is a regular file.
func ValidateExists(path ModulePath, kind FileKind) error {
	info, err := os.Stat(path.String())
	if err != nil || !info.Mode().IsRegular() {
		return &MissingFileError{Path: path, Kind: kind}
	}
	return nil
}

// ResolveRequest resolves the entry and seed names and validates each of them.
// The first missing file aborts the whole request.
func (l Layout) ResolveRequest(bin RawName, modules []RawName) (ModulePath, []ModulePath, error) {
	entry := l.Bin(bin)
	if err := ValidateExists(entry, EntryFile); err != nil {
		return "", nil, err
	}

	seeds := make([]ModulePath, 0, len(modules))
	for _, name := range modules {
		seed := l.Module(name)
		if err := ValidateExists(seed, SeedModule); err != nil {
			return "", nil, err
		}
		seeds = append(seeds, seed)
	}

	return entry, seeds, nil
}

// RawNames converts CLI arguments to raw names.
func RawNames(args []string) []RawName {
	names := make([]RawName, 0, len(args))
	for _, arg := range args {
		names = append(names, RawName(arg))
	}
	return names
}
