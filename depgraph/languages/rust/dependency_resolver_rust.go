package rust

import (
	"fmt"
	"io"

	"github.com/LegacyCodeHQ/rsbundle/layout"
	"github.com/LegacyCodeHQ/rsbundle/vcs"
)

// ResolveRustProjectImports returns the module paths referenced by the file at
// absPath, in first-seen order and without duplicates.
func ResolveRustProjectImports(
	absPath string,
	l layout.Layout,
	contentReader vcs.ContentReader,
) ([]string, error) {
	content, err := contentReader(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", absPath, err)
	}

	imports, err := ParseRustImports(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse imports in %s: %w", absPath, err)
	}

	var projectImports []string
	seen := make(map[string]bool)
	for _, imp := range imports {
		if imp.Kind != RustImportUse {
			continue
		}
		target := l.ModuleByName(imp.Path).String()
		if seen[target] {
			continue
		}
		seen[target] = true
		projectImports = append(projectImports, target)
	}

	return projectImports, nil
}

// ResolveEmbeddedModules streams r and returns the module paths of inline
// blocks already present in it.
func ResolveEmbeddedModules(r io.Reader, l layout.Layout) (map[string]bool, error) {
	imports, err := scanImports(r)
	if err != nil {
		return nil, err
	}

	embedded := make(map[string]bool)
	for _, imp := range imports {
		if imp.Kind == RustImportModDecl {
			embedded[l.ModuleByName(imp.Path).String()] = true
		}
	}
	return embedded, nil
}
