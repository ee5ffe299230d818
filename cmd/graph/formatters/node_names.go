package formatters

import (
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/rsbundle/layout"
)

// BuildNodeNames returns distinct module names for module paths. Modules
// sharing a file stem are disambiguated by prepending parent directories.
func BuildNodeNames(paths []string) map[string]string {
	names := make(map[string]string, len(paths))
	groupedByStem := make(map[string][]string, len(paths))
	for _, path := range paths {
		stem := layout.ModulePath(path).Name()
		groupedByStem[stem] = append(groupedByStem[stem], path)
	}

	for stem, groupedPaths := range groupedByStem {
		if len(groupedPaths) == 1 {
			names[groupedPaths[0]] = stem
			continue
		}

		for depth := 2; ; depth++ {
			seen := make(map[string]int, len(groupedPaths))
			for _, path := range groupedPaths {
				seen[pathSuffix(path, depth)]++
			}
			distinct := len(seen) == len(groupedPaths)
			if !distinct && depth < maxDepth(groupedPaths) {
				continue
			}
			for _, path := range groupedPaths {
				names[path] = pathSuffix(path, depth)
			}
			break
		}
	}

	return names
}

func pathSuffix(path string, depth int) string {
	normalized := strings.TrimSuffix(filepath.ToSlash(filepath.Clean(path)), layout.Extension)
	parts := strings.Split(strings.TrimPrefix(normalized, "/"), "/")
	if depth > len(parts) {
		depth = len(parts)
	}
	return strings.Join(parts[len(parts)-depth:], "/")
}

func maxDepth(paths []string) int {
	depth := 0
	for _, path := range paths {
		n := len(strings.Split(strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "/"), "/"))
		if n > depth {
			depth = n
		}
	}
	return depth
}
