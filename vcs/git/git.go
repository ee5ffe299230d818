package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

func validateGitRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("git reference cannot be empty")
	}
	if strings.HasPrefix(ref, "-") {
		return fmt.Errorf("git reference cannot start with '-': %q", ref)
	}
	if strings.ContainsAny(ref, "\x00\n\r\t ") {
		return fmt.Errorf("git reference contains whitespace or NUL: %q", ref)
	}
	return nil
}

// projectRelPath converts an absolute path inside dir to the slash-separated
// form git expects, refusing paths that leave dir.
func projectRelPath(dir, path string) (string, error) {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if strings.Contains(rel, "\x00") {
		return "", fmt.Errorf("git path contains NUL: %q", path)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("git path escapes project directory: %q", path)
	}
	return filepath.ToSlash(rel), nil
}

// resolveCommit returns the full object name of the commit ref points to, so
// that every later read sees the same tree even if ref moves.
func resolveCommit(ctx context.Context, dir, ref string) (string, error) {
	if err := validateGitRef(ref); err != nil {
		return "", err
	}

	out, err := runGitCommand(ctx, dir, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("invalid commit reference '%s': %w", ref, err)
	}
	return strings.TrimSpace(string(out)), nil
}
