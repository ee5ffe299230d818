package vcs

import (
	"fmt"
	"os"
)

// ContentReader is a function that reads file content given a file path.
// This allows the caller to control how files are read (filesystem, memory, etc.)
type ContentReader func(filePath string) ([]byte, error)

// FilesystemContentReader reads files straight from disk.
func FilesystemContentReader() ContentReader {
	return func(filePath string) ([]byte, error) {
		content, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
		}
		return content, nil
	}
}

// MemoryContentReader serves content from a path-keyed map. Missing paths
// report os.ErrNotExist like the filesystem would.
func MemoryContentReader(files map[string]string) ContentReader {
	return func(filePath string) ([]byte, error) {
		content, ok := files[filePath]
		if !ok {
			return nil, fmt.Errorf("failed to read %s: %w", filePath, os.ErrNotExist)
		}
		return []byte(content), nil
	}
}
