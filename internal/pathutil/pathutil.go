package pathutil

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts Windows-style separators to the current platform's
// separator and cleans the resulting path.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// NotesRelative returns the path to target relative to the notes directory,
// always using forward slashes for platform-agnostic display.
func NotesRelative(notesDir, target string) (string, error) {
	rel, err := filepath.Rel(NormalizePath(notesDir), NormalizePath(target))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
