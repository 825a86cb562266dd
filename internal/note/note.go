// Package note provides the note identity type and the file-system access
// layer shared by the indexer, resolver, and commands.
package note

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Ref identifies a single note on disk.
type Ref struct {
	Path        string
	DisplayName string
	ModifiedAt  time.Time
}

// NewRef builds a Ref from an absolute path and its modification time. The
// display name is the filename without the ".md" extension.
func NewRef(path string, modifiedAt time.Time) Ref {
	base := filepath.Base(path)
	return Ref{
		Path:        path,
		DisplayName: strings.TrimSuffix(base, filepath.Ext(base)),
		ModifiedAt:  modifiedAt,
	}
}

// Filename returns the on-disk filename including extension.
func (r Ref) Filename() string {
	return filepath.Base(r.Path)
}

// FileHandler performs all note file I/O for a single notes directory.
type FileHandler struct {
	notesDir string
	ignored  []string
}

func NewFileHandler(notesDir string, ignoredFolders ...string) *FileHandler {
	return &FileHandler{
		notesDir: filepath.Clean(notesDir),
		ignored:  ignoredFolders,
	}
}

// NotesDir returns the directory this handler is rooted at.
func (h *FileHandler) NotesDir() string {
	return h.notesDir
}

// List walks the notes directory recursively and returns a Ref for every
// markdown file, sorted by path. Dot-directories and configured ignored
// folders are skipped.
func (h *FileHandler) List() ([]Ref, error) {
	var refs []Ref

	err := filepath.Walk(
		h.notesDir,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			name := info.Name()
			if info.IsDir() {
				if path == h.notesDir {
					return nil
				}
				if strings.HasPrefix(name, ".") || h.isIgnored(name) {
					return filepath.SkipDir
				}
				return nil
			}

			if strings.HasPrefix(name, ".") {
				return nil
			}
			if strings.EqualFold(filepath.Ext(name), ".md") {
				refs = append(refs, NewRef(path, info.ModTime()))
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Path < refs[j].Path
	})
	return refs, nil
}

// Stat refreshes a Ref for a path, typically after a save event.
func (h *FileHandler) Stat(path string) (Ref, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Ref{}, err
	}
	return NewRef(path, info.ModTime()), nil
}

// ReadText reads a note as best-effort UTF-8. Invalid byte sequences are
// replaced rather than reported, so one odd encoding never fails a scan.
func (h *FileHandler) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
}

// WriteText replaces a note's content.
func (h *FileHandler) WriteText(path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}

// CreateEmpty creates an empty note file, making parent directories as
// needed. Creating a file that already exists is an error.
func (h *FileHandler) CreateEmpty(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.New("note already exists: " + path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	return file.Close()
}

func (h *FileHandler) isIgnored(name string) bool {
	for _, dir := range h.ignored {
		if strings.EqualFold(dir, name) {
			return true
		}
	}
	return false
}
