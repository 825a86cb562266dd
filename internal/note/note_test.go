package note

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeNote(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestNewRefStripsExtensionForDisplayName(t *testing.T) {
	ref := NewRef("/notes/projects/Roadmap.md", time.Now())
	if ref.DisplayName != "Roadmap" {
		t.Fatalf("expected display name Roadmap, got %q", ref.DisplayName)
	}
	if ref.Filename() != "Roadmap.md" {
		t.Fatalf("expected filename Roadmap.md, got %q", ref.Filename())
	}
}

func TestListFindsMarkdownRecursivelyAndSkipsHiddenDirs(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "a.md", "alpha")
	writeNote(t, dir, "projects/b.md", "beta")
	writeNote(t, dir, ".obsidian/cache.md", "hidden")
	writeNote(t, dir, "notes.txt", "not markdown")

	h := NewFileHandler(dir)
	refs, err := h.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(refs) != 2 {
		t.Fatalf("expected two notes, got %#v", refs)
	}
	if refs[0].DisplayName != "a" || refs[1].DisplayName != "b" {
		t.Fatalf("unexpected refs: %#v", refs)
	}
}

func TestListSkipsIgnoredFolders(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "keep.md", "keep")
	writeNote(t, dir, "Archive/old.md", "old")

	h := NewFileHandler(dir, "archive")
	refs, err := h.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(refs) != 1 || refs[0].DisplayName != "keep" {
		t.Fatalf("expected ignored folder to be skipped, got %#v", refs)
	}
}

func TestReadTextReplacesInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "latin1.md")
	if err := os.WriteFile(path, []byte{'c', 'a', 'f', 0xe9}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	h := NewFileHandler(dir)
	text, err := h.ReadText(path)
	if err != nil {
		t.Fatalf("expected lossy read to succeed, got %v", err)
	}
	if !strings.HasPrefix(text, "caf") {
		t.Fatalf("expected readable prefix, got %q", text)
	}
	if strings.Contains(text, "\xe9") {
		t.Fatalf("expected invalid byte to be replaced, got %q", text)
	}
}

func TestCreateEmptyMakesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	h := NewFileHandler(dir)
	path := filepath.Join(dir, "projects", "new", "idea.md")

	if err := h.CreateEmpty(path); err != nil {
		t.Fatalf("CreateEmpty returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}

	if err := h.CreateEmpty(path); err == nil {
		t.Fatalf("expected error when creating an existing note")
	}
}
