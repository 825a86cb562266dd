package pathutil

import "testing"

func TestNormalizePathHandlesWindowsSeparators(t *testing.T) {
	if got := NormalizePath(`notes\projects\foo.md`); got != "notes/projects/foo.md" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	if got := NormalizePath(""); got != "" {
		t.Fatalf("expected empty path to stay empty, got %q", got)
	}
}

func TestNotesRelative(t *testing.T) {
	rel, err := NotesRelative("/notes", "/notes/projects/foo.md")
	if err != nil {
		t.Fatalf("NotesRelative returned error: %v", err)
	}
	if rel != "projects/foo.md" {
		t.Fatalf("expected projects/foo.md, got %q", rel)
	}
}
