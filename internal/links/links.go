// Package links resolves wiki-link tokens against the note corpus.
package links

import (
	"strings"

	"github.com/quillnotes/quill/internal/note"
	"github.com/quillnotes/quill/internal/parser"
)

// Resolution is the outcome of resolving a wiki-link token: either an
// existing note to open, or a request to create one. The resolver itself
// never touches the file system; creation is the caller's job.
type Resolution struct {
	// Existing reports whether Ref points at a note already in the corpus.
	Existing bool
	Ref      note.Ref
	// CreateName is the ".md"-suffixed filename to create when no note
	// matched.
	CreateName string
	// Ambiguous is set when several notes differ only by case; the first in
	// corpus iteration order wins.
	Ambiguous bool
}

// Resolve normalizes token (with or without surrounding brackets) and
// matches it case-insensitively against the display names in corpus.
func Resolve(token string, corpus []note.Ref) Resolution {
	raw := strings.TrimSpace(token)
	raw = strings.TrimPrefix(raw, "[[")
	raw = strings.TrimSuffix(raw, "]]")
	raw = strings.TrimSpace(raw)

	key := parser.NormalizeTarget(raw)
	if key == "" {
		// Empty brackets resolve to nothing at all.
		return Resolution{}
	}

	var (
		found   bool
		match   note.Ref
		matches int
	)
	for _, ref := range corpus {
		if parser.NormalizeTarget(ref.DisplayName) != key {
			continue
		}
		matches++
		if !found {
			found = true
			match = ref
		}
	}

	if found {
		return Resolution{Existing: true, Ref: match, Ambiguous: matches > 1}
	}
	return Resolution{CreateName: parser.CreateName(raw)}
}
