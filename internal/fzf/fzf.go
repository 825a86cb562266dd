// Package fzf provides interactive fuzzy selection over the note corpus.
package fzf

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"

	"github.com/quillnotes/quill/internal/note"
	"github.com/quillnotes/quill/internal/parser"
)

// FuzzyFinder selects a note interactively, with a rendered preview pane.
type FuzzyFinder struct {
	handler *note.FileHandler
	Header  string
	refs    []note.Ref
}

func NewFuzzyFinder(handler *note.FileHandler, header string) *FuzzyFinder {
	return &FuzzyFinder{handler: handler, Header: header}
}

// Run prompts for a note and returns the selected path.
func (f *FuzzyFinder) Run(query string) (string, error) {
	refs, err := f.handler.List()
	if err != nil {
		return "", fmt.Errorf("error listing notes: %w", err)
	}
	f.refs = refs

	idx, err := f.selectNote(query)
	if err != nil {
		if err == fuzzyfinder.ErrAbort {
			return "", fmt.Errorf("no note selected")
		}
		return "", err
	}

	return f.refs[idx].Path, nil
}

func (f *FuzzyFinder) selectNote(query string) (int, error) {
	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderMarkdownPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	labels := make([]string, len(f.refs))
	for i, ref := range f.refs {
		labels[i] = f.label(ref)
	}

	return fuzzyfinder.Find(f.refs, func(i int) string {
		return labels[i]
	}, options...)
}

// label pairs the display name with the note's hashtags so the finder
// matches on both.
func (f *FuzzyFinder) label(ref note.Ref) string {
	content, err := f.handler.ReadText(ref.Path)
	if err != nil {
		return ref.DisplayName
	}

	seen := make(map[string]struct{})
	var tags []string
	for _, tag := range parser.ExtractHashtags(content) {
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}

	if len(tags) == 0 {
		return fmt.Sprintf("%s [No tags]", ref.DisplayName)
	}
	return fmt.Sprintf("%s [Tags: %s]", ref.DisplayName, strings.Join(tags, ", "))
}

func (f *FuzzyFinder) renderMarkdownPreview(i, w, h int) string {
	if i == -1 {
		return ""
	}

	content, err := os.ReadFile(f.refs[i].Path)
	if err != nil {
		return "Error reading file"
	}

	r, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(100),
		glamour.WithColorProfile(termenv.ANSI256),
	)

	markdown, err := r.Render(string(content))
	if err != nil {
		return "Error rendering markdown"
	}

	return markdown
}
