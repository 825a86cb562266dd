package notes

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/quillnotes/quill/internal/parser"
)

// renderMarkdownPreview renders a note body for the preview pane, headed by
// the note's first markdown heading when it has one.
func renderMarkdownPreview(path string, width int) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return "Error reading file"
	}

	header := ""
	if title := parser.Title(content); title != "" {
		header = titleStyle.Render(title) + "\n"
	}

	if width <= 0 {
		width = 80
	}

	r, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.ANSI256),
	)

	markdown, err := r.Render(string(content))
	if err != nil {
		return "Error rendering markdown"
	}

	return header + markdown
}
