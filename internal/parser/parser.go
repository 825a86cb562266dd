// Package parser extracts structural tokens (hashtags and wiki-links) from
// note text and normalizes link targets for matching.
package parser

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	// A hashtag is '#' followed by one or more word characters; matching is
	// maximal-munch, so "#end." yields "end".
	hashtagRe = regexp.MustCompile(`#([A-Za-z0-9_]+)`)

	// Wiki-links close at the nearest "]]", so adjacent pairs stay separate.
	wikilinkRe = regexp.MustCompile(`\[\[(.+?)\]\]`)
)

// WikiLink is a single bracketed link occurrence within note text.
type WikiLink struct {
	// Raw is the text between the brackets, verbatim.
	Raw string
	// Target is the normalized match key for the link, see NormalizeTarget.
	Target string
}

// ExtractHashtags returns every hashtag occurrence in order of appearance,
// without the '#' prefix. Duplicates are preserved; the caller aggregates.
func ExtractHashtags(content string) []string {
	matches := hashtagRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// ExtractWikilinks returns every wiki-link occurrence in order of appearance.
// Empty or whitespace-only brackets produce no link.
func ExtractWikilinks(content string) []WikiLink {
	matches := wikilinkRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	links := make([]WikiLink, 0, len(matches))
	for _, m := range matches {
		raw := strings.TrimSpace(m[1])
		if raw == "" {
			continue
		}
		links = append(links, WikiLink{Raw: raw, Target: NormalizeTarget(raw)})
	}
	return links
}

// NormalizeTarget converts a link target or filename into its comparison key:
// the trailing ".md" extension is dropped and the result is case-folded.
func NormalizeTarget(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if strings.HasSuffix(lowered, ".md") {
		return lowered[:len(lowered)-len(".md")]
	}
	return lowered
}

// CreateName returns the on-disk filename for a link target, appending the
// ".md" extension when absent. Casing of the target is preserved.
func CreateName(target string) string {
	trimmed := strings.TrimSpace(target)
	if strings.HasSuffix(strings.ToLower(trimmed), ".md") {
		return trimmed
	}
	return trimmed + ".md"
}

// Title returns the text of the first heading in the provided markdown
// source, or "" when the document has none.
func Title(source []byte) string {
	parsed := goldmark.DefaultParser().Parse(text.NewReader(source))

	var title string
	ast.Walk(parsed, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok {
			title = strings.TrimSpace(string(heading.Text(source)))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	return title
}
