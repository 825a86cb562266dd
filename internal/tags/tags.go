// Package tags aggregates hashtag frequencies across the corpus.
package tags

import (
	"sort"
	"strings"

	"github.com/quillnotes/quill/internal/index"
	"github.com/quillnotes/quill/internal/parser"
)

// TagCount pairs a tag's canonical display form with its occurrence count.
type TagCount struct {
	Tag   string
	Count int
}

// Refresh counts hashtag occurrences across an index snapshot. The overlay
// maps note paths to unsaved buffer contents that replace the indexed text
// for that note, so tags typed but not yet saved still show up.
//
// Occurrences whose tags differ only by case collapse onto one counter; the
// first-seen casing becomes the display form. Results are ordered by
// descending count, ties broken by ascending case-insensitive tag.
func Refresh(snap *index.Snapshot, overlay map[string]string) []TagCount {
	counts := make(map[string]int)
	display := make(map[string]string)

	count := func(text string) {
		for _, tag := range parser.ExtractHashtags(text) {
			key := strings.ToLower(tag)
			if _, seen := display[key]; !seen {
				display[key] = tag
			}
			counts[key]++
		}
	}

	snap.Walk(func(entry index.Entry) {
		if text, ok := overlay[entry.Ref.Path]; ok {
			count(text)
			return
		}
		count(entry.Content)
	})
	for path, text := range overlay {
		if _, ok := snap.Lookup(path); !ok {
			count(text)
		}
	}

	out := make([]TagCount, 0, len(counts))
	for key, n := range counts {
		out = append(out, TagCount{Tag: display[key], Count: n})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.ToLower(out[i].Tag) < strings.ToLower(out[j].Tag)
	})
	return out
}
