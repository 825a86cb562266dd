// Package order applies the pin-aware, stable ordering used by every
// displayed note list.
package order

import (
	"sort"
	"strings"

	"github.com/quillnotes/quill/internal/note"
)

// SortKey selects the secondary ordering applied within each partition.
type SortKey int

const (
	// SortAlphabetical orders by display name, case-insensitively.
	SortAlphabetical SortKey = iota
	// SortModifiedDesc orders most recently modified first.
	SortModifiedDesc
)

// ParseSortKey maps a configuration value to a SortKey, defaulting to
// alphabetical for unknown values.
func ParseSortKey(value string) SortKey {
	if strings.EqualFold(strings.TrimSpace(value), "modified") {
		return SortModifiedDesc
	}
	return SortAlphabetical
}

func (k SortKey) String() string {
	if k == SortModifiedDesc {
		return "modified"
	}
	return "alphabetical"
}

// Order partitions files into pinned and unpinned, sorts each partition
// stably by the secondary key, and returns pinned entries first. Pin
// membership is a case-sensitive filename match against the pin list.
// Pinning only promotes between partitions; it never reorders within one.
func Order(files []note.Ref, pinned []string, key SortKey) []note.Ref {
	pinSet := make(map[string]struct{}, len(pinned))
	for _, name := range pinned {
		pinSet[name] = struct{}{}
	}

	var pinnedRefs, unpinnedRefs []note.Ref
	for _, ref := range files {
		if _, ok := pinSet[ref.Filename()]; ok {
			pinnedRefs = append(pinnedRefs, ref)
		} else {
			unpinnedRefs = append(unpinnedRefs, ref)
		}
	}

	sortRefs(pinnedRefs, key)
	sortRefs(unpinnedRefs, key)

	ordered := make([]note.Ref, 0, len(files))
	ordered = append(ordered, pinnedRefs...)
	return append(ordered, unpinnedRefs...)
}

func sortRefs(refs []note.Ref, key SortKey) {
	sort.SliceStable(refs, func(i, j int) bool {
		switch key {
		case SortModifiedDesc:
			return refs[i].ModifiedAt.After(refs[j].ModifiedAt)
		default:
			return strings.ToLower(refs[i].DisplayName) < strings.ToLower(refs[j].DisplayName)
		}
	})
}
