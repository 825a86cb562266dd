package notes

import (
	"fmt"
	"strings"

	"github.com/quillnotes/quill/internal/note"
	"github.com/quillnotes/quill/internal/pathutil"
)

type ListItem struct {
	ref      note.Ref
	notesDir string
	pinned   bool
	tags     []string
}

func newListItem(ref note.Ref, notesDir string, pinned bool, tags []string) ListItem {
	return ListItem{ref: ref, notesDir: notesDir, pinned: pinned, tags: tags}
}

func (i ListItem) Title() string {
	if i.pinned {
		return pinMarker + i.ref.DisplayName
	}
	return i.ref.DisplayName
}

func (i ListItem) Description() string {
	description := ""

	if rel, err := pathutil.NotesRelative(i.notesDir, i.ref.Path); err == nil && strings.Contains(rel, "/") {
		description += fmt.Sprintf("[%s] ", rel[:strings.LastIndex(rel, "/")])
	}

	if len(i.tags) == 0 {
		description += "No tags"
	} else {
		description += "#" + strings.Join(i.tags, " #")
	}

	description += fmt.Sprintf(" · %s", i.ref.ModifiedAt.Format("Mon, 02 Jan 2006 15:04"))
	return description
}

func (i ListItem) FilterValue() string {
	return i.ref.DisplayName + " " + strings.Join(i.tags, " ")
}

func (i ListItem) Path() string {
	return i.ref.Path
}
