package tags

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/quillnotes/quill/internal/index"
	"github.com/quillnotes/quill/internal/note"
)

func snapshotOf(t *testing.T, contents map[string]string) *index.Snapshot {
	t.Helper()

	refs := make([]note.Ref, 0, len(contents))
	for path := range contents {
		refs = append(refs, note.NewRef(path, time.Now()))
	}

	svc := index.NewService(func(path string) (string, error) {
		return contents[path], nil
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	<-svc.StartScan(context.Background(), refs)

	return svc.Snapshot()
}

func TestRefreshCollapsesCaseVariantsOntoOneCounter(t *testing.T) {
	snap := snapshotOf(t, map[string]string{
		"/notes/a.md": "#work #work #Work",
	})

	got := Refresh(snap, nil)
	if len(got) != 1 {
		t.Fatalf("expected one collapsed tag, got %#v", got)
	}
	if got[0].Tag != "work" || got[0].Count != 3 {
		t.Fatalf("expected (work, 3), got %#v", got[0])
	}
}

func TestRefreshOrdersByCountThenTag(t *testing.T) {
	snap := snapshotOf(t, map[string]string{
		"/notes/a.md": "#beta #alpha #zeta #zeta",
		"/notes/b.md": "#alpha",
	})

	got := Refresh(snap, nil)
	want := []TagCount{
		{Tag: "alpha", Count: 2},
		{Tag: "zeta", Count: 2},
		{Tag: "beta", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tags, got %#v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %#v, got %#v", i, want[i], got[i])
		}
	}
}

func TestRefreshUsesUnsavedOverlayText(t *testing.T) {
	snap := snapshotOf(t, map[string]string{
		"/notes/a.md": "#old",
	})

	got := Refresh(snap, map[string]string{
		"/notes/a.md": "#New #New",
	})

	if len(got) != 1 || got[0].Tag != "New" || got[0].Count != 2 {
		t.Fatalf("expected unsaved edits to replace indexed text, got %#v", got)
	}
}

func TestRefreshCountsOverlayOnlyNotes(t *testing.T) {
	snap := snapshotOf(t, map[string]string{})

	got := Refresh(snap, map[string]string{
		"/notes/draft.md": "#draft",
	})

	if len(got) != 1 || got[0].Tag != "draft" {
		t.Fatalf("expected overlay-only note to count, got %#v", got)
	}
}
