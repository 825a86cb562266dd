package index

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/quillnotes/quill/internal/note"
)

func testRefs(names ...string) []note.Ref {
	refs := make([]note.Ref, 0, len(names))
	for _, name := range names {
		refs = append(refs, note.NewRef("/notes/"+name, time.Now()))
	}
	return refs
}

func mapReader(contents map[string]string) ReadTextFunc {
	return func(path string) (string, error) {
		content, ok := contents[path]
		if !ok {
			return "", errors.New("no such note")
		}
		return content, nil
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScanBuildsCaseFoldedEntries(t *testing.T) {
	refs := testRefs("a.md", "b.md")
	svc := NewService(mapReader(map[string]string{
		"/notes/a.md": "Hello #Work",
		"/notes/b.md": "world",
	}), quietLogger())

	<-svc.StartScan(context.Background(), refs)

	snap := svc.Snapshot()
	if snap.Len() != 2 {
		t.Fatalf("expected two entries, got %d", snap.Len())
	}

	entry, ok := snap.Lookup("/notes/a.md")
	if !ok {
		t.Fatalf("expected a.md to be indexed")
	}
	if entry.Content != "hello #work" {
		t.Fatalf("expected folded content, got %q", entry.Content)
	}
}

func TestScanAbsorbsReadFailuresAsEmptyEntries(t *testing.T) {
	refs := testRefs("good.md", "bad.md")
	svc := NewService(mapReader(map[string]string{
		"/notes/good.md": "fine",
	}), quietLogger())

	<-svc.StartScan(context.Background(), refs)

	snap := svc.Snapshot()
	if snap.Len() != 2 {
		t.Fatalf("one unreadable file must not blank the index, got %d entries", snap.Len())
	}

	entry, ok := snap.Lookup("/notes/bad.md")
	if !ok || entry.Content != "" {
		t.Fatalf("expected empty-content entry for unreadable note, got %#v", entry)
	}
	if svc.Stats().Warnings != 1 {
		t.Fatalf("expected one soft warning, got %d", svc.Stats().Warnings)
	}
}

func TestCancelKeepsEntriesAppliedBeforeTheBoundary(t *testing.T) {
	refs := testRefs("one.md", "two.md", "three.md")

	reads := make(chan string, len(refs))
	proceed := make(chan struct{})
	svc := NewService(func(path string) (string, error) {
		reads <- path
		<-proceed
		return "content", nil
	}, quietLogger())

	done := svc.StartScan(context.Background(), refs)

	// Let the first read begin, cancel mid-read, then release it. The scan
	// must finish the file in flight and stop at the next boundary.
	<-reads
	svc.Cancel()
	close(proceed)
	<-done

	snap := svc.Snapshot()
	if snap.Len() != 1 {
		t.Fatalf("expected exactly the one applied entry to remain, got %d", snap.Len())
	}
	if _, ok := snap.Lookup("/notes/one.md"); !ok {
		t.Fatalf("expected one.md to remain queryable after cancellation")
	}
}

func TestRestartingScanSupersedesThePreviousOne(t *testing.T) {
	refs := testRefs("a.md")
	blocked := make(chan struct{})
	first := true
	svc := NewService(func(path string) (string, error) {
		if first {
			first = false
			<-blocked
			return "stale", nil
		}
		return "fresh", nil
	}, quietLogger())

	svc.StartScan(context.Background(), refs)

	// StartScan must cancel and drain the old scan before the new one
	// writes, so unblock the stalled read from a helper.
	go close(blocked)
	<-svc.StartScan(context.Background(), refs)

	entry, ok := svc.Snapshot().Lookup("/notes/a.md")
	if !ok || entry.Content != "fresh" {
		t.Fatalf("expected entry from the superseding scan, got %#v", entry)
	}
}

func TestApplyDiscardsStaleVersions(t *testing.T) {
	svc := NewService(mapReader(nil), quietLogger())
	ref := note.NewRef("/notes/a.md", time.Now())

	svc.apply(Entry{Ref: ref, Content: "newer", Version: 2})
	svc.apply(Entry{Ref: ref, Content: "older", Version: 1})

	entry, _ := svc.Snapshot().Lookup("/notes/a.md")
	if entry.Content != "newer" {
		t.Fatalf("stale apply must be discarded, got %q", entry.Content)
	}
	if entry.Version != 2 {
		t.Fatalf("expected version 2 to win, got %d", entry.Version)
	}
}

func TestUpdateOneReplacesSingleEntry(t *testing.T) {
	contents := map[string]string{
		"/notes/a.md": "before",
		"/notes/b.md": "other",
	}
	svc := NewService(mapReader(contents), quietLogger())
	refs := testRefs("a.md", "b.md")

	<-svc.StartScan(context.Background(), refs)

	contents["/notes/a.md"] = "After Edit"
	if err := svc.UpdateOne(refs[0]); err != nil {
		t.Fatalf("UpdateOne returned error: %v", err)
	}

	entry, _ := svc.Snapshot().Lookup("/notes/a.md")
	if entry.Content != "after edit" {
		t.Fatalf("expected incremental update to land, got %q", entry.Content)
	}
	other, _ := svc.Snapshot().Lookup("/notes/b.md")
	if other.Content != "other" {
		t.Fatalf("expected unrelated entry to be untouched, got %q", other.Content)
	}
}

func TestRemoveDropsEntry(t *testing.T) {
	svc := NewService(mapReader(map[string]string{"/notes/a.md": "x"}), quietLogger())
	<-svc.StartScan(context.Background(), testRefs("a.md"))

	svc.Remove("/notes/a.md")
	if svc.Snapshot().Len() != 0 {
		t.Fatalf("expected entry to be dropped")
	}
}

func TestScanPrunesVanishedNotes(t *testing.T) {
	contents := map[string]string{
		"/notes/keep.md": "keep",
		"/notes/gone.md": "gone",
	}
	svc := NewService(mapReader(contents), quietLogger())
	<-svc.StartScan(context.Background(), testRefs("keep.md", "gone.md"))

	<-svc.StartScan(context.Background(), testRefs("keep.md"))

	snap := svc.Snapshot()
	if snap.Len() != 1 {
		t.Fatalf("expected vanished note to be pruned, got %d entries", snap.Len())
	}
	if _, ok := snap.Lookup("/notes/keep.md"); !ok {
		t.Fatalf("expected keep.md to survive the rescan")
	}
}

func TestCloseRejectsFurtherUpdates(t *testing.T) {
	svc := NewService(mapReader(nil), quietLogger())
	if err := svc.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	err := svc.UpdateOne(note.NewRef("/notes/a.md", time.Now()))
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
