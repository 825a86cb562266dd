package query

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/quillnotes/quill/internal/index"
	"github.com/quillnotes/quill/internal/note"
	"github.com/quillnotes/quill/internal/order"
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

func paths(refs []note.Ref) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Path
	}
	return out
}

func TestClassifyHashtagModeTakesPriority(t *testing.T) {
	cases := map[string]Mode{
		"#work":   ModeHashtag,
		"#w":      ModeHashtag,
		"wor":     ModeCombined,
		"ab":      ModeCombined,
		"a":       ModeFilename,
		"":        ModeFilename,
		"  #tag ": ModeHashtag,
	}

	for q, want := range cases {
		if got := Classify(q); got != want {
			t.Fatalf("Classify(%q) = %v, want %v", q, got, want)
		}
	}
}

func TestEvaluateHashtagModeMatchesExactTag(t *testing.T) {
	snap := snapshotOf(t, map[string]string{
		"/notes/a.md": "hello #work",
		"/notes/b.md": "world #home",
	})

	got := Evaluate("#work", snap)
	if len(got) != 1 || got[0].Path != "/notes/a.md" {
		t.Fatalf("expected only a.md for #work, got %v", paths(got))
	}

	// #work must not substring-match "#workshop".
	snap = snapshotOf(t, map[string]string{
		"/notes/c.md": "notes about the #workshop",
	})
	if got := Evaluate("#work", snap); len(got) != 0 {
		t.Fatalf("expected exact tag matching, got %v", paths(got))
	}
}

func TestEvaluateCombinedModeMatchesNameOrContent(t *testing.T) {
	snap := snapshotOf(t, map[string]string{
		"/notes/a.md": "hello #work",
		"/notes/b.md": "world #home",
	})

	got := Evaluate("ork", snap)
	if len(got) != 1 || got[0].Path != "/notes/a.md" {
		t.Fatalf("expected content match on a.md only, got %v", paths(got))
	}

	got = Evaluate("wor", snap)
	if len(got) != 2 {
		t.Fatalf("expected wor to match work and world, got %v", paths(got))
	}

	got = Evaluate("HELLO", snap)
	if len(got) != 1 || got[0].Path != "/notes/a.md" {
		t.Fatalf("expected case-insensitive content match, got %v", paths(got))
	}
}

func TestEvaluateShortQueriesStayFilenameOnly(t *testing.T) {
	snap := snapshotOf(t, map[string]string{
		"/notes/a.md": "hello #work",
		"/notes/b.md": "world #home",
	})

	// "o" is in both contents but neither display name.
	if got := Evaluate("o", snap); len(got) != 0 {
		t.Fatalf("expected content search to be suppressed below two chars, got %v", paths(got))
	}

	if got := Evaluate("a", snap); len(got) != 1 || got[0].Path != "/notes/a.md" {
		t.Fatalf("expected filename match for a, got %v", paths(got))
	}

	if got := Evaluate("", snap); len(got) != 2 {
		t.Fatalf("expected empty query to return the whole corpus, got %v", paths(got))
	}
}

func TestCoordinatorDebouncesToOneEvaluationPerPause(t *testing.T) {
	snap := snapshotOf(t, map[string]string{
		"/notes/apple.md":  "fruit",
		"/notes/applet.md": "ui",
	})

	c := NewCoordinator(Options{
		Debounce: 10 * time.Millisecond,
		Snapshot: func() *index.Snapshot { return snap },
	})
	defer c.Close()

	c.SetQuery("ap")
	c.SetQuery("app")
	c.SetQuery("apple")

	select {
	case res := <-c.Results():
		if res.Query != "apple" {
			t.Fatalf("expected only the final query to evaluate, got %q", res.Query)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for debounced result")
	}
}

func TestCoordinatorDropsResultsFromSupersededGenerations(t *testing.T) {
	snap := snapshotOf(t, map[string]string{
		"/notes/a.md": "alpha",
	})

	var calls atomic.Int32
	release := make(chan struct{})
	c := NewCoordinator(Options{
		Debounce: 5 * time.Millisecond,
		Snapshot: func() *index.Snapshot {
			if calls.Add(1) == 1 {
				<-release
			}
			return snap
		},
	})
	defer c.Close()

	c.SetQuery("slow")
	time.Sleep(30 * time.Millisecond)
	c.SetQuery("fast")
	close(release)

	select {
	case res := <-c.Results():
		if res.Query != "fast" {
			t.Fatalf("expected the newest generation to win, got %q", res.Query)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for result")
	}

	select {
	case res := <-c.Results():
		t.Fatalf("superseded generation leaked a result: %+v", res)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCoordinatorAppliesPinOrdering(t *testing.T) {
	snap := snapshotOf(t, map[string]string{
		"/notes/alpha.md": "x",
		"/notes/beta.md":  "x",
	})

	c := NewCoordinator(Options{
		Debounce: time.Millisecond,
		Snapshot: func() *index.Snapshot { return snap },
		Pinned:   func() []string { return []string{"beta.md"} },
		SortKey:  func() order.SortKey { return order.SortAlphabetical },
	})
	defer c.Close()

	c.SetQuery("")

	select {
	case res := <-c.Results():
		if len(res.Refs) != 2 || res.Refs[0].Filename() != "beta.md" {
			t.Fatalf("expected pinned note first, got %v", paths(res.Refs))
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for result")
	}
}
