// Package index maintains the in-memory content index over the note corpus.
//
// The service publishes immutable snapshots: readers always see either the
// pre-scan or post-scan state of an entry, never a half-written one, and a
// query never blocks on an in-flight scan.
package index

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quillnotes/quill/internal/note"
)

// ErrClosed signals that the index service has been shut down.
var ErrClosed = errors.New("index service closed")

// Entry is the indexed representation of a single note.
type Entry struct {
	Ref note.Ref
	// Content is the case-folded note text used for substring matching.
	Content string
	// Version strictly increases on every re-read of the note. Applies
	// carrying a version lower than the current one are discarded.
	Version uint64
}

// Snapshot is an immutable view of the index at one point in time.
type Snapshot struct {
	entries map[string]Entry
}

// Lookup returns the entry for a path, if indexed.
func (s *Snapshot) Lookup(path string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	e, ok := s.entries[path]
	return e, ok
}

// Len reports how many notes the snapshot covers.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Walk visits every entry. Iteration order is unspecified.
func (s *Snapshot) Walk(fn func(Entry)) {
	if s == nil {
		return
	}
	for _, e := range s.entries {
		fn(e)
	}
}

// Refs returns the note identities the snapshot covers.
func (s *Snapshot) Refs() []note.Ref {
	if s == nil {
		return nil
	}
	refs := make([]note.Ref, 0, len(s.entries))
	for _, e := range s.entries {
		refs = append(refs, e.Ref)
	}
	return refs
}

// ReadTextFunc reads a note's text, typically note.FileHandler.ReadText.
type ReadTextFunc func(path string) (string, error)

// Stats captures lightweight instrumentation about the index lifecycle.
type Stats struct {
	LastScan time.Time
	Entries  int
	Warnings int
}

// Service owns the content index and coordinates full scans with
// incremental updates. Only one scan is in flight at a time; starting a new
// one first cancels and drains its predecessor.
type Service struct {
	readText ReadTextFunc
	logger   *slog.Logger

	snap    atomic.Pointer[Snapshot]
	version atomic.Uint64

	mu         sync.Mutex
	scanCancel context.CancelFunc
	scanDone   chan struct{}
	lastScan   time.Time
	warnings   int
	closed     bool

	now func() time.Time
}

// NewService constructs an index service. The logger receives soft per-file
// warnings; nil falls back to the default slog logger.
func NewService(readText ReadTextFunc, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		readText: readText,
		logger:   logger,
		now:      time.Now,
	}
	s.snap.Store(&Snapshot{entries: map[string]Entry{}})
	return s
}

// Snapshot returns the current immutable view. It never blocks and never
// returns nil.
func (s *Service) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Stats returns instrumentation about the index lifecycle.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		LastScan: s.lastScan,
		Entries:  s.snap.Load().Len(),
		Warnings: s.warnings,
	}
}

// StartScan begins an asynchronous full rebuild over refs. Any scan already
// in flight is cancelled and drained before the new one writes entries. The
// returned channel closes when the scan finishes, whether it ran to
// completion or was cancelled.
func (s *Service) StartScan(ctx context.Context, refs []note.Ref) <-chan struct{} {
	s.cancelAndDrain()

	done := make(chan struct{})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(done)
		return done
	}
	scanCtx, cancel := context.WithCancel(ctx)
	s.scanCancel = cancel
	s.scanDone = done
	s.warnings = 0
	s.mu.Unlock()

	go s.scan(scanCtx, refs, done)
	return done
}

// Cancel requests that the in-flight scan stop at the next file boundary.
// Entries applied before cancellation remain valid. Cancelling when no scan
// is running is a no-op.
func (s *Service) Cancel() {
	s.mu.Lock()
	cancel := s.scanCancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// UpdateOne re-reads a single note and replaces its entry. This is the
// incremental path for a save or create; it never triggers a full rescan.
func (s *Service) UpdateOne(ref note.Ref) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.mu.Unlock()

	version := s.version.Add(1)
	content, err := s.readText(ref.Path)
	if err != nil {
		s.warn(ref.Path, err)
		content = ""
	}
	s.apply(Entry{Ref: ref, Content: fold(content), Version: version})
	return nil
}

// Remove drops a note from the index, used on delete.
func (s *Service) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	current := s.snap.Load()
	if _, ok := current.Lookup(path); !ok {
		return
	}

	next := make(map[string]Entry, len(current.entries))
	for p, e := range current.entries {
		if p != path {
			next[p] = e
		}
	}
	s.snap.Store(&Snapshot{entries: next})
}

// Close shuts the service down, cancelling any in-flight scan.
func (s *Service) Close() error {
	s.cancelAndDrain()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Service) scan(ctx context.Context, refs []note.Ref, done chan struct{}) {
	defer close(done)

	scanStart := s.version.Load()
	cancelled := false

	for _, ref := range refs {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		version := s.version.Add(1)
		content, err := s.readText(ref.Path)
		if err != nil {
			s.warn(ref.Path, err)
			content = ""
		}
		s.apply(Entry{Ref: ref, Content: fold(content), Version: version})
	}

	if cancelled {
		s.logger.Debug("index: scan cancelled")
		return
	}

	s.finishScan(refs, scanStart)
	s.logger.Debug("index: scan complete", slog.Int("notes", len(refs)))
}

// apply merges an entry into a fresh snapshot, discarding stale reads.
func (s *Service) apply(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	current := s.snap.Load()
	if existing, ok := current.Lookup(entry.Ref.Path); ok && existing.Version >= entry.Version {
		return
	}

	next := make(map[string]Entry, len(current.entries)+1)
	for p, e := range current.entries {
		next[p] = e
	}
	next[entry.Ref.Path] = entry
	s.snap.Store(&Snapshot{entries: next})
}

// finishScan prunes entries for notes that vanished between scans, keeping
// anything written concurrently by UpdateOne after the scan began.
func (s *Service) finishScan(refs []note.Ref, scanStart uint64) {
	scanned := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		scanned[ref.Path] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	current := s.snap.Load()
	next := make(map[string]Entry, len(current.entries))
	for p, e := range current.entries {
		if _, ok := scanned[p]; ok || e.Version > scanStart {
			next[p] = e
		}
	}
	s.snap.Store(&Snapshot{entries: next})
	s.lastScan = s.now()
}

func (s *Service) cancelAndDrain() {
	s.mu.Lock()
	cancel := s.scanCancel
	done := s.scanDone
	s.scanCancel = nil
	s.scanDone = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Service) warn(path string, err error) {
	s.mu.Lock()
	s.warnings++
	s.mu.Unlock()
	s.logger.Warn("index: read failed, storing empty content",
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
}

func fold(content string) string {
	return strings.ToLower(content)
}
