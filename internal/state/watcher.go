package state

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/quillnotes/quill/internal/index"
	"github.com/quillnotes/quill/internal/note"
	"github.com/quillnotes/quill/internal/pathutil"
)

// rescanDelay debounces rename storms into one reconciliation pass.
const rescanDelay = 200 * time.Millisecond

// NotesWatcher feeds file-system events into the content index: saves and
// creates take the incremental path, deletes drop entries, and renames
// trigger a debounced full rescan.
type NotesWatcher struct {
	watcher  *fsnotify.Watcher
	notesDir string
	handler  *note.FileHandler
	index    *index.Service
	logger   *slog.Logger
	onChange func()
}

// NewNotesWatcher builds a recursive watcher over the notes directory.
// onChange, if non-nil, runs after every applied index mutation.
func NewNotesWatcher(s *State, onChange func()) (*NotesWatcher, error) {
	normalized := pathutil.NormalizePath(s.NotesDir)
	if normalized == "" {
		return nil, errors.New("notes directory cannot be empty")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	nw := &NotesWatcher{
		watcher:  w,
		notesDir: normalized,
		handler:  s.Handler,
		index:    s.Index,
		logger:   s.Logger,
		onChange: onChange,
	}

	if err := nw.addRecursive(normalized); err != nil {
		_ = w.Close()
		return nil, err
	}

	return nw, nil
}

// Start processes events until ctx is cancelled.
func (w *NotesWatcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *NotesWatcher) Close() error {
	return w.watcher.Close()
}

func (w *NotesWatcher) loop(ctx context.Context) {
	defer w.watcher.Close()

	var rescanTimer *time.Timer
	var rescanCh <-chan time.Time

	scheduleRescan := func() {
		if rescanTimer == nil {
			rescanTimer = time.NewTimer(rescanDelay)
			rescanCh = rescanTimer.C
		} else {
			rescanTimer.Reset(rescanDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if rescanTimer != nil {
				rescanTimer.Stop()
			}
			return

		case <-rescanCh:
			w.rescan(ctx)

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, scheduleRescan)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher: error", slog.String("error", err.Error()))
		}
	}
}

func (w *NotesWatcher) handleEvent(event fsnotify.Event, scheduleRescan func()) {
	path := pathutil.NormalizePath(event.Name)

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addRecursive(path); err != nil {
				w.logger.Warn("watcher: add dir failed",
					slog.String("path", path),
					slog.String("error", err.Error()))
			}
			// A moved-in directory may already hold notes.
			scheduleRescan()
			return
		}
	}

	if !strings.EqualFold(filepath.Ext(path), ".md") {
		return
	}
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}

	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		ref, err := w.handler.Stat(path)
		if err != nil {
			// Editors that write via rename can race the stat; the
			// reconciliation pass settles it.
			scheduleRescan()
			return
		}
		if err := w.index.UpdateOne(ref); err != nil {
			w.logger.Warn("watcher: update failed",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return
		}
		w.notify()

	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.index.Remove(path)
		scheduleRescan()
		w.notify()
	}
}

func (w *NotesWatcher) rescan(ctx context.Context) {
	refs, err := w.handler.List()
	if err != nil {
		w.logger.Warn("watcher: rescan list failed", slog.String("error", err.Error()))
		return
	}
	done := w.index.StartScan(ctx, refs)
	go func() {
		<-done
		w.notify()
	}()
}

func (w *NotesWatcher) notify() {
	if w.onChange != nil {
		w.onChange()
	}
}

func (w *NotesWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
