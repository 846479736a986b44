// Package watch re-renders containers when local content files change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mlind/docview/internal/logfields"
)

const defaultDebounce = 300 * time.Millisecond

// Watcher observes a content directory tree and invokes a reload callback
// after changes settle. Bursts of events (editor save, git checkout)
// collapse into one reload.
type Watcher struct {
	dir      string
	onChange func()
	debounce time.Duration
	fsw      *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
	fire  chan struct{}
}

// New creates a watcher over dir. onChange runs on the watcher's goroutine
// after each debounced change burst.
func New(dir string, onChange func()) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve content dir: %w", err)
	}
	if st, statErr := os.Stat(abs); statErr != nil || !st.IsDir() {
		return nil, fmt.Errorf("content dir not found or not a directory: %s", abs)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := addDirsRecursive(fsw, abs); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return &Watcher{
		dir:      abs,
		onChange: onChange,
		debounce: defaultDebounce,
		fsw:      fsw,
		fire:     make(chan struct{}, 1),
	}, nil
}

// Run handles filesystem events until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.fire:
			w.onChange()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if shouldIgnore(ev.Name) {
		return
	}
	// New subdirectories must be added before their contents change.
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(w.fsw, ev.Name)
		}
	}
	slog.Debug("content change detected", logfields.Path(ev.Name), "op", ev.Op.String())
	w.trigger()
}

// trigger restarts the debounce timer; the reload fires once events settle.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.fire <- struct{}{}:
		default:
		}
	})
}

func addDirsRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fsw.Add(path); err != nil {
				slog.Warn("watch add failed", "dir", path, logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnore reports whether an event path is noise (hidden files, editor
// swap and temp files).
func shouldIgnore(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	return base == "Thumbs.db"
}
