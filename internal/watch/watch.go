// Package watch triggers conflict re-detection when files change in a
// watched worktree. Events are debounced so a burst of editor writes
// fires a single re-check.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/arbor-cli/arbor/internal/logging"
)

// Always skipped regardless of configured ignore patterns.
var builtinIgnores = []string{".git", ".arbor", ".DS_Store"}

// Watcher watches a worktree recursively and invokes a callback after
// filesystem activity settles.
type Watcher struct {
	root     string
	debounce time.Duration
	ignores  []glob.Glob
	log      *logging.Logger

	watcher *fsnotify.Watcher
	onDirty func(paths []string)

	mu      sync.Mutex
	started bool
}

// New creates a Watcher for the worktree at root. Ignore patterns use
// glob syntax and are matched against paths relative to root; invalid
// patterns are reported as an error.
func New(root string, debounce time.Duration, ignorePatterns []string, log *logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = logging.NopLogger()
	}

	w := &Watcher{
		root:     root,
		debounce: debounce,
		log:      log,
		watcher:  fw,
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.ignores = append(w.ignores, g)
	}

	return w, nil
}

// OnDirty registers the callback invoked with the changed paths
// (relative to the worktree root) once events settle. Must be called
// before Start.
func (w *Watcher) OnDirty(cb func(paths []string)) {
	w.onDirty = cb
}

// Start begins watching. It blocks until ctx is cancelled or the
// underlying watcher fails.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	w.log.Debug("watching worktree", "root", w.root, "debounce", w.debounce.String())
	w.loop(ctx)
	return w.watcher.Close()
}

// addRecursive watches root and every non-ignored subdirectory.
// fsnotify only watches single directories, so new subdirectories are
// added as create events arrive.
func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if !info.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		_ = w.watcher.Add(path)
		return nil
	})
}

// ignored reports whether a path matches the built-in or configured
// ignore patterns.
func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	for _, name := range builtinIgnores {
		if base == name {
			return true
		}
	}

	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, g := range w.ignores {
		if g.Match(rel) {
			return true
		}
	}

	// A path under an ignored directory is ignored too.
	for _, segment := range strings.Split(rel, "/") {
		for _, name := range builtinIgnores {
			if segment == name {
				return true
			}
		}
	}
	return false
}

func (w *Watcher) loop(ctx context.Context) {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if w.ignored(event.Name) {
				continue
			}

			// Newly created directories need their own watch.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
				}
			}

			if rel, err := filepath.Rel(w.root, event.Name); err == nil {
				pending[filepath.ToSlash(rel)] = struct{}{}
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			pending = make(map[string]struct{})

			w.log.Debug("worktree changed", "files", len(paths))
			if w.onDirty != nil {
				w.onDirty(paths)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", "error", err.Error())
		}
	}
}
