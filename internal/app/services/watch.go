// Package services holds background helpers the app model drives.
package services

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RefreshDebounce is how long the git directory must stay quiet before a
// change is reported.
const RefreshDebounce = 600 * time.Millisecond

// GitDirResolver resolves the .git directory of a repository.
type GitDirResolver interface {
	GitDir() string
}

// stateFiles live directly under the git directory. A change to any of them
// can move a ref, HEAD, or the dirty state.
var stateFiles = map[string]bool{
	"HEAD":        true,
	"index":       true,
	"packed-refs": true,
	"ORIG_HEAD":   true,
	"FETCH_HEAD":  true,
	"MERGE_HEAD":  true,
}

// RefWatcher reports debounced changes to a repository's refs, HEAD and
// index on its Changes channel.
type RefWatcher struct {
	resolver GitDirResolver
	logf     func(string, ...any)
	debounce time.Duration

	mu      sync.Mutex
	running bool
	gitDir  string
	refsDir string
	dirs    map[string]struct{}
	fsw     *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}
}

// NewRefWatcher creates a watcher for the repository behind resolver. A
// non-positive debounce uses RefreshDebounce.
func NewRefWatcher(resolver GitDirResolver, debounce time.Duration, logf func(string, ...any)) *RefWatcher {
	if debounce <= 0 {
		debounce = RefreshDebounce
	}
	return &RefWatcher{
		resolver: resolver,
		logf:     logf,
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start begins watching. It returns false when there is nothing on disk to
// watch, as with in-memory repositories.
func (w *RefWatcher) Start(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.resolver == nil {
		return false, nil
	}
	gitDir := w.resolver.GitDir()
	if gitDir == "" {
		w.debugf("auto refresh: no git directory to watch")
		return false, nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}

	w.running = true
	w.fsw = fsw
	w.gitDir = gitDir
	w.refsDir = filepath.Join(gitDir, "refs")
	w.dirs = make(map[string]struct{})
	w.addDirLocked(gitDir)
	_ = filepath.WalkDir(w.refsDir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && d.IsDir() {
			w.addDirLocked(path)
		}
		return nil
	})
	w.debugf("auto refresh: watching %s (%d dirs)", gitDir, len(w.dirs))

	go w.loop(ctx)
	return true, nil
}

// Stop ends the watch and closes Done. Calling it more than once is safe.
func (w *RefWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.done)
	_ = w.fsw.Close()
}

// Running reports whether Start succeeded and Stop has not been called.
func (w *RefWatcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Changes delivers one value per quiet period following a relevant change.
func (w *RefWatcher) Changes() <-chan struct{} { return w.changes }

// Done is closed by Stop.
func (w *RefWatcher) Done() <-chan struct{} { return w.done }

// Relevant reports whether a change to path can alter what is displayed.
// Lock files are written around every ref update and are ignored.
func (w *RefWatcher) Relevant(path string) bool {
	if path == "" || strings.HasSuffix(path, ".lock") {
		return false
	}
	if filepath.Dir(path) == w.gitDir {
		return stateFiles[filepath.Base(path)]
	}
	return w.underRefs(path)
}

func (w *RefWatcher) underRefs(path string) bool {
	return path == w.refsDir || strings.HasPrefix(path, w.refsDir+string(filepath.Separator))
}

func (w *RefWatcher) loop(ctx context.Context) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 && w.underRefs(event.Name) {
				w.addDir(event.Name)
			}
			if !w.Relevant(event.Name) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.debugf("git watcher error: %v", err)
		}
	}
}

func (w *RefWatcher) addDir(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		w.addDirLocked(path)
	}
}

func (w *RefWatcher) addDirLocked(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if _, ok := w.dirs[path]; ok {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.debugf("git watcher add failed for %s: %v", path, err)
		return
	}
	w.dirs[path] = struct{}{}
}

func (w *RefWatcher) debugf(format string, args ...any) {
	if w.logf != nil {
		w.logf(format, args...)
	}
}
