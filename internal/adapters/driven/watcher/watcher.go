// Package watcher reports changes to the workbook and knowledge document so
// cached snapshots can be dropped.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/pidash/internal/logger"
)

// DefaultDebounce collapses the burst of events a single save produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches a set of files and calls OnChange after they change.
// Parent directories are watched so files replaced by rename are still seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]struct{}
	onChange func(path string)
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a watcher for files. Empty paths are ignored.
func New(onChange func(path string), files ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fs:       fw,
		files:    make(map[string]struct{}),
		onChange: onChange,
		debounce: DefaultDebounce,
	}
	dirs := make(map[string]struct{})
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolving %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watching %s: %w", d, err)
		}
	}
	return w, nil
}

// SetDebounce changes the quiet period before OnChange fires.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run delivers change notifications until ctx is cancelled or the watcher
// is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			path, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, watched := w.files[path]; !watched {
				continue
			}
			logger.Debug("watcher: %s %s", event.Op, path)
			w.schedule(path)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher: %v", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.stopTimer()
	return w.fs.Close()
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.onChange(path) })
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
