// Package watch reports changes to a single file, such as the config file,
// so the viewer can reload it while running.
package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Settle is how long Run waits after a change before reporting it, so
// editors that write in several steps produce one notification.
const Settle = 100 * time.Millisecond

// Watcher watches one file. The parent directory is watched so that
// replace-by-rename saves are seen.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	settle  time.Duration
}

// New starts watching path.
func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	return &Watcher{path: abs, watcher: w, settle: Settle}, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Run calls onChange after each settled burst of writes to the file. It
// returns when ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			settle = time.After(w.settle)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch %s: %v", w.path, err)
		case <-settle:
			settle = nil
			onChange()
		}
	}
}

func (w *Watcher) relevant(e fsnotify.Event) bool {
	if filepath.Clean(e.Name) != w.path {
		return false
	}
	return e.Has(fsnotify.Write) || e.Has(fsnotify.Create) || e.Has(fsnotify.Rename)
}

// Close stops the watcher and ends Run.
func (w *Watcher) Close() error { return w.watcher.Close() }
