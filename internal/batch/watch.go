package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collects bursts of write events into one import.
const debounce = 250 * time.Millisecond

// Watcher re-imports documents under a directory as they change.
type Watcher struct {
	dir       string
	recursive bool
	fsw       *fsnotify.Watcher
}

// NewWatcher starts watching dir, and its subdirectories when recursive.
func NewWatcher(dir string, recursive bool) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("batch: watch: %w", err)
	}
	w := &Watcher{dir: dir, recursive: recursive, fsw: fsw}
	if err := w.addTree(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && !w.recursive {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
	if err != nil {
		return fmt.Errorf("batch: watch %s: %w", root, err)
	}
	return nil
}

// Run imports every document that is created or written, calling fn with
// the results of each debounced burst, until ctx is done. It closes the
// watcher on return.
func (w *Watcher) Run(ctx context.Context, cfg Config, fn func([]Result)) error {
	defer w.fsw.Close()
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	pending := make(map[string]bool)
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if w.recursive {
					if err := w.addTree(event.Name); err != nil {
						log.Warn("watch failed", "dir", event.Name, "err", err)
					}
				}
				continue
			}
			if !IsDocument(event.Name) {
				continue
			}
			log.Debug("changed", "file", event.Name, "op", event.Op.String())
			pending[event.Name] = true
			fire = time.After(debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "err", err)
		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			fn(Run(ctx, cfg, paths))
		}
	}
}
