// Package watch re-runs a callback when result files under a workspace change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the tree must be quiet before the callback runs.
const DefaultDebounce = 500 * time.Millisecond

// tick is the debounce polling interval.
const tick = 100 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Suffix   string   // file names that matter, e.g. "_zResults.csv"
	SkipDirs []string // directory base names never watched
	Exclude  []string // paths whose events are ignored (our own artifacts)
	Debounce time.Duration
	Logger   *zap.Logger
}

// Watcher watches every directory under a root.
type Watcher struct {
	root     string
	opts     Options
	skip     map[string]bool
	exclude  map[string]bool
	onChange func(context.Context) error
	log      *zap.Logger
	fsw      *fsnotify.Watcher
}

// New creates a watcher for root. onChange runs once per settled burst of
// relevant events, on the goroutine that called Run.
func New(root string, opts Options, onChange func(context.Context) error) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		root:     root,
		opts:     opts,
		skip:     make(map[string]bool, len(opts.SkipDirs)),
		exclude:  make(map[string]bool, len(opts.Exclude)),
		onChange: onChange,
		log:      log,
		fsw:      fsw,
	}
	for _, d := range opts.SkipDirs {
		w.skip[d] = true
	}
	for _, p := range opts.Exclude {
		w.exclude[filepath.Clean(p)] = true
	}
	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches dir and every directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.skip[d.Name()] {
			return fs.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.log.Debug("watch add failed", zap.String("dir", path), zap.Error(err))
		}
		return nil
	})
}

// Run processes events until ctx is cancelled, then closes the watcher.
// Callback errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var pending bool
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if w.relevant(event) {
				w.log.Debug("change", zap.String("path", event.Name), zap.Stringer("op", event.Op))
				pending, last = true, time.Now()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			w.log.Warn("watch error", zap.Error(err))

		case now := <-ticker.C:
			if !pending || now.Sub(last) < w.opts.Debounce {
				continue
			}
			pending = false
			if err := w.onChange(ctx); err != nil {
				w.log.Error("regenerate failed", zap.Error(err))
			}
		}
	}
}

// watchNewDir adds a directory created after New. It may already be gone.
func (w *Watcher) watchNewDir(dir string) {
	if err := w.addTree(dir); err != nil {
		w.log.Debug("watch new dir failed", zap.String("dir", dir), zap.Error(err))
	}
}

// relevant reports whether event should trigger a regeneration. New
// directories are watched as a side effect.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if w.exclude[filepath.Clean(event.Name)] {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.skip[info.Name()] {
				return false
			}
			w.watchNewDir(event.Name)
			return true
		}
	}
	return strings.HasSuffix(filepath.Base(event.Name), w.opts.Suffix)
}
