// Package watch reports debounced file system changes below a set of directories.
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

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is how long the watcher waits for changes to settle.
const DefaultDelay = 500 * time.Millisecond

// DefaultIgnore skips editor droppings and hidden files.
var DefaultIgnore = []string{"**/.*", "**/.*/**", "**/*~", "**/*.swp", "**/*.tmp"}

// Watcher calls back once per burst of changes.
type Watcher struct {
	roots  []string
	ignore []string
	delay  time.Duration
	log    *zap.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) { w.delay = d }
}

// WithIgnore replaces the ignore patterns. Patterns are doublestar globs
// matched against the path relative to its root and against the base name.
func WithIgnore(patterns ...string) Option {
	return func(w *Watcher) { w.ignore = patterns }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

// New returns a watcher over roots. Roots that do not exist are skipped when Run starts.
func New(roots []string, opts ...Option) *Watcher {
	w := &Watcher{
		roots:  roots,
		ignore: DefaultIgnore,
		delay:  DefaultDelay,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.Named("watch")
	return w
}

// Run watches until ctx is done. onChange is called from Run's goroutine,
// never concurrently with itself, after changes have been quiet for the delay.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	watched := 0
	for _, root := range w.roots {
		if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
			w.log.Debug("not watching missing directory", zap.String("dir", root))
			continue
		}
		if err := w.addTree(fsw, root); err != nil {
			return err
		}
		watched++
	}
	w.log.Info("watching for changes", zap.Int("roots", watched), zap.Duration("delay", w.delay))

	timer := time.NewTimer(w.delay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if w.ignored(event.Name) {
				continue
			}
			w.log.Debug("change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := w.addTree(fsw, event.Name); err != nil {
					w.log.Warn("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
				}
			}
			timer.Reset(w.delay)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		case <-timer.C:
			onChange()
		}
	}
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.log.Warn("error walking directory", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if matchesAny(filepath.ToSlash(rel), w.ignore) {
			return true
		}
	}
	return matchesAny(filepath.Base(path), w.ignore)
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
