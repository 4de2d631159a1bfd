// Package watcher monitors a corpus directory and triggers rebuilds when
// supported files change. Bursts of filesystem events (editor save dances,
// bulk copies) collapse into a single trigger via debouncing.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"docgraph/internal/domain"
)

// DefaultDebounce is used when no debounce interval is configured.
const DefaultDebounce = 500 * time.Millisecond

// Watcher emits a rebuild signal after supported files under a directory
// tree change and the debounce interval passes without further events.
type Watcher struct {
	fsw       *fsnotify.Watcher
	extractor domain.TextExtractor
	debounce  time.Duration
	logger    *slog.Logger
}

// New creates a watcher. Files the extractor does not support are ignored.
func New(extractor domain.TextExtractor, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		fsw:       fsw,
		extractor: extractor,
		debounce:  debounce,
		logger:    logger,
	}, nil
}

// Watch registers root and its subdirectories and returns a channel that
// fires once per settled burst of relevant changes. The channel closes when
// ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, root string) (<-chan struct{}, error) {
	if err := w.addTree(root); err != nil {
		return nil, err
	}

	triggers := make(chan struct{}, 1)
	go func() {
		defer close(triggers)
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if !w.relevant(event) {
					continue
				}
				// New directories join the watch set so files created
				// inside them are seen too.
				if event.Op.Has(fsnotify.Create) {
					if err := w.addTree(event.Name); err == nil {
						w.logger.Debug("watch.dir_added", "path", event.Name)
					}
				}
				w.logger.Debug("watch.event", "op", event.Op.String(), "path", event.Name)
				if timer == nil {
					timer = time.NewTimer(w.debounce)
					fire = timer.C
				} else {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(w.debounce)
				}
			case <-fire:
				timer = nil
				fire = nil
				select {
				case triggers <- struct{}{}:
				default:
				}
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch.error", "error", err)
			}
		}
	}()
	return triggers, nil
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// addTree registers path and every non-hidden directory below it. A path
// that is not a directory is ignored.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// The path may have vanished between event and walk.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// relevant reports whether an event should count toward a rebuild: writes,
// creates, removes, and renames of supported files, or directory-level
// creates and removes.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	// Directory events carry no extension; let them through so new
	// subtrees get picked up.
	if filepath.Ext(event.Name) == "" {
		return true
	}
	return w.extractor.Supports(event.Name)
}
