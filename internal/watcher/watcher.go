// Package watcher notifies about changes to the cache file on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Debounce window for bursts of write events.
const debounceDuration = 500 * time.Millisecond

// Watcher watches one cache file and invokes a callback after its
// contents change. The parent directory is watched rather than the
// file itself so rename-replace writes are still seen.
type Watcher struct {
	path     string
	onChange func()
	fsw      *fsnotify.Watcher
}

// New creates a watcher for the given file path. onChange runs on the
// watcher goroutine, debounced.
func New(path string, onChange func()) *Watcher {
	return &Watcher{path: path, onChange: onChange}
}

// Start begins watching until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	w.fsw = fsw

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	log.Info().Str("path", w.path).Msg("Watching cache file for changes")
	go w.loop(ctx)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Cache watcher stopped")
			_ = w.fsw.Close()
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			log.Debug().Str("op", event.Op.String()).Msg("Cache file changed")
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDuration, w.onChange)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Cache watcher error")
		}
	}
}

// Stop closes the underlying watcher.
func (w *Watcher) Stop() {
	if w.fsw != nil {
		_ = w.fsw.Close()
	}
}
