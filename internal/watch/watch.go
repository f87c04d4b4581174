// Package watch reports batches of changed source files. Rapid saves are
// coalesced: a batch is delivered once no event has arrived for the debounce
// delay.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/bbmc/internal/ctxlog"
)

// DefaultDelay is the quiet period before a batch is delivered.
const DefaultDelay = 300 * time.Millisecond

// Watcher watches directories for changes to files with one extension.
type Watcher struct {
	dirs  []string
	ext   string
	delay time.Duration
}

// New returns a Watcher over dirs. An empty ext matches every file.
func New(dirs []string, ext string, delay time.Duration) *Watcher {
	if delay <= 0 {
		delay = DefaultDelay
	}
	clean := make([]string, 0, len(dirs))
	for _, d := range dirs {
		clean = append(clean, filepath.Clean(d))
	}
	slices.Sort(clean)
	return &Watcher{dirs: slices.Compact(clean), ext: ext, delay: delay}
}

// Run blocks until ctx is done, calling fn with each batch of changed paths.
// fn runs on the watch loop, so events arriving meanwhile join the next batch.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context, changed []string)) error {
	logger := ctxlog.FromContext(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		logger.Debug("Watching directory.", "dir", dir)
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("Source changed.", "path", event.Name, "op", event.Op.String())
			pending[event.Name] = struct{}{}
			timer.Reset(w.delay)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error.", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			slices.Sort(batch)
			clear(pending)
			fn(ctx, batch)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.ext == "" || filepath.Ext(event.Name) == w.ext
}
