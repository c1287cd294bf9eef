package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	m "gooze.dev/pkg/playground/internal/model"
)

// DefaultDebounce is the quiet period after the last change before a watch
// callback runs.
const DefaultDebounce = 300 * time.Millisecond

// SourceWatcher calls back whenever one of a set of files changes.
type SourceWatcher interface {
	// Watch blocks until ctx is done or onChange fails. Bursts of changes
	// are coalesced into one call.
	Watch(ctx context.Context, paths []m.Path, onChange func(ctx context.Context) error) error
}

type fsSourceWatcher struct {
	debounce time.Duration
}

// NewSourceWatcher returns an fsnotify backed SourceWatcher.
func NewSourceWatcher(debounce time.Duration) SourceWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &fsSourceWatcher{debounce: debounce}
}

func (w *fsSourceWatcher) Watch(ctx context.Context, paths []m.Path, onChange func(ctx context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	defer func() {
		_ = watcher.Close()
	}()

	// Directories are watched so editors that replace files on save are seen.
	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)

	for _, p := range paths {
		abs, err := filepath.Abs(string(p))
		if err != nil {
			return err
		}

		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			abs, err := filepath.Abs(event.Name)
			if err != nil || !files[abs] {
				continue
			}

			slog.Debug("Source changed", "file", abs, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer, timerC = nil, nil

			if err := onChange(ctx); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.Warn("File watcher error", "error", err)
		}
	}
}
