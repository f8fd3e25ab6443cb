// Package watch reruns a build when its input files change on disk.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls Run whenever one of Files is written, created or renamed.
// Parent directories are watched rather than the files themselves so that
// editors that save by rename keep being tracked.
type Watcher struct {
	Files    []string
	Debounce time.Duration
	Log      *slog.Logger
	// Run is called after each settled change. Its error is logged and
	// watching continues.
	Run func() error
}

// Watch blocks until ctx is done. It does not call Run before the first
// change.
func (w *Watcher) Watch(ctx context.Context) error {
	if len(w.Files) == 0 {
		return errors.New("watch: no files")
	}
	if w.Run == nil {
		return errors.New("watch: no run function")
	}
	log := w.Log
	if log == nil {
		log = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	tracked := make(map[string]bool, len(w.Files))
	dirs := make(map[string]bool)
	for _, f := range w.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		tracked[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			return err
		}
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !tracked[filepath.Clean(ev.Name)] || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			log.Debug("watch.event", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch.error", "err", err)

		case <-timer.C:
			if err := w.Run(); err != nil {
				log.Error("watch.run_failed", "err", err)
			}
		}
	}
}
