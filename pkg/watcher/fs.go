package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/logging"
)

// Watch triggers a run whenever one of paths is written, created or
// renamed into place, until ctx is cancelled. On return the watcher is
// closed and no run is active. Parent directories are
// watched so editors that replace files on save are still seen.
func (w *Watcher) Watch(ctx context.Context, paths ...string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapIO("watch", "", err)
	}
	defer func() { _ = fw.Close() }()

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.WrapIO("watch", p, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return errors.WrapIO("watch", dir, err)
		}
	}

	logger := logging.FromContext(ctx)
	logger.Info().Strs("paths", paths).Msg("watching for changes")

	d := &debouncer{delay: w.debounce}
	defer d.stop()

	for {
		select {
		case ev, ok := <-fw.Events:
			if !ok {
				d.stop()
				w.Close()
				return nil
			}
			if !targets[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("change detected")
			d.trigger(func() { w.Trigger(ctx) })
		case err, ok := <-fw.Errors:
			if !ok {
				d.stop()
				w.Close()
				return nil
			}
			logger.Warn().Err(err).Msg("file watcher error")
		case <-ctx.Done():
			d.stop()
			w.Close()
			return nil
		}
	}
}

// debouncer runs the latest callback once events stop for delay.
type debouncer struct {
	delay time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	callback func()
}

func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		cb := d.callback
		d.mu.Unlock()
		if cb != nil {
			cb()
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.callback = nil
}
