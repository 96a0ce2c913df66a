package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler is called with the reloaded configuration after the watched file
// changes.
type Handler func(Config)

// Watcher reloads the configuration file on change and notifies a handler.
// Changes are debounced so editors that write in bursts trigger one reload.
type Watcher struct {
	path     string
	debounce time.Duration
	handler  Handler
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, handler Handler) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors commonly replace the file on save,
	// which drops a watch registered on the file itself.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		path:     abs,
		debounce: 200 * time.Millisecond,
		handler:  handler,
		watcher:  fsw,
	}, nil
}

// Run processes file events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != w.path {
				continue
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			// Transient watcher errors are not fatal.

		case <-pending:
			pending = nil
			cfg, err := Load(w.path)
			if err != nil {
				continue
			}
			w.handler(cfg)
		}
	}
}
