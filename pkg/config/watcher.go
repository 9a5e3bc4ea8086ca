package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the configuration file for changes and reloads it.
// Reload events are debounced so editors that write in several steps
// (rename, chmod, write) trigger a single reload.
//
// Only the reloadable subset of the configuration takes effect without a
// restart: the CORS allow-list. Listen address, timeouts, and rate-limit
// sizing require a restart.
type Watcher struct {
	path     string
	debounce time.Duration
	onReload func(*Config)
	logger   *slog.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a configuration file watcher. onReload is invoked with
// the freshly loaded configuration after each successful reload.
func NewWatcher(path string, onReload func(*Config)) *Watcher {
	return &Watcher{
		path:     path,
		debounce: 200 * time.Millisecond,
		onReload: onReload,
		logger:   slog.Default().With("component", "config.watcher"),
	}
}

// Start begins watching. It is idempotent: calling Start on a running
// watcher returns an error instead of spawning a second event loop.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("config watcher already running")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	// Watch the directory, not the file: editors replace files by rename,
	// which drops a watch registered on the file itself.
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.watcher = fsw
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})

	go w.loop(ctx)

	w.logger.Info("config watcher started", "path", w.path)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit. Safe to
// call multiple times.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	done := w.doneCh
	w.mu.Unlock()

	<-done
}

// IsRunning reports whether the watcher event loop is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)
	defer w.watcher.Close()

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Debounce: restart the timer on every event.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-timerCh:
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadConfigWithEnvOverrides(w.path)
	if err != nil {
		w.logger.Error("config reload failed, keeping previous configuration",
			"path", w.path,
			"error", err,
		)
		return
	}

	SetConfig(cfg)
	if w.onReload != nil {
		w.onReload(cfg)
	}

	w.logger.Info("configuration reloaded", "path", w.path)
}
