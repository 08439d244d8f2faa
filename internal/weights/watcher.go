package weights

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"resumepanel/internal/errors"
)

// Watcher reloads a profiles file into a Registry whenever it changes.
// A file that fails validation is logged and the previous table stays.
type Watcher struct {
	mu sync.Mutex

	path     string
	registry *Registry
	logger   *errors.Logger

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer
	lastModTime   time.Time

	stopChan   chan struct{}
	reloadChan chan struct{}
	onReload   func(error)

	running bool
}

// NewWatcher creates a watcher for path. onReload, when set, receives the
// outcome of every reload attempt.
func NewWatcher(path string, registry *Registry, debounceDelay time.Duration, logger *errors.Logger, onReload func(error)) *Watcher {
	if debounceDelay == 0 {
		debounceDelay = 500 * time.Millisecond
	}
	return &Watcher{
		path:          path,
		registry:      registry,
		logger:        logger,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		onReload:      onReload,
	}
}

// Start begins watching. The file's directory is watched too so editors
// that replace the file atomically are picked up.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("profile watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if stat, err := os.Stat(w.path); err == nil {
		w.lastModTime = stat.ModTime()
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch directory of %s: %w", w.path, err)
	}

	w.fsWatcher = watcher
	w.running = true
	go w.watchLoop()

	w.logger.Info("Weight profile watcher started", "file", w.path, "debounce_delay", w.debounceDelay)
	return nil
}

// Stop ends watching; it is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	close(w.stopChan)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.running = false

	if err := w.fsWatcher.Close(); err != nil {
		w.logger.LogError(err, "Failed to close profile watcher")
		return err
	}
	w.logger.Info("Weight profile watcher stopped")
	return nil
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.shouldProcessEvent(event) {
				w.scheduleReload()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.LogError(err, "Profile watcher error")

		case <-w.reloadChan:
			if w.hasFileChanged() {
				w.reload()
			}

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) hasFileChanged() bool {
	stat, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if stat.ModTime().Equal(w.lastModTime) {
		return false
	}
	w.lastModTime = stat.ModTime()
	return true
}

func (w *Watcher) reload() {
	fc, err := LoadFile(w.path)
	if err == nil {
		err = w.registry.Apply(fc)
	}
	if err != nil {
		w.logger.LogError(err, "Rejected weight profile file, keeping previous profiles", "file", w.path)
	} else {
		w.logger.Info("Weight profiles reloaded", "file", w.path, "profiles", w.registry.Names())
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}
