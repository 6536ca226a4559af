// ABOUTME: Polling reloader for overlay.yaml: re-reads settings when a config file's mtime changes
// ABOUTME: Runs until its context is cancelled; invalid files are logged and the old settings kept

package config

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/mauromedda/pi-overlay-go/internal/log"
)

// DefaultWatchInterval is how often the config files are polled.
const DefaultWatchInterval = 2 * time.Second

// Watcher reloads Settings whenever one of the config files changes.
type Watcher struct {
	projectRoot string
	paths       []string
	onReload    func(*Settings)

	mu       sync.Mutex
	interval time.Duration
	mtimes   map[string]time.Time
}

// NewWatcher watches paths (as passed to LoadFiles) and calls onReload
// with freshly loaded settings after each change.
func NewWatcher(projectRoot string, paths []string, onReload func(*Settings)) *Watcher {
	w := &Watcher{
		projectRoot: projectRoot,
		paths:       paths,
		onReload:    onReload,
		interval:    DefaultWatchInterval,
		mtimes:      make(map[string]time.Time),
	}
	w.snapshotLocked()
	return w
}

// SetInterval overrides the polling interval.
func (w *Watcher) SetInterval(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.interval = d
}

// Run polls until ctx is done. Always returns nil.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	interval := w.interval
	w.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Check()
		}
	}
}

// Check polls once and reloads if anything changed. Reports whether
// onReload was called.
func (w *Watcher) Check() bool {
	w.mu.Lock()
	changed := w.checkLocked()
	if changed {
		w.snapshotLocked()
	}
	w.mu.Unlock()

	if !changed {
		return false
	}
	s, err := LoadFiles(w.projectRoot, w.paths...)
	if err == nil {
		err = s.Validate()
	}
	if err != nil {
		log.Warn("config: reload skipped: %v", err)
		return false
	}
	log.Info("config: reloaded overlay settings")
	w.onReload(s)
	return true
}

// checkLocked compares current mtimes with stored snapshots. Must hold mu.
func (w *Watcher) checkLocked() bool {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			if _, existed := w.mtimes[path]; existed {
				return true
			}
			continue
		}
		prev, ok := w.mtimes[path]
		if !ok || !info.ModTime().Equal(prev) {
			return true
		}
	}
	return false
}

// snapshotLocked records current mtimes. Must hold mu.
func (w *Watcher) snapshotLocked() {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			delete(w.mtimes, path)
			continue
		}
		w.mtimes[path] = info.ModTime()
	}
}
