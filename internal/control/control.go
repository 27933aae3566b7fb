// Package control handles out-of-band run control via the .maestro directory.
// A stop file placed in .maestro/signals cancels the running orchestration;
// the watcher reacts through fsnotify, or by stat polling when fsnotify is
// unavailable, so Stopped fires either way.
package control

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	signalsDirName = "signals"

	// Interval of the stat-polling fallback when fsnotify is unavailable.
	signalPollInterval = 500 * time.Millisecond
)

// Watcher observes the signals directory of a project.
type Watcher struct {
	maestroDir string

	mu         sync.RWMutex
	stopSignal bool

	stopped chan struct{}
	once    sync.Once

	watcher      *fsnotify.Watcher
	pollInterval time.Duration
	done         chan struct{}
}

// NewWatcher creates a watcher for the given project root, creating the
// .maestro/signals directory if needed.
func NewWatcher(projectRoot string) (*Watcher, error) {
	maestroDir := filepath.Join(projectRoot, ".maestro")
	if err := os.MkdirAll(filepath.Join(maestroDir, signalsDirName), 0755); err != nil {
		return nil, err
	}

	w := &Watcher{
		maestroDir:   maestroDir,
		pollInterval: signalPollInterval,
		stopped:      make(chan struct{}),
		done:         make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// Continue without fsnotify; stat polling still closes Stopped.
		go w.pollSignals()
		return w, nil
	}
	w.watcher = watcher

	if err := watcher.Add(filepath.Join(maestroDir, signalsDirName)); err != nil {
		watcher.Close()
		w.watcher = nil
		go w.pollSignals()
		return w, nil
	}

	go w.watchSignals()

	return w, nil
}

// watchSignals monitors the signals directory for stop files.
func (w *Watcher) watchSignals() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			base := filepath.Base(event.Name)
			if base == "stop" && (event.Op&fsnotify.Create != 0 || event.Op&fsnotify.Write != 0) {
				w.markStopped()
			}
		case <-w.watcher.Errors:
			// Ignore errors, keep watching
		}
	}
}

// pollSignals is the fallback when fsnotify is unavailable. It stats the
// stop file on a ticker until a signal arrives or the watcher is closed.
func (w *Watcher) pollSignals() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	stopPath := filepath.Join(w.maestroDir, signalsDirName, "stop")
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			if _, err := os.Stat(stopPath); err == nil {
				w.markStopped()
				return
			}
		}
	}
}

func (w *Watcher) markStopped() {
	w.mu.Lock()
	w.stopSignal = true
	w.mu.Unlock()
	w.once.Do(func() { close(w.stopped) })
}

// Stopped returns a channel that is closed once a stop signal arrives.
// Callers tie run-context cancellation to it.
func (w *Watcher) Stopped() <-chan struct{} {
	return w.stopped
}

// ShouldStop returns true if a stop signal has been received.
func (w *Watcher) ShouldStop() bool {
	// Also check the file directly in case the watcher missed it.
	stopPath := filepath.Join(w.maestroDir, signalsDirName, "stop")
	if _, err := os.Stat(stopPath); err == nil {
		w.markStopped()
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stopSignal
}

// Close stops watching. It does not remove signal files.
func (w *Watcher) Close() {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	if w.watcher != nil {
		w.watcher.Close()
	}
}

// RequestStop creates a stop signal file under the project root.
func RequestStop(projectRoot string) error {
	dir := filepath.Join(projectRoot, ".maestro", signalsDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dir, "stop")
	return os.WriteFile(path, []byte(time.Now().Format(time.RFC3339)), 0644)
}

// ClearSignals removes all signal files for the project.
func ClearSignals(projectRoot string) {
	os.Remove(filepath.Join(projectRoot, ".maestro", signalsDirName, "stop"))
}
