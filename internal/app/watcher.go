package app

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileWatcher polls a file and calls a callback whenever its modification
// time moves forward. The editor uses it to pick up manifest edits while
// blanks are being calibrated.
type FileWatcher struct {
	path          string
	checkInterval time.Duration

	mu       sync.Mutex
	baseline time.Time
	stopCh   chan struct{}
	onChange func()
}

// NewFileWatcher creates a watcher for path. Returns nil if the file cannot
// be found.
func NewFileWatcher(path string, checkInterval time.Duration) *FileWatcher {
	// Resolve symlinks so edits through the link target are seen
	if realPath, err := filepath.EvalSymlinks(path); err == nil {
		path = realPath
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil
	}

	return &FileWatcher{
		path:          path,
		checkInterval: checkInterval,
		baseline:      info.ModTime(),
	}
}

// OnChange sets the callback. It runs on the watcher goroutine.
func (w *FileWatcher) OnChange(callback func()) {
	w.mu.Lock()
	w.onChange = callback
	w.mu.Unlock()
}

// Start begins watching in a background goroutine.
func (w *FileWatcher) Start() {
	w.mu.Lock()
	w.stopCh = make(chan struct{})
	stop := w.stopCh
	w.mu.Unlock()
	go w.watchLoop(stop)
}

// Stop stops the watcher goroutine.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

func (w *FileWatcher) watchLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.Check()
		}
	}
}

// Check compares the file against the baseline once, firing the callback
// and advancing the baseline when it changed. Returns whether it fired.
func (w *FileWatcher) Check() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	if !info.ModTime().After(w.baseline) {
		w.mu.Unlock()
		return false
	}
	w.baseline = info.ModTime()
	cb := w.onChange
	w.mu.Unlock()

	if cb != nil {
		cb()
	}
	return true
}

// Path returns the watched file.
func (w *FileWatcher) Path() string {
	return w.path
}
