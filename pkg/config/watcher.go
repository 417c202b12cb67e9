package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/romdo/go-debounce"

	"github.com/retailcat/catalogadmin/pkg/logger"
)

// maxWaitFactor bounds how long a steady stream of writes can postpone a
// notification, as a multiple of the debounce delay.
const maxWaitFactor = 5

// FileWatcher reports writes to a single file. Events landing within the
// debounce window of each other produce one notification. The parent
// directory is watched so editors that replace the file are still seen.
type FileWatcher struct {
	fs        *fsnotify.Watcher
	target    string
	mu        sync.Mutex
	callbacks []func()
	trigger   func()
	cancel    func()
	stop      chan struct{}
	closeOnce sync.Once
}

// WatchFile starts watching path until ctx is done or Close is called.
func WatchFile(ctx context.Context, path string, delay time.Duration) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	w := &FileWatcher{fs: fsw, target: abs, stop: make(chan struct{})}
	w.trigger, w.cancel = debounce.NewWithMaxWait(delay, maxWaitFactor*delay, w.notify)
	go w.loop(ctx)
	return w, nil
}

func (w *FileWatcher) OnChange(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

func (w *FileWatcher) loop(ctx context.Context) {
	log := logger.FromContext(ctx)
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("Detected file change", "file", event.Name)
			w.trigger()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Error("File watcher error", "file", w.target, "error", err)
		}
	}
}

func (w *FileWatcher) notify() {
	select {
	case <-w.stop:
		return
	default:
	}
	w.mu.Lock()
	callbacks := append([]func(){}, w.callbacks...)
	w.mu.Unlock()
	for _, callback := range callbacks {
		if callback != nil {
			callback()
		}
	}
}

func (w *FileWatcher) Close() error {
	var closeErr error
	w.closeOnce.Do(func() {
		close(w.stop)
		w.cancel()
		if err := w.fs.Close(); err != nil {
			closeErr = fmt.Errorf("failed to close watcher: %w", err)
		}
	})
	return closeErr
}
