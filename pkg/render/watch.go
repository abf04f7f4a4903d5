package render

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// shaderWatcher flags shader override files that changed on disk. Events
// arrive on the watcher goroutine; the render thread polls changed once per
// frame.
type shaderWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	dirty   chan struct{}
	done    chan struct{}
	logger  *slog.Logger
}

// newShaderWatcher watches the directories holding paths. Empty paths are
// skipped; with none left it returns nil.
func newShaderWatcher(paths []string, logger *slog.Logger) (*shaderWatcher, error) {
	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		files[p] = true
		dirs[filepath.Dir(p)] = true
	}
	if len(files) == 0 {
		return nil, nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// editors often replace files, so watch the directory rather than the file
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	sw := &shaderWatcher{
		watcher: w,
		files:   files,
		dirty:   make(chan struct{}, 1),
		done:    make(chan struct{}),
		logger:  logger,
	}
	go sw.watch()
	return sw, nil
}

func (sw *shaderWatcher) watch() {
	defer close(sw.done)
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !sw.files[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			sw.logger.Debug("shader changed", "path", event.Name, "op", event.Op)
			select {
			case sw.dirty <- struct{}{}:
			default:
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Warn("shader watcher error", "err", err)
		}
	}
}

// changed reports whether a watched file changed since the last call
func (sw *shaderWatcher) changed() bool {
	if sw == nil {
		return false
	}
	select {
	case <-sw.dirty:
		return true
	default:
		return false
	}
}

// Close stops the watcher and waits for its goroutine
func (sw *shaderWatcher) Close() error {
	if sw == nil {
		return nil
	}
	err := sw.watcher.Close()
	<-sw.done
	return err
}
