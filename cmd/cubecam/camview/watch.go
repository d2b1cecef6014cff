package camview

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// ShaderWatcher reports edits to shader files. It only signals; rebuilding
// the program is left to the render thread.
type ShaderWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	changed chan struct{}
	done    chan struct{}
	log     *logrus.Entry
}

// NewShaderWatcher watches the directories holding the given files, so that
// editors which replace a file on save are still picked up. Empty paths are
// skipped.
func NewShaderWatcher(log *logrus.Entry, paths ...string) (*ShaderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	sw := &ShaderWatcher{
		watcher: w,
		files:   make(map[string]bool),
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
		log:     log,
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("watch: %w", err)
		}
		sw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch: %s: %w", dir, err)
		}
	}

	go sw.run()
	return sw, nil
}

func (sw *ShaderWatcher) run() {
	defer close(sw.done)
	for {
		select {
		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !sw.files[abs] {
				continue
			}
			sw.log.Debugf("shader changed: %s", ev.Name)
			// coalesce bursts of events into a single pending reload
			select {
			case sw.changed <- struct{}{}:
			default:
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.log.Warnf("watch: %v", err)
		}
	}
}

// Changed is signalled when at least one watched file changed since the last
// receive.
func (sw *ShaderWatcher) Changed() <-chan struct{} {
	return sw.changed
}

func (sw *ShaderWatcher) Close() error {
	err := sw.watcher.Close()
	<-sw.done
	return err
}
