package engine

import (
	"errors"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/lumenengine/lumen/engine/core"
)

// ConfigWatcher watches the config file and queues the reloaded config
// whenever the file changes on disk. The watcher goroutine only parses
// and enqueues; the frame loop drains via Pending and fires
// EVENT_CODE_CONFIG_RELOADED on its own thread, so composer tunables
// are never mutated while a frame is composing. Only the
// hot-reloadable values travel in the event; window geometry changes
// require a restart.
type ConfigWatcher struct {
	path     string
	fsnotify *fsnotify.Watcher
	pending  chan *ApplicationConfig
	done     chan struct{}
	isClosed bool
}

func NewConfigWatcher(path string) (*ConfigWatcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &ConfigWatcher{
		path:     path,
		fsnotify: fsWatch,
		pending:  make(chan *ApplicationConfig, 1),
		done:     make(chan struct{}),
	}, nil
}

func (cw *ConfigWatcher) Start() error {
	if cw.isClosed {
		return errors.New("config watcher already closed")
	}
	// Watch the directory: editors replace files on save, which drops a
	// watch placed on the file itself.
	if err := cw.fsnotify.Add(filepath.Dir(cw.path)); err != nil {
		return err
	}
	go cw.run()
	return nil
}

func (cw *ConfigWatcher) run() {
	for {
		select {
		case <-cw.done:
			return
		case event, ok := <-cw.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(cw.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cw.reload()
		case err, ok := <-cw.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogWarn("config watcher error: %s", err)
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadApplicationConfig(cw.path)
	if err != nil {
		core.LogWarn("config reload skipped: %s", err)
		return
	}
	core.LogInfo("config file changed, queueing reload")

	// Keep only the newest reload; an undrained older one is stale.
	select {
	case <-cw.pending:
	default:
	}
	cw.pending <- cfg
}

// Pending returns the most recently reloaded config, if one is queued,
// and empties the queue. Called once per frame-loop iteration.
func (cw *ConfigWatcher) Pending() (*ApplicationConfig, bool) {
	select {
	case cfg := <-cw.pending:
		return cfg, true
	default:
		return nil, false
	}
}

func (cw *ConfigWatcher) Close() error {
	if cw.isClosed {
		return nil
	}
	cw.isClosed = true
	close(cw.done)
	return cw.fsnotify.Close()
}
