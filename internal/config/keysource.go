package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/svarun115/googleplaces-mcp-server/internal/logger"
)

// KeySource yields the upstream API key for the next outbound call.
type KeySource interface {
	APIKey() string
}

// StaticKey is a KeySource fixed at process start.
type StaticKey string

func (k StaticKey) APIKey() string { return string(k) }

const keyReloadDebounce = 200 * time.Millisecond

// KeyWatcher reads the API key from a file and reloads it when the file
// changes, so rotated secrets (e.g. a remounted secret volume) are picked up
// without a restart.
type KeyWatcher struct {
	path    string
	key     atomic.Value
	watcher *fsnotify.Watcher
	done    chan struct{}
	log     *slog.Logger
}

// NewKeyWatcher loads the key from path and starts watching its directory.
// Watching the directory rather than the file survives the rename-and-replace
// pattern most secret writers use.
func NewKeyWatcher(path string) (*KeyWatcher, error) {
	kw := &KeyWatcher{
		path: path,
		done: make(chan struct{}),
		log:  logger.ForComponent("config"),
	}

	if err := kw.reload(); err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating key file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching key file directory: %w", err)
	}
	kw.watcher = w

	go kw.run()
	return kw, nil
}

func (kw *KeyWatcher) APIKey() string {
	return kw.key.Load().(string)
}

func (kw *KeyWatcher) Close() error {
	close(kw.done)
	return kw.watcher.Close()
}

func (kw *KeyWatcher) reload() error {
	data, err := os.ReadFile(kw.path)
	if err != nil {
		return fmt.Errorf("reading API key file: %w", err)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return fmt.Errorf("API key file %s is empty", kw.path)
	}
	kw.key.Store(key)
	return nil
}

func (kw *KeyWatcher) run() {
	var pending *time.Timer
	var pendingC <-chan time.Time

	for {
		select {
		case <-kw.done:
			return
		case ev, ok := <-kw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(kw.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			// Coalesce bursts of events into a single reload.
			if pending == nil {
				pending = time.NewTimer(keyReloadDebounce)
				pendingC = pending.C
			} else {
				pending.Reset(keyReloadDebounce)
			}
		case <-pendingC:
			pending = nil
			pendingC = nil
			if err := kw.reload(); err != nil {
				kw.log.Warn("API key reload failed, keeping previous key", "error", err)
				continue
			}
			kw.log.Info("API key reloaded", "path", kw.path)
		case _, ok := <-kw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
