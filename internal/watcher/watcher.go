package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mdsync/internal/audit"
	"mdsync/internal/logger"
	"mdsync/internal/model"
	"mdsync/internal/registry"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher subscribes to fsnotify events for the watched root (recursively,
// including directories created after startup) and translates them into
// created/modified/deleted FileEvents, keeping the registry current as a side
// effect. Events for paths off the extension allow-list never leave this
// package.
type Watcher struct {
	fw       *fsnotify.Watcher
	reg      *registry.Registry
	aud      *audit.Logger
	eventCh  chan model.FileEvent
	doneCh   chan struct{}
	stopOnce sync.Once
}

func New(reg *registry.Registry, aud *audit.Logger, bufferSize int) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		fw:      fw,
		reg:     reg,
		aud:     aud,
		eventCh: make(chan model.FileEvent, bufferSize),
		doneCh:  make(chan struct{}),
	}, nil
}

func (w *Watcher) Watch(dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	if _, err := os.Stat(absDir); err != nil {
		return fmt.Errorf("watched root not found: %w", err)
	}

	if err := w.addRecursive(absDir); err != nil {
		return err
	}

	go w.run()

	logger.Log.Info("watcher started",
		zap.String("dir", absDir))
	return nil
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			logger.Log.Warn("skipping unwatchable path",
				zap.String("path", path),
				zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if err := w.fw.Add(path); err != nil {
				logger.Log.Warn("failed to watch directory",
					zap.String("path", path),
					zap.Error(err))
				return nil
			}
			logger.Log.Debug("watching directory",
				zap.String("path", path))
		}

		return nil
	})
}

func (w *Watcher) run() {
	defer close(w.eventCh)

	for {
		select {
		case <-w.doneCh:
			logger.Log.Info("watcher stopping")
			return

		case fsEvent, ok := <-w.fw.Events:
			if !ok {
				return
			}

			if fsEvent.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(fsEvent.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(fsEvent.Name); err != nil {
						logger.Log.Warn("failed to watch new directory",
							zap.String("path", fsEvent.Name),
							zap.Error(err))
					}
					continue
				}
			}

			if !relevant(fsEvent.Op) || !w.reg.Allowed(fsEvent.Name) {
				continue
			}

			event, ok := w.classify(fsEvent.Name)
			if !ok {
				continue
			}

			w.aud.Record("event %s %s", event.Type, event.Path)
			logger.Log.Info("file event",
				zap.String("type", string(event.Type)),
				zap.String("path", event.Path),
				zap.String("category", w.reg.Category(event.Path)))

			select {
			case w.eventCh <- event:
			default:
				logger.Log.Warn("event channel is full, dropping event",
					zap.String("path", fsEvent.Name))
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}

			logger.Log.Error("watcher error",
				zap.Error(err))
		}
	}
}

// classify resolves the raw notification into one of the three logical kinds
// by combining current disk state with registry membership. The OS stream
// only distinguishes rename-ish and change-ish operations, so existence is
// the source of truth: exists but untracked is a create, gone but tracked is
// a delete, exists and tracked is a modify. Gone and untracked carries no
// information and is dropped.
func (w *Watcher) classify(path string) (model.FileEvent, bool) {
	_, statErr := os.Stat(path)
	exists := statErr == nil
	tracked := w.reg.Contains(path)

	event := model.FileEvent{
		Path:      path,
		Timestamp: time.Now(),
	}

	switch {
	case exists && !tracked:
		event.Type = model.EventCreate
		w.reg.Add(path)
	case !exists && tracked:
		event.Type = model.EventRemove
		w.reg.Remove(path)
	case exists && tracked:
		event.Type = model.EventWrite
	default:
		return model.FileEvent{}, false
	}

	return event, true
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Write) ||
		op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}

func (w *Watcher) Events() <-chan model.FileEvent {
	return w.eventCh
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.doneCh)
		_ = w.fw.Close()
	})
}
