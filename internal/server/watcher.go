package server

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Resetter drops cached templates; both gotemplate engines implement it.
type Resetter interface {
	Reset()
}

// TemplateWatcher resets a template engine whenever a file below dir is
// written, created, removed or renamed.
type TemplateWatcher struct {
	dir     string
	target  any
	logger  *zap.Logger
	changed func()
}

// NewTemplateWatcher watches dir and resets target when it implements
// Resetter. Engines without Reset are left alone and only the change is
// logged.
func NewTemplateWatcher(dir string, target any, logger *zap.Logger) *TemplateWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateWatcher{dir: dir, target: target, logger: logger}
}

// Run blocks until ctx is cancelled or the watcher fails to start.
func (w *TemplateWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("server: create template watcher: %w", err)
	}
	defer watcher.Close()

	// fsnotify is not recursive; register every directory up front.
	err = filepath.WalkDir(w.dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("server: watch templates in %s: %w", w.dir, err)
	}
	w.logger.Info("watching templates", zap.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			w.reset(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("template watcher error", zap.Error(err))
		}
	}
}

func (w *TemplateWatcher) reset(event fsnotify.Event) {
	if resetter, ok := w.target.(Resetter); ok {
		resetter.Reset()
	}
	w.logger.Info("templates changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
	if w.changed != nil {
		w.changed()
	}
}
