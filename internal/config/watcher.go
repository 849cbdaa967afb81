package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file whenever it is written and hands the new
// value to a callback. Reloads that fail to parse are logged and skipped.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(*Config)
}

// NewWatcher starts watching the directory holding path. Watching the
// directory instead of the file survives editors that replace files on save.
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create config watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("could not watch config directory: %w", err)
	}

	return &Watcher{
		path:     filepath.Clean(path),
		watcher:  fw,
		onChange: onChange,
	}, nil
}

// Run processes file events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			log.Printf("Could not close config watcher: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Printf("Config file modified. Reloading...")
			newCfg, err := LoadConfig(w.path)
			if err != nil {
				log.Printf("Failed to reload config: %v", err)
				continue
			}
			if err := newCfg.Validate(); err != nil {
				log.Printf("Ignoring invalid config reload: %v", err)
				continue
			}
			w.onChange(newCfg)
			log.Printf("Config reloaded successfully.")
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Config watcher error: %v", err)
		}
	}
}
