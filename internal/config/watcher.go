package config

import (
	"context"
	"fmt"
	"log"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the config file and calls onChange with the freshly
// loaded config each time the file is written. It blocks until the
// context is done. Editors that rename-and-replace trigger Create
// events, so those reload too.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch config file: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				log.Printf("Config reload failed: %v", err)
				continue
			}
			onChange(cfg)
		case err := <-watcher.Errors:
			log.Printf("Config watcher error: %v", err)
		}
	}
}
