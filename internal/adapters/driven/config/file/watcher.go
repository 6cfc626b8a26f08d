package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/workspace-agent/internal/logger"
)

// Watch reloads prompts whenever a .txt file in the prompt directory changes.
// It blocks until ctx is cancelled. onChange, if non-nil, runs after each reload.
func (s *PromptStore) Watch(ctx context.Context, onChange func(name string)) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}
	logger.Debug("watching prompts in %s", s.dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, relevant := promptName(event)
			if !relevant {
				continue
			}
			s.Reload()
			logger.Info("prompt %q changed, reloaded", name)
			if onChange != nil {
				onChange(name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("prompt watcher: %v", err)
		}
	}
}

// promptName reports the prompt a filesystem event touches.
// Chmod-only events and non-prompt files are ignored.
func promptName(event fsnotify.Event) (string, bool) {
	if event.Op == fsnotify.Chmod {
		return "", false
	}
	base := filepath.Base(event.Name)
	if filepath.Ext(base) != ".txt" {
		return "", false
	}
	return strings.TrimSuffix(base, ".txt"), true
}
