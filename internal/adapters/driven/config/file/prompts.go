package file

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
	"github.com/custodia-labs/workspace-agent/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// defaults holds the built-in prompts and the README seeded next to them.
//
//go:embed defaults
var defaults embed.FS

// placeholders names the format verb a template cannot work without.
var placeholders = map[string]string{
	driven.PromptDecompose: "%s",
	driven.PromptSummarise: "%d",
}

// PromptStore serves prompt templates from <dir>/<name>.txt, seeding the
// directory with the built-in set on first use.
// Nothing touches disk until the first Load.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu     sync.RWMutex
	loaded map[string]string
}

// NewPromptStore creates a store rooted at dir, or ~/.wsagent/prompts when empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".wsagent", "prompts")
	}
	return &PromptStore{dir: dir, loaded: make(map[string]string)}, nil
}

// Dir returns the directory prompts are read from.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the named template. A missing or unreadable file falls back
// to the built-in prompt, as does an edit that dropped a required placeholder.
func (s *PromptStore) Load(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid prompt name %q", name)
	}
	s.seedOnce.Do(func() { s.seedErr = s.seed() })

	fallback, builtin := builtinPrompt(name)
	if s.seedErr != nil {
		if builtin {
			return fallback, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.seedErr)
	}

	s.mu.RLock()
	prompt, ok := s.loaded[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	prompt, err := s.read(name)
	switch {
	case err != nil && builtin:
		return fallback, nil
	case err != nil:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	case builtin && !strings.Contains(prompt, placeholders[name]):
		logger.Warn("prompt %q is missing its %s placeholder, using the built-in one", name, placeholders[name])
		prompt = fallback
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if first, ok := s.loaded[name]; ok {
		return first, nil
	}
	s.loaded[name] = prompt
	return prompt, nil
}

// Reload forgets everything read so far.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.loaded = make(map[string]string)
	s.mu.Unlock()
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// seed copies every embedded default into the directory. Files the user
// already has are left alone.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	entries, err := defaults.ReadDir("defaults")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		data, err := defaults.ReadFile(path.Join("defaults", entry.Name()))
		if err != nil {
			return err
		}
		if err := writeIfAbsent(filepath.Join(s.dir, entry.Name()), data); err != nil {
			return fmt.Errorf("seed %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func writeIfAbsent(name string, data []byte) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func builtinPrompt(name string) (string, bool) {
	data, err := defaults.ReadFile(path.Join("defaults", name+".txt"))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}
