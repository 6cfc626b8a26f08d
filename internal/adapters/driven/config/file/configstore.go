package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a TOML file. A dotted key such as
// "llm.provider" addresses the provider entry of the [llm] table.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	tree     map[string]any
}

// NewConfigStore opens configDir/config.toml, creating the directory but
// not the file. An empty configDir means ~/.wsagent.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".wsagent")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{filePath: filepath.Join(configDir, "config.toml")}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the raw value at key. Tables are returned as maps.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var node any = s.tree
	for _, part := range strings.Split(key, ".") {
		table, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		if node, ok = table[part]; !ok {
			return nil, false
		}
	}
	return node, true
}

// decode converts the value at key into out with weak typing, so hand
// edits like max_tokens = "2048" still read as numbers. It reports false
// when the key is missing or the value does not convert.
func (s *ConfigStore) decode(key string, out any) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	return mapstructure.WeakDecode(raw, out) == nil
}

// GetString returns the value at key as a string, or "".
func (s *ConfigStore) GetString(key string) string {
	var v string
	if !s.decode(key, &v) {
		return ""
	}
	return v
}

// GetInt returns the value at key as an int, or 0.
func (s *ConfigStore) GetInt(key string) int {
	var v int
	if !s.decode(key, &v) {
		return 0
	}
	return v
}

// GetFloat returns the value at key as a float, or 0.
func (s *ConfigStore) GetFloat(key string) float64 {
	var v float64
	if !s.decode(key, &v) {
		return 0
	}
	return v
}

// GetBool returns the value at key as a bool, or false.
func (s *ConfigStore) GetBool(key string) bool {
	var v bool
	if !s.decode(key, &v) {
		return false
	}
	return v
}

// GetStringSlice returns the value at key as a list. A single string
// becomes a one-element list.
func (s *ConfigStore) GetStringSlice(key string) []string {
	var v []string
	if !s.decode(key, &v) {
		return nil
	}
	return v
}

// Set stores value at key and writes the file. Intermediate tables are
// created, replacing any plain value in the way.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := strings.Split(key, ".")
	table := s.tree
	for _, part := range parts[:len(parts)-1] {
		child, ok := table[part].(map[string]any)
		if !ok {
			child = make(map[string]any)
			table[part] = child
		}
		table = child
	}
	last := parts[len(parts)-1]
	prev, existed := table[last]
	table[last] = value

	if err := s.save(); err != nil {
		if existed {
			table[last] = prev
		} else {
			delete(table, last)
		}
		return err
	}
	return nil
}

// Save writes the current settings to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save replaces the file atomically. The caller holds the lock.
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.tree)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.filePath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load re-reads the file. A missing file yields empty settings.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		s.tree = make(map[string]any)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	tree := make(map[string]any)
	if err := toml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	s.tree = tree
	return nil
}

// Path returns the config file location.
func (s *ConfigStore) Path() string {
	return s.filePath
}
