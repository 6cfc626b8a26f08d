// Package memory keeps storage ports in process memory. Nothing survives a
// restart; tests and --ephemeral runs use it.
package memory

import (
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore holds settings under their flat dotted keys. Unlike the file
// store it converts strictly: numeric kinds widen or narrow, but a string
// never becomes a number.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

func NewConfigStore() *ConfigStore {
	return &ConfigStore{values: map[string]any{}}
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *ConfigStore) GetString(key string) string {
	var out string
	s.into(key, &out)
	return out
}

func (s *ConfigStore) GetInt(key string) int {
	var out int
	s.into(key, &out)
	return out
}

func (s *ConfigStore) GetFloat(key string) float64 {
	var out float64
	s.into(key, &out)
	return out
}

func (s *ConfigStore) GetBool(key string) bool {
	var out bool
	s.into(key, &out)
	return out
}

// GetStringSlice keeps the string elements of a list and drops the rest.
func (s *ConfigStore) GetStringSlice(key string) []string {
	v, _ := s.Get(key)
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		strs := make([]string, 0, len(list))
		for _, item := range list {
			if str, ok := item.(string); ok {
				strs = append(strs, str)
			}
		}
		return strs
	}
	return nil
}

func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

// Save has nowhere to write to.
func (s *ConfigStore) Save() error { return nil }

// Load has nothing to read.
func (s *ConfigStore) Load() error { return nil }

func (s *ConfigStore) Path() string { return ":memory:" }

// into leaves out at its zero value when the key is missing or the stored
// value cannot be converted.
func (s *ConfigStore) into(key string, out any) {
	v, ok := s.Get(key)
	if !ok || v == nil {
		return
	}
	_ = mapstructure.Decode(v, out)
}
