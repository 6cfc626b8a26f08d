package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr), "constructor must not create the file")
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".wsagent", "config.toml"), store.Path())
}

func TestNewConfigStore_Errors(t *testing.T) {
	t.Run("uncreatable directory", func(t *testing.T) {
		_, err := NewConfigStore("/dev/null/wsagent")
		assert.Error(t, err)
	})

	t.Run("corrupted file", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("llm = {{"), 0600))

		_, err := NewConfigStore(tmpDir)
		assert.Error(t, err)
	})
}

func TestConfigStore_ReadsTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[llm]
provider = "gemini"
model = "gemini-2.0-flash"

[agent]
history_size = 6
temperature = 0.2
max_tokens = 2048

[bridge]
requests_per_minute = 30
channels = ["general", "ops"]
verify = true
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "gemini", store.GetString("llm.provider"))
	assert.Equal(t, 6, store.GetInt("agent.history_size"))
	assert.InDelta(t, 0.2, store.GetFloat("agent.temperature"), 1e-9)
	assert.InDelta(t, 2048.0, store.GetFloat("agent.max_tokens"), 1e-9)
	assert.Equal(t, []string{"general", "ops"}, store.GetStringSlice("bridge.channels"))
	assert.True(t, store.GetBool("bridge.verify"))
}

func TestConfigStore_TypedGettersOnMismatch(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("agent.max_tokens", "lots"))

	assert.Equal(t, 0, store.GetInt("agent.max_tokens"))
	assert.Zero(t, store.GetFloat("agent.max_tokens"))
	assert.False(t, store.GetBool("agent.max_tokens"))
	// A lone string is read as a one-element list.
	assert.Equal(t, []string{"lots"}, store.GetStringSlice("agent.max_tokens"))
	assert.Equal(t, "", store.GetString("missing"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_PersistsAsTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "groq"))
	require.NoError(t, store.Set("llm.api_key", "gsk_test"))
	require.NoError(t, store.Set("agent.temperature", 0.7))
	require.NoError(t, store.Set("version", int64(2)))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[llm]")
	assert.NotContains(t, string(raw), "'llm.provider'")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "groq", reloaded.GetString("llm.provider"))
	assert.Equal(t, "gsk_test", reloaded.GetString("llm.api_key"))
	assert.InDelta(t, 0.7, reloaded.GetFloat("agent.temperature"), 1e-9)
	assert.Equal(t, 2, reloaded.GetInt("version"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_SetUnmarshallable(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_LoadPicksUpExternalEdits(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.model", "a"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("[llm]\nmodel = \"b\"\n"), 0600))
	require.NoError(t, store.Load())

	assert.Equal(t, "b", store.GetString("llm.model"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("agent.history_size", int64(i))
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("agent.history_size")
		}()
	}
	wg.Wait()
}

func TestConfigStore_WeakTyping(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[agent]
max_tokens = "2048"
temperature = 1
history_size = 8.0

[bridge]
verify = "true"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 2048, store.GetInt("agent.max_tokens"))
	assert.InDelta(t, 1.0, store.GetFloat("agent.temperature"), 1e-9)
	assert.Equal(t, 8, store.GetInt("agent.history_size"))
	assert.Equal(t, "1", store.GetString("agent.temperature"))
	assert.True(t, store.GetBool("bridge.verify"))
}

func TestConfigStore_SetReplacesValueWithTable(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm", "groq"))
	require.NoError(t, store.Set("llm.model", "m"))

	assert.Equal(t, "m", store.GetString("llm.model"))
	table, ok := store.Get("llm")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"model": "m"}, table)

	_, ok = store.Get("llm.model.deeper")
	assert.False(t, ok)
}

func TestConfigStore_SaveLeavesNoTempFiles(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.provider", "ollama"))
	require.NoError(t, store.Save())

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.toml", entries[0].Name())
}
