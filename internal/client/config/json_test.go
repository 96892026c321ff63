package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeTempJSON(t, dir, "flag.json", map[string]any{
		"server_base_url": "https://notes.example",
		"request_timeout": "10s",
		"color_pool":      3,
		"history_file":    "",
	})

	for _, spelling := range []string{"-c", "-config", "--config"} {
		t.Run("loads via "+spelling, func(t *testing.T) {
			cfg := &Config{LogLevel: "warn", HistoryFile: "/h"}
			parseJson(cfg, []string{spelling, path})

			assert.Equal(t, "https://notes.example", cfg.ServerBaseURL)
			assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
			assert.Equal(t, 3, cfg.ColorPool)
			assert.Equal(t, "warn", cfg.LogLevel, "absent keys keep their value")
			assert.Empty(t, cfg.HistoryFile, "present empty keys override")
		})
	}

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := &Config{ServerBaseURL: "http://defaults:1234", RequestTimeout: 42 * time.Second}
		parseJson(cfg, []string{"-a", "http://other"})

		assert.Equal(t, "http://defaults:1234", cfg.ServerBaseURL)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Panics(t, func() { parseJson(&Config{}, []string{"-config", bad}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", filepath.Join(dir, "nope.json")}) })
	})
}

func TestLoad_FlagsOverrideJSON(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"server_base_url": "https://from-json",
		"log_level":       "info",
	})

	cfg := Load([]string{"--config", path, "-a", "https://from-flag"})

	assert.Equal(t, "https://from-flag", cfg.ServerBaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
}
