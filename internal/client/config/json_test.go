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

func Test_parseJSON_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"auth_url":              "https://auth.example",
		"online_check_interval": "10s",
		"challenge": map[string]any{
			"mode":     "browser",
			"headless": false,
			"timeout":  float64(2 * time.Second),
		},
		"share":   map[string]any{"target": "s3", "s3_bucket": "b"},
		"signing": map[string]any{"enabled": true},
	})
	pathEnv := writeTempJSON(t, dir, "env.json", map[string]any{
		"category": "from-env-file",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJSON(cfg))

		assert.Equal(t, "https://auth.example", cfg.AuthURL)
		assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
		assert.Equal(t, "browser", cfg.Challenge.Mode)
		assert.False(t, cfg.Challenge.Headless)
		assert.Equal(t, 2*time.Second, cfg.Challenge.Timeout)
		assert.Equal(t, 250*time.Millisecond, cfg.Challenge.PollInterval)
		assert.Equal(t, "s3", cfg.Share.Target)
		assert.Equal(t, "b", cfg.Share.S3Bucket)
		assert.True(t, cfg.Signing.Enabled)
		assert.Equal(t, DefaultCatalogURL, cfg.CatalogURL)
	})

	t.Run("loads from COMPAREHUB_CONFIG", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv("COMPAREHUB_CONFIG", pathEnv)

		cfg := &Config{}
		require.NoError(t, parseJSON(cfg))
		assert.Equal(t, "from-env-file", cfg.Category)
	})

	t.Run("no file → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			AuthURL:             "defaults",
			OnlineCheckInterval: 42 * time.Second,
		}
		require.NoError(t, parseJSON(cfg))

		assert.Equal(t, "defaults", cfg.AuthURL)
		assert.Equal(t, 42*time.Second, cfg.OnlineCheckInterval)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}
		require.Error(t, parseJSON(&Config{}))
	})

	t.Run("missing file → error", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "missing.json")}
		require.Error(t, parseJSON(&Config{}))
	})
}
