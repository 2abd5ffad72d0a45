package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("Parses every field", func(t *testing.T) {
		path := writeConfig(t, `
owner: octo
repo: records
token_env: RECORDS_TOKEN
base_url: https://ghe.example.com/api/v3
strict: true
read_only: true
telemetry:
  enabled: true
  exporter: stdout
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, &FileConfig{
			Owner:     "octo",
			Repo:      "records",
			TokenEnv:  "RECORDS_TOKEN",
			BaseURL:   "https://ghe.example.com/api/v3",
			Strict:    true,
			ReadOnly:  true,
			Telemetry: TelemetryConfig{Enabled: true, Exporter: "stdout"},
		}, cfg)
		assert.Equal(t, "octo/records", cfg.URI())
	})

	t.Run("Defaults token env", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, "owner: o\nrepo: r\n"))
		require.NoError(t, err)
		assert.Equal(t, DefaultTokenEnv, cfg.TokenEnv)
	})

	t.Run("Rejects malformed yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "owner: [unterminated\n"))
		assert.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestFileConfig_Options(t *testing.T) {
	t.Setenv("RECORDS_TOKEN", "s3cret")
	cfg := &FileConfig{TokenEnv: "RECORDS_TOKEN", BaseURL: "http://localhost:1", Strict: true, ReadOnly: true}

	o := applyOptions(cfg.Options())
	assert.Equal(t, "s3cret", o.config["token"])
	assert.Equal(t, "http://localhost:1", o.config["base_url"])
	assert.Equal(t, true, o.config["strict"])
	assert.Equal(t, true, o.config["read_only"])
}

func TestFileConfig_NoTokenMeansAnonymous(t *testing.T) {
	t.Setenv("EMPTY_TOKEN", "")
	cfg := &FileConfig{TokenEnv: "EMPTY_TOKEN"}

	o := applyOptions(cfg.Options())
	_, ok := o.config["token"]
	assert.False(t, ok)
}
