package providers

import (
	"os"
	"path/filepath"
	"ponydiary/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
webServer:
  host: 127.0.0.1
  port: 8080
storage:
  filePath: /tmp/ponydiary/journal.zst
logger:
  level: info
  mode: 420
  dir: /tmp/ponydiary/logs
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ponydiary.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestConfigProvider_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, testConfigYAML)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, "PonyDiary", conf.AppName)
	assert.True(t, conf.Debug)
	assert.Equal(t, path, conf.Path)
	assert.Equal(t, "pony_diary", conf.Journal.Namespace)
	assert.Equal(t, "file", conf.Storage.Driver)
	assert.Equal(t, 30*time.Second, conf.Storage.SaveInterval)
	assert.Equal(t, "/", conf.Offline.FallbackPath)
	assert.Equal(t, "pony-diary-v3", conf.Offline.Version)
	assert.NotEmpty(t, conf.Offline.Manifest)
	assert.False(t, conf.Offline.Enabled)
}

func TestConfigProvider_EnvOverride(t *testing.T) {
	path := writeConfig(t, testConfigYAML)
	t.Setenv("PONYDIARY_STORAGE_DRIVER", "sqlite")
	t.Setenv("PONYDIARY_STORAGE_SQLITE", "/tmp/ponydiary/journal.db")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", conf.Storage.Driver)
	assert.Equal(t, "/tmp/ponydiary/journal.db", conf.Storage.SqlitePath)
}

func TestConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestConfigProvider_InvalidConfig(t *testing.T) {
	path := writeConfig(t, `
webServer:
  host: 127.0.0.1
  port: 8080
storage:
  driver: redis
logger:
  level: info
  mode: 420
  dir: /tmp/ponydiary/logs
`)
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}
