package providers

import (
	"os"
	"path/filepath"
	"ponydiary/internal/structures"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogTypeByRequestType_Writes(t *testing.T) {
	assert.Equal(t, TypeEnum(TypePost), GetLogTypeByRequestType("POST"))
	assert.Equal(t, TypeEnum(TypePost), GetLogTypeByRequestType("PUT"))
	assert.Equal(t, TypeEnum(TypePost), GetLogTypeByRequestType("DELETE"))
}

func TestGetLogTypeByRequestType_Reads(t *testing.T) {
	assert.Equal(t, TypeEnum(TypeGet), GetLogTypeByRequestType("GET"))
	assert.Equal(t, TypeEnum(TypeGet), GetLogTypeByRequestType("HEAD"))
}

func TestNewLogProvider_CreatesLogFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	conf := &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   dir,
		},
	}

	logger, err := NewLogProvider(conf)
	require.NoError(t, err)

	logger.Infof(TypeApp, "test message")
	logger.Debugf(TypeGet, "get message")
	logger.Warnf(TypePost, "post message")
	logger.Close()

	app, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(app), "test message")

	get, err := os.ReadFile(filepath.Join(dir, "get.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(get), "get message", "debug is below the info level")

	post, err := os.ReadFile(filepath.Join(dir, "post.log"))
	require.NoError(t, err)
	assert.Contains(t, string(post), "post message")
}

func TestNewLogProvider_InvalidLevel(t *testing.T) {
	conf := &structures.Config{
		Logger: structures.LoggerConfig{Level: "verbose", Mode: 0644, Dir: t.TempDir()},
	}
	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}

func TestNewLogProvider_DirIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	conf := &structures.Config{
		Logger: structures.LoggerConfig{Level: "info", Mode: 0644, Dir: file},
	}
	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}
