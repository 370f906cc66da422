package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesToRotatingFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	t.Cleanup(func() { Logger = nil })

	require.NoError(t, Init(Config{Dir: dir}))
	require.NotNil(t, Logger)

	Info("contact connected", "id", "abc")
	Debug("hidden below info")

	data, err := os.ReadFile(filepath.Join(dir, "fika.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "contact connected")
	assert.Contains(t, string(data), "id=abc")
	assert.NotContains(t, string(data), "hidden below info")
}

func TestInit_DebugLevel(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { Logger = nil })

	require.NoError(t, Init(Config{Dir: dir, Debug: true}))
	Debug("now visible")

	data, err := os.ReadFile(filepath.Join(dir, "fika.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "now visible")
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	assert.NotPanics(t, func() {
		Debug("d")
		Info("i")
		Warn("w")
		Error("e")
	})
	assert.Nil(t, With("k", "v"))
}
