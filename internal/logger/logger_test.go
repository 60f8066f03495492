package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/hostwatch/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCreatesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	err := logger.Init(dir, "hostwatch.log", false, true, false)
	require.NoError(t, err)

	logger.Info().Msg("hello")

	data, err := os.ReadFile(filepath.Join(dir, "hostwatch.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestInitFallsBackToHomeDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	home := t.TempDir()
	t.Setenv("HOME", home)

	// Unwritable primary directory forces the fallback.
	blocked := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.MkdirAll(blocked, 0o555))

	err := logger.Init(filepath.Join(blocked, "logs"), "hostwatch.log", false, false, false)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(home, ".hostwatch", "hostwatch.log"))
	assert.NoError(t, err)
}
