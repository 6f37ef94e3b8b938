package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gifsmith/internal/config"
)

func TestLogger_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")

	cfg := config.Default()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = path

	log, err := NewLogger(&cfg)
	require.NoError(t, err)

	log.Info("starting %s", "batch")
	log.Success("done")
	log.Warn("slow")
	log.Error("broken: %v", os.ErrNotExist)
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "[INFO] starting batch")
	assert.Contains(t, text, "[SUCCESS] done")
	assert.Contains(t, text, "[WARN] slow")
	assert.Contains(t, text, "[ERROR] broken: file does not exist")
	assert.NotContains(t, text, "\x1b[", "file sink must be plain text")
}

func TestLogger_DebugGatedByVerbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	cfg := config.Default()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = path

	log, err := NewLogger(&cfg)
	require.NoError(t, err)
	log.Debug("hidden")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")

	cfg.Verbose = true
	log, err = NewLogger(&cfg)
	require.NoError(t, err)
	log.Debug("shown")
	require.NoError(t, log.Close())

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] shown")
}

func TestLogger_NoFileConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.ColorMode = config.ColorNever

	log, err := NewLogger(&cfg)
	require.NoError(t, err)
	log.Info("console only")
	assert.NoError(t, log.Close())
	assert.NoError(t, log.Close()) // idempotent
}
