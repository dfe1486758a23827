package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.False(t, cfg.Telemetry)
}

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("telemetry: true\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Telemetry)
}

func TestLoadConfigMissingFileErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewRootCmdRequiresTwoArgs(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "register-placer <dataset-root> <scorecard-dir>", cmd.Use)
	assert.Error(t, cmd.Args(cmd, []string{"only-one"}))
	assert.NoError(t, cmd.Args(cmd, []string{"a", "b"}))
}
