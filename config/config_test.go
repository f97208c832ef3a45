package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukrail/railplanner/config"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.WalkingPenaltyMinutes)
	assert.True(t, cfg.AutoWalkingEnabled)
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "railplanner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataset_root: /srv/data\nwalking_penalty_minutes: 5\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", cfg.DatasetRoot)
	assert.Equal(t, 5, cfg.WalkingPenaltyMinutes)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "./data", cfg.DatasetRoot)
}
