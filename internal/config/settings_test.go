package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HORIZON_SETTINGS", "")

	s, err := LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, "info", s.Log.Level)
	assert.Equal(t, "console", s.Output.Format)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Equal(t, 10*time.Second, s.Server.ReadTimeout)
	assert.Equal(t, 1<<20, s.Server.MaxBodyBytes)
	assert.InDelta(t, 1000.0, s.Milestones.MinimumImpact, 1e-9)
	assert.Equal(t, 50, s.Milestones.CacheSize)
	assert.Equal(t, 5*time.Minute, s.Milestones.CacheTTL)
}

func TestLoadSettings_FileAndEnv(t *testing.T) {
	path := writeFile(t, "settings.yaml", `
log:
  level: debug
server:
  addr: 127.0.0.1:9000
  read_timeout: 3s
milestones:
  minimum_impact: 250
  disable_filter: true
`)
	t.Setenv("HORIZON_OUTPUT_FORMAT", "json")

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "127.0.0.1:9000", s.Server.Addr)
	assert.Equal(t, 3*time.Second, s.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, s.Server.WriteTimeout, "unset keys keep their defaults")
	assert.InDelta(t, 250.0, s.Milestones.MinimumImpact, 1e-9)
	assert.True(t, s.Milestones.DisableFilter)
	assert.Equal(t, "json", s.Output.Format)
}

func TestLoadSettings_ExplicitPathMustExist(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read settings")
}
