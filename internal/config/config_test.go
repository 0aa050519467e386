package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, found, err := Load("")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "Renetium", cfg.SiteTitle)
	assert.Equal(t, "public", cfg.OutputDir)
	assert.Equal(t, 1313, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
siteTitle: My Photos
outputDir: dist
port: 8080
params:
  contactEmail: contact@renetium.com
`), 0o644))

	t.Setenv("RENETIUM_PORT", "9090")

	cfg, found, err := Load(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "My Photos", cfg.SiteTitle)
	assert.Equal(t, "dist", cfg.OutputDir)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "contact@renetium.com", cfg.Params["contactemail"])
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{OutputDir: "public", Port: 1313, LogLevel: "info"}
	require.NoError(t, base.Validate())

	bad := base
	bad.Port = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.OutputDir = " "
	assert.Error(t, bad.Validate())

	bad = base
	bad.LogLevel = "chatty"
	assert.Error(t, bad.Validate())
}
