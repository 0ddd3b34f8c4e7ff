package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("TASKBOX_API_URL", "")
	t.Setenv("TASKBOX_TIMEOUT", "")
	dir := t.TempDir()

	cfg, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, filepath.Join(dir, TokenFile), cfg.TokenPath())
}

func TestNew_EnvFileAndOverrides(t *testing.T) {
	t.Setenv("TASKBOX_API_URL", "")
	t.Setenv("TASKBOX_TIMEOUT", "")
	dir := t.TempDir()
	content := "TASKBOX_API_URL=http://tasks.internal:8080/api/\nTASKBOX_TIMEOUT=3s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFile), []byte(content), 0o600))

	cfg, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://tasks.internal:8080/api", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)

	t.Setenv("TASKBOX_API_URL", "http://override/api")
	cfg, err = New(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://override/api", cfg.APIURL, "process environment wins")
}

func TestDefaultConfigDir_UsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName), DefaultConfigDir())
}
