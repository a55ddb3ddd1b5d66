package autostart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinuxIsInstalled(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	l := &LinuxAutoStarter{}

	installed, err := l.IsInstalled()
	require.NoError(t, err)
	assert.False(t, installed)

	servicePath := filepath.Join(home, ".config", "systemd", "user", "mdsync.service")
	require.NoError(t, os.MkdirAll(filepath.Dir(servicePath), 0755))
	require.NoError(t, os.WriteFile(servicePath, []byte("[Unit]"), 0644))

	installed, err = l.IsInstalled()
	require.NoError(t, err)
	assert.True(t, installed)
}

func TestUnsupportedIsNeverInstalled(t *testing.T) {
	u := &UnsupportedAutoStarter{}

	installed, err := u.IsInstalled()
	require.NoError(t, err)
	assert.False(t, installed)

	assert.NoError(t, u.Install("/usr/local/bin/mdsync"))
	assert.NoError(t, u.Uninstall())
}
