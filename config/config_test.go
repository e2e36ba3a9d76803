package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "mods", cfg.ModsDir)
	assert.Equal(t, "logs", cfg.LogsDir)
	assert.Empty(t, cfg.RunCommand)

	set := cfg.PlatformSet()
	assert.True(t, set["minecraft"])
	assert.True(t, set["forge"])
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
modsDir: active-mods
platformMods:
  - minecraft
  - neoforge
runCommand: ["./launch.sh", "--server"]
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), content, 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "active-mods", cfg.ModsDir)
	assert.Equal(t, []string{"./launch.sh", "--server"}, cfg.RunCommand)

	// Keys the file omits keep their defaults.
	assert.Equal(t, "logs", cfg.LogsDir)
	assert.Len(t, cfg.LogFiles, 3)

	set := cfg.PlatformSet()
	assert.True(t, set["neoforge"])
	assert.False(t, set["forge"])
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("modsDir: [unclosed"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}
