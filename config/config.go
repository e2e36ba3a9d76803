// Package config loads per-instance settings from a .mcpacker.yaml file in
// the instance directory, falling back to defaults when the file is absent.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the per-instance configuration file, resolved relative to the
// instance root.
const FileName = ".mcpacker.yaml"

// Config holds the per-instance settings.
type Config struct {
	// ModsDir is the mod jar directory within the instance.
	ModsDir string `yaml:"modsDir"`

	// LogsDir is where the game writes its log files.
	LogsDir string `yaml:"logsDir"`

	// LogFiles are the log names scanned for the error signature, in order.
	LogFiles []string `yaml:"logFiles"`

	// PlatformMods are ids provided by the game or loader itself. They are
	// never graphed or toggled.
	PlatformMods []string `yaml:"platformMods"`

	// RunCommand launches the game for one oracle observation. Empty means
	// find-error cannot run.
	RunCommand []string `yaml:"runCommand"`
}

// Default returns the settings used when no .mcpacker.yaml exists.
func Default() *Config {
	return &Config{
		ModsDir:      "mods",
		LogsDir:      "logs",
		LogFiles:     []string{"latest.log", "debug.log", "latest_stdout.log"},
		PlatformMods: []string{"minecraft", "forge"},
	}
}

// Load reads the instance configuration, merging the file over the defaults.
// A missing file is not an error; a malformed one is.
func Load(instanceDir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(instanceDir, FileName))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", FileName)
	}
	return cfg, nil
}

// PlatformSet returns the platform mod ids as a lookup set.
func (c *Config) PlatformSet() map[string]bool {
	set := make(map[string]bool, len(c.PlatformMods))
	for _, id := range c.PlatformMods {
		set[id] = true
	}
	return set
}
