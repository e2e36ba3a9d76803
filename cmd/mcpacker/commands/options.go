// Package commands implements the mcpacker subcommands.
package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/MegaShinySnivy/mc-packer/cmd/mcpacker/output"
	"github.com/MegaShinySnivy/mc-packer/config"
	"github.com/MegaShinySnivy/mc-packer/modpack"
	"github.com/MegaShinySnivy/mc-packer/observability"
	"github.com/MegaShinySnivy/mc-packer/vfs"
)

// Options holds the persistent flag values shared by all commands.
type Options struct {
	Instance  string
	Verbosity string
	NoColor   bool

	// Overrides are "id=version" version overrides applied after load.
	Overrides []string

	// Lies are mod ids whose dependency ranges get relaxed to whatever is
	// installed.
	Lies []string
}

// logger builds the structured logger for one command invocation. Console
// output and the log stream are kept apart: logs go to stderr.
func (o *Options) logger() observability.Logger {
	level := observability.WarnLevel
	switch output.ParseVerbosity(o.Verbosity) {
	case output.VerbosityQuiet:
		level = observability.ErrorLevel
	case output.VerbosityDetailed:
		level = observability.DebugLevel
	case output.VerbosityDiagnostic:
		level = observability.VerboseLevel
	}
	return observability.NewLogger(os.Stderr, level)
}

// loadPack loads the instance's mods and applies version overrides and
// dependency lies in that order.
func loadPack(opts *Options, log observability.Logger) (*modpack.Pack, *config.Config, error) {
	cfg, err := config.Load(opts.Instance)
	if err != nil {
		return nil, nil, err
	}

	pack := modpack.NewPack(vfs.NewRealDir(opts.Instance), cfg.ModsDir, log)
	if err := pack.Load(); err != nil {
		return nil, nil, err
	}

	for _, spec := range opts.Overrides {
		id, ver, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, nil, fmt.Errorf("invalid override %q, expected id=version", spec)
		}
		if err := pack.OverrideVersion(id, ver); err != nil {
			return nil, nil, err
		}
	}
	for _, id := range opts.Lies {
		pack.LieDependencies(id)
	}

	return pack, cfg, nil
}

// sortedMods returns a pack's mods ordered by id for stable output.
func sortedMods(pack *modpack.Pack) []*modpack.Mod {
	ids := make([]string, 0, len(pack.Mods))
	for id := range pack.Mods {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	mods := make([]*modpack.Mod, len(ids))
	for i, id := range ids {
		mods[i] = pack.Mods[id]
	}
	return mods
}
