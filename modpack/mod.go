// Package modpack models an installed mod collection: mod metadata pulled
// out of jar manifests, dependency declarations, pack-wide validation, and
// the on-disk enable/disable state used during fault isolation.
package modpack

import (
	"errors"
	"fmt"

	"github.com/MegaShinySnivy/mc-packer/version"
)

// NoFile is the placeholder filename for mods injected without a backing
// jar, such as version overrides for mods that are not installed.
const NoFile = "[no file]"

// DisabledSuffix is appended to a jar's filename to keep the game from
// loading it. Stripping the suffix re-enables the mod; the rename must
// round-trip exactly.
const DisabledSuffix = ".disabled"

// ErrNotAManifest indicates archive content that is not a mod manifest.
var ErrNotAManifest = errors.New("not a mod manifest")

// Dependency is one declared requirement of a mod: a target mod id, whether
// the target must be installed, and the acceptable version ranges.
type Dependency struct {
	ModID    string
	Required bool
	Ranges   []version.Range
}

// Matches reports whether the given mod satisfies this dependency: the id
// must match and the mod's version must fall in at least one range.
func (d Dependency) Matches(mod *Mod) bool {
	if mod.ModID != d.ModID {
		return false
	}
	return version.AnyContains(d.Ranges, mod.Version)
}

// RangeString returns the display form of the dependency's ranges.
func (d Dependency) RangeString() string {
	return version.FormatRanges(d.Ranges)
}

// Mod is one installed (or placeholder) mod. Mods are created during load
// and live for the whole run; Errors accumulates human-readable validation
// notes.
type Mod struct {
	ModID    string
	Name     string
	Filename string
	Version  *version.Version

	Dependencies []Dependency

	Errors []string
}

// Placeholder returns a mod record with no backing file, used for version
// overrides of absent mods and for required-but-missing dependency ids.
func Placeholder(modID string, v *version.Version) *Mod {
	return &Mod{
		ModID:    modID,
		Name:     modID,
		Filename: NoFile,
		Version:  v,
	}
}

// Installed reports whether the mod has a backing jar on disk.
func (m *Mod) Installed() bool {
	return m.Filename != "" && m.Filename != NoFile
}

// AddError appends a validation note to the mod.
func (m *Mod) AddError(format string, args ...any) {
	m.Errors = append(m.Errors, fmt.Sprintf(format, args...))
}

// String returns "name (id) version" for display.
func (m *Mod) String() string {
	return fmt.Sprintf("%s (%s) %s", m.Name, m.ModID, m.Version)
}
