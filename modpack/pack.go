package modpack

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/MegaShinySnivy/mc-packer/observability"
	"github.com/MegaShinySnivy/mc-packer/version"
	"github.com/MegaShinySnivy/mc-packer/vfs"
)

// JarSuffix marks loadable mod archives.
const JarSuffix = ".jar"

// Pack is the installed mod collection of one game instance.
type Pack struct {
	// Instance is the instance root directory (contains mods/, logs/).
	Instance *vfs.RealDir

	// ModsDir is the directory holding the mod jars.
	ModsDir *vfs.RealDir

	// Mods indexes every loaded mod by id.
	Mods map[string]*Mod

	// Errors holds pack-level load notes (jars with no recognizable mod).
	Errors []string

	// dependents is derived data, recomputed by each Validate pass: for
	// every dependency edge A->B it records the reciprocal edge under B.
	dependents map[string][]Dependency

	log observability.Logger
}

// NewPack creates a pack over the given instance directory. modsDir is the
// mods directory name within it, usually "mods".
func NewPack(instance *vfs.RealDir, modsDir string, log observability.Logger) *Pack {
	if log == nil {
		log = observability.NewNullLogger()
	}
	return &Pack{
		Instance:   instance,
		ModsDir:    instance.Sub(modsDir),
		Mods:       make(map[string]*Mod),
		dependents: make(map[string][]Dependency),
		log:        log,
	}
}

// Load scans the mods directory and registers every mod whose jar carries a
// decodable manifest. Jars without one are recorded in Errors rather than
// aborting the load. Disabled jars are skipped.
func (p *Pack) Load() error {
	entries, err := p.ModsDir.List()
	if err != nil {
		return errors.Wrap(err, "load pack")
	}

	seen := make(map[string]string) // content hash -> filename

	for _, entry := range entries {
		if entry.IsDir || !strings.HasSuffix(entry.Name, JarSuffix) {
			continue
		}

		if hash, err := vfs.ContentHash(p.ModsDir.File(entry.Name)); err == nil {
			if prev, dup := seen[hash]; dup {
				p.log.Warn("Jar {Jar} has identical content to {Other}", entry.Name, prev)
			} else {
				seen[hash] = entry.Name
			}
		}

		jar, err := vfs.OpenZip(p.ModsDir, entry.Name)
		if err != nil {
			p.Errors = append(p.Errors, fmt.Sprintf("failed to open jar %q: %v", entry.Name, err))
			observability.ModsLoadedTotal.WithLabelValues("decode_error").Inc()
			continue
		}

		found, err := p.processJar(jar, entry.Name)
		if err != nil {
			p.Errors = append(p.Errors, fmt.Sprintf("failed to read jar %q: %v", entry.Name, err))
			observability.ModsLoadedTotal.WithLabelValues("decode_error").Inc()
			continue
		}
		if !found {
			p.Errors = append(p.Errors, fmt.Sprintf("failed to locate mod metadata in jar %q", entry.Name))
			observability.ModsLoadedTotal.WithLabelValues("no_manifest").Inc()
		}
	}

	p.log.Debug("Loaded {Count} mods from {Dir}", len(p.Mods), p.ModsDir.Path())
	return nil
}

// processJar registers the mod declared by a jar's manifest, recursing into
// nested jars first. filename is the on-disk name of the outermost jar, which
// is the name enable/disable renames operate on.
func (p *Pack) processJar(jar *vfs.ZipDir, filename string) (bool, error) {
	found := false

	members, err := jar.List()
	if err != nil {
		return false, err
	}
	for _, member := range members {
		if !strings.HasSuffix(member.Name, JarSuffix) {
			continue
		}
		nested, err := jar.OpenNested(member.Name)
		if err != nil {
			p.log.Debug("Skipping unreadable nested jar {Jar}: {Error}", member.Name, err)
			continue
		}
		nestedFound, err := p.processJar(nested, filename)
		if err != nil {
			return found, err
		}
		found = found || nestedFound
	}

	if !jar.Has(ModsTomlPath) {
		return found, nil
	}

	tomlData, err := vfs.ReadAll(jar.File(ModsTomlPath))
	if err != nil {
		return found, err
	}

	jarManifest := ""
	if jar.Has(JarManifestPath) {
		data, err := vfs.ReadAll(jar.File(JarManifestPath))
		if err != nil {
			return found, err
		}
		jarManifest = string(data)
	}

	manifest, err := DecodeManifest(tomlData, jarManifest)
	if err != nil {
		p.log.Warn("Jar {Jar} has undecodable manifest: {Error}", jar.Path(), err)
		observability.ModsLoadedTotal.WithLabelValues("decode_error").Inc()
		return found, nil
	}

	mod := &Mod{
		ModID:        manifest.ModID,
		Name:         manifest.Name,
		Filename:     filename,
		Version:      manifest.Version,
		Dependencies: manifest.Dependencies,
		Errors:       manifest.Notes,
	}
	p.Mods[mod.ModID] = mod
	observability.ModsLoadedTotal.WithLabelValues("loaded").Inc()
	p.log.Verbose("Registered mod {ModId} {Version} from {Jar}", mod.ModID, mod.Version, jar.Path())

	return true, nil
}

// ModIssues pairs a mod with its accumulated validation notes.
type ModIssues struct {
	Mod    *Mod
	Errors []string
}

// ValidationReport is the outcome of one Validate pass.
type ValidationReport struct {
	Passed     bool
	Mods       []ModIssues
	PackErrors []string
}

// Validate checks every dependency edge of every loaded mod.
//
// A version mismatch is recorded on the *target* mod (the one whose version
// is wrong for its consumers); a missing required dependency is recorded on
// the requester. Every edge to an installed target also records the
// reciprocal dependent edge, satisfied or not, so WhyDepends can answer both
// directions.
func (p *Pack) Validate() *ValidationReport {
	p.dependents = make(map[string][]Dependency)

	for _, modID := range p.sortedModIDs() {
		mod := p.Mods[modID]
		for _, dep := range mod.Dependencies {
			target, installed := p.Mods[dep.ModID]
			if !installed {
				if dep.Required {
					mod.AddError("could not find mod %q! requirements: %s", dep.ModID, dep.RangeString())
					observability.ValidationErrorsTotal.WithLabelValues("missing").Inc()
				}
				continue
			}

			if !dep.Matches(target) {
				target.AddError("%q requires %q", mod.ModID, dep.RangeString())
				observability.ValidationErrorsTotal.WithLabelValues("mismatch").Inc()
			}

			p.dependents[target.ModID] = append(p.dependents[target.ModID], Dependency{
				ModID:  mod.ModID,
				Ranges: dep.Ranges,
			})
		}
	}

	report := &ValidationReport{Passed: true, PackErrors: p.Errors}
	for _, modID := range p.sortedModIDs() {
		mod := p.Mods[modID]
		if len(mod.Errors) > 0 {
			report.Passed = false
			report.Mods = append(report.Mods, ModIssues{Mod: mod, Errors: mod.Errors})
		}
	}
	if len(p.Errors) > 0 {
		report.Passed = false
	}
	return report
}

// Dependents returns the reciprocal dependency edges recorded for a mod by
// the most recent Validate pass: who needs this mod, and at what versions.
func (p *Pack) Dependents(modID string) []Dependency {
	return p.dependents[modID]
}

// DependencyInfo describes one edge of a WhyDepends report.
type DependencyInfo struct {
	ModID     string
	Name      string
	Required  bool
	Installed bool
	Satisfied bool
	Ranges    string
}

// WhyDependsReport lists a mod's resolved dependencies and dependents.
type WhyDependsReport struct {
	Mod          *Mod
	Dependencies []DependencyInfo
	Dependents   []DependencyInfo
}

// WhyDepends resolves both edge directions for a mod. With errorsOnly, only
// unsatisfied constraints are included. Requires a prior Validate pass for
// the dependents direction.
func (p *Pack) WhyDepends(modID string, errorsOnly bool) (*WhyDependsReport, error) {
	mod, ok := p.Mods[modID]
	if !ok {
		return nil, fmt.Errorf("mod %q not found", modID)
	}

	report := &WhyDependsReport{Mod: mod}

	for _, dep := range mod.Dependencies {
		target, installed := p.Mods[dep.ModID]
		info := DependencyInfo{
			ModID:     dep.ModID,
			Name:      dep.ModID,
			Required:  dep.Required,
			Installed: installed,
			Ranges:    dep.RangeString(),
		}
		if installed {
			info.Name = target.Name
			info.Satisfied = dep.Matches(target)
		}
		if !errorsOnly || !info.Satisfied {
			report.Dependencies = append(report.Dependencies, info)
		}
	}

	for _, dep := range p.Dependents(modID) {
		source, installed := p.Mods[dep.ModID]
		info := DependencyInfo{
			ModID:     dep.ModID,
			Name:      dep.ModID,
			Installed: installed,
			Satisfied: version.AnyContains(dep.Ranges, mod.Version),
			Ranges:    dep.RangeString(),
		}
		if installed {
			info.Name = source.Name
		}
		if !errorsOnly || !info.Satisfied {
			report.Dependents = append(report.Dependents, info)
		}
	}

	return report, nil
}

// OverrideVersion replaces a mod's effective version for this run. Unknown
// ids get a placeholder mod so constraints against them can still be checked.
func (p *Pack) OverrideVersion(modID, raw string) error {
	v, err := version.Parse(raw)
	if err != nil {
		return fmt.Errorf("override for %q: %w", modID, err)
	}

	if mod, ok := p.Mods[modID]; ok {
		mod.Version = v
		return nil
	}
	p.Mods[modID] = Placeholder(modID, v)
	return nil
}

// LieDependencies rewrites a mod's dependency ranges so that every installed
// target's current version satisfies them. Used to experimentally silence a
// mod's version checks.
func (p *Pack) LieDependencies(modID string) {
	mod, ok := p.Mods[modID]
	if !ok {
		return
	}
	for i, dep := range mod.Dependencies {
		target, installed := p.Mods[dep.ModID]
		if !installed {
			continue
		}
		bound := version.Bound{Version: target.Version, Inclusive: true}
		mod.Dependencies[i].Ranges = []version.Range{{Lower: bound, Upper: bound}}
	}
}

// Disable renames a mod's jar so the game will not load it.
func (p *Pack) Disable(m *Mod) error {
	if !m.Installed() || strings.HasSuffix(m.Filename, DisabledSuffix) {
		return nil
	}
	newName := m.Filename + DisabledSuffix
	if err := p.ModsDir.File(m.Filename).Rename(newName); err != nil {
		return errors.Wrapf(err, "disable %s", m.ModID)
	}
	m.Filename = newName
	observability.ToggleOperationsTotal.WithLabelValues("disable").Inc()
	return nil
}

// Enable restores a disabled mod's original jar name.
func (p *Pack) Enable(m *Mod) error {
	if !m.Installed() || !strings.HasSuffix(m.Filename, DisabledSuffix) {
		return nil
	}
	newName := strings.TrimSuffix(m.Filename, DisabledSuffix)
	if err := p.ModsDir.File(m.Filename).Rename(newName); err != nil {
		return errors.Wrapf(err, "enable %s", m.ModID)
	}
	m.Filename = newName
	observability.ToggleOperationsTotal.WithLabelValues("enable").Inc()
	return nil
}

// ApplyDisabled re-applies the full on-disk enable/disable state: every mod
// named in disabled ends up disabled, every other installed mod enabled.
// State is recomputed from scratch on every call, never diffed.
func (p *Pack) ApplyDisabled(disabled map[string]bool) error {
	for _, modID := range p.sortedModIDs() {
		mod := p.Mods[modID]
		var err error
		if disabled[modID] {
			err = p.Disable(mod)
		} else {
			err = p.Enable(mod)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Pack) sortedModIDs() []string {
	ids := make([]string, 0, len(p.Mods))
	for id := range p.Mods {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
