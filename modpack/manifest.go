package modpack

import (
	"fmt"
	"regexp"
	"strings"

	toml "github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/MegaShinySnivy/mc-packer/version"
)

// ModsTomlPath is the manifest location inside a mod jar.
const ModsTomlPath = "META-INF/mods.toml"

// JarManifestPath is the java manifest location inside a mod jar.
const JarManifestPath = "META-INF/MANIFEST.MF"

// externFieldPattern matches "${var}" indirections in manifest values.
var externFieldPattern = regexp.MustCompile(`^\$\{([^}]+)\}`)

// jarVersionKeys are the MANIFEST.MF keys consulted, in order, when a
// mods.toml field points at ${file.jarVersion}.
var jarVersionKeys = []string{
	"Implementation-Version",
	"Specification-Version",
	"Manifest-Version",
}

// staticFieldValues resolves indirections that do not come from the jar
// manifest. Loader and game ranges are treated as unconstrained.
var staticFieldValues = map[string]string{
	"forge_version_range":     "*",
	"minecraft_version_range": "*",
}

// modsToml mirrors the mods.toml structure this tool reads.
type modsToml struct {
	Mods []struct {
		ModID       string `toml:"modId"`
		Version     string `toml:"version"`
		DisplayName string `toml:"displayName"`
	} `toml:"mods"`
	Dependencies map[string][]struct {
		ModID        string `toml:"modId"`
		Mandatory    bool   `toml:"mandatory"`
		VersionRange string `toml:"versionRange"`
	} `toml:"dependencies"`
}

// Manifest holds the decoded metadata of one mod jar. Decoding either
// yields a complete Manifest or fails; there is no partially-initialized
// in-between state.
type Manifest struct {
	ModID        string
	Name         string
	Version      *version.Version
	Dependencies []Dependency

	// Notes carries recoverable per-dependency problems, such as an
	// unparseable version range, to be attached to the loaded mod.
	Notes []string
}

// DecodeManifest decodes a mods.toml byte stream, resolving "${...}" field
// indirections against the accompanying MANIFEST.MF content. It returns
// ErrNotAManifest when the data decodes but declares no mods, and a decode
// error for malformed TOML.
func DecodeManifest(tomlData []byte, jarManifest string) (*Manifest, error) {
	var doc modsToml
	if err := toml.Unmarshal(tomlData, &doc); err != nil {
		return nil, errors.Wrap(err, "decode mods.toml")
	}
	if len(doc.Mods) == 0 {
		return nil, ErrNotAManifest
	}

	manifestKeys := parseJarManifest(jarManifest)

	// Only the first [[mods]] entry identifies the jar, matching the
	// loader's behavior for multi-mod jars.
	entry := doc.Mods[0]

	modID, err := resolveField(entry.ModID, manifestKeys)
	if err != nil {
		return nil, err
	}
	rawVersion, err := resolveField(entry.Version, manifestKeys)
	if err != nil {
		return nil, err
	}
	name, err := resolveField(entry.DisplayName, manifestKeys)
	if err != nil {
		return nil, err
	}

	v, err := version.Parse(rawVersion)
	if err != nil {
		return nil, fmt.Errorf("mod %q: %w", modID, err)
	}

	m := &Manifest{
		ModID:   modID,
		Name:    name,
		Version: v,
	}

	for _, dep := range doc.Dependencies[modID] {
		rawRange, err := resolveField(dep.VersionRange, manifestKeys)
		if err != nil {
			rawRange = dep.VersionRange
		}
		ranges, err := version.ParseRanges(rawRange)
		if err != nil {
			m.Notes = append(m.Notes,
				fmt.Sprintf("%q dependency %q has invalid version range %q",
					name, dep.ModID, dep.VersionRange))
			continue
		}
		m.Dependencies = append(m.Dependencies, Dependency{
			ModID:    dep.ModID,
			Required: dep.Mandatory,
			Ranges:   ranges,
		})
	}

	return m, nil
}

// parseJarManifest reads "Key: Value" lines from MANIFEST.MF content.
func parseJarManifest(content string) map[string]string {
	keys := make(map[string]string)
	content = strings.ReplaceAll(content, "\r\n", "\n")

	for _, line := range strings.Split(content, "\n") {
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		keys[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return keys
}

// resolveField expands a "${var}" indirection against the jar manifest keys
// and the static mapping. Unknown variables pass through unchanged.
func resolveField(raw string, manifestKeys map[string]string) (string, error) {
	m := externFieldPattern.FindStringSubmatch(raw)
	if m == nil {
		return raw, nil
	}
	field := m[1]

	if value, ok := staticFieldValues[field]; ok {
		return value, nil
	}

	if field == "file.jarVersion" {
		for _, key := range jarVersionKeys {
			if value := manifestKeys[key]; value != "" {
				return value, nil
			}
		}
		return "", fmt.Errorf("cannot resolve field value %q: no version in jar manifest", raw)
	}

	return raw, nil
}
