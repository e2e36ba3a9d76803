package modpack

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MegaShinySnivy/mc-packer/vfs"
)

// jarSpec describes a test jar: a manifest plus optional nested jars.
type jarSpec struct {
	toml   string
	nested map[string]jarSpec
}

func buildJar(t *testing.T, spec jarSpec) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	if spec.toml != "" {
		f, err := w.Create(ModsTomlPath)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(spec.toml)); err != nil {
			t.Fatal(err)
		}
	}
	for name, nested := range spec.nested {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write(buildJar(t, nested)); err != nil {
			t.Fatal(err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// newTestInstance creates an instance directory with a mods/ subdirectory
// holding the given jars.
func newTestInstance(t *testing.T, jars map[string]jarSpec) *vfs.RealDir {
	t.Helper()
	root := t.TempDir()
	modsDir := filepath.Join(root, "mods")
	if err := os.Mkdir(modsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for filename, spec := range jars {
		if err := os.WriteFile(filepath.Join(modsDir, filename), buildJar(t, spec), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return vfs.NewRealDir(root)
}

func simpleToml(modID, ver string, deps ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "modLoader = \"javafml\"\n\n[[mods]]\nmodId = %q\nversion = %q\ndisplayName = %q\n", modID, ver, modID)
	for _, d := range deps {
		// dep format: "target|range|mandatory"
		parts := strings.SplitN(d, "|", 3)
		fmt.Fprintf(&b, "\n[[dependencies.%s]]\nmodId = %q\nmandatory = %v\nversionRange = %q\n",
			modID, parts[0], parts[2] == "true", parts[1])
	}
	return b.String()
}

func loadTestPack(t *testing.T, jars map[string]jarSpec) *Pack {
	t.Helper()
	p := NewPack(newTestInstance(t, jars), "mods", nil)
	if err := p.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return p
}

func TestLoadAndValidatePasses(t *testing.T) {
	p := loadTestPack(t, map[string]jarSpec{
		"alib-1.0.jar":    {toml: simpleToml("alib", "1.0")},
		"burrows-2.3.jar": {toml: simpleToml("burrows", "2.3", "alib|[1.0,)|true")},
	})

	if len(p.Mods) != 2 {
		t.Fatalf("loaded %d mods, want 2", len(p.Mods))
	}

	report := p.Validate()
	if !report.Passed {
		t.Errorf("Validate() failed: %+v", report.Mods)
	}
}

func TestValidateMismatchLandsOnTarget(t *testing.T) {
	p := loadTestPack(t, map[string]jarSpec{
		"alib-1.0.jar":    {toml: simpleToml("alib", "1.0")},
		"burrows-2.3.jar": {toml: simpleToml("burrows", "2.3", "alib|[1.0,)|true")},
		"chutes-0.9.jar":  {toml: simpleToml("chutes", "0.9", "alib|[2.0,)|true")},
	})

	report := p.Validate()
	if report.Passed {
		t.Fatal("Validate() passed despite version mismatch")
	}

	// The note lands on alib, naming the requester, and nowhere else.
	if len(report.Mods) != 1 || report.Mods[0].Mod.ModID != "alib" {
		t.Fatalf("issues = %+v, want exactly one on alib", report.Mods)
	}
	note := report.Mods[0].Errors[0]
	if !strings.Contains(note, `"chutes"`) || !strings.Contains(note, "[2.0,*)") {
		t.Errorf("note = %q, want requester id and range", note)
	}
	if len(p.Mods["burrows"].Errors) != 0 {
		t.Errorf("burrows has unexpected notes: %v", p.Mods["burrows"].Errors)
	}
}

func TestValidateMissingRequiredLandsOnRequester(t *testing.T) {
	p := loadTestPack(t, map[string]jarSpec{
		"burrows-2.3.jar": {toml: simpleToml("burrows", "2.3",
			"ghost|[1.0,)|true", "optional-ghost|[1.0,)|false")},
	})

	report := p.Validate()
	if report.Passed {
		t.Fatal("Validate() passed despite missing required dependency")
	}

	burrows := p.Mods["burrows"]
	if len(burrows.Errors) != 1 || !strings.Contains(burrows.Errors[0], `"ghost"`) {
		t.Errorf("burrows notes = %v, want one missing-ghost note", burrows.Errors)
	}
}

func TestWhyDepends(t *testing.T) {
	p := loadTestPack(t, map[string]jarSpec{
		"alib-1.0.jar":    {toml: simpleToml("alib", "1.0")},
		"burrows-2.3.jar": {toml: simpleToml("burrows", "2.3", "alib|[1.0,)|true")},
		"chutes-0.9.jar":  {toml: simpleToml("chutes", "0.9", "alib|[2.0,)|true")},
	})
	p.Validate()

	// Satisfied edges vanish under errorsOnly.
	report, err := p.WhyDepends("burrows", true)
	if err != nil {
		t.Fatalf("WhyDepends() error = %v", err)
	}
	if len(report.Dependencies) != 0 {
		t.Errorf("burrows errors-only dependencies = %+v, want none", report.Dependencies)
	}

	// alib's dependents show both consumers; errors-only keeps just chutes.
	report, err = p.WhyDepends("alib", false)
	if err != nil {
		t.Fatalf("WhyDepends() error = %v", err)
	}
	if len(report.Dependents) != 2 {
		t.Fatalf("alib dependents = %+v, want 2", report.Dependents)
	}

	report, _ = p.WhyDepends("alib", true)
	if len(report.Dependents) != 1 || report.Dependents[0].ModID != "chutes" {
		t.Errorf("alib errors-only dependents = %+v, want just chutes", report.Dependents)
	}

	if _, err := p.WhyDepends("nope", false); err == nil {
		t.Error("WhyDepends() succeeded for unknown mod")
	}
}

func TestNestedJarLoad(t *testing.T) {
	p := loadTestPack(t, map[string]jarSpec{
		"bundle-1.0.jar": {
			toml: simpleToml("bundle", "1.0"),
			nested: map[string]jarSpec{
				"META-INF/jarjar/embedded-lib.jar": {toml: simpleToml("embedded", "0.4")},
			},
		},
	})

	if len(p.Mods) != 2 {
		t.Fatalf("loaded %d mods, want outer and embedded", len(p.Mods))
	}

	// Enable/disable operates on the outermost jar for both mods.
	embedded := p.Mods["embedded"]
	if embedded.Filename != "bundle-1.0.jar" {
		t.Errorf("embedded Filename = %q, want the outer jar", embedded.Filename)
	}
}

func TestLoadSkipsUndecodableJars(t *testing.T) {
	root := t.TempDir()
	modsDir := filepath.Join(root, "mods")
	if err := os.Mkdir(modsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	// A jar with no manifest, a non-jar file, and a real mod.
	if err := os.WriteFile(filepath.Join(modsDir, "resources.jar"), buildJar(t, jarSpec{}), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(modsDir, "readme.txt"), []byte("not a jar"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(modsDir, "alib-1.0.jar"),
		buildJar(t, jarSpec{toml: simpleToml("alib", "1.0")}), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewPack(vfs.NewRealDir(root), "mods", nil)
	if err := p.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(p.Mods) != 1 {
		t.Errorf("loaded %d mods, want 1", len(p.Mods))
	}
	if len(p.Errors) != 1 || !strings.Contains(p.Errors[0], "resources.jar") {
		t.Errorf("pack errors = %v, want one about resources.jar", p.Errors)
	}
}

func TestDisableEnableRoundTrip(t *testing.T) {
	p := loadTestPack(t, map[string]jarSpec{
		"alib-1.0.jar": {toml: simpleToml("alib", "1.0")},
	})
	alib := p.Mods["alib"]
	modsPath := filepath.Join(p.Instance.Path(), "mods")

	if err := p.Disable(alib); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}
	if alib.Filename != "alib-1.0.jar"+DisabledSuffix {
		t.Errorf("Filename = %q after disable", alib.Filename)
	}
	if _, err := os.Stat(filepath.Join(modsPath, "alib-1.0.jar.disabled")); err != nil {
		t.Errorf("disabled jar missing on disk: %v", err)
	}

	// Disabling twice is a no-op.
	if err := p.Disable(alib); err != nil {
		t.Fatalf("second Disable() error = %v", err)
	}

	if err := p.Enable(alib); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if alib.Filename != "alib-1.0.jar" {
		t.Errorf("Filename = %q after enable, want original", alib.Filename)
	}
	if _, err := os.Stat(filepath.Join(modsPath, "alib-1.0.jar")); err != nil {
		t.Errorf("re-enabled jar missing on disk: %v", err)
	}
}

func TestApplyDisabled(t *testing.T) {
	p := loadTestPack(t, map[string]jarSpec{
		"alib-1.0.jar":    {toml: simpleToml("alib", "1.0")},
		"burrows-2.3.jar": {toml: simpleToml("burrows", "2.3")},
	})

	if err := p.ApplyDisabled(map[string]bool{"alib": true}); err != nil {
		t.Fatalf("ApplyDisabled() error = %v", err)
	}
	if !strings.HasSuffix(p.Mods["alib"].Filename, DisabledSuffix) {
		t.Error("alib not disabled")
	}
	if strings.HasSuffix(p.Mods["burrows"].Filename, DisabledSuffix) {
		t.Error("burrows disabled unexpectedly")
	}

	// Full re-apply with an empty set restores everything.
	if err := p.ApplyDisabled(nil); err != nil {
		t.Fatalf("ApplyDisabled(nil) error = %v", err)
	}
	if p.Mods["alib"].Filename != "alib-1.0.jar" {
		t.Errorf("alib Filename = %q after restore", p.Mods["alib"].Filename)
	}
}

func TestOverrideVersion(t *testing.T) {
	p := loadTestPack(t, map[string]jarSpec{
		"alib-1.0.jar":   {toml: simpleToml("alib", "1.0")},
		"chutes-0.9.jar": {toml: simpleToml("chutes", "0.9", "alib|[2.0,)|true")},
	})

	if report := p.Validate(); report.Passed {
		t.Fatal("expected a mismatch before the override")
	}
	p.Mods["alib"].Errors = nil

	if err := p.OverrideVersion("alib", "2.1"); err != nil {
		t.Fatalf("OverrideVersion() error = %v", err)
	}
	if report := p.Validate(); !report.Passed {
		t.Errorf("Validate() still fails after override: %+v", report.Mods)
	}

	// Overriding an absent mod injects a placeholder.
	if err := p.OverrideVersion("ghost", "3.0"); err != nil {
		t.Fatalf("OverrideVersion(ghost) error = %v", err)
	}
	if ghost := p.Mods["ghost"]; ghost == nil || ghost.Installed() {
		t.Errorf("ghost = %+v, want an uninstalled placeholder", p.Mods["ghost"])
	}

	if err := p.OverrideVersion("alib", "not??valid"); err == nil {
		t.Error("OverrideVersion() accepted an unparseable version")
	}
}

func TestLieDependencies(t *testing.T) {
	p := loadTestPack(t, map[string]jarSpec{
		"alib-1.0.jar":   {toml: simpleToml("alib", "1.0")},
		"chutes-0.9.jar": {toml: simpleToml("chutes", "0.9", "alib|[2.0,)|true")},
	})

	p.LieDependencies("chutes")

	report := p.Validate()
	if !report.Passed {
		t.Errorf("Validate() fails after LieDependencies: %+v", report.Mods)
	}
	if got := p.Mods["chutes"].Dependencies[0].RangeString(); got != "[1.0,1.0]" {
		t.Errorf("rewritten range = %q, want exact pin", got)
	}
}
