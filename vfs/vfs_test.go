package vfs

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeZip(t *testing.T, members map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range members {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create zip member %s: %v", name, err)
		}
		if _, err := f.Write(data); err != nil {
			t.Fatalf("write zip member %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestRealDirListAndRead(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.jar"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, "logs"), 0o755); err != nil {
		t.Fatal(err)
	}

	dir := NewRealDir(root)
	entries, err := dir.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() = %d entries, want 2", len(entries))
	}

	if !dir.Has("a.jar") {
		t.Error("Has(a.jar) = false, want true")
	}
	if dir.Has("missing.jar") {
		t.Error("Has(missing.jar) = true, want false")
	}

	data, err := ReadAll(dir.File("a.jar"))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("ReadAll() = %q, want hello", data)
	}
}

func TestRealFileNotFound(t *testing.T) {
	dir := NewRealDir(t.TempDir())

	_, err := ReadAll(dir.File("nope.jar"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadAll(missing) error = %v, want ErrNotFound", err)
	}

	if err := dir.File("nope.jar").Rename("other.jar"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Rename(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRealFileRenameRoundTrip(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "mod.jar"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	dir := NewRealDir(root)
	f := dir.File("mod.jar")

	if err := f.Rename("mod.jar.disabled"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if dir.Has("mod.jar") || !dir.Has("mod.jar.disabled") {
		t.Fatal("disable rename not applied")
	}

	if err := f.Rename("mod.jar"); err != nil {
		t.Fatalf("Rename() back error = %v", err)
	}
	if !dir.Has("mod.jar") || dir.Has("mod.jar.disabled") {
		t.Error("enable rename did not restore the original name")
	}
}

func TestZipDirNested(t *testing.T) {
	inner := writeZip(t, map[string][]byte{
		"META-INF/mods.toml": []byte("inner"),
	})
	outer := writeZip(t, map[string][]byte{
		"inner.jar":  inner,
		"plain.txt":  []byte("content"),
		"META-INF/x": []byte("y"),
	})

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "outer.jar"), outer, 0o644); err != nil {
		t.Fatal(err)
	}

	dir, err := OpenZip(NewRealDir(root), "outer.jar")
	if err != nil {
		t.Fatalf("OpenZip() error = %v", err)
	}

	if !dir.Has("plain.txt") {
		t.Error("Has(plain.txt) = false, want true")
	}
	if !dir.Has("META-INF") {
		t.Error("Has(META-INF) = false, want true for directory prefix")
	}

	nested, err := dir.OpenNested("inner.jar")
	if err != nil {
		t.Fatalf("OpenNested() error = %v", err)
	}

	data, err := ReadAll(nested.File("META-INF/mods.toml"))
	if err != nil {
		t.Fatalf("ReadAll(nested member) error = %v", err)
	}
	if string(data) != "inner" {
		t.Errorf("nested member = %q, want inner", data)
	}

	if _, err := ReadAll(dir.File("absent")); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadAll(absent member) error = %v, want ErrNotFound", err)
	}
	if err := dir.File("plain.txt").Rename("other"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Rename(zip member) error = %v, want ErrReadOnly", err)
	}
}

func TestContentHash(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a"), []byte("same"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "b"), []byte("same"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "c"), []byte("different"), 0o644); err != nil {
		t.Fatal(err)
	}

	dir := NewRealDir(root)
	ha, err := ContentHash(dir.File("a"))
	if err != nil {
		t.Fatalf("ContentHash() error = %v", err)
	}
	hb, _ := ContentHash(dir.File("b"))
	hc, _ := ContentHash(dir.File("c"))

	if ha != hb {
		t.Errorf("identical content hashed differently: %s vs %s", ha, hb)
	}
	if ha == hc {
		t.Error("different content hashed identically")
	}
}
