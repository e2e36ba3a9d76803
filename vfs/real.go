package vfs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// RealDir is a Dir backed by the local filesystem.
type RealDir struct {
	path string
}

// NewRealDir returns a Dir rooted at the given filesystem path.
func NewRealDir(path string) *RealDir {
	return &RealDir{path: path}
}

// Sub returns the named subdirectory.
func (d *RealDir) Sub(name string) *RealDir {
	return &RealDir{path: filepath.Join(d.path, name)}
}

// Name returns the directory's base name.
func (d *RealDir) Name() string { return filepath.Base(d.path) }

// Path returns the directory's full path.
func (d *RealDir) Path() string { return d.path }

// List returns the directory's children.
func (d *RealDir) List() ([]Entry, error) {
	items, err := os.ReadDir(d.path)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", d.path)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, Entry{Name: item.Name(), IsDir: item.IsDir()})
	}
	return entries, nil
}

// Has reports whether the named entry exists on disk.
func (d *RealDir) Has(name string) bool {
	_, err := os.Stat(filepath.Join(d.path, name))
	return err == nil
}

// File returns a handle for the named file.
func (d *RealDir) File(name string) File {
	return &RealFile{dir: d, name: name}
}

// RealFile is a File backed by the local filesystem.
type RealFile struct {
	dir  *RealDir
	name string
}

// Name returns the file's name.
func (f *RealFile) Name() string { return f.name }

// Path returns the file's full path.
func (f *RealFile) Path() string { return filepath.Join(f.dir.path, f.name) }

// Size returns the file size in bytes.
func (f *RealFile) Size() (int64, error) {
	info, err := os.Stat(f.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.Wrap(ErrNotFound, f.Path())
		}
		return 0, errors.Wrapf(err, "stat %s", f.Path())
	}
	return info.Size(), nil
}

// Open returns a reader over the file's contents.
func (f *RealFile) Open() (io.ReadCloser, error) {
	file, err := os.Open(f.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNotFound, f.Path())
		}
		return nil, errors.Wrapf(err, "open %s", f.Path())
	}
	return file, nil
}

// Rename renames the file within its directory.
func (f *RealFile) Rename(newName string) error {
	oldPath := f.Path()
	newPath := filepath.Join(f.dir.path, newName)

	if err := os.Rename(oldPath, newPath); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(ErrNotFound, oldPath)
		}
		return errors.Wrapf(err, "rename %s", oldPath)
	}
	f.name = newName
	return nil
}
