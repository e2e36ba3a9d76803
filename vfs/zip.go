package vfs

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// ZipDir is a Dir over the members of a zip archive (a mod jar). Nested
// archives are opened with OpenNested, composing recursively for
// jars-within-jars.
type ZipDir struct {
	name   string
	parent string // path of the enclosing directory or archive
	reader *zip.Reader
	closer io.Closer
}

// OpenZip opens an archive file from a Dir as a ZipDir.
func OpenZip(dir Dir, name string) (*ZipDir, error) {
	f := dir.File(name)
	data, err := ReadAll(f)
	if err != nil {
		return nil, err
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrapf(err, "open archive %s", f.Path())
	}
	return &ZipDir{name: name, parent: dir.Path(), reader: reader}, nil
}

// OpenNested opens an archive member of d as its own ZipDir.
func (d *ZipDir) OpenNested(name string) (*ZipDir, error) {
	data, err := ReadAll(d.File(name))
	if err != nil {
		return nil, err
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrapf(err, "open nested archive %s", path.Join(d.Path(), name))
	}
	return &ZipDir{name: name, parent: d.Path(), reader: reader}, nil
}

// Close releases the underlying archive handle, if any.
func (d *ZipDir) Close() error {
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}

// Name returns the archive's file name.
func (d *ZipDir) Name() string { return d.name }

// Path returns the archive's full path, including enclosing archives.
func (d *ZipDir) Path() string { return path.Join(d.parent, d.name) }

// List returns the archive's file members. Directory entries are skipped,
// matching the flat member naming zip archives use.
func (d *ZipDir) List() ([]Entry, error) {
	var entries []Entry
	for _, member := range d.reader.File {
		if member.FileInfo().IsDir() {
			continue
		}
		entries = append(entries, Entry{Name: member.Name})
	}
	return entries, nil
}

// Has reports whether the named member exists, as a file or as a
// directory prefix.
func (d *ZipDir) Has(name string) bool {
	if d.member(name) != nil {
		return true
	}
	prefix := strings.TrimSuffix(name, "/") + "/"
	for _, member := range d.reader.File {
		if strings.HasPrefix(member.Name, prefix) {
			return true
		}
	}
	return false
}

// File returns a handle for the named member.
func (d *ZipDir) File(name string) File {
	return &ZipFile{dir: d, name: name}
}

func (d *ZipDir) member(name string) *zip.File {
	for _, member := range d.reader.File {
		if member.Name == name {
			return member
		}
	}
	return nil
}

// ZipFile is a File over a single zip archive member.
type ZipFile struct {
	dir  *ZipDir
	name string
}

// Name returns the member's name within the archive.
func (f *ZipFile) Name() string { return f.name }

// Path returns the member's full path, including enclosing archives.
func (f *ZipFile) Path() string { return path.Join(f.dir.Path(), f.name) }

// Size returns the member's uncompressed size.
func (f *ZipFile) Size() (int64, error) {
	member := f.dir.member(f.name)
	if member == nil {
		return 0, errors.Wrap(ErrNotFound, f.Path())
	}
	return int64(member.UncompressedSize64), nil
}

// Open returns a reader over the member's contents.
func (f *ZipFile) Open() (io.ReadCloser, error) {
	member := f.dir.member(f.name)
	if member == nil {
		return nil, errors.Wrap(ErrNotFound, f.Path())
	}

	rc, err := member.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", f.Path())
	}
	return rc, nil
}

// Rename always fails: archive members cannot be renamed in place.
func (f *ZipFile) Rename(string) error {
	return errors.Wrap(ErrReadOnly, f.Path())
}
