// Package vfs provides uniform read access to mod files whether they live in
// a plain directory or inside (possibly nested) jar archives.
package vfs

import (
	"crypto/md5"
	"encoding/hex"
	"io"

	"github.com/pkg/errors"
)

// ErrNotFound indicates a file or directory entry that does not exist.
var ErrNotFound = errors.New("file not found")

// ErrReadOnly indicates a mutation attempted on an archive member.
var ErrReadOnly = errors.New("archive members are read-only")

// hashBufSize is the read chunk size used when hashing file contents.
const hashBufSize = 64 * 1024

// Entry is one child of a directory listing.
type Entry struct {
	Name  string
	IsDir bool
}

// File is a single readable file.
type File interface {
	// Name returns the file's name relative to its directory.
	Name() string

	// Path returns the full path, including any enclosing archives.
	Path() string

	// Size returns the file size in bytes.
	Size() (int64, error)

	// Open returns a reader over the file's contents.
	Open() (io.ReadCloser, error)

	// Rename renames the file in place. Fails with ErrNotFound if the file
	// is absent and ErrReadOnly inside an archive.
	Rename(newName string) error
}

// Dir is a directory of files, real or archive-backed.
type Dir interface {
	// Name returns the directory's name.
	Name() string

	// Path returns the full path, including any enclosing archives.
	Path() string

	// List returns the directory's children in listing order.
	List() ([]Entry, error)

	// Has reports whether the named entry exists.
	Has(name string) bool

	// File returns a handle for the named file. The file need not exist
	// yet; reads and renames report ErrNotFound then.
	File(name string) File
}

// ReadAll reads the whole contents of a file.
func ReadAll(f File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", f.Path())
	}
	return data, nil
}

// ContentHash returns the md5 hex digest of a file's contents. The digest is
// used for identity and dedup checks, not security.
func ContentHash(f File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	h := md5.New()
	buf := make([]byte, hashBufSize)
	if _, err := io.CopyBuffer(h, rc, buf); err != nil {
		return "", errors.Wrapf(err, "hash %s", f.Path())
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
