package storage

import (
	"io"
	"io/fs"
	"os"
)

// FileSystem defines the file operations the generator needs.
// Wordlist lookup, worker sinks, and the output merger all go through it,
// which keeps IO failures injectable in tests.
type FileSystem interface {
	// Stat returns file info for the given path
	Stat(name string) (fs.FileInfo, error)

	// Open opens the named file for reading
	Open(name string) (io.ReadCloser, error)

	// Create creates or truncates the named file for writing
	Create(name string) (io.WriteCloser, error)

	// Rename renames (moves) a file from oldpath to newpath
	Rename(oldpath, newpath string) error

	// Remove removes the named file
	Remove(name string) error

	// MkdirTemp creates a new temporary directory and returns its path
	MkdirTemp(dir, pattern string) (string, error)

	// RemoveAll removes path and any children it contains
	RemoveAll(path string) error
}

// OSFileSystem is the default implementation using the os package
type OSFileSystem struct{}

// Stat implements FileSystem.Stat
func (fs *OSFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// Open implements FileSystem.Open
func (fs *OSFileSystem) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// Create implements FileSystem.Create
func (fs *OSFileSystem) Create(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// Rename implements FileSystem.Rename
func (fs *OSFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Remove implements FileSystem.Remove
func (fs *OSFileSystem) Remove(name string) error {
	return os.Remove(name)
}

// MkdirTemp implements FileSystem.MkdirTemp
func (fs *OSFileSystem) MkdirTemp(dir, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

// RemoveAll implements FileSystem.RemoveAll
func (fs *OSFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
