// Package filesystem abstracts the file operations used while preparing a project
// directory so that scaffold and repository checks can run against fakes in tests.
package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	writeProbeFileNameConstant = ".reposeed-write-probe"

	// DirectoryPermissions applies to directories created for a project.
	DirectoryPermissions fs.FileMode = 0o755
	// FilePermissions applies to files written into a project.
	FilePermissions fs.FileMode = 0o644
)

// FileSystem describes the operations reposeed performs on local paths.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
	MkdirAll(path string, permissions fs.FileMode) error
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, permissions fs.FileMode) error
	Remove(path string) error
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Abs resolves an absolute path.
func (OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// MkdirAll ensures a directory hierarchy exists with the provided permissions.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}

// ReadFile reads file contents.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file with the supplied permissions.
func (OSFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	return os.WriteFile(path, data, permissions)
}

// Remove deletes a file or an empty directory.
func (OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

// Exists reports whether path exists. Errors other than not-exist count as existing so
// callers never overwrite something they could not inspect.
func Exists(fileSystem FileSystem, path string) bool {
	_, statError := fileSystem.Stat(path)
	if statError == nil {
		return true
	}
	return !errors.Is(statError, fs.ErrNotExist)
}

// IsDirectory reports whether path exists and is a directory.
func IsDirectory(fileSystem FileSystem, path string) bool {
	fileInfo, statError := fileSystem.Stat(path)
	if statError != nil {
		return false
	}
	return fileInfo.IsDir()
}

// IsWritable reports whether a file can be created inside directory.
func IsWritable(fileSystem FileSystem, directory string) bool {
	probePath := filepath.Join(directory, writeProbeFileNameConstant)
	if writeError := fileSystem.WriteFile(probePath, nil, FilePermissions); writeError != nil {
		return false
	}
	_ = fileSystem.Remove(probePath)
	return true
}
