package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

const temporaryFilePatternSuffixConstant = ".tmp-*"

// OSFileSystem implements shared.FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Rename renames a path.
func (OSFileSystem) Rename(oldPath string, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// MkdirAll ensures a directory hierarchy exists with the provided permissions.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}

// ReadFile reads file contents.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile replaces the file contents through a sibling temporary file so readers never observe a partial write.
func (OSFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	temporaryFile, createError := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+temporaryFilePatternSuffixConstant)
	if createError != nil {
		return createError
	}
	temporaryPath := temporaryFile.Name()

	if _, writeError := temporaryFile.Write(data); writeError != nil {
		temporaryFile.Close()
		os.Remove(temporaryPath)
		return writeError
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		os.Remove(temporaryPath)
		return closeError
	}
	if chmodError := os.Chmod(temporaryPath, permissions); chmodError != nil {
		os.Remove(temporaryPath)
		return chmodError
	}
	if renameError := os.Rename(temporaryPath, path); renameError != nil {
		os.Remove(temporaryPath)
		return renameError
	}
	return nil
}
