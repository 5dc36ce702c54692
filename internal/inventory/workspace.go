package inventory

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	ownerWritePermissionConstant     = 0o200
	ownerDirectoryPermissionConstant = 0o700
)

// removeDirectory deletes directoryPath recursively. Read-only entries, such as
// git pack files, are made writable first so removal succeeds on every platform.
func removeDirectory(directoryPath string) error {
	if _, statError := os.Lstat(directoryPath); statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return nil
		}
		return statError
	}

	walkError := filepath.WalkDir(directoryPath, func(entryPath string, entry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return nil
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		entryInfo, infoError := entry.Info()
		if infoError != nil {
			return nil
		}
		requiredPermission := fs.FileMode(ownerWritePermissionConstant)
		if entry.IsDir() {
			requiredPermission = ownerDirectoryPermissionConstant
		}
		if entryInfo.Mode().Perm()&requiredPermission != requiredPermission {
			_ = os.Chmod(entryPath, entryInfo.Mode().Perm()|requiredPermission)
		}
		return nil
	})
	if walkError != nil {
		return walkError
	}

	return os.RemoveAll(directoryPath)
}
