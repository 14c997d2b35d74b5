package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to path+".tmp", fsyncs it and renames it over
// path, so a concurrent reader sees either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmpFile := path + ".tmp"
	file, err := os.OpenFile(tmpFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmpFile, err)
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("writing %s: %w", tmpFile, err)
	}
	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("syncing %s: %w", tmpFile, err)
	}
	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("closing %s: %w", tmpFile, err)
	}
	// OpenFile honours the umask; make the final mode exact.
	if err = os.Chmod(tmpFile, perm); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("chmod %s: %w", tmpFile, err)
	}
	if err = os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("renaming %s into place: %w", path, err)
	}

	if dir, err := os.Open(filepath.Dir(path)); err == nil {
		_ = dir.Sync()
		dir.Close()
	}
	return nil
}

// ReadFileIfExists returns nil data and no error when path is missing.
func ReadFileIfExists(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}
