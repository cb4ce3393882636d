package io

import (
	"fmt"
	"os"
	"path/filepath"
)

// OSFileSystem reads and writes files on the local disk. Writes are atomic:
// a reader sees either the old content or the new one, never a mix.
type OSFileSystem struct{}

func (OSFileSystem) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSFileSystem) Write(path string, data []byte) error {
	return WriteFileAtomic(path, data, 0644)
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it over path. An existing file keeps its permission bits.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	if info, statErr := os.Stat(path); statErr == nil {
		if !info.Mode().IsRegular() { return fmt.Errorf("%s is not a regular file", path) }
		perm = info.Mode().Perm()
	}

	dir, base := filepath.Split(path)
	if dir == "" { dir = "." }

	tmp, err := os.CreateTemp(dir, "."+base+".kobi-*")
	if err != nil { return err }
	defer func() {
		if err != nil { os.Remove(tmp.Name()) }
	}()

	if _, err = tmp.Write(data); err != nil { tmp.Close(); return err }
	if err = tmp.Sync(); err != nil { tmp.Close(); return err }
	if err = tmp.Close(); err != nil { return err }
	if err = os.Chmod(tmp.Name(), perm); err != nil { return err }
	return os.Rename(tmp.Name(), path)
}
