package render

import (
	"os"
	"path/filepath"

	"github.com/Sternrassler/awesome-lists/pkg/harvest"
)

// WriteFile replaces the file at path with doc. The document is written to a
// temporary file in the same directory and renamed into place, so a failed
// write leaves any existing file untouched. Failures are returned as
// harvest write errors.
func WriteFile(path, doc string) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return harvest.WriteError(path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return harvest.WriteError(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return harvest.WriteError(path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return harvest.WriteError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return harvest.WriteError(path, err)
	}

	return nil
}
