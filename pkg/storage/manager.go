package storage

import (
	"os"
	"path/filepath"

	errs "isicfetch/pkg/errors"
)

// ImageExt is the extension given to every saved image
const ImageExt = ".jpg"

// Manager writes downloaded images into an output directory
type Manager struct {
	outputDir string
}

// NewManager creates a storage manager for outputDir. The directory is not
// created; use EnsureDir for that.
func NewManager(outputDir string) *Manager {
	return &Manager{outputDir: outputDir}
}

// EnsureDir creates dir and its parents if they do not exist
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errs.Wrap(errs.ErrorTypeFilesystem, err, "failed to create output directory %s", dir)
	}
	return nil
}

// Path returns the file path an image with the given name is written to
func (m *Manager) Path(name string) string {
	return filepath.Join(m.outputDir, name+ImageExt)
}

// SaveImage writes data to <outputDir>/<name>.jpg, truncating any existing
// file. A failed write may leave a partial file behind.
func (m *Manager) SaveImage(data []byte, name string) (string, error) {
	path := m.Path(name)

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", errs.Wrap(errs.ErrorTypeFilesystem, err, "failed to create %s", path)
	}

	_, err = out.Write(data)
	closeErr := out.Close()

	if err != nil {
		return "", errs.Wrap(errs.ErrorTypeFilesystem, err, "failed to write %s", path)
	}
	if closeErr != nil {
		return "", errs.Wrap(errs.ErrorTypeFilesystem, closeErr, "failed to close %s", path)
	}

	return path, nil
}
