package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/raystack/salt/log"
	"github.com/spf13/afero"
)

// DirectoryResetter clears and recreates the destination directory before
// any fetch happens
type DirectoryResetter struct {
	fs     afero.Fs
	logger log.Logger
}

// NewDirectoryResetter initializes a resetter on top of the given file system
func NewDirectoryResetter(fs afero.Fs, logger log.Logger) (*DirectoryResetter, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	return &DirectoryResetter{fs: fs, logger: logger}, nil
}

// Reset removes and recreates dirPath when requested. The empty path and
// the filesystem root are rejected before anything is touched.
func (r *DirectoryResetter) Reset(dirPath string, requested bool) error {
	if !requested {
		r.logger.Info(fmt.Sprintf("not resetting pipelines dir [%s]", dirPath))
		return nil
	}
	if dirPath == "" || filepath.Clean(dirPath) == string(filepath.Separator) {
		return fmt.Errorf("%w: [%s]", ErrUnsafeDestination, dirPath)
	}
	exists, err := afero.DirExists(r.fs, dirPath)
	if err != nil {
		return fmt.Errorf("error inspecting [%s]: %w", dirPath, err)
	}
	if !exists {
		r.logger.Info(fmt.Sprintf("pipelines dir [%s] does not exist, nothing to reset", dirPath))
		return nil
	}
	r.logger.Info(fmt.Sprintf("resetting pipelines dir [%s]", dirPath))
	if err := r.fs.RemoveAll(dirPath); err != nil {
		return fmt.Errorf("error removing [%s]: %w", dirPath, err)
	}
	if err := r.fs.MkdirAll(dirPath, 0o755); err != nil {
		return fmt.Errorf("error recreating [%s]: %w", dirPath, err)
	}
	return nil
}
