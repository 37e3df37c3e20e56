package fs

import (
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

// dirPerm is the mode used for every directory forge creates.
const dirPerm = 0o755

// FileSystem implements ports.FileSystem on the host file system.
type FileSystem struct{}

// NewFileSystem creates a new FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

// MkdirAll creates path and any missing parents.
func (f *FileSystem) MkdirAll(path string) error {
	if err := os.MkdirAll(path, dirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", path)
	}
	return nil
}

// Copy copies the regular file src to dst, preserving its permission bits.
func (f *FileSystem) Copy(src, dst string) (err error) {
	in, err := os.Open(src) //nolint:gosec // path comes from the project file
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open source file"), "path", src)
	}
	defer func() {
		_ = in.Close()
	}()

	info, err := in.Stat()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat source file"), "path", src)
	}
	if !info.Mode().IsRegular() {
		return zerr.With(zerr.New("source is not a regular file"), "path", src)
	}

	if err := f.MkdirAll(filepath.Dir(dst)); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec // destination derived from the project layout
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination file"), "path", dst)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = zerr.With(zerr.Wrap(cerr, "failed to close destination file"), "path", dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, "failed to copy file"), "src", src), "dst", dst)
	}
	return nil
}

// Remove deletes a single file. The returned error matches fs.ErrNotExist when
// the file is already gone.
func (f *FileSystem) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove file"), "path", path)
	}
	return nil
}
