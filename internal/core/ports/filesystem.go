package ports

// FileSystem defines the file operations used around a build.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// MkdirAll creates path and any missing parents. Existing directories are not an error.
	MkdirAll(path string) error
	// Copy copies the regular file src to dst, creating dst's parent directories.
	Copy(src, dst string) error
	// Remove deletes a single file.
	Remove(path string) error
}
