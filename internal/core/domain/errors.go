package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

// ExitCommandNotFound is the process exit code reported for an unknown command name.
const ExitCommandNotFound = 127

// exitCodeKey is the metadata key under which adapters record a process exit status.
const exitCodeKey = "exit_code"

var (
	// ErrCommandNotFound is returned when a command name does not match any registered command.
	ErrCommandNotFound = zerr.New("command not found")

	// ErrCompilerFailure is returned when the compiler exits with a non-zero status for a unit.
	ErrCompilerFailure = zerr.New("compiler failure")

	// ErrLinkerFailure is returned when the linker or archiver exits with a non-zero status.
	ErrLinkerFailure = zerr.New("linker failure")

	// ErrCopyFailure is returned when a file could not be copied.
	ErrCopyFailure = zerr.New("copy failure")

	// ErrDirectoryCreationFailure is returned when an output directory could not be created.
	ErrDirectoryCreationFailure = zerr.New("directory creation failure")

	// ErrConfigReadFailed is returned when the project file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the project file is malformed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidProjectKind is returned for an unrecognized project kind.
	ErrInvalidProjectKind = zerr.New("invalid project kind")

	// ErrInvalidPlatform is returned for an unrecognized platform flag set.
	ErrInvalidPlatform = zerr.New("invalid platform")

	// ErrSourceNotFound is returned when a source path or pattern matches no file.
	ErrSourceNotFound = zerr.New("source not found")

	// ErrNoSources is returned when a project resolves to zero compilation units.
	ErrNoSources = zerr.New("no compilation units")

	// ErrArtifactMismatch is returned when units and artifacts are not index-aligned.
	ErrArtifactMismatch = zerr.New("unit and artifact lists differ in length")

	// ErrInvalidCommandTable is returned when the command table cannot be dispatched.
	ErrInvalidCommandTable = zerr.New("invalid command table")
)

// ExitCode maps an error returned by a command to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrCommandNotFound) {
		return ExitCommandNotFound
	}
	if code, ok := exitCodeOf(err); ok && code > 0 {
		return code
	}
	return 1
}

// exitCodeOf returns the first exit status recorded anywhere in the error tree.
func exitCodeOf(err error) (int, bool) {
	if err == nil {
		return 0, false
	}

	if z, ok := err.(*zerr.Error); ok {
		if code, ok := z.Metadata()[exitCodeKey].(int); ok {
			return code, true
		}
	}

	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if code, ok := exitCodeOf(inner); ok {
				return code, true
			}
		}
	case interface{ Unwrap() error }:
		return exitCodeOf(u.Unwrap())
	}
	return 0, false
}

// WithExitCode attaches a process exit status to err.
func WithExitCode(err error, code int) error {
	return zerr.With(err, exitCodeKey, code)
}
