package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// ProjectKind selects how the compiled objects are combined into the target.
type ProjectKind int

const (
	// Executable links the objects into a program.
	Executable ProjectKind = iota
	// StaticLibrary archives the objects.
	StaticLibrary
	// SharedLibrary links the objects into a shared object.
	SharedLibrary
)

// String returns the configuration name of the kind.
func (k ProjectKind) String() string {
	switch k {
	case StaticLibrary:
		return "static"
	case SharedLibrary:
		return "shared"
	default:
		return "executable"
	}
}

// IsLibrary reports whether the target is installed under lib rather than bin.
func (k ProjectKind) IsLibrary() bool {
	return k == StaticLibrary || k == SharedLibrary
}

// ParseProjectKind resolves a kind from its configuration name. An empty name selects Executable.
func ParseProjectKind(s string) (ProjectKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "executable", "exe", "bin":
		return Executable, nil
	case "static", "static_library", "archive":
		return StaticLibrary, nil
	case "shared", "shared_library", "dylib":
		return SharedLibrary, nil
	default:
		return Executable, zerr.With(zerr.Wrap(ErrInvalidProjectKind, "unknown project kind"), "kind", s)
	}
}

// Toolchain holds the external commands, already split into argv words.
type Toolchain struct {
	Compiler      []string
	CompilerFlags []string
	Linker        []string
	LinkerFlags   []string
	Archiver      []string
	// Environment overrides the inherited environment of every toolchain process.
	Environment map[string]string
}

// Layout names the directories the build reads from and writes to.
type Layout struct {
	SourceDir       string
	BuildDir        string
	DistDir         string
	ObjectExtension string
	InstallPrefix   string
}

// Default layout and toolchain values.
const (
	DefaultOutput          = "output"
	DefaultSourceDir       = "src"
	DefaultBuildDir        = "build"
	DefaultDistDir         = "dist"
	DefaultObjectExtension = "o"
	DefaultInstallPrefix   = "/usr"
	DefaultCompiler        = "cc -c"
	DefaultCompilerFlags   = "-O2"
	DefaultLinker          = "ld"
	DefaultArchiver        = "ar"
)

// Project is the configuration of a single build. It is constructed once and
// shared read-only by every component for the duration of a command.
type Project struct {
	Output    string
	Kind      ProjectKind
	Platform  Platform
	Toolchain Toolchain
	Layout    Layout
	// Sources lists unit patterns relative to Layout.SourceDir, in declaration order.
	Sources []string
	// Headers lists files relative to Layout.SourceDir exported to the include directory.
	Headers []string
}

// TargetName returns the output file name including the platform suffix.
func (p *Project) TargetName() string {
	return p.Output + p.Platform.Suffix(p.Kind)
}

// TargetDir returns the distribution directory holding the target.
func (p *Project) TargetDir() string {
	return p.Platform.Join(p.Layout.DistDir, targetSubdir(p.Kind))
}

// TargetPath returns the path of the linked or archived target.
func (p *Project) TargetPath() string {
	return p.Platform.Join(p.TargetDir(), p.TargetName())
}

// IncludeDir returns the distribution directory for exported headers.
func (p *Project) IncludeDir() string {
	return p.Platform.Join(p.Layout.DistDir, "include")
}

// TreeDirs returns the output directories created before a build, in creation order.
func (p *Project) TreeDirs() []string {
	return []string{
		p.Layout.BuildDir,
		p.Layout.DistDir,
		p.IncludeDir(),
		p.Platform.Join(p.Layout.DistDir, "bin"),
		p.Platform.Join(p.Layout.DistDir, "lib"),
	}
}

// SourcePath returns the path handed to the compiler for unit.
func (p *Project) SourcePath(unit CompilationUnit) string {
	return p.Platform.Join(p.Layout.SourceDir, unit.String())
}

// HeaderSource returns the source tree location of an exported header.
func (p *Project) HeaderSource(header string) string {
	return filepath.Join(p.Layout.SourceDir, header)
}

// HeaderExport returns the distribution location of an exported header.
func (p *Project) HeaderExport(header string) string {
	return filepath.Join(p.IncludeDir(), header)
}

// Prefix returns override when set and the configured install prefix otherwise.
func (p *Project) Prefix(override string) string {
	if override != "" {
		return override
	}
	return p.Layout.InstallPrefix
}

// InstallTargetPath returns where install places the target under prefix.
func (p *Project) InstallTargetPath(prefix string) string {
	return filepath.Join(prefix, targetSubdir(p.Kind), p.TargetName())
}

// InstallHeaderPath returns where install places header under prefix.
func (p *Project) InstallHeaderPath(prefix, header string) string {
	return filepath.Join(prefix, "include", header)
}

func targetSubdir(kind ProjectKind) string {
	if kind.IsLibrary() {
		return "lib"
	}
	return "bin"
}
