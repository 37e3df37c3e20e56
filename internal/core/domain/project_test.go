package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/core/domain"
)

func TestProject_TargetPath(t *testing.T) {
	tests := []struct {
		name     string
		kind     domain.ProjectKind
		platform domain.Platform
		want     string
	}{
		{"PosixExecutable", domain.Executable, domain.PlatformPOSIX, "dist/bin/app"},
		{"PosixStatic", domain.StaticLibrary, domain.PlatformPOSIX, "dist/lib/app.a"},
		{"PosixShared", domain.SharedLibrary, domain.PlatformPOSIX, "dist/lib/app.so"},
		{"WindowsExecutable", domain.Executable, domain.PlatformWindows, `dist\bin\app.exe`},
		{"WindowsStatic", domain.StaticLibrary, domain.PlatformWindows, `dist\lib\app.lib`},
		{"WindowsShared", domain.SharedLibrary, domain.PlatformWindows, `dist\lib\app.dll`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := posixProject()
			p.Kind = tt.kind
			p.Platform = tt.platform

			assert.Equal(t, tt.want, p.TargetPath())
		})
	}
}

func TestProject_TreeDirs(t *testing.T) {
	p := posixProject()

	assert.Equal(t, []string{"build", "dist", "dist/include", "dist/bin", "dist/lib"}, p.TreeDirs())
}

func TestProject_InstallPaths(t *testing.T) {
	p := posixProject()
	p.Kind = domain.SharedLibrary

	assert.Equal(t, "/usr", p.Prefix(""))
	assert.Equal(t, "/opt", p.Prefix("/opt"))
	assert.Equal(t, filepath.Join("/opt", "lib", "app.so"), p.InstallTargetPath("/opt"))
	assert.Equal(t, filepath.Join("/opt", "include", "api", "x.h"), p.InstallHeaderPath("/opt", "api/x.h"))
	assert.Equal(t, filepath.Join("src", "api", "x.h"), p.HeaderSource("api/x.h"))
	assert.Equal(t, filepath.Join("dist", "include", "api", "x.h"), p.HeaderExport("api/x.h"))
	assert.Equal(t, "src/lib/x.c", p.SourcePath("lib/x.c"))
}

func TestParseProjectKind(t *testing.T) {
	tests := []struct {
		in   string
		want domain.ProjectKind
	}{
		{"", domain.Executable},
		{"executable", domain.Executable},
		{"Static", domain.StaticLibrary},
		{"shared", domain.SharedLibrary},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseProjectKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, must(domain.ParseProjectKind(got.String())))
		})
	}

	_, err := domain.ParseProjectKind("plugin")
	require.ErrorIs(t, err, domain.ErrInvalidProjectKind)
}

func TestParsePlatform(t *testing.T) {
	p, err := domain.ParsePlatform("windows")
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformWindows, p)
	assert.False(t, p.SupportsInstall)

	p, err = domain.ParsePlatform("posix")
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformPOSIX, p)

	p, err = domain.ParsePlatform("")
	require.NoError(t, err)
	assert.Equal(t, domain.HostPlatform(), p)

	_, err = domain.ParsePlatform("plan9")
	require.ErrorIs(t, err, domain.ErrInvalidPlatform)
}

func TestPlatform_Join(t *testing.T) {
	assert.Equal(t, "a/b/c", domain.PlatformPOSIX.Join("a/", "b", "", "c"))
	assert.Equal(t, "/bin", domain.PlatformPOSIX.Join("/", "bin"))
	assert.Equal(t, `a\b`, domain.PlatformWindows.Join(`a\`, "b"))
}

func TestStepStatus_Line(t *testing.T) {
	assert.Equal(t, "Removing build/a.c.o... [OK]", domain.StepOK.Line("Removing build/a.c.o"))
	assert.Equal(t, "Removing x... [SKIPPED]", domain.StepSkipped.Line("Removing x"))
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
