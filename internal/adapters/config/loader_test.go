package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/config"
	"go.trai.ch/forge/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "forge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Success(t *testing.T) {
	path := writeConfig(t, `
project:
  output: libmath
  kind: static
  platform: posix
toolchain:
  compiler: "clang -c"
  compiler_flags: "-O3 -Wall -DNAME='\"forge\"'"
  archiver: llvm-ar
  environment:
    CCACHE_DISABLE: "1"
layout:
  source_dir: lib
  build_dir: out/obj
  object_extension: .obj
sources:
  - add.c
  - "vec/*.c"
headers:
  - math.h
`)

	p, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "libmath", p.Output)
	assert.Equal(t, domain.StaticLibrary, p.Kind)
	assert.Equal(t, domain.PlatformPOSIX, p.Platform)
	assert.Equal(t, []string{"clang", "-c"}, p.Toolchain.Compiler)
	assert.Equal(t, []string{"-O3", "-Wall", `-DNAME="forge"`}, p.Toolchain.CompilerFlags)
	assert.Equal(t, []string{"ld"}, p.Toolchain.Linker)
	assert.Empty(t, p.Toolchain.LinkerFlags)
	assert.Equal(t, []string{"llvm-ar"}, p.Toolchain.Archiver)
	assert.Equal(t, map[string]string{"CCACHE_DISABLE": "1"}, p.Toolchain.Environment)
	assert.Equal(t, domain.Layout{
		SourceDir:       "lib",
		BuildDir:        "out/obj",
		DistDir:         "dist",
		ObjectExtension: "obj",
		InstallPrefix:   "/usr",
	}, p.Layout)
	assert.Equal(t, []string{"add.c", "vec/*.c"}, p.Sources)
	assert.Equal(t, []string{"math.h"}, p.Headers)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "sources: [main.c]\n")

	p, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "output", p.Output)
	assert.Equal(t, domain.Executable, p.Kind)
	assert.Equal(t, domain.HostPlatform(), p.Platform)
	assert.Equal(t, []string{"cc", "-c"}, p.Toolchain.Compiler)
	assert.Equal(t, []string{"-O2"}, p.Toolchain.CompilerFlags)
	assert.Equal(t, []string{"ld"}, p.Toolchain.Linker)
	assert.Equal(t, []string{"ar"}, p.Toolchain.Archiver)
	assert.Equal(t, "src", p.Layout.SourceDir)
	assert.Equal(t, "build", p.Layout.BuildDir)
	assert.Equal(t, "dist", p.Layout.DistDir)
	assert.Equal(t, "o", p.Layout.ObjectExtension)
	assert.Equal(t, "/usr", p.Layout.InstallPrefix)
	assert.Empty(t, p.Headers)
}

func TestLoad_ExplicitEmptyFlags(t *testing.T) {
	path := writeConfig(t, `
toolchain:
  compiler_flags: ""
sources: [main.c]
`)

	p, err := config.Load(path)
	require.NoError(t, err)
	assert.Empty(t, p.Toolchain.CompilerFlags)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{"InvalidYAML", "sources: [a.c\n", domain.ErrConfigParseFailed},
		{"UnknownField", "sources: [a.c]\ntargets: [x]\n", domain.ErrConfigParseFailed},
		{"UnknownKind", "project: {kind: plugin}\nsources: [a.c]\n", domain.ErrInvalidProjectKind},
		{"UnknownPlatform", "project: {platform: plan9}\nsources: [a.c]\n", domain.ErrInvalidPlatform},
		{"EmptyCompiler", "toolchain: {compiler: \"\"}\nsources: [a.c]\n", domain.ErrConfigParseFailed},
		{"UnbalancedQuote", "toolchain: {linker: \"ld '-o\"}\nsources: [a.c]\n", domain.ErrConfigParseFailed},
		{"NoSources", "project: {output: app}\n", domain.ErrNoSources},
		{"Empty", "", domain.ErrNoSources},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.target)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	loader := config.NewLoader()

	_, err := loader.Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.ErrorIs(t, err, domain.ErrConfigReadFailed)
	require.ErrorIs(t, err, os.ErrNotExist)
}
