// Package config provides the project file loader for forge.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/google/shlex"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct{}

// NewLoader creates a new FileConfigLoader.
func NewLoader() *FileConfigLoader {
	return &FileConfigLoader{}
}

// Load reads the project file at path.
func (l *FileConfigLoader) Load(path string) (*domain.Project, error) {
	return Load(path)
}

// Load reads a project file from the given path and returns a domain.Project.
func Load(path string) (*domain.Project, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", path)
	}

	project, err := Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return project, nil
}

// Parse decodes a project file and applies defaults.
func Parse(data []byte) (*domain.Project, error) {
	var file Forgefile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(domain.ErrConfigParseFailed, err)
	}

	kind, err := domain.ParseProjectKind(file.Project.Kind)
	if err != nil {
		return nil, errors.Join(domain.ErrConfigParseFailed, err)
	}
	platform, err := domain.ParsePlatform(file.Project.Platform)
	if err != nil {
		return nil, errors.Join(domain.ErrConfigParseFailed, err)
	}

	toolchain, err := buildToolchain(file.Toolchain)
	if err != nil {
		return nil, errors.Join(domain.ErrConfigParseFailed, err)
	}

	sources := nonEmpty(file.Sources)
	if len(sources) == 0 {
		return nil, zerr.Wrap(domain.ErrNoSources, "project declares no sources")
	}

	return &domain.Project{
		Output:    orDefault(file.Project.Output, domain.DefaultOutput),
		Kind:      kind,
		Platform:  platform,
		Toolchain: toolchain,
		Layout: domain.Layout{
			SourceDir:       orDefault(file.Layout.SourceDir, domain.DefaultSourceDir),
			BuildDir:        orDefault(file.Layout.BuildDir, domain.DefaultBuildDir),
			DistDir:         orDefault(file.Layout.DistDir, domain.DefaultDistDir),
			ObjectExtension: strings.TrimPrefix(orDefault(file.Layout.ObjectExtension, domain.DefaultObjectExtension), "."),
			InstallPrefix:   orDefault(file.Layout.InstallPrefix, domain.DefaultInstallPrefix),
		},
		Sources: sources,
		Headers: nonEmpty(file.Headers),
	}, nil
}

func buildToolchain(dto ToolchainDTO) (domain.Toolchain, error) {
	var tc domain.Toolchain
	fields := []struct {
		key      string
		value    *string
		fallback string
		required bool
		dst      *[]string
	}{
		{"compiler", dto.Compiler, domain.DefaultCompiler, true, &tc.Compiler},
		{"compiler_flags", dto.CompilerFlags, domain.DefaultCompilerFlags, false, &tc.CompilerFlags},
		{"linker", dto.Linker, domain.DefaultLinker, true, &tc.Linker},
		{"linker_flags", dto.LinkerFlags, "", false, &tc.LinkerFlags},
		{"archiver", dto.Archiver, domain.DefaultArchiver, true, &tc.Archiver},
	}

	for _, f := range fields {
		raw := f.fallback
		if f.value != nil {
			raw = *f.value
		}
		words, err := shlex.Split(raw)
		if err != nil {
			return domain.Toolchain{}, zerr.With(zerr.Wrap(err, "invalid command line"), "field", f.key)
		}
		if f.required && len(words) == 0 {
			return domain.Toolchain{}, zerr.With(zerr.New("command must not be empty"), "field", f.key)
		}
		*f.dst = words
	}

	tc.Environment = dto.Environment
	return tc, nil
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}
