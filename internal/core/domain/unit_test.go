package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/core/domain"
)

func posixProject() *domain.Project {
	return &domain.Project{
		Output:   "app",
		Kind:     domain.Executable,
		Platform: domain.PlatformPOSIX,
		Layout: domain.Layout{
			SourceDir:       "src",
			BuildDir:        "build",
			DistDir:         "dist",
			ObjectExtension: "o",
			InstallPrefix:   "/usr",
		},
	}
}

func TestMapArtifacts_Flattens(t *testing.T) {
	units := domain.NewUnits("a.c", "sub/b.c")

	artifacts := domain.MapArtifacts(posixProject(), units)

	assert.Equal(t, []domain.ObjectArtifact{"build/a.c.o", "build/sub.b.c.o"}, artifacts)
}

func TestMapArtifact(t *testing.T) {
	tests := []struct {
		name     string
		platform domain.Platform
		buildDir string
		ext      string
		unit     domain.CompilationUnit
		want     domain.ObjectArtifact
	}{
		{"Plain", domain.PlatformPOSIX, "build", "o", "main.c", "build/main.c.o"},
		{"Nested", domain.PlatformPOSIX, "build", "o", "net/http/conn.c", "build/net.http.conn.c.o"},
		{"TrailingSlash", domain.PlatformPOSIX, "out/", "obj", "x.cc", "out/x.cc.obj"},
		{"WindowsSeparators", domain.PlatformWindows, "build", "obj", `sub\b.c`, `build\sub.b.c.obj`},
		{"WindowsForwardSlash", domain.PlatformWindows, "build", "obj", "sub/b.c", `build\sub.b.c.obj`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.MapArtifact(tt.platform, tt.buildDir, tt.ext, tt.unit))
		})
	}
}

func TestMapArtifacts_IndexAlignedAndDeterministic(t *testing.T) {
	units := domain.NewUnits("z.c", "a/b/c.c", "m.c", "a/b.c", "q/r.s")
	p := posixProject()

	first := domain.MapArtifacts(p, units)
	second := domain.MapArtifacts(p, units)

	require.Len(t, first, len(units))
	assert.Equal(t, first, second)
	for i, unit := range units {
		assert.Equal(t, domain.MapArtifact(p.Platform, "build", "o", unit), first[i], "unit %s", unit)
	}
}

func TestMapArtifacts_DisambiguatesCollisions(t *testing.T) {
	units := domain.NewUnits("a.c", "sub/b.c", "sub.b.c")

	artifacts := domain.MapArtifacts(posixProject(), units)

	require.Len(t, artifacts, 3)
	assert.Equal(t, domain.ObjectArtifact("build/a.c.o"), artifacts[0])
	assert.NotEqual(t, artifacts[1], artifacts[2])
	for _, a := range artifacts[1:] {
		name := strings.TrimPrefix(a.String(), "build/")
		assert.True(t, strings.HasPrefix(name, "sub.b.c-"), "got %s", a)
		assert.True(t, strings.HasSuffix(name, ".o"), "got %s", a)
		assert.Len(t, name, len("sub.b.c-")+8+len(".o"))
	}

	again := domain.MapArtifacts(posixProject(), units)
	assert.Equal(t, artifacts, again)
}

func TestMapArtifacts_DuplicateUnitIsNotACollision(t *testing.T) {
	units := domain.NewUnits("a.c", "a.c")

	artifacts := domain.MapArtifacts(posixProject(), units)

	assert.Equal(t, []domain.ObjectArtifact{"build/a.c.o", "build/a.c.o"}, artifacts)
}
