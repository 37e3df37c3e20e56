package domain

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// CompilationUnit is a source file path relative to the project source directory.
type CompilationUnit string

// String returns the unit path.
func (u CompilationUnit) String() string {
	return string(u)
}

// ObjectArtifact is the object file path produced for one CompilationUnit.
type ObjectArtifact string

// String returns the artifact path.
func (a ObjectArtifact) String() string {
	return string(a)
}

// NewUnits converts plain paths into compilation units.
func NewUnits(paths ...string) []CompilationUnit {
	units := make([]CompilationUnit, len(paths))
	for i, p := range paths {
		units[i] = CompilationUnit(p)
	}
	return units
}

// MapArtifact flattens unit into an artifact placed directly inside buildDir.
// The name is the unit path plus "." and ext, with every path separator replaced by ".".
func MapArtifact(platform Platform, buildDir, ext string, unit CompilationUnit) ObjectArtifact {
	return ObjectArtifact(platform.Join(buildDir, flatten(platform, unit.String()+"."+ext)))
}

// MapArtifacts maps every unit of p in order, returning a list index-aligned with units.
// Distinct units that flatten to the same name each receive a short hash suffix
// of their original path, so the mapping stays injective.
func MapArtifacts(p *Project, units []CompilationUnit) []ObjectArtifact {
	ext := p.Layout.ObjectExtension
	artifacts := make([]ObjectArtifact, len(units))
	owners := make(map[ObjectArtifact]CompilationUnit, len(units))
	colliding := make(map[ObjectArtifact]bool)

	for i, unit := range units {
		artifact := MapArtifact(p.Platform, p.Layout.BuildDir, ext, unit)
		artifacts[i] = artifact
		if owner, ok := owners[artifact]; ok && owner != unit {
			colliding[artifact] = true
			continue
		}
		owners[artifact] = unit
	}

	if len(colliding) == 0 {
		return artifacts
	}

	for i, unit := range units {
		if !colliding[artifacts[i]] {
			continue
		}
		name := fmt.Sprintf("%s-%08x.%s", flatten(p.Platform, unit.String()), uint32(xxhash.Sum64String(unit.String())), ext)
		artifacts[i] = ObjectArtifact(p.Platform.Join(p.Layout.BuildDir, name))
	}
	return artifacts
}

func flatten(platform Platform, name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == rune(platform.Separator) {
			return '.'
		}
		return r
	}, name)
}
