package ports

import "go.trai.ch/forge/internal/core/domain"

// SourceResolver defines the interface for expanding source patterns into compilation units.
//
//go:generate mockgen -destination=mocks/resolver_mock.go -package=mocks -source=resolver.go
type SourceResolver interface {
	// ResolveSources expands patterns relative to root, in declaration order and without duplicates.
	ResolveSources(root string, patterns []string) ([]domain.CompilationUnit, error)
}
