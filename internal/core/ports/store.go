package ports

import "go.trai.ch/forge/internal/core/domain"

// ManifestStore defines the interface for recording what install placed on disk.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ManifestStore interface {
	// Get retrieves the manifest for a target name.
	// Returns nil, nil if not found.
	Get(target string) (*domain.InstallManifest, error)

	// Put stores the manifest, replacing any previous one for the same target.
	Put(manifest domain.InstallManifest) error

	// Delete forgets the manifest for a target name.
	Delete(target string) error
}
