package ports

import "go.trai.ch/forge/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the project file at path and returns the immutable project configuration.
	Load(path string) (*domain.Project, error)
}
