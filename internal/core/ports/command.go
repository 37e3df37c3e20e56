package ports

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
)

// Command is one named entry of the command table.
//
//go:generate mockgen -source=command.go -destination=mocks/mock_command.go -package=mocks
type Command interface {
	Name() string
	Description() string
	// Run executes the command.
	Run(ctx context.Context, inv domain.Invocation) error
}
