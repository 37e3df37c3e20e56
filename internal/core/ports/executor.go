// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
)

// Executor defines the interface for running external toolchain processes.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs proc and blocks until it exits.
	//
	// It returns nil when the process exits with status zero. Any other outcome
	// is an error carrying the exit status as "exit_code" metadata.
	Execute(ctx context.Context, proc domain.Process) error
}
