package app

import (
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/dispatch"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App        *App
	Dispatcher *dispatch.Dispatcher
	Logger     ports.Logger
	Telemetry  ports.Telemetry
}
