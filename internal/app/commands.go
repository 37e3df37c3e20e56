package app

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// Command names, in table order.
const (
	CommandBuild     = "build"
	CommandInstall   = "install"
	CommandUninstall = "uninstall"
	CommandClean     = "clean"
)

type command struct {
	name        string
	description string
	run         func(ctx context.Context, inv domain.Invocation) error
}

var _ ports.Command = command{}

func (c command) Name() string        { return c.name }
func (c command) Description() string { return c.description }

func (c command) Run(ctx context.Context, inv domain.Invocation) error {
	return c.run(ctx, inv)
}

// Commands returns the command table for a host platform. build is first and
// is the default; install and uninstall exist only where installing is supported.
func (a *App) Commands(host domain.Platform) []ports.Command {
	cmds := []ports.Command{
		command{CommandBuild, "Compile all sources in parallel and link the target", a.Build},
	}
	if host.SupportsInstall {
		cmds = append(cmds,
			command{CommandInstall, "Copy the target and public headers under the install prefix", a.Install},
			command{CommandUninstall, "Remove installed files from the install prefix", a.Uninstall},
		)
	}
	return append(cmds,
		command{CommandClean, "Remove object files and the target", a.Clean},
	)
}
