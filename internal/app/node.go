package app

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/forge/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/forge/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/forge/internal/adapters/manifest"           //nolint:depguard // Wired in app layer
	"go.trai.ch/forge/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/dispatch"
	"go.trai.ch/forge/internal/engine/linker"
	"go.trai.ch/forge/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// DispatcherNodeID is the unique identifier for the command dispatcher Graft node.
	DispatcherNodeID graft.ID = "app.dispatcher"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.ResolverNodeID,
			fs.FileSystemNodeID,
			scheduler.NodeID,
			linker.NodeID,
			manifest.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Dispatcher Node
	graft.Register(graft.Node[*dispatch.Dispatcher]{
		ID:        DispatcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AppNodeID},
		Run: func(ctx context.Context) (*dispatch.Dispatcher, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			return dispatch.New(os.Stdout, app.Commands(domain.HostPlatform())...)
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			DispatcherNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[ports.SourceResolver](ctx)
	if err != nil {
		return nil, err
	}

	fileSystem, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}

	link, err := graft.Dep[*linker.Invoker](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.ManifestStore](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, resolver, fileSystem, sched, link, store, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	dispatcher, err := graft.Dep[*dispatch.Dispatcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:        app,
		Dispatcher: dispatcher,
		Logger:     log,
		Telemetry:  telemetry,
	}, nil
}
