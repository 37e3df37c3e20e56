// Package linker turns compiled object artifacts into the project's final target.
package linker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Command returns the argv that produces the project's target from artifacts.
//
// Static libraries use the archiver as "<archiver...> r <target> <objects...>".
// Executables and shared libraries use the linker as
// "<linker...> -o <target> <objects...> <linker flags...>".
func Command(project *domain.Project, artifacts []domain.ObjectArtifact) []string {
	target := project.TargetPath()
	tc := project.Toolchain

	if project.Kind == domain.StaticLibrary {
		argv := make([]string, 0, len(tc.Archiver)+2+len(artifacts))
		argv = append(argv, tc.Archiver...)
		argv = append(argv, "r", target)
		return appendArtifacts(argv, artifacts)
	}

	argv := make([]string, 0, len(tc.Linker)+2+len(artifacts)+len(tc.LinkerFlags))
	argv = append(argv, tc.Linker...)
	argv = append(argv, "-o", target)
	argv = appendArtifacts(argv, artifacts)
	return append(argv, tc.LinkerFlags...)
}

func appendArtifacts(argv []string, artifacts []domain.ObjectArtifact) []string {
	for _, a := range artifacts {
		argv = append(argv, a.String())
	}
	return argv
}

// Invoker runs the link or archive step.
type Invoker struct {
	executor  ports.Executor
	logger    ports.Logger
	telemetry ports.Telemetry
}

// NewInvoker creates a new Invoker.
func NewInvoker(executor ports.Executor, logger ports.Logger, telemetry ports.Telemetry) *Invoker {
	return &Invoker{
		executor:  executor,
		logger:    logger,
		telemetry: telemetry,
	}
}

// Link produces the project's target from artifacts, in the given order.
// A failing linker or archiver is reported as domain.ErrLinkerFailure carrying
// the tool's exit code.
func (i *Invoker) Link(ctx context.Context, project *domain.Project, artifacts []domain.ObjectArtifact) error {
	if len(artifacts) == 0 {
		return zerr.Wrap(domain.ErrNoSources, "nothing to link")
	}

	target := project.TargetPath()
	argv := Command(project, artifacts)

	verb := "Linking"
	if project.Kind == domain.StaticLibrary {
		verb = "Archiving"
	}
	i.logger.Info(fmt.Sprintf("%s %s", verb, target))

	vctx, vertex := i.telemetry.Record(ctx, "link "+target)
	vertex.Log(domain.LogLevelInfo, strings.Join(argv, " "))
	err := i.executor.Execute(vctx, domain.Process{
		Args: argv,
		Env:  project.Toolchain.Environment,
	})
	vertex.Complete(err)
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return zerr.With(zerr.Wrap(ctx.Err(), "link cancelled"), "target", target)
	}
	return zerr.With(zerr.With(
		zerr.Wrap(errors.Join(domain.ErrLinkerFailure, err), "failed to link target"),
		"target", target),
		"kind", project.Kind.String())
}
