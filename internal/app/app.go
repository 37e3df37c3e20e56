// Package app implements the application layer for forge.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/linker"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	resolver     ports.SourceResolver
	fs           ports.FileSystem
	scheduler    *scheduler.Scheduler
	linker       *linker.Invoker
	store        ports.ManifestStore
	logger       ports.Logger
	now          func() time.Time
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	resolver ports.SourceResolver,
	fileSystem ports.FileSystem,
	sched *scheduler.Scheduler,
	link *linker.Invoker,
	store ports.ManifestStore,
	logger ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		resolver:     resolver,
		fs:           fileSystem,
		scheduler:    sched,
		linker:       link,
		store:        store,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock replaces the clock used to stamp install manifests.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// Build compiles every source unit in parallel, links the target and exports
// the public headers.
func (a *App) Build(ctx context.Context, inv domain.Invocation) error {
	project, err := a.load(inv)
	if err != nil {
		return err
	}

	units, err := a.resolveUnits(project)
	if err != nil {
		return err
	}

	a.setupTree(project)

	artifacts := domain.MapArtifacts(project, units)
	if _, err := a.scheduler.Run(ctx, project, units, artifacts, inv.Jobs); err != nil {
		return zerr.Wrap(err, "build failed")
	}

	if err := a.linker.Link(ctx, project, artifacts); err != nil {
		return zerr.Wrap(err, "build failed")
	}

	a.exportHeaders(project)
	a.logger.Info(fmt.Sprintf("Built %s", project.TargetPath()))
	return nil
}

// Install copies the target and the exported headers under the install prefix
// and records what was placed there.
func (a *App) Install(_ context.Context, inv domain.Invocation) error {
	project, err := a.load(inv)
	if err != nil {
		return err
	}
	if !project.Platform.SupportsInstall {
		return zerr.With(zerr.Wrap(domain.ErrInvalidPlatform, "install is not supported"), "platform", project.Platform.Name)
	}

	prefix := project.Prefix(inv.Prefix)
	copies := []struct{ src, dst string }{
		{project.TargetPath(), project.InstallTargetPath(prefix)},
	}
	for _, h := range project.Headers {
		copies = append(copies, struct{ src, dst string }{project.HeaderExport(h), project.InstallHeaderPath(prefix, h)})
	}

	var (
		installed []string
		errs      []error
	)
	for _, c := range copies {
		action := fmt.Sprintf("Installing %s", c.dst)
		if err := a.fs.Copy(c.src, c.dst); err != nil {
			a.logger.Warn(domain.StepFailed.Line(action))
			errs = append(errs, zerr.With(zerr.Wrap(err, "failed to install file"), "path", c.dst))
			continue
		}
		a.logger.Info(domain.StepOK.Line(action))
		installed = append(installed, c.dst)
	}

	if len(installed) > 0 {
		manifest := domain.InstallManifest{
			ID:          uuid.NewString(),
			Target:      project.TargetName(),
			Prefix:      prefix,
			Files:       installed,
			InstalledAt: a.now().UTC(),
		}
		if err := a.store.Put(manifest); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to record install manifest: %v", err))
		}
	}

	if len(errs) > 0 {
		return zerr.With(
			zerr.Wrap(errors.Join(append([]error{domain.ErrCopyFailure}, errs...)...), "install failed"),
			"failed", len(errs))
	}
	return nil
}

// Uninstall removes what the last install placed under the prefix. Without a
// recorded install for that prefix it removes the paths install would use.
// Individual failures are reported and do not fail the command.
func (a *App) Uninstall(_ context.Context, inv domain.Invocation) error {
	project, err := a.load(inv)
	if err != nil {
		return err
	}
	if !project.Platform.SupportsInstall {
		return zerr.With(zerr.Wrap(domain.ErrInvalidPlatform, "uninstall is not supported"), "platform", project.Platform.Name)
	}

	prefix := project.Prefix(inv.Prefix)
	manifest, err := a.store.Get(project.TargetName())
	if err != nil {
		a.logger.Warn(fmt.Sprintf("failed to read install manifest: %v", err))
		manifest = nil
	}
	if manifest != nil && manifest.Prefix != prefix {
		manifest = nil
	}

	var files []string
	if manifest != nil {
		files = manifest.Files
	} else {
		files = append(files, project.InstallTargetPath(prefix))
		for _, h := range project.Headers {
			files = append(files, project.InstallHeaderPath(prefix, h))
		}
	}

	for _, f := range files {
		a.remove(fmt.Sprintf("Removing %s", f), f)
	}

	if manifest != nil {
		if err := a.store.Delete(manifest.Target); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to forget install manifest: %v", err))
		}
	}
	return nil
}

// Clean removes every object artifact and the target. Missing files are
// skipped and failures are reported without failing the command.
func (a *App) Clean(_ context.Context, inv domain.Invocation) error {
	project, err := a.load(inv)
	if err != nil {
		return err
	}

	units, err := a.resolveUnits(project)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("cannot list object files: %v", err))
	}

	for _, artifact := range domain.MapArtifacts(project, units) {
		a.remove(fmt.Sprintf("Removing %s", artifact), artifact.String())
	}
	target := project.TargetPath()
	a.remove(fmt.Sprintf("Removing %s", target), target)
	return nil
}

func (a *App) load(inv domain.Invocation) (*domain.Project, error) {
	path := inv.ConfigPath
	if path == "" {
		path = domain.DefaultConfigFile
	}

	project, err := a.configLoader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return project, nil
}

func (a *App) resolveUnits(project *domain.Project) ([]domain.CompilationUnit, error) {
	units, err := a.resolver.ResolveSources(project.Layout.SourceDir, project.Sources)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve sources")
	}
	if len(units) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrNoSources, "no compilation units"), "source_dir", project.Layout.SourceDir)
	}
	return units, nil
}

// setupTree creates the build and dist directories. Failures are reported and tolerated.
func (a *App) setupTree(project *domain.Project) {
	for _, dir := range project.TreeDirs() {
		if err := a.fs.MkdirAll(dir); err != nil {
			err = errors.Join(domain.ErrDirectoryCreationFailure, err)
			a.logger.Warn(fmt.Sprintf("cannot create %s: %v", dir, err))
		}
	}
}

// exportHeaders copies every public header into the dist include directory.
// A failed copy is reported and does not fail the build.
func (a *App) exportHeaders(project *domain.Project) {
	for _, h := range project.Headers {
		dst := project.HeaderExport(h)
		action := fmt.Sprintf("Exporting %s", dst)
		if err := a.fs.Copy(project.HeaderSource(h), dst); err != nil {
			a.logger.Warn(domain.StepFailed.Line(action))
			a.logger.Warn(fmt.Sprintf("%v: %v", domain.ErrCopyFailure, err))
			continue
		}
		a.logger.Info(domain.StepOK.Line(action))
	}
}

func (a *App) remove(action, path string) {
	err := a.fs.Remove(path)
	switch {
	case err == nil:
		a.logger.Info(domain.StepOK.Line(action))
	case errors.Is(err, fs.ErrNotExist):
		a.logger.Info(domain.StepSkipped.Line(action))
	default:
		a.logger.Warn(domain.StepFailed.Line(action))
		a.logger.Warn(err.Error())
	}
}
