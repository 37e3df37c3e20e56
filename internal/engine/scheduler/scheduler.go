// Package scheduler partitions compilation units across workers and compiles them.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/workers"
	"go.trai.ch/zerr"
)

// UnitStatus represents the status of a compilation unit within one run.
type UnitStatus string

const (
	// StatusPending indicates the unit has not been started.
	StatusPending UnitStatus = "Pending"
	// StatusRunning indicates the compiler is running for the unit.
	StatusRunning UnitStatus = "Running"
	// StatusCompleted indicates the unit compiled successfully.
	StatusCompleted UnitStatus = "Completed"
	// StatusFailed indicates the compiler reported a failure for the unit.
	StatusFailed UnitStatus = "Failed"
	// StatusCancelled indicates the compiler was stopped because the run was cancelled.
	StatusCancelled UnitStatus = "Cancelled"
	// StatusSkipped indicates the unit was never started because the run stopped early.
	StatusSkipped UnitStatus = "Skipped"
)

// Report describes how a run was partitioned and what happened to each unit.
type Report struct {
	Plan domain.Plan
	// Statuses is index-aligned with the unit list passed to Run.
	Statuses []UnitStatus
}

// Count returns how many units ended in status.
func (r *Report) Count(status UnitStatus) int {
	n := 0
	for _, s := range r.Statuses {
		if s == status {
			n++
		}
	}
	return n
}

// Scheduler compiles units on a fresh worker pool per run.
type Scheduler struct {
	executor  ports.Executor
	logger    ports.Logger
	telemetry ports.Telemetry
}

// NewScheduler creates a new Scheduler.
func NewScheduler(executor ports.Executor, logger ports.Logger, telemetry ports.Telemetry) *Scheduler {
	return &Scheduler{
		executor:  executor,
		logger:    logger,
		telemetry: telemetry,
	}
}

// Run compiles every unit into its index-aligned artifact.
//
// The units are split into min(jobs, len(units)) contiguous batches that run
// concurrently, each strictly in order. The trailing remainder is compiled on
// the calling goroutine once every worker has joined. The first failure cancels
// the remaining work; Run waits for all workers before returning it.
func (s *Scheduler) Run(
	ctx context.Context,
	project *domain.Project,
	units []domain.CompilationUnit,
	artifacts []domain.ObjectArtifact,
	jobs int,
) (*Report, error) {
	plan, err := domain.Partition(units, artifacts, jobs)
	if err != nil {
		return nil, err
	}

	state := &runState{
		s:       s,
		project: project,
		report: &Report{
			Plan:     plan,
			Statuses: make([]UnitStatus, len(units)),
		},
	}
	for i := range state.report.Statuses {
		state.report.Statuses[i] = StatusPending
	}

	s.logger.Info(fmt.Sprintf("Using %d jobs for %d units", plan.Workers, len(units)))

	if err := workers.Run(ctx, plan.Batches, state.compileBatch); err != nil {
		return state.finish(err)
	}
	if err := state.compileBatch(ctx, plan.Remainder); err != nil {
		return state.finish(err)
	}
	return state.finish(nil)
}

// CompileCommand returns the argv that compiles unit into artifact:
// compiler, compiler flags, "-o", the artifact, then the source path.
func CompileCommand(project *domain.Project, unit domain.CompilationUnit, artifact domain.ObjectArtifact) []string {
	tc := project.Toolchain
	argv := make([]string, 0, len(tc.Compiler)+len(tc.CompilerFlags)+3)
	argv = append(argv, tc.Compiler...)
	argv = append(argv, tc.CompilerFlags...)
	return append(argv, "-o", artifact.String(), project.SourcePath(unit))
}

type runState struct {
	s       *Scheduler
	project *domain.Project
	// report.Statuses entries are written only by the worker owning that index
	// and read after the join barrier.
	report *Report
}

func (r *runState) compileBatch(ctx context.Context, batch domain.CompilationBatch) error {
	for i, unit := range batch.Units {
		if err := ctx.Err(); err != nil {
			return zerr.Wrap(err, "compilation cancelled")
		}
		if err := r.compile(ctx, batch.Offset+i, unit, batch.Artifacts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *runState) compile(ctx context.Context, index int, unit domain.CompilationUnit, artifact domain.ObjectArtifact) error {
	total := len(r.report.Statuses)
	argv := CompileCommand(r.project, unit, artifact)

	r.report.Statuses[index] = StatusRunning
	r.s.logger.Info(fmt.Sprintf("[%d/%d] Compiling %s", index+1, total, unit))

	vctx, vertex := r.s.telemetry.Record(ctx, "compile "+unit.String())
	vertex.Log(domain.LogLevelInfo, strings.Join(argv, " "))
	err := r.s.executor.Execute(vctx, domain.Process{
		Args: argv,
		Env:  r.project.Toolchain.Environment,
	})
	vertex.Complete(err)

	if err == nil {
		r.report.Statuses[index] = StatusCompleted
		return nil
	}

	if ctx.Err() != nil {
		r.report.Statuses[index] = StatusCancelled
		return zerr.With(zerr.Wrap(ctx.Err(), "compilation cancelled"), "unit", unit.String())
	}

	r.report.Statuses[index] = StatusFailed
	r.s.logger.Warn(fmt.Sprintf("[%d/%d] %s failed with exit code %d", index+1, total, unit, domain.ExitCode(err)))
	return zerr.With(zerr.With(
		zerr.Wrap(errors.Join(domain.ErrCompilerFailure, err), "failed to compile unit"),
		"unit", unit.String()),
		"artifact", artifact.String())
}

func (r *runState) finish(err error) (*Report, error) {
	for i, status := range r.report.Statuses {
		if status == StatusPending {
			r.report.Statuses[i] = StatusSkipped
		}
	}
	return r.report, err
}
