package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func testProject() *domain.Project {
	return &domain.Project{
		Output:   "app",
		Platform: domain.PlatformPOSIX,
		Toolchain: domain.Toolchain{
			Compiler:      []string{"cc", "-c"},
			CompilerFlags: []string{"-O2", "-Wall"},
			Environment:   map[string]string{"LC_ALL": "C"},
		},
		Layout: domain.Layout{
			SourceDir:       "src",
			BuildDir:        "build",
			DistDir:         "dist",
			ObjectExtension: "o",
		},
	}
}

func exitErr(code int) error {
	return domain.WithExitCode(zerr.Wrap(errors.New("exit status"), "command failed"), code)
}

// recorder collects compiled source paths in call order.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(proc domain.Process) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, proc.Args[len(proc.Args)-1])
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func newScheduler(ctrl *gomock.Controller) (*scheduler.Scheduler, *mocks.MockExecutor) {
	mockExec := mocks.NewMockExecutor(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return scheduler.NewScheduler(mockExec, mockLogger, telemetry.NewNoOp()), mockExec
}

func TestCompileCommand(t *testing.T) {
	argv := scheduler.CompileCommand(testProject(), "sub/b.c", "build/sub.b.c.o")

	assert.Equal(t, []string{"cc", "-c", "-O2", "-Wall", "-o", "build/sub.b.c.o", "src/sub/b.c"}, argv)
}

func TestScheduler_Run_CompilesEveryUnit(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, mockExec := newScheduler(ctrl)

	p := testProject()
	units := domain.NewUnits("a.c", "b.c", "c.c", "d.c", "e.c")
	artifacts := domain.MapArtifacts(p, units)

	rec := &recorder{}
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, proc domain.Process) error {
		assert.Equal(t, map[string]string{"LC_ALL": "C"}, proc.Env)
		rec.add(proc)
		return nil
	}).Times(5)

	report, err := s.Run(context.Background(), p, units, artifacts, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Plan.Workers)
	assert.Equal(t, 5, report.Count(scheduler.StatusCompleted))
	calls := rec.snapshot()
	assert.ElementsMatch(t, []string{"src/a.c", "src/b.c", "src/c.c", "src/d.c", "src/e.c"}, calls)
	// The remainder runs on the caller after the join barrier.
	assert.Equal(t, "src/e.c", calls[4])
}

func TestScheduler_Run_BatchesAreSequential(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, mockExec := newScheduler(ctrl)

	p := testProject()
	units := domain.NewUnits("a1.c", "a2.c", "a3.c", "b1.c", "b2.c", "b3.c")

	rec := &recorder{}
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, proc domain.Process) error {
		rec.add(proc)
		return nil
	}).Times(6)

	_, err := s.Run(context.Background(), p, units, domain.MapArtifacts(p, units), 2)
	require.NoError(t, err)

	var first, second []string
	for _, c := range rec.snapshot() {
		if c[4] == 'a' {
			first = append(first, c)
		} else {
			second = append(second, c)
		}
	}
	assert.Equal(t, []string{"src/a1.c", "src/a2.c", "src/a3.c"}, first)
	assert.Equal(t, []string{"src/b1.c", "src/b2.c", "src/b3.c"}, second)
}

func TestScheduler_Run_WorkersRunConcurrently(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s, mockExec := newScheduler(ctrl)

		p := testProject()
		units := domain.NewUnits("a.c", "b.c", "c.c")

		var wg sync.WaitGroup
		wg.Add(3)
		mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, domain.Process) error {
			// Every call waits for the others, so this only completes with three live workers.
			wg.Done()
			wg.Wait()
			return nil
		}).Times(3)

		report, err := s.Run(context.Background(), p, units, domain.MapArtifacts(p, units), 8)
		require.NoError(t, err)
		assert.Equal(t, 3, report.Plan.Workers)
		assert.Equal(t, 0, report.Plan.Remainder.Len())
	})
}

func TestScheduler_Run_CompilerFailureSkipsRemainder(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, mockExec := newScheduler(ctrl)

	p := testProject()
	units := domain.NewUnits("a.c", "b.c", "c.c")

	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, proc domain.Process) error {
		if proc.Args[len(proc.Args)-1] == "src/b.c" {
			return exitErr(3)
		}
		return nil
	}).Times(2)

	report, err := s.Run(context.Background(), p, units, domain.MapArtifacts(p, units), 2)

	require.ErrorIs(t, err, domain.ErrCompilerFailure)
	assert.Equal(t, 3, domain.ExitCode(err))
	assert.Contains(t, err.Error(), "failed to compile unit")
	assert.Equal(t, []scheduler.UnitStatus{
		scheduler.StatusCompleted,
		scheduler.StatusFailed,
		scheduler.StatusSkipped,
	}, report.Statuses)
}

func TestScheduler_Run_FailureStopsBatchBetweenUnits(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, mockExec := newScheduler(ctrl)

	p := testProject()
	units := domain.NewUnits("a.c", "b.c", "c.c")

	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(exitErr(1)).Times(1)

	report, err := s.Run(context.Background(), p, units, domain.MapArtifacts(p, units), 1)

	require.ErrorIs(t, err, domain.ErrCompilerFailure)
	assert.Equal(t, 1, report.Count(scheduler.StatusFailed))
	assert.Equal(t, 2, report.Count(scheduler.StatusSkipped))
}

func TestScheduler_Run_FailureCancelsSiblings(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s, mockExec := newScheduler(ctrl)

		p := testProject()
		// Two workers: [a.c b.c] and [c.c d.c].
		units := domain.NewUnits("a.c", "b.c", "c.c", "d.c")

		started := make(chan struct{})
		mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, proc domain.Process) error {
			switch proc.Args[len(proc.Args)-1] {
			case "src/a.c":
				<-started
				return exitErr(2)
			case "src/c.c":
				close(started)
				<-ctx.Done()
				return exitErr(-1)
			default:
				t.Errorf("unexpected compile of %v", proc.Args)
				return nil
			}
		}).Times(2)

		report, err := s.Run(context.Background(), p, units, domain.MapArtifacts(p, units), 2)

		require.ErrorIs(t, err, domain.ErrCompilerFailure)
		assert.Equal(t, 2, domain.ExitCode(err))
		assert.Equal(t, []scheduler.UnitStatus{
			scheduler.StatusFailed,
			scheduler.StatusSkipped,
			scheduler.StatusCancelled,
			scheduler.StatusSkipped,
		}, report.Statuses)
	})
}

func TestScheduler_Run_CallerCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, _ := newScheduler(ctrl)

	p := testProject()
	units := domain.NewUnits("a.c", "b.c")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := s.Run(ctx, p, units, domain.MapArtifacts(p, units), 1)

	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrCompilerFailure)
	assert.Equal(t, 2, report.Count(scheduler.StatusSkipped))
}

func TestScheduler_Run_NoUnits(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, _ := newScheduler(ctrl)

	_, err := s.Run(context.Background(), testProject(), nil, nil, 4)

	require.ErrorIs(t, err, domain.ErrNoSources)
}

func TestScheduler_Run_RecordsVertexPerUnit(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockExec := mocks.NewMockExecutor(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockTelemetry := mocks.NewMockTelemetry(ctrl)
	mockVertex := mocks.NewMockVertex(ctrl)

	p := testProject()
	units := domain.NewUnits("main.c")

	mockTelemetry.EXPECT().Record(gomock.Any(), "compile main.c").
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ctx, mockVertex
		})
	mockVertex.EXPECT().Log(domain.LogLevelInfo, "cc -c -O2 -Wall -o build/main.c.o src/main.c")
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil)
	mockVertex.EXPECT().Complete(nil)

	s := scheduler.NewScheduler(mockExec, mockLogger, mockTelemetry)
	_, err := s.Run(context.Background(), p, units, domain.MapArtifacts(p, units), 1)
	require.NoError(t, err)
}
