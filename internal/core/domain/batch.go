package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// CompilationBatch is a contiguous slice of units, and their artifacts, processed
// sequentially by one worker.
type CompilationBatch struct {
	// Index is the worker index, or -1 for the remainder handled after the join.
	Index int
	// Offset is the position of the first unit in the full list.
	Offset    int
	Units     []CompilationUnit
	Artifacts []ObjectArtifact
}

// Len returns the number of units in the batch.
func (b CompilationBatch) Len() int {
	return len(b.Units)
}

// RemainderIndex marks the batch processed by the caller after the join barrier.
const RemainderIndex = -1

// Plan is the static partitioning of a unit list across workers.
type Plan struct {
	Workers   int
	Batches   []CompilationBatch
	Remainder CompilationBatch
}

// Total returns the number of units covered by the plan.
func (p Plan) Total() int {
	n := p.Remainder.Len()
	for _, b := range p.Batches {
		n += b.Len()
	}
	return n
}

// Partition splits units across min(jobs, len(units)) workers. Every worker receives
// len(units)/workers contiguous units; the trailing len(units)%workers units form the
// remainder. jobs below one is treated as one.
func Partition(units []CompilationUnit, artifacts []ObjectArtifact, jobs int) (Plan, error) {
	total := len(units)
	if total == 0 {
		return Plan{}, ErrNoSources
	}
	if len(artifacts) != total {
		return Plan{}, zerr.With(zerr.With(zerr.Wrap(ErrArtifactMismatch, "cannot partition units"),
			"units", total), "artifacts", len(artifacts))
	}

	workers := min(max(jobs, 1), total)
	base := total / workers

	plan := Plan{
		Workers: workers,
		Batches: make([]CompilationBatch, workers),
	}
	for i := range workers {
		lo, hi := i*base, (i+1)*base
		plan.Batches[i] = CompilationBatch{
			Index:     i,
			Offset:    lo,
			Units:     units[lo:hi:hi],
			Artifacts: artifacts[lo:hi:hi],
		}
	}

	lo := workers * base
	plan.Remainder = CompilationBatch{
		Index:     RemainderIndex,
		Offset:    lo,
		Units:     units[lo:total:total],
		Artifacts: artifacts[lo:total:total],
	}
	return plan, nil
}

// ParseJobs reads a job count leniently. Values that are missing, non-numeric or
// below one yield one.
func ParseJobs(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
