// Package workers provides the one-shot "spawn N, join all" primitive used by the scheduler.
package workers

import (
	"context"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Run starts one goroutine per item, each calling fn with the item, and blocks
// until every goroutine has returned.
//
// The context passed to fn is cancelled as soon as any call fails, so the
// remaining calls can stop between steps. Run returns the first error recorded.
// A panic inside fn is recovered and reported as that call's error.
func Run[T any](ctx context.Context, items []T, fn func(ctx context.Context, item T) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, item := range items {
		g.Go(func() (err error) {
			defer zerr.Defer(func(perr error) {
				err = zerr.Wrap(perr, "worker panicked")
			})
			return fn(gctx, item)
		})
	}
	return g.Wait()
}
