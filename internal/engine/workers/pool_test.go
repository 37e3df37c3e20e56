package workers_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/engine/workers"
)

func TestRun_VisitsEveryItemOnce(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[int]int)

	err := workers.Run(context.Background(), []int{0, 1, 2, 3, 4}, func(_ context.Context, i int) error {
		mu.Lock()
		defer mu.Unlock()
		seen[i]++
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1, 3: 1, 4: 1}, seen)
}

func TestRun_RunsItemsConcurrently(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		const n = 4
		var running atomic.Int32
		release := make(chan struct{})

		done := make(chan error, 1)
		go func() {
			done <- workers.Run(context.Background(), make([]struct{}, n), func(_ context.Context, _ struct{}) error {
				running.Add(1)
				<-release
				return nil
			})
		}()

		synctest.Wait()
		assert.Equal(t, int32(n), running.Load())

		close(release)
		require.NoError(t, <-done)
	})
}

func TestRun_FirstErrorCancelsSiblings(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		boom := errors.New("boom")
		var cancelled atomic.Int32

		err := workers.Run(context.Background(), []int{0, 1, 2}, func(ctx context.Context, i int) error {
			if i == 0 {
				time.Sleep(time.Millisecond)
				return boom
			}
			<-ctx.Done()
			cancelled.Add(1)
			return ctx.Err()
		})

		require.ErrorIs(t, err, boom)
		assert.Equal(t, int32(2), cancelled.Load())
	})
}

func TestRun_JoinsBeforeReturning(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var finished atomic.Int32

		err := workers.Run(context.Background(), []time.Duration{0, time.Second}, func(ctx context.Context, d time.Duration) error {
			if d == 0 {
				return errors.New("fast failure")
			}
			<-ctx.Done()
			time.Sleep(d)
			finished.Add(1)
			return nil
		})

		require.Error(t, err)
		assert.Equal(t, int32(1), finished.Load())
	})
}

func TestRun_RecoversPanic(t *testing.T) {
	err := workers.Run(context.Background(), []string{"ok", "bad"}, func(_ context.Context, s string) error {
		if s == "bad" {
			panic("unexpected unit")
		}
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker panicked")
	assert.Contains(t, err.Error(), "unexpected unit")
}

func TestRun_NoItems(t *testing.T) {
	called := false
	err := workers.Run(context.Background(), nil, func(context.Context, int) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.False(t, called)
}
