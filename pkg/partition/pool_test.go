package partition_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accountworker/pkg/partition"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPool_Lifecycle(t *testing.T) {
	t.Parallel()

	pool := partition.New(partition.WithLanes(2), partition.WithLogger(quietLogger()))

	err := pool.Submit(context.Background(), "k", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, partition.ErrNotStarted)
	assert.ErrorIs(t, pool.Stop(), partition.ErrNotStarted)

	require.NoError(t, pool.Start(context.Background()))
	assert.ErrorIs(t, pool.Start(context.Background()), partition.ErrAlreadyStarted)
	require.NoError(t, pool.Stop())

	err = pool.Submit(context.Background(), "k", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, partition.ErrNotStarted)
}

func TestPool_SubmitValidation(t *testing.T) {
	t.Parallel()

	pool := partition.New(partition.WithLogger(quietLogger()))
	require.NoError(t, pool.Start(context.Background()))
	defer pool.Stop()

	assert.ErrorIs(t, pool.Submit(context.Background(), "", func(context.Context) error { return nil }), partition.ErrEmptyKey)
	assert.ErrorIs(t, pool.Submit(context.Background(), "k", nil), partition.ErrNilJob)
}

func TestPool_SameKeyRunsInOrder(t *testing.T) {
	t.Parallel()

	pool := partition.New(partition.WithLanes(4), partition.WithBuffer(8), partition.WithLogger(quietLogger()))
	require.NoError(t, pool.Start(context.Background()))

	var (
		mu  sync.Mutex
		got = map[string][]int{}
	)
	keys := []string{"alpha", "beta", "gamma"}
	for i := range 50 {
		for _, key := range keys {
			require.NoError(t, pool.Submit(context.Background(), key, func(context.Context) error {
				mu.Lock()
				got[key] = append(got[key], i)
				mu.Unlock()
				return nil
			}))
		}
	}
	require.NoError(t, pool.Stop())

	for _, key := range keys {
		require.Len(t, got[key], 50, key)
		for i, v := range got[key] {
			assert.Equal(t, i, v, "key %s out of order", key)
		}
	}
}

func TestPool_LaneForIsStable(t *testing.T) {
	t.Parallel()

	pool := partition.New(partition.WithLanes(16))
	assert.Equal(t, 16, pool.Lanes())

	for _, key := range []string{"a", "b", "3f0c9a52-0000-4000-8000-000000000001"} {
		lane := pool.LaneFor(key)
		assert.GreaterOrEqual(t, lane, 0)
		assert.Less(t, lane, 16)
		assert.Equal(t, lane, pool.LaneFor(key))
	}
}

func TestPool_FailuresDoNotStopLane(t *testing.T) {
	t.Parallel()

	var (
		failures atomic.Int32
		ran      atomic.Int32
	)
	pool := partition.New(
		partition.WithLanes(1),
		partition.WithLogger(quietLogger()),
		partition.WithErrorHandler(func(_ context.Context, key string, err error) {
			assert.Equal(t, "k", key)
			assert.Error(t, err)
			failures.Add(1)
		}),
	)
	require.NoError(t, pool.Start(context.Background()))

	require.NoError(t, pool.Submit(context.Background(), "k", func(context.Context) error {
		return errors.New("boom")
	}))
	require.NoError(t, pool.Submit(context.Background(), "k", func(context.Context) error {
		panic("kaboom")
	}))
	require.NoError(t, pool.Submit(context.Background(), "k", func(context.Context) error {
		ran.Add(1)
		return nil
	}))
	require.NoError(t, pool.Stop())

	assert.Equal(t, int32(2), failures.Load())
	assert.Equal(t, int32(1), ran.Load())
}

func TestPool_SubmitRespectsContext(t *testing.T) {
	t.Parallel()

	pool := partition.New(partition.WithLanes(1), partition.WithBuffer(0), partition.WithLogger(quietLogger()))
	require.NoError(t, pool.Start(context.Background()))

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, pool.Submit(context.Background(), "k", func(context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := pool.Submit(ctx, "k", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, pool.Stop())
}

func TestPool_Run(t *testing.T) {
	t.Parallel()

	pool := partition.New(partition.WithLogger(quietLogger()))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- pool.Run(ctx)() }()

	assert.Eventually(t, func() bool {
		return pool.Submit(context.Background(), "k", func(context.Context) error { return nil }) == nil
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("pool did not stop")
	}
}
