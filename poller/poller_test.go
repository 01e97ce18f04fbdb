package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/singleflight"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mustNew(t *testing.T, key string, interval time.Duration, fetch FetchFunc, opts ...Option) *Poller {
	t.Helper()
	p, err := New(key, interval, fetch, opts...)
	require.NoError(t, err)
	return p
}

func TestRejectsNonPositiveInterval(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		p, err := New("bad", d, func(context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrInvalidInterval)
		assert.Nil(t, p)
	}
}

func TestPollersDoNotShareFetchesByDefault(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var aRuns, bRuns atomic.Int64
	a := mustNew(t, "orders:9", time.Hour, func(ctx context.Context) error {
		aRuns.Add(1)
		close(started)
		<-release
		return nil
	})
	b := mustNew(t, "orders:9", time.Hour, func(ctx context.Context) error {
		bRuns.Add(1)
		return nil
	})

	errs := make(chan error, 1)
	go func() { errs <- a.Do(context.Background()) }()
	<-started
	require.NoError(t, b.Do(context.Background()))
	close(release)
	require.NoError(t, <-errs)

	assert.Equal(t, int64(1), aRuns.Load())
	assert.Equal(t, int64(1), bRuns.Load(), "each poller runs its own fetch")
}

func TestFetchesImmediatelyAndOnInterval(t *testing.T) {
	var calls atomic.Int64
	p := mustNew(t, "interval", 10*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, WithGroup(&singleflight.Group{}))

	p.Start(context.Background())
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	p.Stop()

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "no fetch after Stop")
}

func TestSkipsTicksWhileFetching(t *testing.T) {
	release := make(chan struct{})
	p := mustNew(t, "slow", 5*time.Millisecond, func(ctx context.Context) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}, WithGroup(&singleflight.Group{}))

	p.Start(context.Background())
	require.Eventually(t, func() bool { return p.Skipped() >= 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), p.Runs())
	close(release)
	p.Stop()
}

func TestStopCancelsInFlightFetch(t *testing.T) {
	started := make(chan struct{})
	var cancelled atomic.Bool
	p := mustNew(t, "blocking", time.Hour, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	}, WithGroup(&singleflight.Group{}))

	p.Start(context.Background())
	<-started
	p.Stop()
	assert.True(t, cancelled.Load())
	assert.False(t, p.InFlight())
}

func TestParentContextCancellationStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := mustNew(t, "parent", 5*time.Millisecond, func(ctx context.Context) error { return nil },
		WithGroup(&singleflight.Group{}))
	p.Start(ctx)
	cancel()
	p.Stop()
}

func TestConcurrentFetchesForSameKeyAreCoalesced(t *testing.T) {
	group := &singleflight.Group{}
	started := make(chan struct{})
	release := make(chan struct{})
	var runs atomic.Int64
	fetch := func(ctx context.Context) error {
		if runs.Add(1) == 1 {
			close(started)
		}
		<-release
		return nil
	}

	a := mustNew(t, "orders:7", time.Hour, fetch, WithGroup(group))
	b := mustNew(t, "orders:7", time.Hour, fetch, WithGroup(group))

	errs := make(chan error, 2)
	go func() { errs <- a.Do(context.Background()) }()
	<-started
	go func() { errs <- b.Do(context.Background()) }()
	time.Sleep(20 * time.Millisecond)
	close(release)

	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	assert.Equal(t, int64(1), runs.Load())
}

func TestErrorHandlerReceivesFailures(t *testing.T) {
	got := make(chan error, 1)
	p := mustNew(t, "failing", time.Hour, func(ctx context.Context) error {
		return errors.New("boom")
	}, WithGroup(&singleflight.Group{}), WithErrorHandler(func(err error) {
		select {
		case got <- err:
		default:
		}
	}))

	p.Start(context.Background())
	select {
	case err := <-got:
		assert.EqualError(t, err, "boom")
	case <-time.After(time.Second):
		t.Fatal("error handler not called")
	}
	p.Stop()
}
