package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/meinhoongagan/marketplace/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrInvalidInterval = errors.New("poll interval must be positive")

// FetchFunc loads fresh state. It must return promptly once ctx is done.
type FetchFunc func(ctx context.Context) error

// Poller runs a fetch immediately and then on every interval until its
// context is cancelled or Stop is called. A tick that lands while a fetch is
// still running is skipped.
type Poller struct {
	key      string
	interval time.Duration
	fetch    FetchFunc
	group    *singleflight.Group
	onError  func(error)

	inFlight atomic.Bool
	runs     atomic.Int64
	skipped  atomic.Int64

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	fetches sync.WaitGroup
}

type Option func(*Poller)

// WithGroup coalesces fetches with every other poller sharing g and key.
// Without it each poller has its own group.
func WithGroup(g *singleflight.Group) Option {
	return func(p *Poller) { p.group = g }
}

// WithErrorHandler receives fetch errors other than cancellation.
func WithErrorHandler(fn func(error)) Option {
	return func(p *Poller) { p.onError = fn }
}

func New(key string, interval time.Duration, fetch FetchFunc, opts ...Option) (*Poller, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	p := &Poller{
		key:      key,
		interval: interval,
		fetch:    fetch,
		group:    new(singleflight.Group),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Start launches the loop. Calling Start on a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.loop(ctx, p.done)
}

// Stop cancels the loop and waits for the in-flight fetch to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.fetches.Wait()
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		return
	}
	p.fetches.Add(1)
	go func() {
		defer p.fetches.Done()
		defer p.inFlight.Store(false)

		// Waiting for the result rather than ctx keeps Stop from returning
		// while the fetch is still running.
		err := (<-p.call(ctx)).Err
		if err == nil || ctx.Err() != nil {
			return
		}
		if p.onError != nil {
			p.onError(err)
		} else {
			logger.L().Debug("poll failed", zap.String("key", p.key), zap.Error(err))
		}
	}()
}

func (p *Poller) call(ctx context.Context) <-chan singleflight.Result {
	return p.group.DoChan(p.key, func() (interface{}, error) {
		p.runs.Add(1)
		return nil, p.fetch(ctx)
	})
}

// Do fetches now, joining a fetch already running under the same key.
func (p *Poller) Do(ctx context.Context) error {
	select {
	case res := <-p.call(ctx):
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InFlight reports whether a scheduled fetch is running.
func (p *Poller) InFlight() bool { return p.inFlight.Load() }

// Runs counts fetches this poller actually executed.
func (p *Poller) Runs() int64 { return p.runs.Load() }

// Skipped counts ticks dropped because a fetch was still running.
func (p *Poller) Skipped() int64 { return p.skipped.Load() }
