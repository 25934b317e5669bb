// Package poller re-fetches a value on a fixed interval in the background.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// FetchFunc loads a fresh value.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Snapshot is the latest result of a poller.
type Snapshot[T any] struct {
	Value     T         `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
	Err       error     `json:"-"`
}

// Poller runs fetch immediately on Start and then every interval until Stop.
// Each Start begins a new generation; a fetch that finishes after its
// generation was stopped is discarded.
type Poller[T any] struct {
	interval time.Duration
	fetch    FetchFunc[T]
	logger   zerolog.Logger

	mu         sync.Mutex
	snapshot   Snapshot[T]
	generation uint64
	cancel     context.CancelFunc
	done       chan struct{}
}

// New creates a stopped poller.
func New[T any](name string, interval time.Duration, fetch FetchFunc[T], logger zerolog.Logger) *Poller[T] {
	return &Poller[T]{
		interval: interval,
		fetch:    fetch,
		logger:   logger.With().Str("component", name).Logger(),
	}
}

// Start begins polling. The loop stops when ctx is done or Stop is called.
// Calling Start on a running poller does nothing.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return
	}

	p.generation++
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.loop(ctx, p.generation, p.done)

	p.logger.Info().Dur("interval", p.interval).Msg("poller started")
}

// Stop cancels the loop and waits for it to exit. Results of fetches still
// in flight are dropped.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	if p.cancel == nil {
		p.mu.Unlock()
		return
	}
	p.cancel()
	p.cancel = nil
	p.generation++
	done := p.done
	p.mu.Unlock()

	<-done
	p.logger.Info().Msg("poller stopped")
}

// Snapshot returns the latest stored result.
func (p *Poller[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// Refresh fetches once synchronously and stores the result, regardless of
// whether the loop is running.
func (p *Poller[T]) Refresh(ctx context.Context) Snapshot[T] {
	p.mu.Lock()
	gen := p.generation
	p.mu.Unlock()

	p.runOnce(ctx, gen)
	return p.Snapshot()
}

func (p *Poller[T]) loop(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	p.runOnce(ctx, gen)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runOnce(ctx, gen)
		}
	}
}

func (p *Poller[T]) runOnce(ctx context.Context, gen uint64) {
	value, err := p.fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		p.logger.Debug().Msg("discarding result of abandoned fetch")
		return
	}

	if err != nil {
		p.logger.Warn().Err(err).Msg("poll failed")
		p.snapshot.Err = err
		return
	}

	p.snapshot = Snapshot[T]{Value: value, UpdatedAt: time.Now()}
}
