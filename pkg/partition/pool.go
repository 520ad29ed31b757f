package partition

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/dmitrymomot/accountworker/pkg/logger"
)

// Job is a unit of work bound to a partition key.
type Job func(ctx context.Context) error

type task struct {
	key string
	job Job
	ctx context.Context
}

// Pool runs jobs on a fixed set of lanes. Jobs sharing a key always land on the
// same lane and therefore run one at a time, in submission order. Jobs with
// different keys may run in parallel.
type Pool struct {
	id      uuid.UUID
	lanes   []chan task
	buffer  int
	logger  *slog.Logger
	onError ErrorHandler

	mu       sync.RWMutex
	wg       sync.WaitGroup
	started  bool
	stopping bool
}

// New creates a stopped pool.
func New(opts ...Option) *Pool {
	options := &poolOptions{
		lanes:  4,
		buffer: 64,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Pool{
		id:      uuid.New(),
		lanes:   make([]chan task, options.lanes),
		buffer:  options.buffer,
		logger:  options.logger,
		onError: options.onError,
	}
}

// Lanes returns the number of lanes.
func (p *Pool) Lanes() int {
	return len(p.lanes)
}

// LaneFor returns the lane index a key is routed to.
func (p *Pool) LaneFor(key string) int {
	return int(xxhash.Sum64String(key) % uint64(len(p.lanes)))
}

// Start launches one goroutine per lane.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrAlreadyStarted
	}

	for i := range p.lanes {
		p.lanes[i] = make(chan task, p.buffer)
		p.wg.Add(1)
		go p.runLane(i, p.lanes[i])
	}
	p.started = true
	p.stopping = false

	p.logger.InfoContext(ctx, "partition pool started",
		slog.String("pool_id", p.id.String()),
		slog.Int("lanes", len(p.lanes)))

	return nil
}

// Submit queues job on the lane owning key. It blocks while the lane buffer is
// full and gives up when ctx is done. The job receives ctx without its
// cancellation, so queued work still completes during a graceful Stop.
func (p *Pool) Submit(ctx context.Context, key string, job Job) error {
	if key == "" {
		return ErrEmptyKey
	}
	if job == nil {
		return ErrNilJob
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started {
		return ErrNotStarted
	}
	if p.stopping {
		return ErrStopping
	}

	select {
	case p.lanes[p.LaneFor(key)] <- task{key: key, job: job, ctx: context.WithoutCancel(ctx)}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop stops accepting jobs, drains the queued ones and waits for the lanes to exit.
func (p *Pool) Stop() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return ErrNotStarted
	}
	if p.stopping {
		p.mu.Unlock()
		return ErrStopping
	}
	p.stopping = true
	for _, lane := range p.lanes {
		close(lane)
	}
	p.mu.Unlock()

	p.logger.Info("partition pool stopping, draining lanes",
		slog.String("pool_id", p.id.String()))

	p.wg.Wait()

	p.mu.Lock()
	p.started = false
	p.mu.Unlock()

	p.logger.Info("partition pool stopped",
		slog.String("pool_id", p.id.String()))

	return nil
}

// Run starts the pool and returns a function suitable for errgroup.
func (p *Pool) Run(ctx context.Context) func() error {
	return func() error {
		if err := p.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()

		return p.Stop()
	}
}

func (p *Pool) runLane(n int, lane <-chan task) {
	defer p.wg.Done()

	for t := range lane {
		p.process(n, t)
	}
}

func (p *Pool) process(n int, t task) {
	start := time.Now()

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in job: %v", r)
			}
		}()
		err = t.job(t.ctx)
	}()

	if err == nil {
		p.logger.DebugContext(t.ctx, "job completed",
			slog.String("key", t.key),
			logger.Lane(n),
			logger.Duration(time.Since(start)))
		return
	}

	p.logger.WarnContext(t.ctx, "job failed",
		slog.String("key", t.key),
		logger.Lane(n),
		logger.Duration(time.Since(start)),
		logger.Error(err))

	if p.onError != nil {
		p.onError(t.ctx, t.key, err)
	}
}
