// Package postcommit runs the side effects of committed writes (web push and
// relay broadcast) on a bounded worker pool, off the request path.
package postcommit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

const (
	defaultWorkers    = 4
	defaultQueueSize  = 256
	defaultJobTimeout = 10 * time.Second
)

// Pusher is the slice of the notification service the dispatcher needs.
type Pusher interface {
	DispatchPush(ctx context.Context, job domain.PushJob) error
}

type Option func(*Dispatcher)

// WithWorkers sets how many goroutines drain the queue.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithQueueSize sets the queue capacity; Publish drops events beyond it.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queueSize = n
		}
	}
}

// WithJobTimeout bounds each push delivery and broadcast.
func WithJobTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.jobTimeout = timeout
		}
	}
}

type Dispatcher struct {
	pusher      Pusher
	broadcaster ports.Broadcaster

	workers    int
	queueSize  int
	jobTimeout time.Duration

	queue  chan domain.PostCommitEvent
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

var _ ports.PostCommitPublisher = (*Dispatcher)(nil)

// NewDispatcher starts the workers. Either dependency may be nil, in which
// case that half of each event is skipped.
func NewDispatcher(pusher Pusher, broadcaster ports.Broadcaster, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		pusher:      pusher,
		broadcaster: broadcaster,
		workers:     defaultWorkers,
		queueSize:   defaultQueueSize,
		jobTimeout:  defaultJobTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.queue = make(chan domain.PostCommitEvent, d.queueSize)
	d.wg.Add(d.workers)
	for i := 0; i < d.workers; i++ {
		go d.process()
	}
	return d
}

// Publish enqueues event without blocking. It returns false when the queue
// is full or the dispatcher is closed.
func (d *Dispatcher) Publish(event domain.PostCommitEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}

	select {
	case d.queue <- event:
		return true
	default:
		return false
	}
}

// Pending reports how many events wait for a worker.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

// Close stops intake and waits for queued events to drain or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("post-commit drain: %w", ctx.Err())
	}
}

func (d *Dispatcher) process() {
	defer d.wg.Done()
	for event := range d.queue {
		d.handle(event)
	}
}

func (d *Dispatcher) handle(event domain.PostCommitEvent) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("post-commit worker panic", zap.Any("panic", r))
		}
	}()

	if event.Broadcast != nil && d.broadcaster != nil {
		ctx, cancel := context.WithTimeout(context.Background(), d.jobTimeout)
		if err := d.broadcaster.Broadcast(ctx, *event.Broadcast); err != nil {
			zap.L().Warn("relay broadcast failed",
				zap.String("event", event.Broadcast.Event),
				zap.String("task_id", event.Broadcast.TaskID),
				zap.Error(err),
			)
		}
		cancel()
	}

	if d.pusher == nil {
		return
	}
	for _, job := range event.Pushes {
		ctx, cancel := context.WithTimeout(context.Background(), d.jobTimeout)
		if err := d.pusher.DispatchPush(ctx, job); err != nil {
			zap.L().Warn("push dispatch failed", zap.String("user_id", job.UserID), zap.Error(err))
		}
		cancel()
	}
}
