package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultNotifyTimeout bounds a single detached notification.
const DefaultNotifyTimeout = 30 * time.Second

// Dispatcher runs detached units of work. Failures go to the logger, never
// back to the caller that submitted them.
type Dispatcher struct {
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(logger *slog.Logger, timeout time.Duration) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}
	return &Dispatcher{logger: logger, timeout: timeout}
}

// Go starts fn on its own goroutine and returns immediately. fn keeps the
// values of parent (trace span, request attributes) but not its cancellation.
// Once Wait has been called the task is dropped and logged instead.
func (d *Dispatcher) Go(parent context.Context, task string, fn func(context.Context) error, attrs ...slog.Attr) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.logger.WarnContext(parent, "background task dropped", taskArgs(task, attrs, errDispatcherClosed)...)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), d.timeout)
	d.wg.Go(func() {
		defer cancel()
		if err := d.run(ctx, fn); err != nil {
			d.logger.WarnContext(ctx, "background task failed", taskArgs(task, attrs, err)...)
		}
	})
}

var errDispatcherClosed = errors.New("dispatcher is shut down")

func taskArgs(task string, attrs []slog.Attr, err error) []any {
	args := make([]any, 0, len(attrs)+2)
	args = append(args, slog.String("task", task))
	for _, a := range attrs {
		args = append(args, a)
	}
	return append(args, slog.Any("error", err))
}

func (d *Dispatcher) run(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

// Wait stops accepting tasks and blocks until every submitted task finishes
// or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
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
		return ctx.Err()
	}
}
