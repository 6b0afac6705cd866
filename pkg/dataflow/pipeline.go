package dataflow

import (
	"context"
	"sync"
)

// Stream is a read-only channel of messages.
type Stream[T any] <-chan T

// Generate emits fn(0) .. fn(n-1).
func Generate[T any](ctx context.Context, n int, fn func(i int) T) Stream[T] {
	out := make(chan T)
	go func() {
		defer close(out)
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case out <- fn(i):
			}
		}
	}()
	return out
}

// Map transforms the stream using the provided function. Items whose
// function fails after retries are dropped, after being passed to the
// error handler if one is set.
func Map[In, Out any](ctx context.Context, input Stream[In], fn func(In) (Out, error), opts ...Option) Stream[Out] {
	cfg := newConfig(opts)
	out := make(chan Out, cfg.bufferSize)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-input:
				if !ok {
					return
				}

				var res Out
				err := cfg.run(ctx, func() error {
					var err error
					res, err = fn(msg)
					return err
				})
				if ctx.Err() != nil {
					return
				}
				if err != nil {
					if cfg.errorHandler != nil {
						cfg.errorHandler(err)
					}
					continue
				}

				select {
				case <-ctx.Done():
					return
				case out <- res:
				}
			}
		}
	}

	wg.Add(cfg.workers)
	for i := 0; i < cfg.workers; i++ {
		go worker()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// ForEach executes an action for every item in the stream and blocks until
// the stream is exhausted or ctx is cancelled. It returns the first error
// not handled by the error handler; remaining items are still drained.
func ForEach[T any](ctx context.Context, input Stream[T], fn func(T) error, opts ...Option) error {
	cfg := newConfig(opts)

	var wg sync.WaitGroup
	var errOnce sync.Once
	var firstErr error

	worker := func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-input:
				if !ok {
					return
				}
				err := cfg.run(ctx, func() error { return fn(msg) })
				if ctx.Err() != nil {
					return
				}
				if err == nil {
					continue
				}
				if cfg.errorHandler != nil && cfg.errorHandler(err) {
					continue
				}
				errOnce.Do(func() {
					firstErr = err
				})
			}
		}
	}

	wg.Add(cfg.workers)
	for i := 0; i < cfg.workers; i++ {
		go worker()
	}

	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return firstErr
}
