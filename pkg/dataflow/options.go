package dataflow

import (
	"context"
	"time"
)

// Option configures the behavior of pipeline stages.
type Option func(*config)

type config struct {
	workers    int
	maxRetries int
	backoff    func(int) time.Duration
	bufferSize int
	// errorHandler returns true when the error is handled and the item
	// should be skipped.
	errorHandler func(error) bool
}

func defaultConfig() *config {
	return &config{
		workers:    1,
		maxRetries: 0,
		bufferSize: 0,
	}
}

func newConfig(opts []Option) *config {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// WithWorkers sets the number of concurrent workers for a stage.
// Default is 1 (sequential).
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithBufferSize sets the buffer size for the output channel of a stage.
func WithBufferSize(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.bufferSize = n
		}
	}
}

// WithRetry retries a failing item up to maxRetries times, sleeping
// backoff(attempt) between attempts.
func WithRetry(maxRetries int, backoff func(attempt int) time.Duration) Option {
	return func(c *config) {
		c.maxRetries = maxRetries
		c.backoff = backoff
	}
}

// WithErrorHandler sets a custom error handler. If the handler returns true
// the item is skipped and the stage continues.
func WithErrorHandler(h func(error) bool) Option {
	return func(c *config) {
		c.errorHandler = h
	}
}

// run calls fn and applies the retry policy. Cancelling ctx while backing
// off returns ctx.Err().
func (c *config) run(ctx context.Context, fn func() error) error {
	err := fn()
	for i := 1; err != nil && i <= c.maxRetries; i++ {
		if c.backoff != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff(i)):
			}
		}
		err = fn()
	}
	return err
}
