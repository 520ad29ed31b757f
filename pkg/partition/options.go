package partition

import (
	"context"
	"log/slog"
)

// Option is a functional option for configuring a pool.
type Option func(*poolOptions)

// ErrorHandler receives every error returned (or panic raised) by a job.
type ErrorHandler func(ctx context.Context, key string, err error)

type poolOptions struct {
	lanes   int
	buffer  int
	logger  *slog.Logger
	onError ErrorHandler
}

// WithLanes sets how many lanes run in parallel.
func WithLanes(n int) Option {
	return func(o *poolOptions) {
		if n > 0 {
			o.lanes = n
		}
	}
}

// WithBuffer sets how many jobs each lane can queue before Submit blocks.
func WithBuffer(n int) Option {
	return func(o *poolOptions) {
		if n >= 0 {
			o.buffer = n
		}
	}
}

// WithLogger sets the logger for the pool.
func WithLogger(logger *slog.Logger) Option {
	return func(o *poolOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithErrorHandler registers a callback for job failures.
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *poolOptions) {
		o.onError = h
	}
}
