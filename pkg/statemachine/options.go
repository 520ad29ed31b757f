package statemachine

import (
	"log/slog"
)

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*dispatcherOptions)

type dispatcherOptions struct {
	logger *slog.Logger
}

// WithDispatcherLogger sets the logger used for action failures.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(o *dispatcherOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Option configures an Engine during construction.
type Option[D any] func(*Engine[D])

// WithGuard sets the guard consulted before each action. Without a guard
// every matched action runs.
func WithGuard[D any](guard Guard[D]) Option[D] {
	return func(e *Engine[D]) {
		if guard != nil {
			e.guard = guard
		}
	}
}

// WithObserver adds an observer notified with the Outcome of every matched transition.
func WithObserver[D any](observer Observer) Option[D] {
	return func(e *Engine[D]) {
		if observer != nil {
			e.observers = append(e.observers, observer)
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger[D any](logger *slog.Logger) Option[D] {
	return func(e *Engine[D]) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithInitialState overrides the initial state. By default it is the source
// state of the first transition in the table.
func WithInitialState[D any](state State) Option[D] {
	return func(e *Engine[D]) {
		e.initial = state
	}
}
