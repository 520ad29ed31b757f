package statemachine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Dispatcher resolves action ids to registered actions and contains their failures.
// Dispatch never panics: action errors and panics come back as *ActionError.
type Dispatcher[D any] struct {
	mu      sync.RWMutex
	actions map[ActionID]Action[D]
	logger  *slog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher[D any](opts ...DispatcherOption) *Dispatcher[D] {
	options := &dispatcherOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	return &Dispatcher[D]{
		actions: make(map[ActionID]Action[D]),
		logger:  options.logger,
	}
}

// Register binds an action to an id. Registering the same id twice is a configuration error.
func (d *Dispatcher[D]) Register(id ActionID, action Action[D]) error {
	if id == "" {
		return newConfigurationError(nil, "action id cannot be empty")
	}
	if action == nil {
		return newConfigurationError(nil, "action %q is nil", id)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.actions[id]; ok {
		return newConfigurationError(nil, "action %q already registered", id)
	}
	d.actions[id] = action
	return nil
}

// Has reports whether an action is registered for id.
func (d *Dispatcher[D]) Has(id ActionID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.actions[id]
	return ok
}

// Dispatch runs the action registered for id. Any failure is logged and
// returned as *ActionError; the caller decides whether to propagate it.
func (d *Dispatcher[D]) Dispatch(ctx context.Context, id ActionID, data D) (err error) {
	d.mu.RLock()
	action, ok := d.actions[id]
	d.mu.RUnlock()

	if !ok {
		err = &ActionError{Action: id, Err: ErrActionNotRegistered}
		d.logger.ErrorContext(ctx, "action dispatch failed",
			slog.String("action", id.String()),
			slog.Any("error", err))
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = &ActionError{Action: id, Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			d.logger.ErrorContext(ctx, "action failed",
				slog.String("action", id.String()),
				slog.Any("error", err))
		}
	}()

	if aerr := action(ctx, data); aerr != nil {
		return &ActionError{Action: id, Err: aerr}
	}
	return nil
}
