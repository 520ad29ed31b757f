package statemachine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// Engine drives transitions over a Table. It keeps no current state of its own:
// callers pass the current state in and persist the returned one, so a single
// Engine can serve any number of entities concurrently.
type Engine[D any] struct {
	table      *Table
	dispatcher *Dispatcher[D]
	guard      Guard[D]
	observers  []Observer
	logger     *slog.Logger
	initial    State
}

// NewEngine wires a table to a dispatcher. Every action bound in the table
// must already be registered with the dispatcher.
func NewEngine[D any](table *Table, dispatcher *Dispatcher[D], opts ...Option[D]) (*Engine[D], error) {
	if table == nil {
		return nil, newConfigurationError(nil, "transition table is nil")
	}
	if dispatcher == nil {
		return nil, newConfigurationError(nil, "dispatcher is nil")
	}

	e := &Engine[D]{
		table:      table,
		dispatcher: dispatcher,
		logger:     slog.Default(),
		initial:    table.transitions[0].From,
	}
	for _, opt := range opts {
		opt(e)
	}

	var missing []string
	for _, id := range table.Actions() {
		if !dispatcher.Has(id) {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return nil, newConfigurationError(nil, "no action registered for %v", missing)
	}

	if e.initial == nil {
		return nil, newConfigurationError(ErrNilState, "initial state")
	}
	if !slices.ContainsFunc(table.States(), func(s State) bool { return s.Name() == e.initial.Name() }) {
		return nil, newConfigurationError(nil, "initial state %q is not part of the table", e.initial.Name())
	}

	return e, nil
}

// MustNewEngine works like NewEngine but panics on configuration errors.
func MustNewEngine[D any](table *Table, dispatcher *Dispatcher[D], opts ...Option[D]) *Engine[D] {
	e, err := NewEngine(table, dispatcher, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine engine: %v", err))
	}
	return e
}

// Initial returns the initial state.
func (e *Engine[D]) Initial() State {
	return e.initial
}

// Table returns the transition table the engine drives.
func (e *Engine[D]) Table() *Table {
	return e.table
}

// CanHandle reports whether event is valid in state current.
func (e *Engine[D]) CanHandle(current State, event Event) bool {
	_, ok := e.table.Lookup(current, event)
	return ok
}

// Handle selects the transition for (current, event), asks the guard whether
// its action must run, dispatches it if so and returns the target state.
//
// The only error returned is *InvalidTransitionError, in which case current
// is returned unchanged and nothing is dispatched. Action failures are
// reported to observers but never block the transition.
func (e *Engine[D]) Handle(ctx context.Context, current State, event Event, data D) (State, error) {
	tr, ok := e.table.Lookup(current, event)
	if !ok {
		err := NewInvalidTransitionError(nameOf(current), nameOf(event))
		e.logger.DebugContext(ctx, "transition rejected",
			slog.String("from_state", nameOf(current)),
			slog.String("event_type", nameOf(event)))
		return current, err
	}

	executed := e.guard == nil || e.guard(ctx, tr.From, tr.Event, data)

	var actionErr error
	if executed {
		actionErr = e.dispatcher.Dispatch(ctx, tr.Action, data)
	}

	outcome := Outcome{
		From:     tr.From,
		To:       tr.To,
		Event:    tr.Event,
		Action:   tr.Action,
		Executed: executed,
		Err:      actionErr,
	}

	e.logger.DebugContext(ctx, "transition handled",
		slog.String("from_state", tr.From.Name()),
		slog.String("to_state", tr.To.Name()),
		slog.String("event_type", tr.Event.Name()),
		slog.String("action", tr.Action.String()),
		slog.Bool("executed", executed))

	for _, observe := range e.observers {
		observe(ctx, outcome)
	}

	return tr.To, nil
}
