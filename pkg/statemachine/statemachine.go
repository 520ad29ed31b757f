package statemachine

import (
	"context"
)

// State represents a state in the state machine.
type State interface {
	Name() string
}

// Event represents an event type that can trigger a state transition.
type Event interface {
	Name() string
}

// ActionID identifies the side effect bound to a transition.
type ActionID string

func (a ActionID) String() string {
	return string(a)
}

// Transition maps a (From, Event) pair to a target state and the action to run.
// Transitions are values and are never mutated after the table is built.
type Transition struct {
	From   State
	To     State
	Event  Event
	Action ActionID
}

// Action executes the side effect bound to a transition.
type Action[D any] func(ctx context.Context, data D) error

// Guard decides whether the action bound to a matched transition runs.
// Returning false skips the action; the state still advances.
type Guard[D any] func(ctx context.Context, from State, event Event, data D) bool

// Outcome describes a single handled transition. It is passed to observers
// after the target state has been selected.
type Outcome struct {
	From     State
	To       State
	Event    Event
	Action   ActionID
	Executed bool
	Err      error
}

// Observer receives an Outcome for every successfully matched transition.
type Observer func(ctx context.Context, o Outcome)

// StringState provides a simple string-based state implementation for basic use cases.
type StringState string

func (s StringState) Name() string {
	return string(s)
}

// StringEvent provides a simple string-based event implementation for basic use cases.
type StringEvent string

func (e StringEvent) Name() string {
	return string(e)
}

func nameOf(v interface{ Name() string }) string {
	if v == nil {
		return "<nil>"
	}
	return v.Name()
}
