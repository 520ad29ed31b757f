// Package statemachine provides a table-driven finite-state machine whose
// transitions each bind exactly one side-effecting action.
//
// The package is split into four cooperating pieces:
//  1. Table – an immutable partial function (state, event) -> Transition,
//     validated once at construction.
//  2. Guard – decides, per handled event, whether the bound action runs.
//  3. Dispatcher – resolves an ActionID to a registered Action and contains
//     its failures (errors and panics) as *ActionError.
//  4. Engine – orchestrates lookup, guard, dispatch and returns the target state.
//
// # Architecture
//
// The Engine is stateless: Handle receives the current state and returns the
// next one, leaving persistence to the caller. This makes one Engine safe to
// share between goroutines handling different entities. Ordering of events for
// the same entity is the caller's concern.
//
// Action failures never block a transition. The dispatcher logs them and the
// engine passes them to observers via Outcome.Err; Handle itself only fails
// with *InvalidTransitionError.
//
// # Usage
//
//	const (
//	    Draft     = statemachine.StringState("draft")
//	    Published = statemachine.StringState("published")
//	    Publish   = statemachine.StringEvent("publish")
//	)
//
//	table := statemachine.MustNewTable(
//	    statemachine.Transition{From: Draft, To: Published, Event: Publish, Action: "publish"},
//	)
//
//	d := statemachine.NewDispatcher[Post]()
//	_ = d.Register("publish", func(ctx context.Context, p Post) error { return notify(ctx, p) })
//
//	engine := statemachine.MustNewEngine(table, d)
//	next, err := engine.Handle(ctx, Draft, Publish, post)
//
// # Error Handling
//
//	if statemachine.IsInvalidTransitionError(err) { /* reject or dead-letter */ }
//	if statemachine.IsConfigurationError(err)     { /* abort startup */ }
//
// Tables can also be declared in YAML (see Definition) and validated offline.
package statemachine
