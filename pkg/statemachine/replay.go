package statemachine

import (
	"context"
	"fmt"
)

// Step is a single recorded event fed to Replay.
type Step[D any] struct {
	Event Event
	Data  D
}

// Replay folds steps through the engine starting from start. It stops at the
// first invalid transition and returns the last valid state together with an
// error naming the offending step index.
func Replay[D any](ctx context.Context, e *Engine[D], start State, steps []Step[D]) (State, error) {
	state := start
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		next, err := e.Handle(ctx, state, step.Event, step.Data)
		if err != nil {
			return state, fmt.Errorf("replay step %d: %w", i, err)
		}
		state = next
	}
	return state, nil
}
