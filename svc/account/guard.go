package account

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/accountworker/pkg/logger"
	"github.com/dmitrymomot/accountworker/pkg/statemachine"
)

// ReplayGuard decides whether a matched transition runs its command.
//
// The command runs only when the event carries its replication marker. A bare
// event is treated as a recovery signal: the status advances, the side effect
// does not repeat. The decision depends on the event alone, never on history.
type ReplayGuard struct {
	logger *slog.Logger
}

// NewReplayGuard creates a guard. A nil logger falls back to slog.Default.
func NewReplayGuard(log *slog.Logger) *ReplayGuard {
	if log == nil {
		log = slog.Default()
	}
	return &ReplayGuard{logger: log}
}

// ShouldExecute reports whether the command bound to e must run.
// It logs the inspected event every time and never fails.
func (g *ReplayGuard) ShouldExecute(ctx context.Context, e Event) bool {
	execute := e.Replicated != nil

	g.logger.DebugContext(ctx, "replay guard decision",
		logger.EventID(e.ID),
		logger.AccountID(e.AccountID),
		logger.EventType(e.Type.String()),
		slog.Bool("marker", execute),
		logger.Executed(execute))

	return execute
}

// Guard adapts the guard to the engine.
func (g *ReplayGuard) Guard() statemachine.Guard[Event] {
	return func(ctx context.Context, _ statemachine.State, _ statemachine.Event, e Event) bool {
		return g.ShouldExecute(ctx, e)
	}
}
