package statemachine_test

import (
	"context"
	"testing"

	"github.com/dmitrymomot/accountworker/pkg/statemachine"
)

func BenchmarkEngine_Handle(b *testing.B) {
	ctx := context.Background()

	idle := statemachine.StringState("idle")
	running := statemachine.StringState("running")
	start := statemachine.StringEvent("start")
	stop := statemachine.StringEvent("stop")

	table := statemachine.MustNewTable(
		statemachine.Transition{From: idle, To: running, Event: start, Action: "start"},
		statemachine.Transition{From: running, To: idle, Event: stop, Action: "stop"},
	)
	d := statemachine.NewDispatcher[int](statemachine.WithDispatcherLogger(discard))
	_ = d.Register("start", func(context.Context, int) error { return nil })
	_ = d.Register("stop", func(context.Context, int) error { return nil })
	engine := statemachine.MustNewEngine(table, d, statemachine.WithLogger[int](discard))

	b.ResetTimer()

	for b.Loop() {
		s, _ := engine.Handle(ctx, idle, start, 1)
		_, _ = engine.Handle(ctx, s, stop, 1)
	}
}

func BenchmarkTable_Lookup(b *testing.B) {
	idle := statemachine.StringState("idle")
	running := statemachine.StringState("running")
	start := statemachine.StringEvent("start")

	table := statemachine.MustNewTable(
		statemachine.Transition{From: idle, To: running, Event: start, Action: "start"},
	)

	for b.Loop() {
		_, _ = table.Lookup(idle, start)
	}
}
