package statemachine_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accountworker/pkg/statemachine"
)

const (
	Draft     = statemachine.StringState("draft")
	InReview  = statemachine.StringState("in_review")
	Approved  = statemachine.StringState("approved")
	Published = statemachine.StringState("published")

	Submit  = statemachine.StringEvent("submit")
	Approve = statemachine.StringEvent("approve")
	Publish = statemachine.StringEvent("publish")
	Reopen  = statemachine.StringEvent("reopen")
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) action(name string, err error) statemachine.Action[string] {
	return func(ctx context.Context, data string) error {
		r.mu.Lock()
		r.calls = append(r.calls, name+":"+data)
		r.mu.Unlock()
		return err
	}
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func reviewTable(t *testing.T) *statemachine.Table {
	t.Helper()
	table, err := statemachine.NewTable(
		statemachine.Transition{From: Draft, To: InReview, Event: Submit, Action: "submit"},
		statemachine.Transition{From: InReview, To: Approved, Event: Approve, Action: "approve"},
		statemachine.Transition{From: Approved, To: Published, Event: Publish, Action: "publish"},
		statemachine.Transition{From: Published, To: Draft, Event: Reopen, Action: "reopen"},
		statemachine.Transition{From: Approved, To: Draft, Event: Reopen, Action: "reopen_approved"},
	)
	require.NoError(t, err)
	return table
}

func newEngine(t *testing.T, rec *recorder, failing map[statemachine.ActionID]error, opts ...statemachine.Option[string]) *statemachine.Engine[string] {
	t.Helper()
	table := reviewTable(t)
	d := statemachine.NewDispatcher[string](statemachine.WithDispatcherLogger(discard))
	for _, id := range table.Actions() {
		require.NoError(t, d.Register(id, rec.action(id.String(), failing[id])))
	}
	opts = append([]statemachine.Option[string]{statemachine.WithLogger[string](discard)}, opts...)
	engine, err := statemachine.NewEngine(table, d, opts...)
	require.NoError(t, err)
	return engine
}

func TestTable(t *testing.T) {
	t.Parallel()

	t.Run("lookup keys on state and event", func(t *testing.T) {
		t.Parallel()
		table := reviewTable(t)

		tr, ok := table.Lookup(Published, Reopen)
		require.True(t, ok)
		assert.Equal(t, statemachine.ActionID("reopen"), tr.Action)

		tr, ok = table.Lookup(Approved, Reopen)
		require.True(t, ok)
		assert.Equal(t, statemachine.ActionID("reopen_approved"), tr.Action)

		_, ok = table.Lookup(Draft, Publish)
		assert.False(t, ok)
		_, ok = table.Lookup(nil, Publish)
		assert.False(t, ok)
	})

	t.Run("rejects duplicate keys", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.NewTable(
			statemachine.Transition{From: Draft, To: InReview, Event: Submit, Action: "submit"},
			statemachine.Transition{From: Draft, To: Approved, Event: Submit, Action: "fast_track"},
		)
		require.Error(t, err)
		assert.True(t, statemachine.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "ambiguous")
	})

	t.Run("rejects incomplete transitions", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.NewTable(
			statemachine.Transition{From: nil, To: InReview, Event: Submit, Action: "submit"},
			statemachine.Transition{From: Draft, To: InReview, Event: nil, Action: "submit"},
			statemachine.Transition{From: Draft, To: InReview, Event: Submit},
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, statemachine.ErrConfiguration)
		assert.ErrorIs(t, err, statemachine.ErrNilState)
		assert.ErrorIs(t, err, statemachine.ErrNilEvent)
		assert.Contains(t, err.Error(), "transition[2]")
	})

	t.Run("rejects empty table", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.NewTable()
		assert.True(t, statemachine.IsConfigurationError(err))
	})

	t.Run("MustNewTable panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			statemachine.MustNewTable(
				statemachine.Transition{From: Draft, To: InReview, Event: Submit, Action: "a"},
				statemachine.Transition{From: Draft, To: InReview, Event: Submit, Action: "b"},
			)
		})
	})

	t.Run("introspection", func(t *testing.T) {
		t.Parallel()
		table := reviewTable(t)

		assert.Len(t, table.Transitions(), 5)
		assert.Equal(t, []statemachine.State{Draft, InReview, Approved, Published}, table.States())
		assert.Equal(t, []statemachine.Event{Submit, Approve, Publish, Reopen}, table.Events())
		assert.Len(t, table.Actions(), 5)
	})
}

func TestBuilder(t *testing.T) {
	t.Parallel()

	table, err := statemachine.NewBuilder().
		From(Draft).When(Submit).To(InReview).Do("submit").Add().
		WithTransition(InReview, Approved, Approve, "approve").
		Build()
	require.NoError(t, err)

	tr, ok := table.Lookup(InReview, Approve)
	require.True(t, ok)
	assert.Equal(t, Approved, tr.To)

	_, err = statemachine.NewBuilder().
		From(Draft).When(Submit).To(InReview).Add().
		Build()
	assert.True(t, statemachine.IsConfigurationError(err))
}

func TestDispatcher(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("registration errors", func(t *testing.T) {
		t.Parallel()
		d := statemachine.NewDispatcher[string](statemachine.WithDispatcherLogger(discard))
		noop := func(context.Context, string) error { return nil }

		require.NoError(t, d.Register("a", noop))
		assert.True(t, statemachine.IsConfigurationError(d.Register("a", noop)))
		assert.True(t, statemachine.IsConfigurationError(d.Register("", noop)))
		assert.True(t, statemachine.IsConfigurationError(d.Register("b", nil)))
		assert.True(t, d.Has("a"))
		assert.False(t, d.Has("b"))
	})

	t.Run("contains errors and panics", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		d := statemachine.NewDispatcher[string](statemachine.WithDispatcherLogger(slog.New(slog.NewTextHandler(&buf, nil))))
		boom := errors.New("boom")
		require.NoError(t, d.Register("fail", func(context.Context, string) error { return boom }))
		require.NoError(t, d.Register("panic", func(context.Context, string) error { panic("kaput") }))
		require.NoError(t, d.Register("ok", func(context.Context, string) error { return nil }))

		err := d.Dispatch(ctx, "fail", "x")
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, err, statemachine.ErrActionFailed)

		var actionErr *statemachine.ActionError
		require.NotPanics(t, func() { err = d.Dispatch(ctx, "panic", "x") })
		require.ErrorAs(t, err, &actionErr)
		assert.Equal(t, statemachine.ActionID("panic"), actionErr.Action)
		assert.Contains(t, err.Error(), "kaput")

		err = d.Dispatch(ctx, "missing", "x")
		assert.ErrorIs(t, err, statemachine.ErrActionNotRegistered)

		assert.NoError(t, d.Dispatch(ctx, "ok", "x"))
		assert.Equal(t, 3, strings.Count(buf.String(), "level=ERROR"))
	})
}

func TestEngine(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns tabulated targets", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		engine := newEngine(t, rec, nil)

		for _, tr := range engine.Table().Transitions() {
			next, err := engine.Handle(ctx, tr.From, tr.Event, "p")
			require.NoError(t, err)
			assert.Equal(t, tr.To, next)
		}
		assert.Len(t, rec.Calls(), 5)
	})

	t.Run("invalid transition leaves state and skips dispatch", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		engine := newEngine(t, rec, nil)

		next, err := engine.Handle(ctx, Draft, Publish, "p")
		require.Error(t, err)
		assert.True(t, statemachine.IsInvalidTransitionError(err))
		assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)
		assert.Equal(t, Draft, next)
		assert.Empty(t, rec.Calls())
		assert.False(t, engine.CanHandle(Draft, Publish))
		assert.True(t, engine.CanHandle(Draft, Submit))
	})

	t.Run("action failure does not block the transition", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		boom := errors.New("boom")
		var outcomes []statemachine.Outcome
		engine := newEngine(t, rec, map[statemachine.ActionID]error{"submit": boom},
			statemachine.WithObserver[string](func(_ context.Context, o statemachine.Outcome) {
				outcomes = append(outcomes, o)
			}),
		)

		next, err := engine.Handle(ctx, Draft, Submit, "p")
		require.NoError(t, err)
		assert.Equal(t, InReview, next)
		require.Len(t, outcomes, 1)
		assert.True(t, outcomes[0].Executed)
		assert.ErrorIs(t, outcomes[0].Err, boom)
		assert.Equal(t, statemachine.ActionID("submit"), outcomes[0].Action)
	})

	t.Run("guard skips the action but advances state", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		var outcome statemachine.Outcome
		engine := newEngine(t, rec, nil,
			statemachine.WithGuard(func(_ context.Context, _ statemachine.State, _ statemachine.Event, data string) bool {
				return data != ""
			}),
			statemachine.WithObserver[string](func(_ context.Context, o statemachine.Outcome) { outcome = o }),
		)

		next, err := engine.Handle(ctx, InReview, Approve, "")
		require.NoError(t, err)
		assert.Equal(t, Approved, next)
		assert.Empty(t, rec.Calls())
		assert.False(t, outcome.Executed)

		_, err = engine.Handle(ctx, InReview, Approve, "p")
		require.NoError(t, err)
		assert.Equal(t, []string{"approve:p"}, rec.Calls())
	})

	t.Run("same event resolves by source state", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		engine := newEngine(t, rec, nil)

		next, err := engine.Handle(ctx, Published, Reopen, "a")
		require.NoError(t, err)
		assert.Equal(t, Draft, next)
		next, err = engine.Handle(ctx, Approved, Reopen, "b")
		require.NoError(t, err)
		assert.Equal(t, Draft, next)
		assert.Equal(t, []string{"reopen:a", "reopen_approved:b"}, rec.Calls())
	})

	t.Run("configuration checks", func(t *testing.T) {
		t.Parallel()
		table := reviewTable(t)
		d := statemachine.NewDispatcher[string]()
		require.NoError(t, d.Register("submit", func(context.Context, string) error { return nil }))

		_, err := statemachine.NewEngine(table, d)
		require.Error(t, err)
		assert.True(t, statemachine.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "approve")

		_, err = statemachine.NewEngine[string](nil, d)
		assert.True(t, statemachine.IsConfigurationError(err))
		_, err = statemachine.NewEngine[string](table, nil)
		assert.True(t, statemachine.IsConfigurationError(err))

		assert.Panics(t, func() { statemachine.MustNewEngine(table, d) })
	})

	t.Run("initial state", func(t *testing.T) {
		t.Parallel()
		engine := newEngine(t, &recorder{}, nil)
		assert.Equal(t, Draft, engine.Initial())

		engine = newEngine(t, &recorder{}, nil, statemachine.WithInitialState[string](Approved))
		assert.Equal(t, Approved, engine.Initial())

		table := reviewTable(t)
		d := statemachine.NewDispatcher[string]()
		for _, id := range table.Actions() {
			require.NoError(t, d.Register(id, func(context.Context, string) error { return nil }))
		}
		_, err := statemachine.NewEngine(table, d, statemachine.WithInitialState[string](statemachine.StringState("ghost")))
		assert.True(t, statemachine.IsConfigurationError(err))
	})

	t.Run("concurrent handling", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		engine := newEngine(t, rec, nil)

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				next, err := engine.Handle(ctx, Draft, Submit, "p")
				assert.NoError(t, err)
				assert.Equal(t, InReview, next)
			}()
		}
		wg.Wait()
		assert.Len(t, rec.Calls(), 50)
	})
}

func TestReplay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rec := &recorder{}
	engine := newEngine(t, rec, nil)

	state, err := statemachine.Replay(ctx, engine, engine.Initial(), []statemachine.Step[string]{
		{Event: Submit, Data: "1"},
		{Event: Approve, Data: "2"},
		{Event: Publish, Data: "3"},
	})
	require.NoError(t, err)
	assert.Equal(t, Published, state)

	state, err = statemachine.Replay(ctx, engine, Draft, []statemachine.Step[string]{
		{Event: Submit, Data: "1"},
		{Event: Publish, Data: "2"},
	})
	require.Error(t, err)
	assert.True(t, statemachine.IsInvalidTransitionError(err))
	assert.Contains(t, err.Error(), "replay step 1")
	assert.Equal(t, InReview, state)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = statemachine.Replay(cancelled, engine, Draft, []statemachine.Step[string]{{Event: Submit}})
	assert.ErrorIs(t, err, context.Canceled)
}
