package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accountworker/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("transition", logger.FromState("a"), logger.ToState("b"))
	require.Equal(t, "transition", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "from_state", g[0].Key)
	assert.Equal(t, "to_state", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestTransitionAttrs(t *testing.T) {
	tests := []struct {
		attr slog.Attr
		key  string
		want any
	}{
		{logger.AccountID("acc-1"), "account_id", "acc-1"},
		{logger.EventID("evt-1"), "event_id", "evt-1"},
		{logger.EventType("ACCOUNT_CREATED"), "event_type", "ACCOUNT_CREATED"},
		{logger.FromState("ACCOUNT_CREATED"), "from_state", "ACCOUNT_CREATED"},
		{logger.ToState("ACCOUNT_PENDING"), "to_state", "ACCOUNT_PENDING"},
		{logger.Action("createAccount"), "action", "createAccount"},
		{logger.Executed(true), "executed", true},
		{logger.Component("engine"), "component", "engine"},
		{logger.Lane(3), "lane", int64(3)},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}

	assert.True(t, logger.AccountID(nil).Equal(slog.Attr{}))
	assert.True(t, logger.EventID(nil).Equal(slog.Attr{}))
}
