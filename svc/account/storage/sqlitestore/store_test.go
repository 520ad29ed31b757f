package sqlitestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accountworker/svc/account"
	"github.com/dmitrymomot/accountworker/svc/account/accounttest"
	"github.com/dmitrymomot/accountworker/svc/account/storage/sqlitestore"
)

func openTempStore(t *testing.T) *sqlitestore.Store {
	t.Helper()
	store, err := sqlitestore.Open(context.Background(), filepath.Join(t.TempDir(), "accounts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := sqlitestore.Open(context.Background(), " ")
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	t.Parallel()

	accounttest.RunRepositoryTests(t, func(t *testing.T) account.Repository {
		return openTempStore(t)
	})
}

func TestStore_Reopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "accounts.db")
	ctx := context.Background()
	id := uuid.New()

	store, err := sqlitestore.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.SetStatus(ctx, id, account.StatusActive))
	require.NoError(t, store.Close())

	store, err = sqlitestore.Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Healthcheck(ctx))
	a, err := store.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, account.StatusActive, a.Status)
}

func TestStore_WithService(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTempStore(t)
	svc, err := account.NewService(store, account.NewCommands(store))
	require.NoError(t, err)

	id := uuid.New()
	for _, et := range []account.EventType{account.EventCreated, account.EventConfirmed, account.EventActivated} {
		_, err := svc.Handle(ctx, account.NewEvent(et, id, account.Payload{Email: "Ann@Example.com"}))
		require.NoError(t, err)
	}

	a, err := svc.Account(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, account.StatusActive, a.Status)
	assert.Equal(t, "ann@example.com", a.Email)

	history, err := svc.History(ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}
