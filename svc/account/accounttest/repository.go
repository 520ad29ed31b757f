// Package accounttest provides a behavioural test suite shared by every
// account.Repository implementation.
package accounttest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accountworker/svc/account"
)

// Factory returns a fresh, empty repository for one subtest.
type Factory func(t *testing.T) account.Repository

// RunRepositoryTests exercises the Repository contract against newRepo.
func RunRepositoryTests(t *testing.T, newRepo Factory) {
	t.Helper()

	ctx := context.Background()
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("create and get", func(t *testing.T) {
		repo := newRepo(t)
		a := account.Account{
			ID:        uuid.New(),
			Email:     "jane@example.com",
			FirstName: "Jane",
			LastName:  "Doe",
			Status:    account.StatusCreated,
			CreatedAt: ts,
			UpdatedAt: ts,
		}
		require.NoError(t, repo.CreateAccount(ctx, a))

		got, err := repo.GetAccount(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
		assert.Equal(t, a.Email, got.Email)
		assert.Equal(t, a.FirstName, got.FirstName)
		assert.Equal(t, a.LastName, got.LastName)
		assert.Equal(t, account.StatusCreated, got.Status)
		assert.True(t, a.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", a.CreatedAt, got.CreatedAt)

		err = repo.CreateAccount(ctx, a)
		assert.ErrorIs(t, err, account.ErrAccountExists)
	})

	t.Run("get missing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetAccount(ctx, uuid.New())
		assert.ErrorIs(t, err, account.ErrAccountNotFound)
	})

	t.Run("set status upserts", func(t *testing.T) {
		repo := newRepo(t)
		id := uuid.New()

		require.NoError(t, repo.SetStatus(ctx, id, account.StatusPending))
		got, err := repo.GetAccount(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, account.StatusPending, got.Status)

		require.NoError(t, repo.SetStatus(ctx, id, account.StatusConfirmed))
		got, err = repo.GetAccount(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, account.StatusConfirmed, got.Status)
	})

	t.Run("set status keeps attributes", func(t *testing.T) {
		repo := newRepo(t)
		id := uuid.New()
		require.NoError(t, repo.CreateAccount(ctx, account.Account{
			ID: id, Email: "joe@example.com", Status: account.StatusCreated, CreatedAt: ts, UpdatedAt: ts,
		}))
		require.NoError(t, repo.SetStatus(ctx, id, account.StatusPending))

		got, err := repo.GetAccount(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "joe@example.com", got.Email)
		assert.Equal(t, account.StatusPending, got.Status)
	})

	t.Run("history is ordered and idempotent", func(t *testing.T) {
		repo := newRepo(t)
		id := uuid.New()

		entries := []account.HistoryEntry{
			{EventID: uuid.New(), AccountID: id, EventType: account.EventCreated, Action: "createAccount", AppliedAt: ts},
			{EventID: uuid.New(), AccountID: id, EventType: account.EventConfirmed, Action: "confirmAccount", AppliedAt: ts.Add(time.Second)},
			{EventID: uuid.New(), AccountID: id, EventType: account.EventActivated, Action: "activateAccount", AppliedAt: ts.Add(2 * time.Second)},
		}
		for _, e := range entries {
			require.NoError(t, repo.AppendHistory(ctx, e))
		}
		require.NoError(t, repo.AppendHistory(ctx, entries[1]))

		got, err := repo.ListHistory(ctx, id)
		require.NoError(t, err)
		require.Len(t, got, len(entries))
		for i := range entries {
			assert.Equal(t, entries[i].EventID, got[i].EventID)
			assert.Equal(t, entries[i].EventType, got[i].EventType)
			assert.Equal(t, entries[i].Action, got[i].Action)
		}

		empty, err := repo.ListHistory(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("concurrent appends", func(t *testing.T) {
		repo := newRepo(t)
		id := uuid.New()
		eventID := uuid.New()

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, repo.AppendHistory(ctx, account.HistoryEntry{
					EventID: eventID, AccountID: id, EventType: account.EventArchived, Action: "archiveAccount", AppliedAt: ts,
				}))
			}()
		}
		wg.Wait()

		got, err := repo.ListHistory(ctx, id)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
