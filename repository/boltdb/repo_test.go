package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskbox/domain"
	"github.com/fastygo/taskbox/repository"
)

func openStore(t *testing.T) repository.Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "taskbox.db"))
	require.NoError(t, err)
	store := NewStore(db)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	require.NoError(t, store.Ping(ctx))

	account := &domain.Account{Email: "a@x.com", PasswordHash: "hash"}
	require.NoError(t, store.Accounts.Create(ctx, account))
	require.NotEmpty(t, account.ID)

	byEmail, err := store.Accounts.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash, "hash survives the round trip")

	byID, err := store.Accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)

	err = store.Accounts.Create(ctx, &domain.Account{Email: "a@x.com", PasswordHash: "other"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	count, err := store.Accounts.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, err = store.Accounts.GetByEmail(ctx, "A@x.com")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound, "lookup is exact")

	_, err = store.Accounts.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestTaskRepository(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	due, err := domain.ParseDate("2099-01-01")
	require.NoError(t, err)

	first, err := store.Tasks.Create(ctx, &domain.Task{OwnerID: "alice", Title: "one", Description: "d", ExpiryDate: due})
	require.NoError(t, err)
	second, err := store.Tasks.Create(ctx, &domain.Task{OwnerID: "alice", Title: "two", Description: "d", ExpiryDate: due})
	require.NoError(t, err)
	_, err = store.Tasks.Create(ctx, &domain.Task{OwnerID: "bob", Title: "three", Description: "d", ExpiryDate: due})
	require.NoError(t, err)

	assert.NotNil(t, first.Tags)
	assert.False(t, first.CreatedAt.IsZero())

	alice, err := store.Tasks.List(ctx, repository.TaskFilter{OwnerID: "alice"})
	require.NoError(t, err)
	require.Len(t, alice, 2)
	assert.Equal(t, first.ID, alice[0].ID, "insertion order")
	assert.Equal(t, second.ID, alice[1].ID)

	one, err := store.Tasks.List(ctx, repository.TaskFilter{OwnerID: "bob", ID: first.ID})
	require.NoError(t, err)
	assert.Empty(t, one, "another owner's id matches nothing")

	done := true
	updated, err := store.Tasks.Update(ctx, first.ID, domain.TaskPatch{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "one", updated.Title)
	assert.Equal(t, "2099-01-01", updated.ExpiryDate.String())

	fetched, err := store.Tasks.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Completed)

	updated, err = store.Tasks.Update(ctx, first.ID, domain.TaskPatch{ExpiryDate: &domain.Date{}})
	require.NoError(t, err)
	assert.Equal(t, "2099-01-01", updated.ExpiryDate.String(), "an empty date keeps the stored one")

	_, err = store.Tasks.Update(ctx, "missing", domain.TaskPatch{Completed: &done})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	require.NoError(t, store.Tasks.Delete(ctx, first.ID))
	assert.ErrorIs(t, store.Tasks.Delete(ctx, first.ID), domain.ErrTaskNotFound)

	alice, err = store.Tasks.List(ctx, repository.TaskFilter{OwnerID: "alice"})
	require.NoError(t, err)
	require.Len(t, alice, 1)
	assert.Equal(t, second.ID, alice[0].ID)
}
