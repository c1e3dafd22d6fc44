package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkItemRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkItemRepo(db)
	ctx := context.Background()

	item := testutil.NewTestWorkItem("Investigate login failures", testutil.WithAssignedTo("alice"))
	require.NoError(t, repo.Create(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, domain.KindCase, got.Kind)
	assert.Equal(t, item.Number, got.Number)
	assert.Equal(t, "Investigate login failures", got.Title)
	require.NotNil(t, got.AssignedTo)
	assert.Equal(t, "alice", *got.AssignedTo)
	assert.False(t, got.IsCompleted)
}

func TestWorkItemRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkItemRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestWorkItemRepo_GetByNumber(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkItemRepo(db)
	ctx := context.Background()

	item := testutil.NewTestWorkItem("Numbered", testutil.WithNumber("CASE-LOOKUP"))
	require.NoError(t, repo.Create(ctx, item))

	got, err := repo.GetByNumber(ctx, "CASE-LOOKUP")
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)

	_, err = repo.GetByNumber(ctx, "CASE-MISSING")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestWorkItemRepo_List_FiltersByKind(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkItemRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestWorkItem("Case A")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestWorkItem("Case B")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestWorkItem("Todo A", testutil.WithKind(domain.KindTodo))))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	cases, err := repo.List(ctx, domain.KindCase)
	require.NoError(t, err)
	assert.Len(t, cases, 2)

	todos, err := repo.List(ctx, domain.KindTodo)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Todo A", todos[0].Title)
}

func TestWorkItemRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkItemRepo(db)
	ctx := context.Background()

	item := testutil.NewTestWorkItem("Original", testutil.WithKind(domain.KindTodo))
	require.NoError(t, repo.Create(ctx, item))

	item.Title = "Renamed"
	item.IsCompleted = true
	require.NoError(t, repo.Update(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.True(t, got.IsCompleted)
}

func TestWorkItemRepo_Upsert_InsertsThenUpdatesInPlace(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkItemRepo(db)
	ctx := context.Background()

	item := testutil.NewTestWorkItem("First write")
	require.NoError(t, repo.Upsert(ctx, item))

	item.Title = "Second write"
	require.NoError(t, repo.Upsert(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second write", got.Title)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert must not duplicate the row")
}

func TestWorkItemRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkItemRepo(db)
	ctx := context.Background()

	item := testutil.NewTestWorkItem("Doomed")
	require.NoError(t, repo.Create(ctx, item))
	require.NoError(t, repo.Delete(ctx, item.ID))

	_, err := repo.GetByID(ctx, item.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
