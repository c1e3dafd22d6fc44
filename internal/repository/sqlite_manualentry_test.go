package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualTimeEntryRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := NewSQLiteWorkItemRepo(db)
	controls := NewSQLiteControlRepo(db)
	manual := NewSQLiteManualTimeEntryRepo(db)
	ctx := context.Background()

	_, ctrl := newControlFixture(t, items, controls, "alice")

	entry := testutil.NewTestManualEntry(ctrl.ID, "alice", "2025-06-01", 90, "offline analysis")
	require.NoError(t, manual.Create(ctx, entry))

	got, err := manual.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, "2025-06-01", got.Date)
	assert.Equal(t, 90, got.DurationMinutes)
	assert.Equal(t, "offline analysis", got.Description)
	assert.Equal(t, "alice", got.CreatedBy)
}

func TestManualTimeEntryRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	manual := NewSQLiteManualTimeEntryRepo(db)

	_, err := manual.GetByID(context.Background(), "nonexistent")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestManualTimeEntryRepo_ListByControl(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := NewSQLiteWorkItemRepo(db)
	controls := NewSQLiteControlRepo(db)
	manual := NewSQLiteManualTimeEntryRepo(db)
	ctx := context.Background()

	_, ctrl := newControlFixture(t, items, controls, "alice")
	_, other := newControlFixture(t, items, controls, "bob")

	require.NoError(t, manual.Create(ctx, testutil.NewTestManualEntry(ctrl.ID, "alice", "2025-06-01", 30, "morning")))
	require.NoError(t, manual.Create(ctx, testutil.NewTestManualEntry(ctrl.ID, "alice", "2025-06-02", 45, "afternoon")))
	require.NoError(t, manual.Create(ctx, testutil.NewTestManualEntry(other.ID, "bob", "2025-06-01", 15, "elsewhere")))

	got, err := manual.ListByControl(ctx, ctrl.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestManualTimeEntryRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := NewSQLiteWorkItemRepo(db)
	controls := NewSQLiteControlRepo(db)
	manual := NewSQLiteManualTimeEntryRepo(db)
	ctx := context.Background()

	_, ctrl := newControlFixture(t, items, controls, "alice")
	entry := testutil.NewTestManualEntry(ctrl.ID, "alice", "2025-06-01", 30, "doomed")
	require.NoError(t, manual.Create(ctx, entry))

	require.NoError(t, manual.Delete(ctx, entry.ID))

	_, err := manual.GetByID(ctx, entry.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestManualTimeEntryRepo_DeleteByControl(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := NewSQLiteWorkItemRepo(db)
	controls := NewSQLiteControlRepo(db)
	manual := NewSQLiteManualTimeEntryRepo(db)
	ctx := context.Background()

	_, ctrl := newControlFixture(t, items, controls, "alice")
	require.NoError(t, manual.Create(ctx, testutil.NewTestManualEntry(ctrl.ID, "alice", "2025-06-01", 30, "one")))
	require.NoError(t, manual.Create(ctx, testutil.NewTestManualEntry(ctrl.ID, "alice", "2025-06-02", 60, "two")))

	require.NoError(t, manual.DeleteByControl(ctx, ctrl.ID))

	got, err := manual.ListByControl(ctx, ctrl.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestManualTimeEntryRepo_Upsert(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := NewSQLiteWorkItemRepo(db)
	controls := NewSQLiteControlRepo(db)
	manual := NewSQLiteManualTimeEntryRepo(db)
	ctx := context.Background()

	_, ctrl := newControlFixture(t, items, controls, "alice")
	entry := testutil.NewTestManualEntry(ctrl.ID, "alice", "2025-06-01", 30, "first")
	require.NoError(t, manual.Upsert(ctx, entry))

	entry.DurationMinutes = 50
	entry.Description = "second"
	require.NoError(t, manual.Upsert(ctx, entry))

	got, err := manual.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.DurationMinutes)
	assert.Equal(t, "second", got.Description)

	all, err := manual.ListByControl(ctx, ctrl.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
