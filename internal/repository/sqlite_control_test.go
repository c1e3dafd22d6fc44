package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newControlFixture persists a work item plus its control and returns both.
func newControlFixture(t *testing.T, repo *SQLiteWorkItemRepo, controls *SQLiteControlRepo, userID string, opts ...testutil.ControlOption) (*domain.WorkItem, *domain.Control) {
	t.Helper()
	ctx := context.Background()

	item := testutil.NewTestWorkItem("Control fixture")
	require.NoError(t, repo.Create(ctx, item))

	ctrl := testutil.NewTestControl(item.ID, userID, opts...)
	require.NoError(t, controls.Create(ctx, ctrl))
	return item, ctrl
}

func TestControlRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := NewSQLiteWorkItemRepo(db)
	controls := NewSQLiteControlRepo(db)
	ctx := context.Background()

	_, ctrl := newControlFixture(t, items, controls, "alice", testutil.WithTotalMinutes(45))

	got, err := controls.GetByID(ctx, ctrl.ID)
	require.NoError(t, err)
	assert.Equal(t, ctrl.ID, got.ID)
	assert.Equal(t, "alice", got.UserID)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, 45, got.TotalTimeMinutes)
	assert.False(t, got.IsTimerActive)
	assert.Nil(t, got.TimerStartAt)
}

func TestControlRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	controls := NewSQLiteControlRepo(db)

	_, err := controls.GetByID(context.Background(), "nonexistent")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestControlRepo_GetByWorkItem(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := NewSQLiteWorkItemRepo(db)
	controls := NewSQLiteControlRepo(db)
	ctx := context.Background()

	item, ctrl := newControlFixture(t, items, controls, "alice")

	got, err := controls.GetByWorkItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, ctrl.ID, got.ID)

	_, err = controls.GetByWorkItem(ctx, "no-such-item")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestControlRepo_ListRunningByUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := NewSQLiteWorkItemRepo(db)
	controls := NewSQLiteControlRepo(db)
	ctx := context.Background()

	startAt := time.Now().UTC().Add(-10 * time.Minute)
	_, running := newControlFixture(t, items, controls, "alice", testutil.WithRunningTimer(startAt))
	newControlFixture(t, items, controls, "alice") // idle control, same user
	newControlFixture(t, items, controls, "bob", testutil.WithRunningTimer(startAt))

	got, err := controls.ListRunningByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, running.ID, got[0].ID)
	assert.True(t, got[0].IsTimerActive)
	require.NotNil(t, got[0].TimerStartAt)
	assert.WithinDuration(t, startAt, *got[0].TimerStartAt, time.Second)
}

func TestControlRepo_Update_RoundTripsTimerState(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := NewSQLiteWorkItemRepo(db)
	controls := NewSQLiteControlRepo(db)
	ctx := context.Background()

	_, ctrl := newControlFixture(t, items, controls, "alice")

	now := time.Now().UTC()
	ctrl.ActivateTimer(now)
	require.NoError(t, controls.Update(ctx, ctrl))

	got, err := controls.GetByID(ctx, ctrl.ID)
	require.NoError(t, err)
	assert.True(t, got.IsTimerActive)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	require.NotNil(t, got.TimerStartAt)
	assert.WithinDuration(t, now, *got.TimerStartAt, time.Second)
	require.NotNil(t, got.StartedAt)

	got.CreditTimerStop(25, now.Add(25*time.Minute), domain.StatusPaused)
	require.NoError(t, controls.Update(ctx, got))

	final, err := controls.GetByID(ctx, ctrl.ID)
	require.NoError(t, err)
	assert.False(t, final.IsTimerActive)
	assert.Nil(t, final.TimerStartAt)
	assert.Equal(t, 25, final.TotalTimeMinutes)
	assert.Equal(t, domain.StatusPaused, final.Status)
}

func TestControlRepo_Upsert_PreservesIdentity(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := NewSQLiteWorkItemRepo(db)
	controls := NewSQLiteControlRepo(db)
	ctx := context.Background()

	item, ctrl := newControlFixture(t, items, controls, "alice", testutil.WithTotalMinutes(10))

	ctrl.TotalTimeMinutes = 99
	ctrl.UserID = "bob"
	require.NoError(t, controls.Upsert(ctx, ctrl))

	got, err := controls.GetByID(ctx, ctrl.ID)
	require.NoError(t, err)
	assert.Equal(t, 99, got.TotalTimeMinutes)
	assert.Equal(t, "bob", got.UserID)

	listed, err := controls.ListByWorkItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestControlRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := NewSQLiteWorkItemRepo(db)
	controls := NewSQLiteControlRepo(db)
	ctx := context.Background()

	_, ctrl := newControlFixture(t, items, controls, "alice")
	require.NoError(t, controls.Delete(ctx, ctrl.ID))

	_, err := controls.GetByID(ctx, ctrl.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
