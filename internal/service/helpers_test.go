package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/db"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/repository"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/testutil"
	"github.com/stretchr/testify/require"
)

// fixture bundles a test database with direct repositories and a real UoW.
type fixture struct {
	db       *sql.DB
	uow      db.UnitOfWork
	items    *repository.SQLiteWorkItemRepo
	controls *repository.SQLiteControlRepo
	entries  *repository.SQLiteTimeEntryRepo
	manual   *repository.SQLiteManualTimeEntryRepo
	snaps    *repository.SQLiteSnapshotRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &fixture{
		db:       database,
		uow:      testutil.NewTestUoW(database),
		items:    repository.NewSQLiteWorkItemRepo(database),
		controls: repository.NewSQLiteControlRepo(database),
		entries:  repository.NewSQLiteTimeEntryRepo(database),
		manual:   repository.NewSQLiteManualTimeEntryRepo(database),
		snaps:    repository.NewSQLiteSnapshotRepo(database),
	}
}

// seedItem persists a work item with its control owned by userID.
func (f *fixture) seedItem(t *testing.T, userID string, itemOpts []testutil.WorkItemOption, ctrlOpts ...testutil.ControlOption) (*domain.WorkItem, *domain.Control) {
	t.Helper()
	ctx := context.Background()

	item := testutil.NewTestWorkItem("Seeded item", itemOpts...)
	require.NoError(t, f.items.Create(ctx, item))

	ctrl := testutil.NewTestControl(item.ID, userID, ctrlOpts...)
	require.NoError(t, f.controls.Create(ctx, ctrl))
	return item, ctrl
}

// backdateOpenEntry moves the control's open entry start back in time so a
// subsequent close credits a known number of whole minutes. The 30s slack
// keeps the floor stable while the test runs.
func (f *fixture) backdateOpenEntry(t *testing.T, controlID string, minutes int) {
	t.Helper()
	ctx := context.Background()

	open, err := f.entries.GetOpenByControl(ctx, controlID)
	require.NoError(t, err)
	open.StartTime = time.Now().UTC().Add(-time.Duration(minutes)*time.Minute - 30*time.Second)
	require.NoError(t, f.entries.Update(ctx, open))
}
