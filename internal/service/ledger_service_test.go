package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/repository"
	"github.com/andresjgsalzate/case-management-system-sub003/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger(f *fixture) LedgerService {
	return NewLedgerService(f.entries, f.manual, f.uow)
}

func TestLedgerAddManual_CreditsControlTotal(t *testing.T) {
	f := newFixture(t)
	svc := newLedger(f)
	ctx := context.Background()

	_, ctrl := f.seedItem(t, "alice", nil)

	entry, err := svc.AddManual(ctx, ctrl.ID, "2025-06-01", 45, "offline research", "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, 45, entry.DurationMinutes)
	assert.Equal(t, "alice", entry.UserID, "entry belongs to the control's owner")
	assert.Equal(t, "alice", entry.CreatedBy)

	got, err := f.controls.GetByID(ctx, ctrl.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, got.TotalTimeMinutes)
}

func TestLedgerAddManual_RecorderMayDifferFromOwner(t *testing.T) {
	f := newFixture(t)
	svc := newLedger(f)
	ctx := context.Background()

	_, ctrl := f.seedItem(t, "alice", nil)

	entry, err := svc.AddManual(ctx, ctrl.ID, "2025-06-01", 30, "logged on behalf", "supervisor-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", entry.UserID)
	assert.Equal(t, "supervisor-1", entry.CreatedBy)
}

func TestLedgerAddManual_Validation(t *testing.T) {
	f := newFixture(t)
	svc := newLedger(f)
	ctx := context.Background()

	_, ctrl := f.seedItem(t, "alice", nil)

	tests := []struct {
		name        string
		date        string
		minutes     int
		description string
		wantErr     error
	}{
		{"zero minutes", "2025-06-01", 0, "work", ErrInvalidDuration},
		{"negative minutes", "2025-06-01", -10, "work", ErrInvalidDuration},
		{"empty description", "2025-06-01", 30, "   ", ErrValidation},
		{"malformed date", "01/06/2025", 30, "work", ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddManual(ctx, ctrl.ID, tt.date, tt.minutes, tt.description, "alice")
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}

	// Nothing was written.
	got, err := f.controls.GetByID(ctx, ctrl.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalTimeMinutes)
}

func TestLedgerAddManual_UnknownControl(t *testing.T) {
	f := newFixture(t)
	svc := newLedger(f)

	_, err := svc.AddManual(context.Background(), "nonexistent", "2025-06-01", 30, "work", "alice")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestLedgerAddManual_RollbackOnTotalUpdateFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, ctrl := f.seedItem(t, "alice", nil)

	// ExecContext #1 = manual entry insert, #2 = control total update.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     f.db,
		FailOn: 2,
		Err:    fmt.Errorf("injected total update failure"),
	}
	svc := NewLedgerService(f.entries, f.manual, failUoW)

	_, err := svc.AddManual(ctx, ctrl.ID, "2025-06-01", 30, "work", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected total update failure")

	// The entry insert was rolled back with the failed total update.
	entries, err := f.manual.ListByControl(ctx, ctrl.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	got, err := f.controls.GetByID(ctx, ctrl.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalTimeMinutes)
}

func TestLedgerDeleteManualEntry_OwnerRoundTrip(t *testing.T) {
	f := newFixture(t)
	svc := newLedger(f)
	ctx := context.Background()

	_, ctrl := f.seedItem(t, "alice", nil)

	entry, err := svc.AddManual(ctx, ctrl.ID, "2025-06-01", 45, "to be removed", "alice")
	require.NoError(t, err)

	result, err := svc.DeleteManualEntry(ctx, entry.ID, "alice", domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, result.DeletedID)
	assert.Equal(t, 0, result.NewTotalMinutes)

	got, err := f.controls.GetByID(ctx, ctrl.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalTimeMinutes, "add then delete restores the original total")

	_, err = f.manual.GetByID(ctx, entry.ID)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestLedgerDeleteManualEntry_Permissions(t *testing.T) {
	f := newFixture(t)
	svc := newLedger(f)
	ctx := context.Background()

	_, ctrl := f.seedItem(t, "alice", nil)

	seed := func() *domain.ManualTimeEntry {
		entry, err := svc.AddManual(ctx, ctrl.ID, "2025-06-01", 20, "work", "carol")
		require.NoError(t, err)
		return entry
	}

	// Unrelated plain user: forbidden, entry untouched.
	entry := seed()
	_, err := svc.DeleteManualEntry(ctx, entry.ID, "mallory", domain.RoleUser)
	assert.True(t, errors.Is(err, ErrForbidden))
	_, err = f.manual.GetByID(ctx, entry.ID)
	require.NoError(t, err)

	// The recorder may delete what they logged.
	_, err = svc.DeleteManualEntry(ctx, entry.ID, "carol", domain.RoleUser)
	require.NoError(t, err)

	// A privileged role may delete anyone's entry.
	entry = seed()
	_, err = svc.DeleteManualEntry(ctx, entry.ID, "admin-1", domain.RoleAdmin)
	require.NoError(t, err)
}

func TestLedgerDeleteTimeEntry_OwnerRoundTrip(t *testing.T) {
	f := newFixture(t)
	svc := newLedger(f)
	ctx := context.Background()

	_, ctrl := f.seedItem(t, "alice", nil, testutil.WithTotalMinutes(30))
	entry := testutil.NewTestTimeEntry(ctrl.ID, "alice", 30)
	require.NoError(t, f.entries.Create(ctx, entry))

	result, err := svc.DeleteTimeEntry(ctx, entry.ID, "alice", domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, 0, result.NewTotalMinutes)

	got, err := f.controls.GetByID(ctx, ctrl.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalTimeMinutes)
}

func TestLedgerDeleteTimeEntry_NonOwnerForbidden(t *testing.T) {
	f := newFixture(t)
	svc := newLedger(f)
	ctx := context.Background()

	_, ctrl := f.seedItem(t, "alice", nil, testutil.WithTotalMinutes(30))
	entry := testutil.NewTestTimeEntry(ctrl.ID, "alice", 30)
	require.NoError(t, f.entries.Create(ctx, entry))

	_, err := svc.DeleteTimeEntry(ctx, entry.ID, "bob", domain.RoleUser)
	assert.True(t, errors.Is(err, ErrForbidden))

	// Supervisor may override.
	_, err = svc.DeleteTimeEntry(ctx, entry.ID, "bob", domain.RoleSupervisor)
	require.NoError(t, err)
}

func TestLedgerDeleteTimeEntry_RunningEntryRejected(t *testing.T) {
	f := newFixture(t)
	svc := newLedger(f)
	ctx := context.Background()

	_, ctrl := f.seedItem(t, "alice", nil)
	open := testutil.NewTestOpenTimeEntry(ctrl.ID, "alice", time.Now().UTC().Add(-5*time.Minute))
	require.NoError(t, f.entries.Create(ctx, open))

	_, err := svc.DeleteTimeEntry(ctx, open.ID, "alice", domain.RoleUser)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDuration))

	// The open cycle is still there.
	_, err = f.entries.GetOpenByControl(ctx, ctrl.ID)
	require.NoError(t, err)
}

func TestLedgerListEntries(t *testing.T) {
	f := newFixture(t)
	svc := newLedger(f)
	ctx := context.Background()

	_, ctrl := f.seedItem(t, "alice", nil)
	require.NoError(t, f.entries.Create(ctx, testutil.NewTestTimeEntry(ctrl.ID, "alice", 30)))
	require.NoError(t, f.manual.Create(ctx, testutil.NewTestManualEntry(ctrl.ID, "alice", "2025-06-01", 15, "notes")))

	got, err := svc.ListEntries(ctx, ctrl.ID)
	require.NoError(t, err)
	assert.Len(t, got.TimeEntries, 1)
	assert.Len(t, got.ManualEntries, 1)
}
