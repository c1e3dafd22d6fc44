package service

import "fmt"

// Sentinel errors for the business preconditions of timer, ledger, and
// archive operations. Callers match with errors.Is and map to their own
// surfaces; repository.ErrNotFound covers missing entities.
var (
	// ErrNotOwner indicates the caller does not own the control or entry.
	ErrNotOwner = fmt.Errorf("caller does not own this control")

	// ErrForbidden indicates the caller lacks both ownership and a
	// privileged role.
	ErrForbidden = fmt.Errorf("operation not permitted for this user")

	// ErrNotRunning indicates a pause/stop on a control whose timer is idle.
	ErrNotRunning = fmt.Errorf("timer is not running")

	// ErrNotArchivable indicates the work item fails its kind-specific
	// archival precondition (an incomplete todo).
	ErrNotArchivable = fmt.Errorf("work item is not archivable")

	// ErrConflict indicates a restore would collide with a live work item
	// carrying the same number.
	ErrConflict = fmt.Errorf("a live work item with this number already exists")

	// ErrInvalidDuration indicates a manual duration that is not a positive
	// integer, or an attempt to delete a still-running automatic entry.
	ErrInvalidDuration = fmt.Errorf("invalid duration")

	// ErrValidation indicates a missing or malformed required field.
	ErrValidation = fmt.Errorf("validation failed")
)

// VerificationWarning reports a restore whose post-commit verification found
// fewer (or more) live rows than the snapshot recorded. The restored rows and
// the snapshot are both left in place for manual reconciliation; this is a
// warning, not a rollback.
type VerificationWarning struct {
	SnapshotID      string
	WantControls    int
	GotControls     int
	WantTimeEntries int
	GotTimeEntries  int
	WantManual      int
	GotManual       int
}

func (w *VerificationWarning) Error() string {
	return fmt.Sprintf(
		"restore verification mismatch for snapshot %s: controls %d/%d, time entries %d/%d, manual entries %d/%d",
		w.SnapshotID, w.GotControls, w.WantControls,
		w.GotTimeEntries, w.WantTimeEntries, w.GotManual, w.WantManual,
	)
}

// Clean reports whether every recreated row count matches the snapshot.
func (w *VerificationWarning) Clean() bool {
	return w.GotControls == w.WantControls &&
		w.GotTimeEntries == w.WantTimeEntries &&
		w.GotManual == w.WantManual
}
