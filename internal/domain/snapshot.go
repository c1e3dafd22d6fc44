package domain

import "time"

// SnapshotPayloadVersion is the current payload schema version. Restorers
// refuse payloads with an unknown version before touching live storage.
const SnapshotPayloadVersion = 1

// Snapshot is the immutable record created when a work item is archived.
// Derived totals are stored in dedicated fields so listing and restore
// verification never need to parse the payload.
type Snapshot struct {
	ID                string
	WorkItemID        string
	WorkItemNumber    string
	WorkItemKind      WorkItemKind
	Title             string
	Payload           SnapshotPayload
	TimerTimeMinutes  int
	ManualTimeMinutes int
	TotalTimeMinutes  int
	ArchiveReason     string
	ArchivedBy        string
	ArchivedAt        time.Time
	IsRestored        bool
	RestoredAt        *time.Time
	RestoredBy        *string
	CreatedAt         time.Time
}

// SnapshotPayload is the versioned frozen form of a work item, its controls,
// and all their ledger entries. The tagged sections keep original data,
// control data, and ledger entries distinguishable for the restorer.
type SnapshotPayload struct {
	Version       int               `json:"version"`
	WorkItem      WorkItem          `json:"workItem"`
	Controls      []Control         `json:"controls"`
	TimeEntries   []TimeEntry       `json:"timeEntries"`
	ManualEntries []ManualTimeEntry `json:"manualEntries"`
}

// EntryCounts returns the number of controls, automatic entries, and manual
// entries frozen in the payload. Restore verification compares these against
// the recreated live rows.
func (p *SnapshotPayload) EntryCounts() (controls, timeEntries, manualEntries int) {
	return len(p.Controls), len(p.TimeEntries), len(p.ManualEntries)
}
