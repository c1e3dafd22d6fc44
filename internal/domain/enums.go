package domain

type WorkItemKind string

const (
	KindCase WorkItemKind = "case"
	KindTodo WorkItemKind = "todo"
)

// ValidWorkItemKinds is the canonical set of accepted work item kind strings.
var ValidWorkItemKinds = map[string]bool{
	"case": true, "todo": true,
}

type ControlStatus string

const (
	StatusPending    ControlStatus = "pending"
	StatusInProgress ControlStatus = "in_progress"
	StatusPaused     ControlStatus = "paused"
	StatusCompleted  ControlStatus = "completed"
	StatusStopped    ControlStatus = "stopped"
)

// ValidControlStatuses is the canonical set of accepted control status strings.
var ValidControlStatuses = map[string]bool{
	"pending": true, "in_progress": true, "paused": true,
	"completed": true, "stopped": true,
}

type Role string

const (
	RoleUser       Role = "user"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// Privileged reports whether the role may act on time entries it does not own.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleSupervisor
}
