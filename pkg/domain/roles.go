package domain

// Role defines the sender of a message.
type Role string

const (
	// RoleUser indicates a message typed by the user.
	RoleUser Role = "user"
	// RoleModel indicates a message produced by (or attributed to) the model.
	RoleModel Role = "model"
)

// Status reflects the bulk operation currently in flight for a session.
// It exists for UI feedback and does not gate concurrent operations.
type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusLoadingDoc Status = "LOADING_DOC"
	// StatusAnalyzing is reserved; no operation currently transitions into it.
	StatusAnalyzing Status = "ANALYZING"
	StatusReady     Status = "READY"
)
