package domain

import "time"

// ActivityRecord is one append-only audit entry. The core only ever writes
// these; they are never read back for authorization decisions.
type ActivityRecord struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID *int64    `json:"resource_id,omitempty"`
	Details    string    `json:"details,omitempty"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	Timestamp  time.Time `json:"timestamp"`
}

// Well-known action and resource names used in audit entries.
const (
	ActionLogin  = "login"
	ActionLogout = "logout"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	ResourceAuth     = "authentication"
	ResourceUser     = "user"
	ResourceProfile  = "profile"
	ResourcePassword = "password"
)
