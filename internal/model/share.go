package model

import "time"

// Permission levels stored on event_shares.permission. A grant of either
// level is enough to read an event; only Editor allows updating it. Deleting
// and sharing remain owner-only regardless of grant level.
const (
	PermissionViewer = "Viewer"
	PermissionEditor = "Editor"
)

// ValidPermission reports whether s is one of the accepted permission levels.
func ValidPermission(s string) bool {
	return s == PermissionViewer || s == PermissionEditor
}

// EventShare represents a row in the `event_shares` table: one grant tying an
// event to a grantee user with a permission level. The (event_id, user_id)
// pair is unique, so re-sharing updates the existing row instead of adding a
// second one.
type EventShare struct {
	ID         uint64    // event_shares.id
	EventID    uint64    // event_shares.event_id
	UserID     uint64    // event_shares.user_id
	Permission string    // event_shares.permission
	CreatedAt  time.Time // event_shares.created_at
	UpdatedAt  time.Time // event_shares.updated_at
}
