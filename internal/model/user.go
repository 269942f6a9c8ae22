package model

import "time"

// Role values stored on users.role. The role is informational metadata only:
// nothing in the authorization path consults it. Access to events is decided
// purely by ownership and per-event share grants.
const (
	RoleOwner  = "Owner"
	RoleEditor = "Editor"
	RoleViewer = "Viewer"
)

// ValidRole reports whether s is one of the accepted role labels.
func ValidRole(s string) bool {
	return s == RoleOwner || s == RoleEditor || s == RoleViewer
}

// User represents a row in the `users` table. The json tags are omitted
// because these structs are used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique display name.
//  Email        – unique email address, also the JWT subject.
//  PasswordHash – bcrypt hashed password.
//  Role         – informational role label (Owner, Editor or Viewer).
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}
