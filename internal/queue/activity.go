// Package queue defines message payloads exchanged over the message broker.
package queue

// Actions carried by EventActivity messages.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionShared  = "shared"
	ActionRevoked = "revoked"
	ActionPermSet = "permission_updated"
)

// EventActivity is published after every successful event mutation. It gives
// downstream consumers enough context to log or notify without querying the
// primary database. Publishing is best-effort: no request fails because the
// broker was unavailable.
type EventActivity struct {
	Action     string `json:"action"`
	EventID    uint64 `json:"event_id"`
	EventTitle string `json:"event_title,omitempty"`
	ActorID    uint64 `json:"actor_id"`
	ActorEmail string `json:"actor_email,omitempty"`
	TargetID   uint64 `json:"target_id,omitempty"`  // grantee for share/revoke actions
	Permission string `json:"permission,omitempty"` // grant level for share actions
	OccurredAt string `json:"occurred_at"`
}
