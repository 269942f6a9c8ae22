package model

import "time"

// Recurrence labels stored on events.recurrence. The label is persisted and
// returned as-is; the service never expands recurring occurrences.
const (
	RecurrenceNone    = "None"
	RecurrenceDaily   = "Daily"
	RecurrenceWeekly  = "Weekly"
	RecurrenceMonthly = "Monthly"
)

// ValidRecurrence reports whether s is one of the accepted recurrence labels.
func ValidRecurrence(s string) bool {
	switch s {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// Event represents a row in the `events` table. Every event belongs to
// exactly one owner; other users gain access only through event_shares rows.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – short human-readable title.
//  Description – optional free-form text (nullable in the DB).
//  StartTime   – when the event begins.
//  EndTime     – when the event ends.
//  Recurrence  – recurrence label (stored, never interpreted).
//  OwnerID     – references users.id of the creator.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Event struct {
	ID          uint64    // events.id
	Title       string    // events.title
	Description *string   // events.description (nullable)
	StartTime   time.Time // events.start_time
	EndTime     time.Time // events.end_time
	Recurrence  string    // events.recurrence
	OwnerID     uint64    // events.owner_id
	CreatedAt   time.Time // events.created_at
	UpdatedAt   time.Time // events.updated_at
}

// EventPatch carries a partial update for an event. Nil fields were absent
// from the request and must leave the stored value untouched (merge-patch
// semantics, not replace-whole-record).
type EventPatch struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Recurrence  *string
}

// Empty reports whether the patch carries no fields at all.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.StartTime == nil &&
		p.EndTime == nil && p.Recurrence == nil
}
