// This file defines the EventRepo with CRUD and access-resolution queries for
// events. An Event belongs to exactly one owner; other users reach it only
// through rows in event_shares. The access levels returned by GetAuthorized
// drive every per-action policy decision in the handlers.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/aravinds05/NeoFi-backend-challenge/internal/model"
)

// Access levels returned by GetAuthorized. AccessOwner means the requester
// owns the event; otherwise the level is the grant's permission value
// (model.PermissionViewer or model.PermissionEditor).
const AccessOwner = "Owner"

const eventColumns = "id, title, description, start_time, end_time, recurrence, owner_id, created_at, updated_at"

// EventRepo encapsulates all database queries related to events.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

func scanEvent(row interface{ Scan(...any) error }, e *model.Event) error {
	return row.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime,
		&e.Recurrence, &e.OwnerID, &e.CreatedAt, &e.UpdatedAt)
}

// Create inserts a new event. On success the event's ID field is populated
// with the auto-generated value and a follow-up SELECT fills the default
// timestamp fields so callers receive a fully populated record.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO events (title, description, start_time, end_time, recurrence, owner_id) VALUES (?,?,?,?,?,?)",
		e.Title, e.Description, e.StartTime, e.EndTime, e.Recurrence, e.OwnerID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	row := r.DB.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", e.ID)
	return scanEvent(row, e)
}

// GetByID fetches an event by its ID regardless of requester. It returns
// ErrEventNotFound if no row is found.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	var e model.Event
	row := r.DB.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	if err := scanEvent(row, &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

// GetAuthorized resolves whether userID may access the event at all and with
// what level. The sequence follows the core access check: missing event is
// ErrEventNotFound; the owner passes immediately with AccessOwner; otherwise
// a grant row must exist and its permission becomes the level. No grant means
// ErrForbidden.
func (r *EventRepo) GetAuthorized(ctx context.Context, id, userID uint64) (*model.Event, string, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if e.OwnerID == userID {
		return e, AccessOwner, nil
	}
	var perm string
	err = r.DB.QueryRowContext(ctx,
		"SELECT permission FROM event_shares WHERE event_id=? AND user_id=? LIMIT 1",
		id, userID).Scan(&perm)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrForbidden
	}
	if err != nil {
		return nil, "", err
	}
	return e, perm, nil
}

// ListForUser returns all events the user can read: the ones they own plus
// the ones shared with them. UNION keeps the result free of duplicates.
func (r *EventRepo) ListForUser(ctx context.Context, userID uint64) ([]*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE owner_id = ?
	           UNION
	           SELECT e.id, e.title, e.description, e.start_time, e.end_time, e.recurrence, e.owner_id, e.created_at, e.updated_at
	           FROM events e JOIN event_shares s ON s.event_id = e.id WHERE s.user_id = ?
	           ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, q, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Event
	for rows.Next() {
		e := new(model.Event)
		if err := scanEvent(rows, e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyPatch updates only the fields present in the patch, leaving omitted
// fields at their prior values. An empty patch is a no-op. The updated row is
// returned so callers see the merged result.
func (r *EventRepo) ApplyPatch(ctx context.Context, id uint64, p model.EventPatch) (*model.Event, error) {
	if !p.Empty() {
		sets := make([]string, 0, 5)
		args := make([]any, 0, 6)
		if p.Title != nil {
			sets = append(sets, "title = ?")
			args = append(args, *p.Title)
		}
		if p.Description != nil {
			sets = append(sets, "description = ?")
			args = append(args, *p.Description)
		}
		if p.StartTime != nil {
			sets = append(sets, "start_time = ?")
			args = append(args, *p.StartTime)
		}
		if p.EndTime != nil {
			sets = append(sets, "end_time = ?")
			args = append(args, *p.EndTime)
		}
		if p.Recurrence != nil {
			sets = append(sets, "recurrence = ?")
			args = append(args, *p.Recurrence)
		}
		args = append(args, id)
		q := "UPDATE events SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := r.DB.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// DeleteByIDAndOwner removes an event and its share grants, provided it
// belongs to the specified owner. If the event does not exist,
// ErrEventNotFound is returned; if it exists but is owned by a different
// user, ErrForbidden. The deletion occurs within a transaction so the grants
// never outlive the event.
func (r *EventRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	var dbOwnerID uint64
	if err = tx.QueryRowContext(ctx, "SELECT owner_id FROM events WHERE id = ?", id).Scan(&dbOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrEventNotFound
		}
		return err
	}
	if dbOwnerID != ownerID {
		err = ErrForbidden
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM event_shares WHERE event_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id); err != nil {
		return err
	}
	return nil
}
