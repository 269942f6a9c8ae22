package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aravinds05/NeoFi-backend-challenge/internal/model"
)

const shareColumns = "id, event_id, user_id, permission, created_at, updated_at"

// ShareRepo encapsulates all database queries related to event share grants.
type ShareRepo struct{ DB *sql.DB }

func NewShareRepo(db *sql.DB) *ShareRepo { return &ShareRepo{DB: db} }

func scanShare(row interface{ Scan(...any) error }, s *model.EventShare) error {
	return row.Scan(&s.ID, &s.EventID, &s.UserID, &s.Permission, &s.CreatedAt, &s.UpdatedAt)
}

// Upsert creates a grant for (eventID, userID) or overwrites the permission
// of the existing one. The UNIQUE KEY on (event_id, user_id) plus
// ON DUPLICATE KEY UPDATE make this a single atomic statement, so two
// concurrent shares for the same pair cannot produce duplicate rows. The
// resulting row is read back and returned.
func (r *ShareRepo) Upsert(ctx context.Context, eventID, userID uint64, permission string) (*model.EventShare, error) {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO event_shares (event_id, user_id, permission) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE permission = VALUES(permission)`,
		eventID, userID, permission)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, eventID, userID)
}

// Get fetches the grant for (eventID, userID). ErrShareNotFound is returned
// when no grant exists.
func (r *ShareRepo) Get(ctx context.Context, eventID, userID uint64) (*model.EventShare, error) {
	var s model.EventShare
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+shareColumns+" FROM event_shares WHERE event_id=? AND user_id=? LIMIT 1",
		eventID, userID)
	if err := scanShare(row, &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShareNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByEvent returns all grants for an event ordered by grantee id.
func (r *ShareRepo) ListByEvent(ctx context.Context, eventID uint64) ([]*model.EventShare, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+shareColumns+" FROM event_shares WHERE event_id=? ORDER BY user_id", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.EventShare
	for rows.Next() {
		s := new(model.EventShare)
		if err := scanShare(rows, s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePermission changes the permission of an existing grant. Unlike
// Upsert it never creates a row: a missing grant is ErrShareNotFound. The
// existence check runs first because MySQL reports zero affected rows both
// for missing rows and for updates that leave the value unchanged.
func (r *ShareRepo) UpdatePermission(ctx context.Context, eventID, userID uint64, permission string) (*model.EventShare, error) {
	if _, err := r.Get(ctx, eventID, userID); err != nil {
		return nil, err
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE event_shares SET permission=? WHERE event_id=? AND user_id=?",
		permission, eventID, userID); err != nil {
		return nil, err
	}
	return r.Get(ctx, eventID, userID)
}

// Delete revokes the grant for (eventID, userID). Revoking a grant that does
// not exist returns ErrShareNotFound.
func (r *ShareRepo) Delete(ctx context.Context, eventID, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM event_shares WHERE event_id=? AND user_id=?", eventID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShareNotFound
	}
	return nil
}
