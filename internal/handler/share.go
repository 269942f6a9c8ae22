package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aravinds05/NeoFi-backend-challenge/internal/model"
	"github.com/aravinds05/NeoFi-backend-challenge/internal/queue"
	"github.com/aravinds05/NeoFi-backend-challenge/internal/repository"
)

// ----- DTOs -----

type shareReq struct {
	UserID     uint64 `json:"user_id"`
	Permission string `json:"permission"` // Viewer | Editor
}

type shareResp struct {
	ID         uint64 `json:"id"`
	EventID    uint64 `json:"event_id"`
	UserID     uint64 `json:"user_id"`
	Permission string `json:"permission"`
}

type permissionResp struct {
	UserID     uint64 `json:"user_id"`
	Permission string `json:"permission"`
}

func shareOut(s *model.EventShare) shareResp {
	return shareResp{ID: s.ID, EventID: s.EventID, UserID: s.UserID, Permission: s.Permission}
}

// ownedEvent loads the event and verifies the requester owns it. Sharing
// management is owner-only across the board, so every handler in this file
// funnels through here.
func (h *EventHandler) ownedEvent(ctx context.Context, c echo.Context, user model.User) (*model.Event, bool) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		return nil, false
	}
	event, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		return nil, false
	}
	if event.OwnerID != user.ID {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "only the owner can manage sharing"})
		return nil, false
	}
	return event, true
}

// ShareEvent handles POST /api/events/:id/share. Sharing to a pair that
// already has a grant overwrites the permission; it never creates a second
// row. Owners cannot grant themselves anything.
func (h *EventHandler) ShareEvent(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	user, err := currentUser(ctx, c, h.Users)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	event, ok := h.ownedEvent(ctx, c, user)
	if !ok {
		return nil
	}

	var req shareReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}
	if !model.ValidPermission(req.Permission) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid permission"})
	}
	if req.UserID == user.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot change own permissions"})
	}
	if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	share, err := h.Shares.Upsert(ctx, event.ID, req.UserID, req.Permission)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "share failed"})
	}

	publishActivity(queue.ActionShared, event, user, req.UserID, req.Permission)
	return c.JSON(http.StatusOK, shareOut(share))
}

// ListPermissions handles GET /api/events/:id/permissions (owner only).
func (h *EventHandler) ListPermissions(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	user, err := currentUser(ctx, c, h.Users)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	event, ok := h.ownedEvent(ctx, c, user)
	if !ok {
		return nil
	}

	shares, err := h.Shares.ListByEvent(ctx, event.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]permissionResp, 0, len(shares))
	for _, s := range shares {
		items = append(items, permissionResp{UserID: s.UserID, Permission: s.Permission})
	}
	return c.JSON(http.StatusOK, items)
}

// UpdatePermission handles PUT /api/events/:id/permissions/:user_id. Unlike
// ShareEvent it refuses to create a grant: the target user must already be
// on the share list.
func (h *EventHandler) UpdatePermission(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	user, err := currentUser(ctx, c, h.Users)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	targetID, err := pathID(c, "user_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
	}
	if targetID == user.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot change own permissions"})
	}
	event, ok := h.ownedEvent(ctx, c, user)
	if !ok {
		return nil
	}

	var req shareReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidPermission(req.Permission) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid permission"})
	}

	share, err := h.Shares.UpdatePermission(ctx, event.ID, targetID, req.Permission)
	if err != nil {
		if errors.Is(err, repository.ErrShareNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found in share list"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	publishActivity(queue.ActionPermSet, event, user, targetID, req.Permission)
	return c.JSON(http.StatusOK, shareOut(share))
}

// RevokeAccess handles DELETE /api/events/:id/permissions/:user_id. Revoking
// removes the grantee's read access immediately; revoking a grant that does
// not exist is a 404.
func (h *EventHandler) RevokeAccess(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	user, err := currentUser(ctx, c, h.Users)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	targetID, err := pathID(c, "user_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
	}
	event, ok := h.ownedEvent(ctx, c, user)
	if !ok {
		return nil
	}

	if err := h.Shares.Delete(ctx, event.ID, targetID); err != nil {
		if errors.Is(err, repository.ErrShareNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "permission not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}

	publishActivity(queue.ActionRevoked, event, user, targetID, "")
	return c.JSON(http.StatusOK, echo.Map{"message": "access removed successfully"})
}
