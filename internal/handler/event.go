package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aravinds05/NeoFi-backend-challenge/internal/model"
	"github.com/aravinds05/NeoFi-backend-challenge/internal/queue"
	"github.com/aravinds05/NeoFi-backend-challenge/internal/repository"
	activity_publisher "github.com/aravinds05/NeoFi-backend-challenge/internal/service"
)

// EventHandler bundles repositories for the event CRUD and sharing endpoints.
type EventHandler struct {
	Users  *repository.UserRepo
	Events *repository.EventRepo
	Shares *repository.ShareRepo
}

// NewEventHandler constructs a new EventHandler and panics if any dependency is nil.
func NewEventHandler(users *repository.UserRepo, events *repository.EventRepo, shares *repository.ShareRepo) *EventHandler {
	if users == nil || events == nil || shares == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{Users: users, Events: events, Shares: shares}
}

// ----- DTOs -----

type createEventReq struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Recurrence  string     `json:"recurrence"`
}

// updateEventReq mirrors createEventReq but every field is optional: nil
// means "leave the stored value alone" (merge-patch).
type updateEventReq struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Recurrence  *string    `json:"recurrence"`
}

type eventResp struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Recurrence  string    `json:"recurrence"`
	OwnerID     uint64    `json:"owner_id"`
}

func eventOut(e *model.Event) eventResp {
	return eventResp{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Recurrence:  e.Recurrence,
		OwnerID:     e.OwnerID,
	}
}

// publishActivity sends an activity message without blocking the request.
// Failures are logged by the publisher and otherwise ignored.
func publishActivity(action string, e *model.Event, actor model.User, targetID uint64, permission string) {
	msg := queue.EventActivity{
		Action:     action,
		EventID:    e.ID,
		EventTitle: e.Title,
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		TargetID:   targetID,
		Permission: permission,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()
		_ = activity_publisher.PublishEventActivity(ctx, msg)
	}()
}

// CreateEvent handles POST /api/events. Any authenticated user may create an
// event; the creator becomes its owner.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	user, err := currentUser(ctx, c, h.Users)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if req.StartTime == nil || req.EndTime == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time/end_time required"})
	}
	if !req.EndTime.After(*req.StartTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
	}
	recurrence := req.Recurrence
	if recurrence == "" {
		recurrence = model.RecurrenceNone
	}
	if !model.ValidRecurrence(recurrence) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid recurrence"})
	}

	event := &model.Event{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		Recurrence:  recurrence,
		OwnerID:     user.ID,
	}
	if err := h.Events.Create(ctx, event); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create event"})
	}

	publishActivity(queue.ActionCreated, event, user, 0, "")
	return c.JSON(http.StatusCreated, eventOut(event))
}

// ListEvents handles GET /api/events and returns the union of events the
// user owns and events shared with them.
func (h *EventHandler) ListEvents(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	user, err := currentUser(ctx, c, h.Users)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	events, err := h.Events.ListForUser(ctx, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]eventResp, 0, len(events))
	for _, e := range events {
		items = append(items, eventOut(e))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetEvent handles GET /api/events/:id. The owner and any grantee may read;
// grant level does not matter for reads.
func (h *EventHandler) GetEvent(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	user, err := currentUser(ctx, c, h.Users)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	event, _, err := h.Events.GetAuthorized(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, eventOut(event))
}

// UpdateEvent handles PUT /api/events/:id. The owner and Editor grantees may
// update; Viewer grantees are denied. Only fields present in the body are
// applied.
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	user, err := currentUser(ctx, c, h.Users)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req updateEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title cannot be empty"})
		}
		req.Title = &t
	}
	if req.Recurrence != nil && !model.ValidRecurrence(*req.Recurrence) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid recurrence"})
	}

	event, level, err := h.Events.GetAuthorized(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if level != repository.AccessOwner && level != model.PermissionEditor {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
	}
	if req.StartTime != nil || req.EndTime != nil {
		start, end := event.StartTime, event.EndTime
		if req.StartTime != nil {
			start = req.StartTime.UTC()
		}
		if req.EndTime != nil {
			end = req.EndTime.UTC()
		}
		if !end.After(start) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
		}
	}

	patch := model.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Recurrence:  req.Recurrence,
	}
	updated, err := h.Events.ApplyPatch(ctx, id, patch)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	publishActivity(queue.ActionUpdated, updated, user, 0, "")
	return c.JSON(http.StatusOK, eventOut(updated))
}

// DeleteEvent handles DELETE /api/events/:id. Only the owner may delete; a
// grant of any level is irrelevant here. Share grants are removed together
// with the event.
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	user, err := currentUser(ctx, c, h.Users)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	// Fetch first so the activity message can carry the title.
	event, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if err := h.Events.DeleteByIDAndOwner(ctx, id, user.ID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only the owner can delete this event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	publishActivity(queue.ActionDeleted, event, user, 0, "")
	return c.JSON(http.StatusOK, echo.Map{"message": "event deleted successfully"})
}
