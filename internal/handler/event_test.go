package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aravinds05/NeoFi-backend-challenge/internal/repository"
)

func newEventEnv(t *testing.T) (*EventHandler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	users := repository.NewUserRepo(db)
	h := NewEventHandler(users, repository.NewEventRepo(db), repository.NewShareRepo(db))
	return h, mock, db
}

// eventCtx builds an echo context for a request authenticated as email, with
// optional :id / :user_id path parameters.
func eventCtx(t *testing.T, method, body, email string, params map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req, rec := jsonRequest(method, "/api/events", body)
	c := e.NewContext(req, rec)
	c.Set("user_email", email)
	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for k, v := range params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

var eventRowCols = []string{"id", "title", "description", "start_time", "end_time", "recurrence", "owner_id", "created_at", "updated_at"}

func eventRows(id, ownerID uint64, title string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(eventRowCols).
		AddRow(id, title, nil, now, now.Add(time.Hour), "None", ownerID, now, now)
}

func shareRows(id, eventID, userID uint64, permission string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "event_id", "user_id", "permission", "created_at", "updated_at"}).
		AddRow(id, eventID, userID, permission, now, now)
}

func expectUser(mock sqlmock.Sqlmock, id uint64, username, email string) {
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByEmail)).
		WithArgs(email).
		WillReturnRows(userRows(id, username, email, "hash", "Viewer"))
}

const selectEvent = "FROM events WHERE id = ?"
const selectSharePermission = "SELECT permission FROM event_shares WHERE event_id=? AND user_id=?"

func TestCreateEvent_Success(t *testing.T) {
	h, mock, db := newEventEnv(t)
	defer db.Close()

	expectUser(mock, 1, "alice", "a@x.com")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO events")).
		WithArgs("standup", nil, sqlmock.AnyArg(), sqlmock.AnyArg(), "None", 1).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectEvent)).
		WithArgs(5).
		WillReturnRows(eventRows(5, 1, "standup"))

	c, rec := eventCtx(t, http.MethodPost,
		`{"title":"standup","start_time":"2025-06-01T09:00:00Z","end_time":"2025-06-01T09:30:00Z"}`,
		"a@x.com", nil)
	require.NoError(t, h.CreateEvent(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"owner_id":1`)
}

func TestCreateEvent_EndBeforeStart(t *testing.T) {
	h, mock, db := newEventEnv(t)
	defer db.Close()

	expectUser(mock, 1, "alice", "a@x.com")

	c, rec := eventCtx(t, http.MethodPost,
		`{"title":"standup","start_time":"2025-06-01T10:00:00Z","end_time":"2025-06-01T09:00:00Z"}`,
		"a@x.com", nil)
	require.NoError(t, h.CreateEvent(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEvent_NotFound(t *testing.T) {
	h, mock, db := newEventEnv(t)
	defer db.Close()

	expectUser(mock, 1, "alice", "a@x.com")
	mock.ExpectQuery(regexp.QuoteMeta(selectEvent)).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	c, rec := eventCtx(t, http.MethodGet, "", "a@x.com", map[string]string{"id": "42"})
	require.NoError(t, h.GetEvent(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetEvent_NoGrant(t *testing.T) {
	h, mock, db := newEventEnv(t)
	defer db.Close()

	expectUser(mock, 3, "carol", "c@x.com")
	mock.ExpectQuery(regexp.QuoteMeta(selectEvent)).
		WithArgs(5).
		WillReturnRows(eventRows(5, 1, "standup"))
	mock.ExpectQuery(regexp.QuoteMeta(selectSharePermission)).
		WithArgs(5, 3).
		WillReturnError(sql.ErrNoRows)

	c, rec := eventCtx(t, http.MethodGet, "", "c@x.com", map[string]string{"id": "5"})
	require.NoError(t, h.GetEvent(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// TestSharedEventPermissionFlow walks the whole grantee lifecycle: a Viewer
// grantee can read but not update, an upgrade to Editor unlocks updates.
func TestSharedEventPermissionFlow(t *testing.T) {
	h, mock, db := newEventEnv(t)
	defer db.Close()

	// Viewer B reads the shared event: allowed.
	expectUser(mock, 2, "bob", "b@x.com")
	mock.ExpectQuery(regexp.QuoteMeta(selectEvent)).
		WithArgs(5).
		WillReturnRows(eventRows(5, 1, "standup"))
	mock.ExpectQuery(regexp.QuoteMeta(selectSharePermission)).
		WithArgs(5, 2).
		WillReturnRows(sqlmock.NewRows([]string{"permission"}).AddRow("Viewer"))

	c, rec := eventCtx(t, http.MethodGet, "", "b@x.com", map[string]string{"id": "5"})
	require.NoError(t, h.GetEvent(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Viewer B attempts an update: denied.
	expectUser(mock, 2, "bob", "b@x.com")
	mock.ExpectQuery(regexp.QuoteMeta(selectEvent)).
		WithArgs(5).
		WillReturnRows(eventRows(5, 1, "standup"))
	mock.ExpectQuery(regexp.QuoteMeta(selectSharePermission)).
		WithArgs(5, 2).
		WillReturnRows(sqlmock.NewRows([]string{"permission"}).AddRow("Viewer"))

	c, rec = eventCtx(t, http.MethodPut, `{"title":"hijacked"}`, "b@x.com", map[string]string{"id": "5"})
	require.NoError(t, h.UpdateEvent(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient permissions")

	// Owner A upgrades B's grant to Editor.
	expectUser(mock, 1, "alice", "a@x.com")
	mock.ExpectQuery(regexp.QuoteMeta(selectEvent)).
		WithArgs(5).
		WillReturnRows(eventRows(5, 1, "standup"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM event_shares WHERE event_id=? AND user_id=?")).
		WithArgs(5, 2).
		WillReturnRows(shareRows(9, 5, 2, "Viewer"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE event_shares SET permission=?")).
		WithArgs("Editor", 5, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM event_shares WHERE event_id=? AND user_id=?")).
		WithArgs(5, 2).
		WillReturnRows(shareRows(9, 5, 2, "Editor"))

	c, rec = eventCtx(t, http.MethodPut, `{"permission":"Editor"}`, "a@x.com",
		map[string]string{"id": "5", "user_id": "2"})
	require.NoError(t, h.UpdatePermission(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"permission":"Editor"`)

	// Editor B retries the update: allowed, merge-patch touches title only.
	expectUser(mock, 2, "bob", "b@x.com")
	mock.ExpectQuery(regexp.QuoteMeta(selectEvent)).
		WithArgs(5).
		WillReturnRows(eventRows(5, 1, "standup"))
	mock.ExpectQuery(regexp.QuoteMeta(selectSharePermission)).
		WithArgs(5, 2).
		WillReturnRows(sqlmock.NewRows([]string{"permission"}).AddRow("Editor"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET title = ? WHERE id = ?")).
		WithArgs("new agenda", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectEvent)).
		WithArgs(5).
		WillReturnRows(eventRows(5, 1, "new agenda"))

	c, rec = eventCtx(t, http.MethodPut, `{"title":"new agenda"}`, "b@x.com", map[string]string{"id": "5"})
	require.NoError(t, h.UpdateEvent(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "new agenda")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEvent_GranteeForbidden(t *testing.T) {
	h, mock, db := newEventEnv(t)
	defer db.Close()

	expectUser(mock, 2, "bob", "b@x.com")
	mock.ExpectQuery(regexp.QuoteMeta(selectEvent)).
		WithArgs(5).
		WillReturnRows(eventRows(5, 1, "standup"))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM events WHERE id = ?")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(1))
	mock.ExpectRollback()

	// Even an Editor grantee may not delete; ownership is checked in the
	// repository, so no share lookup happens at all.
	c, rec := eventCtx(t, http.MethodDelete, "", "b@x.com", map[string]string{"id": "5"})
	require.NoError(t, h.DeleteEvent(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "only the owner can delete this event")
}

func TestDeleteEvent_OwnerSuccess(t *testing.T) {
	h, mock, db := newEventEnv(t)
	defer db.Close()

	expectUser(mock, 1, "alice", "a@x.com")
	mock.ExpectQuery(regexp.QuoteMeta(selectEvent)).
		WithArgs(5).
		WillReturnRows(eventRows(5, 1, "standup"))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM events WHERE id = ?")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM event_shares WHERE event_id = ?")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM events WHERE id = ?")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := eventCtx(t, http.MethodDelete, "", "a@x.com", map[string]string{"id": "5"})
	require.NoError(t, h.DeleteEvent(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "event deleted successfully")
}

func TestListEvents_OwnedAndShared(t *testing.T) {
	h, mock, db := newEventEnv(t)
	defer db.Close()

	expectUser(mock, 1, "alice", "a@x.com")
	now := time.Now().UTC()
	rows := sqlmock.NewRows(eventRowCols).
		AddRow(1, "mine", nil, now, now.Add(time.Hour), "None", 1, now, now).
		AddRow(2, "theirs", nil, now, now.Add(time.Hour), "Daily", 7, now, now)
	mock.ExpectQuery("UNION").
		WithArgs(1, 1).
		WillReturnRows(rows)

	c, rec := eventCtx(t, http.MethodGet, "", "a@x.com", nil)
	require.NoError(t, h.ListEvents(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mine")
	assert.Contains(t, rec.Body.String(), "theirs")
}
