package handler // handler defines http handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aravinds05/NeoFi-backend-challenge/internal/model"
	"github.com/aravinds05/NeoFi-backend-challenge/internal/repository"
)

// dbTimeout bounds every database interaction performed on behalf of one
// request.
const dbTimeout = 5 * time.Second

// errNoIdentity is returned by currentUser when the context carries no usable
// subject, which means the JWT middleware did not run or was bypassed.
var errNoIdentity = errors.New("no authenticated identity in context")

// reqContext derives a bounded context from the incoming request.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// currentUser resolves the authenticated user record from the subject email
// the JWT middleware stored in the context. A token whose subject no longer
// matches a user row is treated the same as no token at all.
func currentUser(ctx context.Context, c echo.Context, users *repository.UserRepo) (model.User, error) {
	email, ok := c.Get("user_email").(string)
	if !ok || email == "" {
		return model.User{}, errNoIdentity
	}
	u, err := users.GetByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// pathID parses the named numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
