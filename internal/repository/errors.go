// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers to
// distinguish between different failure scenarios. For example, ErrForbidden
// indicates that the current user is not authorized to perform an operation
// on an event owned by someone else, while ErrEventNotFound signals that the
// referenced event does not exist at all.
package repository

import "errors"

// ErrForbidden is returned when the caller is authenticated but lacks the
// required access: not the owner, not a sufficiently-permissioned grantee, or
// attempting to change their own grant. Handlers translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when registering with an email that is already
// taken.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when registering with a username that is
// already taken.
var ErrUsernameExists = errors.New("username already exists")

// ErrUserNotFound is returned when a user lookup misses.
var ErrUserNotFound = errors.New("user not found")

// ErrEventNotFound is returned when an event lookup misses.
var ErrEventNotFound = errors.New("event not found")

// ErrShareNotFound is returned when no grant exists for the requested
// (event, user) pair.
var ErrShareNotFound = errors.New("share not found")
