package errors

import "errors"

// Common errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

// Auth errors
var (
	ErrInvalidState    = errors.New("invalid oauth state")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenInvalid    = errors.New("token invalid")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrUserNotActive   = errors.New("user is not active")
)

// Project errors
var (
	ErrProjectAccessDenied = errors.New("access to project denied")
	ErrNotProjectOwner     = errors.New("user does not own the project")
	ErrAdminOnly           = errors.New("only admins can share projects")
	ErrInvalidSource       = errors.New("invalid project source")
	ErrInvalidVisibility   = errors.New("invalid project visibility")
	ErrStorageDisabled     = errors.New("object storage is not configured")
	ErrNoSourceObject      = errors.New("project has no stored markdown source")
	ErrShareWithSelf       = errors.New("cannot share a project with its owner")
)
