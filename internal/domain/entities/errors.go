package entities

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidRole       = errors.New("invalid role")

	// OAuth errors
	ErrOAuthStateMismatch = errors.New("oauth state mismatch")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidToken    = errors.New("invalid token")

	// Script errors
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrParse      = errors.New("parse failed")

	// Generic errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ValidationError reports a malformed document or entity.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundKind names what could not be resolved.
type NotFoundKind string

const (
	NotFoundProject   NotFoundKind = "project"
	NotFoundScene     NotFoundKind = "scene"
	NotFoundCharacter NotFoundKind = "character"
	NotFoundShare     NotFoundKind = "share"
	NotFoundLine      NotFoundKind = "line"
)

// NotFoundError reports a project, scene or character absent from the resolved source.
type NotFoundError struct {
	Kind NotFoundKind
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ParseError reports that the markdown tokenizer rejected the input outright.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "parse failed"
	}
	return fmt.Sprintf("parse failed: %v", e.Err)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// IsNotFoundKind reports whether err is a NotFoundError of the given kind.
func IsNotFoundKind(err error, kind NotFoundKind) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Kind == kind
}
