package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error a service returns on purpose wraps one of these;
// anything else is an internal failure.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")

	ErrImagesDisabled = errors.New("image uploads are not configured")
)

// Error is a classified service error. Meta carries machine-readable extras
// such as already_liked.
type Error struct {
	Kind    error
	Message string
	Meta    map[string]interface{}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

func notFoundError(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

func conflictError(format string, args ...interface{}) error {
	return newError(ErrConflict, format, args...)
}

func forbiddenError(format string, args ...interface{}) error {
	return newError(ErrForbidden, format, args...)
}

func unauthorizedError(format string, args ...interface{}) error {
	return newError(ErrUnauthorized, format, args...)
}

// duplicateError is a conflict flagged with the given meta key.
func duplicateError(flag, message string) error {
	e := newError(ErrConflict, "%s", message)
	e.Meta = map[string]interface{}{flag: true}
	return e
}

// ErrorMeta returns the extras attached to err, if any.
func ErrorMeta(err error) map[string]interface{} {
	var se *Error
	if errors.As(err, &se) {
		return se.Meta
	}
	return nil
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID  int
	Email   string
	IsAdmin bool
}

// CanAccess reports whether the actor may act on a record owned by ownerID.
func (a Actor) CanAccess(ownerID int) bool {
	return a.IsAdmin || a.UserID == ownerID
}
