// Package apperr holds the error kinds that handlers translate into user-facing responses.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or out-of-range input. Nothing has been written when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports a referenced player or record that does not exist.
type NotFoundError struct {
	Entity string
	Key    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.Key)
}

// AuthorizationError reports an actor lacking the role required for an action.
type AuthorizationError struct {
	Action string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Action)
}

func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity string, key any) error {
	return &NotFoundError{Entity: entity, Key: key}
}

func Denied(action string) error {
	return &AuthorizationError{Action: action}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

func IsDenied(err error) bool {
	var a *AuthorizationError
	return errors.As(err, &a)
}
