// Package access implements the permission gate that runs before every
// record action.
package access

import (
	"fmt"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

// DeniedError reports why the gate refused an action. It unwraps to
// domain.ErrUnauthorized when no actor was present and to
// domain.ErrForbidden otherwise.
type DeniedError struct {
	Level  domain.Permission
	Reason string
	// Misconfigured is set when the gate could not evaluate the level at all,
	// e.g. an owner check on a type without an author field.
	Misconfigured bool

	sentinel error
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("permission %s denied: %s", e.Level, e.Reason)
}

func (e *DeniedError) Unwrap() error { return e.sentinel }

// Authorize decides whether actor may run an action that requires level.
// target is the record the action operates on; it may be nil for levels
// that do not inspect the record. A nil actor is anonymous.
func Authorize(level domain.Permission, actor *domain.Actor, target domain.Owned) error {
	switch level {
	case domain.PermissionPublic:
		return nil

	case domain.PermissionLoggedIn:
		if actor == nil {
			return unauthenticated(level)
		}
		return nil

	case domain.PermissionOwner:
		if actor == nil {
			return unauthenticated(level)
		}
		if actor.IsAdmin() {
			return nil
		}
		if target == nil {
			return misconfigured(level, "no target record to check ownership against")
		}
		author, ok := target.Owner()
		if !ok {
			return misconfigured(level, "record has no author field")
		}
		if author == 0 || author != actor.UserID {
			return forbidden(level, "not the author")
		}
		return nil

	case domain.PermissionAdmin:
		if actor == nil {
			return unauthenticated(level)
		}
		if !actor.IsAdmin() {
			return forbidden(level, "admin role required")
		}
		return nil
	}

	return misconfigured(level, "unknown permission level")
}

func unauthenticated(level domain.Permission) error {
	return &DeniedError{Level: level, Reason: "authentication required", sentinel: domain.ErrUnauthorized}
}

func forbidden(level domain.Permission, reason string) error {
	return &DeniedError{Level: level, Reason: reason, sentinel: domain.ErrForbidden}
}

func misconfigured(level domain.Permission, reason string) error {
	return &DeniedError{Level: level, Reason: reason, Misconfigured: true, sentinel: domain.ErrForbidden}
}
