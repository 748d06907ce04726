package engine

import (
	"errors"
	"fmt"
)

// Recoverable rejection reasons returned to the caller. A failed operation
// never mutates in-memory or persisted state.
var (
	// ErrDenied means the submitted secret grants no tier.
	ErrDenied = errors.New("invalid credentials")

	// ErrUsernameTaken means the username is held by an online identity.
	ErrUsernameTaken = errors.New("username is currently in use")

	// ErrAccessDenied means the session's tier cannot reach the target
	// conversation or action.
	ErrAccessDenied = errors.New("access denied")

	// ErrWrongPassword means a private room rejected the supplied password.
	ErrWrongPassword = errors.New("wrong room password")

	// ErrNotAuthor means someone other than the author tried to edit.
	ErrNotAuthor = errors.New("only the author can edit a message")

	// ErrNotAuthorized means the requester lacks rights for the action.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrAdminSetupRequired is the one-shot bootstrap edge: the reserved
	// admin username logged in before any admin config existed.
	ErrAdminSetupRequired = errors.New("admin setup required")

	// ErrNoSession means the operation needs an authenticated session.
	ErrNoSession = errors.New("no active session")

	// ErrValidation covers malformed input: blank content, short usernames
	// or passwords, retention hours out of bounds.
	ErrValidation = errors.New("validation failed")
)

func validationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}
