/* errors.go
 * Contains the error kinds returned by the api package. Callers classify errors with errors.Is against the kinds
 * Authors: knockout-pool contributors
 */

package api

import (
	"errors"
	"fmt"
)

// Error kinds. Anything not wrapping one of these is an infrastructure failure
var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("authentication error")
	ErrForbidden       = errors.New("authorization error")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Error is a use-case failure with a message safe to show to the caller
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
