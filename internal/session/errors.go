package session

import "errors"

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrMissingFields      = errors.New("username, password, email and full name are required")
	ErrNotLoggedIn        = errors.New("not logged in")
)

// Error carries the message shown to the user next to the underlying cause.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
