package services

import (
	"errors"
	"fmt"
)

// Guard failures get an explicit error channel rather than a silent refusal.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("operation not allowed for this user")
	ErrComplaintClosed    = errors.New("complaint is closed")
	ErrDuplicateUser      = errors.New("a user with this national id already exists")
	ErrInvalidCredentials = errors.New("invalid national id or password")
)

// ValidationError is a user-facing input failure; the operation aborts
// before any mutation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// BatchError is a row-indexed import failure; the whole batch was rejected.
type BatchError struct {
	Row int
	Err error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a failed store write. The in-memory mutation has
// already happened; callers surface this so the client can retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
