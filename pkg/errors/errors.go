package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNoConnection       = errors.New("no internet connection")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSyncInProgress     = errors.New("a sync is already in progress")
	ErrNotLoggedIn        = errors.New("no active session")
	ErrRemoteUnavailable  = errors.New("remote store unavailable")
)

type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}

// StoreError wraps a persistence failure. Local write failures are fatal and
// always surfaced through this type; reads degrade to ErrNotFound instead.
type StoreError struct {
	Op  string
	Err error
}

func (e StoreError) Error() string {
	return fmt.Sprintf("store operation '%s' failed: %s", e.Op, e.Err.Error())
}

func (e StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op string, err error) error {
	return StoreError{Op: op, Err: err}
}

type RetryableError struct {
	Err     error
	Message string
}

func (e RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %s - %s", e.Message, e.Err.Error())
}

func (e RetryableError) Unwrap() error {
	return e.Err
}

func NewRetryableError(err error, message string) error {
	return RetryableError{
		Err:     err,
		Message: message,
	}
}

func IsRetryable(err error) bool {
	var re RetryableError
	return errors.As(err, &re)
}
