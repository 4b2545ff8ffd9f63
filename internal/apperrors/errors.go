package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrBusinessRule indicates that a well-formed request was rejected by a ledger rule
// (daily limit, approval, insufficient funds, closed account...).
var ErrBusinessRule = errors.New("business rule violation")

// AppError carries an HTTP-ish status code alongside the underlying cause.
// Repositories use it to wrap driver errors without losing them.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
