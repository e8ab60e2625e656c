// Package apperr defines the error kinds every operation reports to its caller.
// Transport layers map them to status codes with errors.As.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation builds a ValidationError for field.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports that a referenced record does not exist.
type NotFoundError struct {
	Resource string
	ID       string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// NotFound builds a NotFoundError for resource/id.
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// StockInsufficientError reports a dispatch line asking for more than is on hand.
type StockInsufficientError struct {
	ItemName  string
	Available int
	Requested int
}

func (e *StockInsufficientError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d", e.ItemName, e.Available)
}

// UnauthorizedError reports a missing or invalid credential. Forbidden marks an
// authenticated caller that is not allowed to perform the operation.
type UnauthorizedError struct {
	Message   string
	Forbidden bool
}

func (e *UnauthorizedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Forbidden {
		return "forbidden"
	}
	return "unauthorized"
}

// Unauthorized builds a 401-class error.
func Unauthorized(message string) error {
	return &UnauthorizedError{Message: message}
}

// Forbidden builds a 403-class error.
func Forbidden(message string) error {
	return &UnauthorizedError{Message: message, Forbidden: true}
}

// ConflictError reports a uniqueness violation such as a duplicate registration.
// It is surfaced as a client error.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// Conflict builds a ConflictError.
func Conflict(message string) error {
	return &ConflictError{Message: message}
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}
